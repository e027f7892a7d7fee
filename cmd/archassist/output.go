// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/AleutianAI/ArchAssist/pkg/ux"
	"github.com/AleutianAI/ArchAssist/services/assistant"
	"github.com/AleutianAI/ArchAssist/services/assistant/bundle"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
	"github.com/AleutianAI/ArchAssist/services/assistant/intent"
	"github.com/AleutianAI/ArchAssist/services/assistant/prompt"
)

// Exit codes.
const (
	CLIExitSuccess  = 0 // Operation completed successfully
	CLIExitFindings = 1 // Risk exceeded the --fail-on threshold
	CLIExitError    = 2 // Operation failed
)

// CommandResult wraps --json output.
type CommandResult struct {
	APIVersion string    `json:"api_version"`
	Command    string    `json:"command,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	DurationMs int64     `json:"duration_ms"`
	Success    bool      `json:"success"`
	Data       any       `json:"data,omitempty"`
	Error      string    `json:"error,omitempty"`
}

func newCommandResult(cmd string, start time.Time, data any) CommandResult {
	return CommandResult{
		APIVersion: "1.0",
		Command:    cmd,
		Timestamp:  time.Now(),
		DurationMs: time.Since(start).Milliseconds(),
		Success:    true,
		Data:       data,
	}
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError reports err as a failed CommandResult on stdout in JSON mode,
// otherwise as a line on stderr.
func outputError(stdout, stderr io.Writer, jsonMode bool, err error) {
	if jsonMode {
		_ = outputJSON(stdout, CommandResult{
			APIVersion: "1.0",
			Timestamp:  time.Now(),
			Success:    false,
			Error:      err.Error(),
		})
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}

func printQuery(p *ux.Printer, resp *assistant.QueryResponse) {
	p.Title(fmt.Sprintf("%s (%s)", orDash(resp.Repository.Name), resp.Intent))
	p.Line("")
	p.Line(resp.Answer)
	p.Line("")

	if len(resp.Sources) > 0 {
		labels := make([]string, 0, len(resp.Sources))
		for _, s := range resp.Sources {
			labels = append(labels, sourceLabel(s))
		}
		p.List(fmt.Sprintf("Sources (%d)", len(resp.Sources)), labels)
	}
	p.List("Related services", resp.RelatedEntities.Services)
	p.List("Related dependencies", resp.RelatedEntities.Dependencies)

	if g := resp.GraphContext; g != nil {
		p.Field("Graph", fmt.Sprintf("%d nodes, %d edges", len(g.Nodes), len(g.Edges)))
		keys := make([]string, 0, len(g.Statistics))
		for k := range g.Statistics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			p.Field("  "+k, g.Statistics[k])
		}
	}
	if !resp.LLMUsed {
		p.Muted("Answer generated without the LLM.")
	}
	for _, w := range resp.Warnings {
		p.Warning(w)
	}
}

func printRefactor(p *ux.Printer, resp *assistant.RefactorResponse) {
	report := resp.ImpactAnalysis
	if report == nil {
		report = impact.NewReport()
	}
	p.Title("Impact analysis")
	p.Field("Targets", strings.Join(report.Targets, ", "))
	if report.ProposedChange != "" {
		p.Field("Change", report.ProposedChange)
	}
	p.Field("Risk", p.Risk(string(resp.RiskLevel)))
	p.Field("Affected functions", len(report.AffectedFunctions))
	p.Line("")

	callers := make([]string, 0, len(report.AffectedFunctions))
	for _, f := range report.AffectedFunctions {
		callers = append(callers, fmt.Sprintf("%s (%s)", orDash(f.Name), orDash(f.FilePath)))
	}
	p.List("Callers", callers)

	callees := make([]string, 0, len(report.Callees))
	for _, c := range report.Callees {
		callees = append(callees, orDash(c.Name))
	}
	p.List("Callees", callees)

	chains := make([]string, 0, len(report.CallChains))
	for _, c := range report.CallChains {
		if len(c.Path) > 0 {
			chains = append(chains, strings.Join(c.Path, prompt.ChainSeparator))
		}
	}
	p.List("Call chains", chains)
	p.List("Affected services", report.AffectedServices)
	p.List("Affected dependencies", report.AffectedDependencies)
	p.List("Recommendations", resp.Recommendations)

	if resp.AIRecommendations != nil {
		p.Box("AI recommendations", *resp.AIRecommendations)
	}
	for _, w := range report.Warnings {
		p.Warning(w)
	}
}

func printClassification(p *ux.Printer, c intent.Classification) {
	p.Field("Intent", c.Intent)
	p.Field("Topics", orDash(strings.Join(c.Topics, ", ")))
	p.Field("Entities", orDash(strings.Join(c.Entities, ", ")))
}

// sourceLabel renders one source as "type: name (location)".
func sourceLabel(s bundle.Source) string {
	switch v := s.(type) {
	case bundle.FunctionSource:
		if v.Line > 0 {
			return fmt.Sprintf("function: %s (%s:%d)", v.Name, orDash(v.FilePath), v.Line)
		}
		return fmt.Sprintf("function: %s (%s)", v.Name, orDash(v.FilePath))
	case bundle.ServiceSource:
		return fmt.Sprintf("service: %s (%s)", v.Name, orDash(v.Provider))
	case bundle.DependencySource:
		return fmt.Sprintf("dependency: %s (%s)", v.Name, orDash(v.Version))
	case bundle.ToolSource:
		return fmt.Sprintf("tool: %s (%s)", v.Name, orDash(v.ToolType))
	case bundle.TestSource:
		return fmt.Sprintf("test: %s (%s)", v.Name, orDash(v.FilePath))
	case bundle.DocumentationSource:
		name := v.Title
		if name == "" {
			name = v.FileName
		}
		return fmt.Sprintf("documentation: %s (%s)", name, orDash(v.FilePath))
	default:
		return fmt.Sprintf("%s: %s", s.SourceType(), s.SourceID())
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
