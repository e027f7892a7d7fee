// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package prompt renders context bundles and impact reports into LLM
// prompts, and into a plain summary when no LLM answer is available.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/AleutianAI/ArchAssist/services/assistant/bundle"
	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
)

// Section limits.
const (
	shownRelationships  = 3
	shownRelated        = 5
	shownAffected       = 10
	shownChains         = 5
	shownSummaryEntries = 5
)

// ChainSeparator joins the names of a call chain.
const ChainSeparator = " → "

// UnavailablePrefix precedes the summary when the LLM call failed.
const UnavailablePrefix = "AI service unavailable. Here's what I found:\n\n"

// Builder renders prompts.
//
// # Thread Safety
//
// Builder is safe for concurrent use.
type Builder struct {
	query       *template.Template
	refactoring *template.Template
	summary     *template.Template
}

// NewBuilder parses the prompt templates.
//
// # Outputs
//
//   - *Builder: Ready to render.
//   - error: Non-nil if a template fails to parse.
func NewBuilder() (*Builder, error) {
	funcs := template.FuncMap{"join": strings.Join}

	query, err := template.New("query").Funcs(funcs).Parse(queryTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing query template: %w", err)
	}
	refactoring, err := template.New("refactoring").Funcs(funcs).Parse(refactoringTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing refactoring template: %w", err)
	}
	summary, err := template.New("summary").Funcs(funcs).Parse(summaryTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing summary template: %w", err)
	}
	return &Builder{query: query, refactoring: refactoring, summary: summary}, nil
}

type functionView struct {
	bundle.FunctionSource
	Shown []decoder.Relationship
}

type queryView struct {
	Query               string
	RepoName            string
	RepoLanguage        string
	Functions           []functionView
	Services            []bundle.ServiceSource
	Dependencies        []bundle.DependencySource
	Tools               []bundle.ToolSource
	Tests               []bundle.TestSource
	Docs                []bundle.DocumentationSource
	RelatedServices     []string
	RelatedDependencies []string
}

// QueryPrompt renders the prompt answering query from b.
//
// Every source is listed, grouped by type. Each function shows at most
// three of its relationships and related entities show at most five names
// per kind.
func (p *Builder) QueryPrompt(query string, b *bundle.Bundle) (string, error) {
	if b == nil {
		b = &bundle.Bundle{}
	}
	view := queryView{
		Query:               query,
		RepoName:            orUnknown(b.Repository.Name),
		RepoLanguage:        orUnknown(b.Repository.Language),
		Services:            bundle.SourcesOf[bundle.ServiceSource](b),
		Dependencies:        bundle.SourcesOf[bundle.DependencySource](b),
		Tools:               bundle.SourcesOf[bundle.ToolSource](b),
		Tests:               bundle.SourcesOf[bundle.TestSource](b),
		Docs:                bundle.SourcesOf[bundle.DocumentationSource](b),
		RelatedServices:     first(b.Related.Services, shownRelated),
		RelatedDependencies: first(b.Related.Dependencies, shownRelated),
	}
	for _, fn := range bundle.SourcesOf[bundle.FunctionSource](b) {
		view.Functions = append(view.Functions, functionView{
			FunctionSource: fn,
			Shown:          first(fn.Relationships, shownRelationships),
		})
	}
	return render(p.query, view)
}

type refactoringView struct {
	Change          string
	AffectedCount   int
	ServiceCount    int
	DependencyCount int
	Functions       []impact.AffectedFunction
	Chains          []string
}

// RefactoringPrompt renders the prompt asking for advice on report.
//
// The first ten affected functions and the first five non-empty call
// chains are listed.
func (p *Builder) RefactoringPrompt(report *impact.Report, proposedChange string) (string, error) {
	if report == nil {
		report = impact.NewReport()
	}
	view := refactoringView{
		Change:          proposedChange,
		AffectedCount:   len(report.AffectedFunctions),
		ServiceCount:    len(report.AffectedServices),
		DependencyCount: len(report.AffectedDependencies),
		Functions:       first(report.AffectedFunctions, shownAffected),
	}
	for _, c := range first(report.CallChains, shownChains) {
		if len(c.Path) > 0 {
			view.Chains = append(view.Chains, strings.Join(c.Path, ChainSeparator))
		}
	}
	return render(p.refactoring, view)
}

type summaryView struct {
	Total           int
	RepoName        string
	FunctionCount   int
	ServiceCount    int
	DependencyCount int
	Functions       []bundle.FunctionSource
	Services        []bundle.ServiceSource
	Dependencies    []bundle.DependencySource
}

// Summary renders a deterministic answer from b alone.
func (p *Builder) Summary(b *bundle.Bundle) (string, error) {
	if b == nil {
		b = &bundle.Bundle{}
	}
	fns := bundle.SourcesOf[bundle.FunctionSource](b)
	svcs := bundle.SourcesOf[bundle.ServiceSource](b)
	deps := bundle.SourcesOf[bundle.DependencySource](b)

	return render(p.summary, summaryView{
		Total:           len(b.Sources),
		RepoName:        orUnknown(b.Repository.Name),
		FunctionCount:   len(fns),
		ServiceCount:    len(svcs),
		DependencyCount: len(deps),
		Functions:       first(fns, shownSummaryEntries),
		Services:        first(svcs, shownSummaryEntries),
		Dependencies:    first(deps, shownSummaryEntries),
	})
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func first[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}
