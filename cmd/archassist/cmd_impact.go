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
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ArchAssist/pkg/ux"
	"github.com/AleutianAI/ArchAssist/services/assistant"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
)

var (
	impactRepo   string
	impactChange string
	impactFailOn string
	impactNoLLM  bool
	impactQuiet  bool
)

var impactCmd = &cobra.Command{
	Use:   "impact <element-id>...",
	Short: "Analyze the impact of changing code elements",
	Long: `Analyze the impact of changing one or more code elements.

Callers of each element are collected from the decoder call graph, call
chains are traced up to five levels, and a risk level with
recommendations is reported. Affected services and dependencies come from
the elements' relationships.

Examples:
  archassist impact fn-123 --repo 42 --change "rename to fetchUser"
  archassist impact fn-123 fn-456 --repo 42 --json

CI/CD Integration:
  archassist impact fn-123 --repo 42 --fail-on medium --json
  (exits 1 if risk exceeds the --fail-on level)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImpact,
}

func init() {
	impactCmd.Flags().StringVar(&impactRepo, "repo", "",
		"Decoder repository id (required)")
	impactCmd.Flags().StringVar(&impactChange, "change", "",
		"Description of the proposed change")
	impactCmd.Flags().StringVar(&impactFailOn, "fail-on", "high",
		"Exit 1 when risk exceeds this level: low, medium, high")
	impactCmd.Flags().BoolVar(&impactNoLLM, "no-llm", false,
		"Skip AI recommendations")
	impactCmd.Flags().BoolVar(&impactQuiet, "quiet", false,
		"Only exit code, no output")
	_ = impactCmd.MarkFlagRequired("repo")
}

func runImpact(cmd *cobra.Command, args []string) error {
	start := time.Now()

	threshold, err := impact.ParseRiskLevel(impactFailOn)
	if err != nil {
		return err
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	svc, err := rt.newService(nil)
	if err != nil {
		return err
	}

	resp, err := svc.RefactorAnalysis(cmd.Context(), assistant.RefactorRequest{
		RepositoryID:    impactRepo,
		TargetElements:  args,
		ProposedChanges: impactChange,
		NoLLM:           impactNoLLM,
	})
	if err != nil {
		return err
	}

	exceeded := resp.RiskLevel.Exceeds(threshold)
	switch {
	case impactQuiet:
	case jsonOutput:
		if err := outputJSON(os.Stdout, newCommandResult("impact", start, resp)); err != nil {
			return err
		}
	default:
		printRefactor(ux.Stdout(), resp)
	}

	if exceeded {
		return &cliError{code: CLIExitFindings}
	}
	return nil
}
