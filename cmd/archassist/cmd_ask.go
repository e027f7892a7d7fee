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
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/ArchAssist/pkg/ux"
	"github.com/AleutianAI/ArchAssist/services/assistant"
)

var (
	askRepo         string
	askMaxResults   int
	askIncludeGraph bool
	askNoLLM        bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question about a decoded repository",
	Long: `Ask a natural-language question about a repository.

The question is classified, matching functions, services, dependencies,
tools, tests and documentation are gathered from the decoder, and the
configured LLM answers from that context. Without an LLM, or with
--no-llm, a summary of the gathered context is printed instead.

Examples:
  archassist ask "what services are used?" --repo 42
  archassist ask "show me the functions that handle payments" --repo 42 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var classifyCmd = &cobra.Command{
	Use:   "classify <question>",
	Short: "Show how a question is classified",
	Long: `Show the intent, topics and entities extracted from a question.

Classification is local. The decoder is not contacted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func init() {
	askCmd.Flags().StringVar(&askRepo, "repo", "",
		"Decoder repository id (required)")
	askCmd.Flags().IntVar(&askMaxResults, "max-results", 0,
		"Maximum sources per domain (0 = configured default)")
	askCmd.Flags().BoolVar(&askIncludeGraph, "include-graph", false,
		"Attach repository graph statistics")
	askCmd.Flags().BoolVar(&askNoLLM, "no-llm", false,
		"Answer with the context summary only")
	_ = askCmd.MarkFlagRequired("repo")
}

func runAsk(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	svc, err := rt.newService(nil)
	if err != nil {
		return err
	}

	resp, err := svc.Query(cmd.Context(), assistant.QueryRequest{
		RepositoryID: askRepo,
		Query:        strings.Join(args, " "),
		MaxResults:   askMaxResults,
		IncludeGraph: askIncludeGraph,
		NoLLM:        askNoLLM,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(os.Stdout, newCommandResult("ask", start, resp))
	}
	printQuery(ux.Stdout(), resp)
	return nil
}

func runClassify(cmd *cobra.Command, args []string) error {
	start := time.Now()
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.close()

	c := rt.classifier().Classify(cmd.Context(), strings.Join(args, " "))

	if jsonOutput {
		return outputJSON(os.Stdout, newCommandResult("classify", start, c))
	}
	printClassification(ux.Stdout(), c)
	return nil
}
