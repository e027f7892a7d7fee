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
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/AleutianAI/ArchAssist/cmd/archassist/config"
	"github.com/AleutianAI/ArchAssist/pkg/logging"
	"github.com/AleutianAI/ArchAssist/services/assistant"
	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/intent"
	"github.com/AleutianAI/ArchAssist/services/llm"
)

// Persistent flags.
var (
	configPath string
	decoderURL string
	jsonOutput bool
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "archassist",
	Short: "Architecture assistant for decoded repositories",
	Long: `archassist answers natural-language questions about a repository that has
been analyzed by the architecture decoder, and estimates the impact of
refactoring code elements.

Configuration is read from ~/.archassist/archassist.yaml (or --config),
then environment variables, then flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Config file (default ~/.archassist/archassist.yaml)")
	rootCmd.PersistentFlags().StringVar(&decoderURL, "decoder-url", "",
		"Architecture decoder base URL (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false,
		"Output as JSON for scripting")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides config)")

	rootCmd.AddCommand(serveCmd, askCmd, classifyCmd, impactCmd)
}

// cliError carries a process exit code. A nil err exits silently.
type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *cliError) Unwrap() error { return e.err }

// runtime is the state shared by every command.
type runtime struct {
	cfg    *config.Config
	logger *logging.Logger
}

func (r *runtime) close() {
	_ = r.logger.Close()
}

// loadRuntime reads configuration, applies flag overrides and builds the logger.
func loadRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("decoder-url") {
		cfg.Decoder.URL = decoderURL
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	logger := logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.Dir,
		Service: assistant.ServiceName,
		JSON:    cfg.Logging.JSON,
	})
	return &runtime{cfg: cfg, logger: logger}, nil
}

// classifier honors the configured stop words.
func (r *runtime) classifier() *intent.Classifier {
	if len(r.cfg.Assistant.StopWords) > 0 {
		return intent.New(intent.WithStopWords(r.cfg.Assistant.StopWords))
	}
	return intent.New()
}

// newService wires the decoder client, the optional LLM and the assistant.
//
// reg receives the decoder fetch metrics. Nil skips metric registration.
func (r *runtime) newService(reg prometheus.Registerer) (*assistant.Service, error) {
	logger := r.logger.Slog()

	client, err := decoder.NewClient(decoder.ClientConfig{
		BaseURL:           r.cfg.Decoder.URL,
		Timeout:           r.cfg.Decoder.Timeout,
		RequestsPerSecond: r.cfg.Decoder.RequestsPerSecond,
		Burst:             r.cfg.Decoder.Burst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder client: %w", err)
	}

	var metrics *decoder.FetchMetrics
	if reg != nil {
		metrics = decoder.NewFetchMetrics(reg)
	}

	opts := []assistant.Option{
		assistant.WithLogger(logger),
		assistant.WithGuard(decoder.NewGuard(logger, metrics)),
		assistant.WithClassifier(r.classifier()),
	}

	llmClient, err := llm.New(r.cfg.LLM, logger)
	switch {
	case err == nil:
		opts = append(opts, assistant.WithLLM(llmClient))
	case errors.Is(err, llm.ErrNotConfigured):
		logger.Info("LLM not configured, answers will be summaries", slog.String("reason", err.Error()))
	default:
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	svcCfg := assistant.DefaultServiceConfig()
	svcCfg.DefaultMaxResults = r.cfg.Assistant.DefaultMaxResults
	svcCfg.MaxResultsCeiling = r.cfg.Assistant.MaxResultsCeiling
	svcCfg.MaxConcurrency = r.cfg.Assistant.MaxConcurrency
	svcCfg.DecoderURL = client.BaseURL()
	svcCfg.VendorMarkers = r.cfg.Assistant.VendorMarkers

	return assistant.NewService(svcCfg, client, opts...)
}
