// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package llm provides the text generation backends used to phrase answers.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// Backend names accepted by Config.Backend.
const (
	BackendNone   = "none"
	BackendOpenAI = "openai"
	BackendOllama = "ollama"
)

// ErrNotConfigured is returned by New when the backend is "none" or
// required credentials are missing.
var ErrNotConfigured = errors.New("llm backend not configured")

type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
	Stop        []string `json:"stop"`
}

// DefaultParams returns temperature 0.3 and 1500 max tokens.
func DefaultParams() GenerationParams {
	temp := float32(0.3)
	maxTokens := 1500
	return GenerationParams{Temperature: &temp, MaxTokens: &maxTokens}
}

// LLMClient defines the standard interface for any LLM backend
type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerationParams) (string, error)
}

// Config selects and configures a backend.
type Config struct {
	Backend string `yaml:"backend" json:"backend" validate:"omitempty,oneof=none openai ollama"`

	// APIKey for OpenAI. Falls back to OPENAI_API_KEY, then SecretPath.
	APIKey     string `yaml:"api_key" json:"-"`
	SecretPath string `yaml:"secret_path" json:"secret_path"`

	Model   string `yaml:"model" json:"model"`
	BaseURL string `yaml:"base_url" json:"base_url" validate:"omitempty,url"`

	// SystemPersona is sent as the system message.
	SystemPersona string `yaml:"system_persona" json:"system_persona"`
}

// New builds the configured backend.
//
// # Outputs
//
//   - LLMClient: Ready to use.
//   - error: ErrNotConfigured when no backend is selected or usable, so
//     callers can run without answer generation.
func New(cfg Config, logger *slog.Logger) (LLMClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendOpenAI:
		c, err := NewOpenAIClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendOllama:
		c, err := NewOllamaClient(cfg, logger)
		if err != nil {
			return nil, err
		}
		return c, nil
	case BackendNone:
		return nil, fmt.Errorf("%w: backend is %q", ErrNotConfigured, BackendNone)
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.Backend)
	}
}
