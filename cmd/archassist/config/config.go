// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the archassist configuration.
//
// Precedence, lowest first: built-in defaults, the YAML file, environment
// variables, command-line flags (applied by the caller).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/AleutianAI/ArchAssist/services/assistant/telemetry"
	"github.com/AleutianAI/ArchAssist/services/llm"
)

// Environment variables read by ApplyEnv.
const (
	EnvDecoderURL  = "ARCHITECTURE_DECODER_URL"
	EnvPort        = "ARCHASSIST_PORT"
	EnvLogLevel    = "ARCHASSIST_LOG_LEVEL"
	EnvOpenAIKey   = "OPENAI_API_KEY"
	EnvOpenAIModel = "OPENAI_MODEL"
	EnvLLMBackend  = "LLM_BACKEND_TYPE"
)

type Config struct {
	Server    ServerConfig     `yaml:"server"`
	Decoder   DecoderConfig    `yaml:"decoder"`
	Assistant AssistantConfig  `yaml:"assistant"`
	LLM       llm.Config       `yaml:"llm"`
	Logging   LoggingConfig    `yaml:"logging"`
	Telemetry telemetry.Config `yaml:"telemetry"`
}

type ServerConfig struct {
	Port            int           `yaml:"port" validate:"gte=1,lte=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`
}

type DecoderConfig struct {
	URL     string        `yaml:"url" validate:"required,url"`
	Timeout time.Duration `yaml:"timeout" validate:"gte=0"`

	// RequestsPerSecond throttles outbound calls. 0 disables throttling.
	RequestsPerSecond float64 `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int     `yaml:"burst" validate:"gte=0"`
}

type AssistantConfig struct {
	DefaultMaxResults int `yaml:"default_max_results" validate:"gte=1"`
	MaxResultsCeiling int `yaml:"max_results_ceiling" validate:"gte=1"`
	MaxConcurrency    int `yaml:"max_concurrency" validate:"gte=1,lte=64"`

	// StopWords replaces the built-in stop-word list when non-empty.
	StopWords []string `yaml:"stop_words"`

	// VendorMarkers replaces the built-in vendored path fragments when non-empty.
	VendorMarkers []string `yaml:"vendor_markers"`
}

type LoggingConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn warning error"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8090,
			ShutdownTimeout: 10 * time.Second,
		},
		Decoder: DecoderConfig{
			URL:     "http://localhost:8080",
			Timeout: 30 * time.Second,
		},
		Assistant: AssistantConfig{
			DefaultMaxResults: 10,
			MaxResultsCeiling: 50,
			MaxConcurrency:    8,
		},
		LLM: llm.Config{
			Backend: llm.BackendOpenAI,
			Model:   llm.DefaultOpenAIModel,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: telemetry.DefaultConfig(),
	}
}

// DefaultPath returns ~/.archassist/archassist.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not find the user's home directory: %w", err)
	}
	return filepath.Join(home, ".archassist", "archassist.yaml"), nil
}

// Load builds the configuration from defaults, the file at path and the
// process environment, then validates it.
//
// An empty path means DefaultPath, which may be absent. An explicit path
// must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("failed to parse the config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read the config file: %w", err)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode merges YAML into cfg. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// ApplyEnv overrides fields from environment variables read with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDecoderURL); v != "" {
		c.Decoder.URL = v
	}
	if v := getenv(EnvPort); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, v, err)
		}
		c.Server.Port = port
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := getenv(EnvOpenAIKey); v != "" {
		c.LLM.APIKey = v
	}
	if v := getenv(EnvOpenAIModel); v != "" {
		c.LLM.Model = v
	}
	if v := getenv(EnvLLMBackend); v != "" {
		c.LLM.Backend = strings.ToLower(v)
	}
	if v := getenv("OTEL_TRACES_EXPORTER"); v != "" {
		c.Telemetry.TraceExporter = v
	}
	if v := getenv("OTEL_METRICS_EXPORTER"); v != "" {
		c.Telemetry.MetricExporter = v
	}
	if v := getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.OTLPEndpoint = v
	}
	return nil
}

var validate = validator.New()

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Assistant.DefaultMaxResults > c.Assistant.MaxResultsCeiling {
		return fmt.Errorf("invalid configuration: assistant.default_max_results (%d) exceeds assistant.max_results_ceiling (%d)",
			c.Assistant.DefaultMaxResults, c.Assistant.MaxResultsCeiling)
	}
	return nil
}
