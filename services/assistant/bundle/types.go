// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package bundle

import (
	"encoding/json"
	"errors"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/intent"
	"github.com/AleutianAI/ArchAssist/services/assistant/related"
)

// ErrInvalidArgument is returned for malformed build requests.
var ErrInvalidArgument = errors.New("invalid context request")

// SourceType discriminates the entries of Bundle.Sources.
type SourceType string

const (
	SourceCodeElement   SourceType = "code_element"
	SourceService       SourceType = "service"
	SourceDependency    SourceType = "dependency"
	SourceTool          SourceType = "tool"
	SourceTest          SourceType = "test"
	SourceDocumentation SourceType = "documentation"
)

// Source is one typed item of a context bundle.
type Source interface {
	SourceType() SourceType
	SourceID() string
}

// FunctionSource is the projection of a code element.
//
// The general strategy fills only ID, Name and FilePath and leaves
// Relationships nil, which omits the field on the wire. Enriched sources
// always carry a non-nil list, empty when the fetch failed.
type FunctionSource struct {
	Type          SourceType             `json:"type"`
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Signature     string                 `json:"signature,omitempty"`
	FilePath      string                 `json:"file_path"`
	Line          int                    `json:"line,omitempty"`
	Language      string                 `json:"language,omitempty"`
	Relationships []decoder.Relationship `json:"relationships"`
}

// MarshalJSON omits relationships only for the compact projection.
func (s FunctionSource) MarshalJSON() ([]byte, error) {
	type plain FunctionSource
	if s.Relationships != nil {
		return json.Marshal(plain(s))
	}
	return json.Marshal(struct {
		plain
		Relationships []decoder.Relationship `json:"relationships,omitempty"`
	}{plain: plain(s)})
}

// ServiceSource is the projection of an external service.
type ServiceSource struct {
	Type        SourceType `json:"type"`
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Provider    string     `json:"provider,omitempty"`
	ServiceType string     `json:"service_type,omitempty"`
	FilePath    string     `json:"file_path,omitempty"`
}

// DependencySource is the projection of a package dependency.
type DependencySource struct {
	Type           SourceType `json:"type"`
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Version        string     `json:"version,omitempty"`
	PackageManager string     `json:"package_manager,omitempty"`
}

// ToolSource is the projection of a configured tool.
type ToolSource struct {
	Type       SourceType `json:"type"`
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	ToolType   string     `json:"tool_type,omitempty"`
	ConfigFile string     `json:"config_file,omitempty"`
}

// TestSource is the projection of a test.
type TestSource struct {
	Type          SourceType `json:"type"`
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	TestFramework string     `json:"test_framework,omitempty"`
	TestType      string     `json:"test_type,omitempty"`
	FilePath      string     `json:"file_path,omitempty"`
	LineNumber    int        `json:"line_number,omitempty"`
	Language      string     `json:"language,omitempty"`
	SuiteName     string     `json:"suite_name,omitempty"`
	Signature     string     `json:"signature,omitempty"`
}

// DocumentationSource is the projection of a documentation file.
type DocumentationSource struct {
	Type             SourceType `json:"type"`
	ID               string     `json:"id"`
	FileName         string     `json:"file_name"`
	FilePath         string     `json:"file_path,omitempty"`
	DocType          string     `json:"doc_type,omitempty"`
	Title            string     `json:"title,omitempty"`
	Description      string     `json:"description,omitempty"`
	WordCount        int        `json:"word_count,omitempty"`
	LineCount        int        `json:"line_count,omitempty"`
	HasCodeExamples  bool       `json:"has_code_examples,omitempty"`
	HasAPIReferences bool       `json:"has_api_references,omitempty"`
	HasDiagrams      bool       `json:"has_diagrams,omitempty"`
	ContentPreview   string     `json:"content_preview,omitempty"`
}

func (s FunctionSource) SourceType() SourceType      { return SourceCodeElement }
func (s ServiceSource) SourceType() SourceType       { return SourceService }
func (s DependencySource) SourceType() SourceType    { return SourceDependency }
func (s ToolSource) SourceType() SourceType          { return SourceTool }
func (s TestSource) SourceType() SourceType          { return SourceTest }
func (s DocumentationSource) SourceType() SourceType { return SourceDocumentation }

func (s FunctionSource) SourceID() string      { return s.ID }
func (s ServiceSource) SourceID() string       { return s.ID }
func (s DependencySource) SourceID() string    { return s.ID }
func (s ToolSource) SourceID() string          { return s.ID }
func (s TestSource) SourceID() string          { return s.ID }
func (s DocumentationSource) SourceID() string { return s.ID }

// Request describes one context build.
type Request struct {
	// RepositoryID is the decoder repository id. Required.
	RepositoryID string

	// Classification selects the strategy and carries topics and entities.
	Classification intent.Classification

	// MaxResults caps each domain's output. Must be >= 1.
	MaxResults int

	// IncludeGraph requests the full entity graph.
	IncludeGraph bool
}

// Bundle is the context assembled for one query.
type Bundle struct {
	Repository decoder.Repository `json:"repository"`
	Intent     intent.Intent      `json:"intent"`
	Sources    []Source           `json:"sources"`
	Related    related.Entities   `json:"related_entities"`
	Graph      *decoder.Graph     `json:"graph,omitempty"`

	// Warnings names the fetches that failed and were replaced by empty
	// results, e.g. "services: decoder services: status 503".
	Warnings []string `json:"warnings,omitempty"`
}

// SourcesOf returns the bundle sources of concrete type T, in bundle order.
func SourcesOf[T Source](b *Bundle) []T {
	var out []T
	if b == nil {
		return out
	}
	for _, s := range b.Sources {
		if typed, ok := s.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

// CountByType returns the number of sources per type.
func (b *Bundle) CountByType() map[SourceType]int {
	counts := make(map[SourceType]int)
	for _, s := range b.Sources {
		counts[s.SourceType()]++
	}
	return counts
}
