// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package decoder

import (
	"encoding/json"
)

// Repository is the repository record served by the decoder.
type Repository struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	URL            string `json:"url,omitempty"`
	Branch         string `json:"branch,omitempty"`
	Language       string `json:"language,omitempty"`
	LastAnalyzedAt string `json:"last_analyzed_at,omitempty"`
}

// CodeElement is a parsed code symbol (function, class, method, ...).
type CodeElement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ElementType string `json:"element_type"`
	Signature   string `json:"signature,omitempty"`
	FilePath    string `json:"file_path"`
	Line        int    `json:"line"`
	Language    string `json:"language,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	DocComment  string `json:"doc_comment,omitempty"`
}

// UnmarshalJSON accepts both "line" and "line_number".
func (e *CodeElement) UnmarshalJSON(data []byte) error {
	type plain CodeElement
	var aux struct {
		plain
		LineNumber *int `json:"line_number"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = CodeElement(aux.plain)
	if e.Line == 0 && aux.LineNumber != nil {
		e.Line = *aux.LineNumber
	}
	return nil
}

// Relationship is a directed edge from a code element to another entity.
type Relationship struct {
	ID               string  `json:"id,omitempty"`
	CodeElementID    string  `json:"code_element_id"`
	TargetType       string  `json:"target_type"`
	TargetID         string  `json:"target_id"`
	TargetName       string  `json:"target_name,omitempty"`
	RelationshipType string  `json:"relationship_type"`
	Confidence       float64 `json:"confidence,omitempty"`
	Evidence         string  `json:"evidence,omitempty"`
}

// Relationship target types.
const (
	TargetService     = "service"
	TargetDependency  = "dependency"
	TargetCodeElement = "code_element"
)

// RelationshipQuery narrows a relationship fetch. Empty fields are not sent.
type RelationshipQuery struct {
	ElementID  string
	TargetType string
	TargetID   string
}

// CallEdge asserts that the caller invokes the callee.
type CallEdge struct {
	CallerID   string `json:"caller_id"`
	CallerName string `json:"caller_name,omitempty"`
	CallerFile string `json:"caller_file,omitempty"`
	CalleeID   string `json:"callee_id"`
	CalleeName string `json:"callee_name,omitempty"`
	CalleeFile string `json:"callee_file,omitempty"`
	CallType   string `json:"call_type,omitempty"`
	Line       int    `json:"line_number,omitempty"`
}

// UnmarshalJSON accepts the source_*/target_* spellings used by older
// decoder builds as aliases for caller_*/callee_*.
func (c *CallEdge) UnmarshalJSON(data []byte) error {
	var raw struct {
		CallerID        string `json:"caller_id"`
		SourceID        string `json:"source_id"`
		SourceElementID string `json:"source_element_id"`
		CallerName      string `json:"caller_name"`
		SourceName      string `json:"source_name"`
		SourceFunction  string `json:"source_function"`
		CallerFile      string `json:"caller_file"`
		SourceFilePath  string `json:"source_file_path"`
		SourceFile      string `json:"source_file"`
		CalleeID        string `json:"callee_id"`
		TargetID        string `json:"target_id"`
		TargetElementID string `json:"target_element_id"`
		CalleeName      string `json:"callee_name"`
		TargetName      string `json:"target_name"`
		CalleeFile      string `json:"callee_file"`
		TargetFilePath  string `json:"target_file_path"`
		CallType        string `json:"call_type"`
		LineNumber      int    `json:"line_number"`
		Line            int    `json:"line"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CallEdge{
		CallerID:   firstNonEmpty(raw.CallerID, raw.SourceID, raw.SourceElementID),
		CallerName: firstNonEmpty(raw.CallerName, raw.SourceName, raw.SourceFunction),
		CallerFile: firstNonEmpty(raw.CallerFile, raw.SourceFilePath, raw.SourceFile),
		CalleeID:   firstNonEmpty(raw.CalleeID, raw.TargetID, raw.TargetElementID),
		CalleeName: firstNonEmpty(raw.CalleeName, raw.TargetName),
		CalleeFile: firstNonEmpty(raw.CalleeFile, raw.TargetFilePath),
		CallType:   raw.CallType,
		Line:       raw.LineNumber,
	}
	if c.Line == 0 {
		c.Line = raw.Line
	}
	return nil
}

// Service is an external service integration detected in the code.
type Service struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider,omitempty"`
	ServiceType string `json:"service_type,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
}

// Dependency is a declared package dependency.
type Dependency struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Version        string `json:"version,omitempty"`
	PackageManager string `json:"package_manager,omitempty"`
	IsDev          bool   `json:"is_dev,omitempty"`
	FilePath       string `json:"file_path,omitempty"`
}

// Tool is a build, test or lint tool configured in the repository.
type Tool struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ToolType   string `json:"tool_type,omitempty"`
	ConfigFile string `json:"config_file,omitempty"`
}

// Test is a test case or suite.
type Test struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	TestFramework string `json:"test_framework,omitempty"`
	TestType      string `json:"test_type,omitempty"`
	FilePath      string `json:"file_path,omitempty"`
	LineNumber    int    `json:"line_number,omitempty"`
	Language      string `json:"language,omitempty"`
	SuiteName     string `json:"suite_name,omitempty"`
	Signature     string `json:"signature,omitempty"`
}

// Documentation is a documentation file.
type Documentation struct {
	ID               string `json:"id"`
	FileName         string `json:"file_name"`
	FilePath         string `json:"file_path,omitempty"`
	DocType          string `json:"doc_type,omitempty"`
	Title            string `json:"title,omitempty"`
	Description      string `json:"description,omitempty"`
	WordCount        int    `json:"word_count,omitempty"`
	LineCount        int    `json:"line_count,omitempty"`
	HasCodeExamples  bool   `json:"has_code_examples,omitempty"`
	HasAPIReferences bool   `json:"has_api_references,omitempty"`
	HasDiagrams      bool   `json:"has_diagrams,omitempty"`
	ContentPreview   string `json:"content_preview,omitempty"`
}

// Graph is the full entity graph of a repository.
type Graph struct {
	Nodes      []GraphNode    `json:"nodes"`
	Edges      []GraphEdge    `json:"edges"`
	Statistics map[string]any `json:"statistics,omitempty"`
}

// GraphNode is one vertex of a Graph.
type GraphNode struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Label      string         `json:"label,omitempty"`
	Properties map[string]any `json:"properties,omitempty"`
}

// GraphEdge is one edge of a Graph.
type GraphEdge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Type   string `json:"type,omitempty"`
}

// EmptyGraph returns a graph with non-nil, empty node and edge lists.
func EmptyGraph() *Graph {
	return &Graph{Nodes: []GraphNode{}, Edges: []GraphEdge{}}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
