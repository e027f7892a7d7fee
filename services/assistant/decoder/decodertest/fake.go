// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package decodertest provides an in-memory decoder.Reader for tests.
package decodertest

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
)

// Operation names accepted by Fake.Fail.
const (
	OpRepository    = "repository"
	OpRepositories  = "repositories"
	OpCodeElements  = "code_elements"
	OpRelationships = "code_relationships"
	OpCallEdges     = "call_edges"
	OpServices      = "services"
	OpDependencies  = "dependencies"
	OpTools         = "tools"
	OpTests         = "tests"
	OpDocumentation = "documentation"
	OpGraph         = "graph"
	OpHealth        = "health"
)

// Fake serves one repository's data from memory.
//
// Relationships are keyed by code element id. Fail makes an operation
// return an error matching decoder.ErrUpstreamUnavailable; FailRelationshipsFor
// does the same for a single element's relationship fetch.
type Fake struct {
	Repository    *decoder.Repository
	Repositories  []decoder.Repository
	Elements      []decoder.CodeElement
	Relationships map[string][]decoder.Relationship
	CallEdges     []decoder.CallEdge
	Services      []decoder.Service
	Dependencies  []decoder.Dependency
	Tools         []decoder.Tool
	Tests         []decoder.Test
	Documentation []decoder.Documentation
	Graph         *decoder.Graph

	mu          sync.Mutex
	failing     map[string]bool
	failingRels map[string]bool
	calls       map[string]*atomic.Int64
}

var _ decoder.Reader = (*Fake)(nil)

// Fail makes every call of the named operations fail.
func (f *Fake) Fail(ops ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing == nil {
		f.failing = make(map[string]bool)
	}
	for _, op := range ops {
		f.failing[op] = true
	}
	return f
}

// FailRelationshipsFor makes relationship fetches for the given element ids fail.
func (f *Fake) FailRelationshipsFor(elementIDs ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failingRels == nil {
		f.failingRels = make(map[string]bool)
	}
	for _, id := range elementIDs {
		f.failingRels[id] = true
	}
	return f
}

// Calls returns how many times op was invoked.
func (f *Fake) Calls(op string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.calls[op]; ok {
		return c.Load()
	}
	return 0
}

func (f *Fake) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = make(map[string]*atomic.Int64)
	}
	if _, ok := f.calls[op]; !ok {
		f.calls[op] = &atomic.Int64{}
	}
	f.calls[op].Add(1)
	if f.failing[op] {
		return &decoder.UpstreamError{Op: op, StatusCode: 503}
	}
	return nil
}

func (f *Fake) GetRepository(_ context.Context, repoID string) (*decoder.Repository, error) {
	if err := f.enter(OpRepository); err != nil {
		return nil, err
	}
	if f.Repository == nil {
		return &decoder.Repository{ID: repoID, Name: repoID}, nil
	}
	repo := *f.Repository
	return &repo, nil
}

func (f *Fake) ListRepositories(context.Context) ([]decoder.Repository, error) {
	if err := f.enter(OpRepositories); err != nil {
		return nil, err
	}
	return append([]decoder.Repository(nil), f.Repositories...), nil
}

func (f *Fake) GetCodeElements(_ context.Context, _ string, elementType string) ([]decoder.CodeElement, error) {
	if err := f.enter(OpCodeElements); err != nil {
		return nil, err
	}
	if elementType == "" {
		return append([]decoder.CodeElement(nil), f.Elements...), nil
	}
	var out []decoder.CodeElement
	for _, e := range f.Elements {
		if e.ElementType == elementType {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *Fake) GetCodeRelationships(_ context.Context, _ string, q decoder.RelationshipQuery) ([]decoder.Relationship, error) {
	if err := f.enter(OpRelationships); err != nil {
		return nil, err
	}
	f.mu.Lock()
	failing := f.failingRels[q.ElementID]
	f.mu.Unlock()
	if failing {
		return nil, &decoder.UpstreamError{Op: OpRelationships, StatusCode: 500}
	}

	var out []decoder.Relationship
	for _, r := range f.Relationships[q.ElementID] {
		if q.TargetType != "" && r.TargetType != q.TargetType {
			continue
		}
		if q.TargetID != "" && r.TargetID != q.TargetID {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *Fake) GetCallEdges(context.Context, string) ([]decoder.CallEdge, error) {
	if err := f.enter(OpCallEdges); err != nil {
		return nil, err
	}
	return append([]decoder.CallEdge(nil), f.CallEdges...), nil
}

func (f *Fake) GetServices(context.Context, string) ([]decoder.Service, error) {
	if err := f.enter(OpServices); err != nil {
		return nil, err
	}
	return append([]decoder.Service(nil), f.Services...), nil
}

func (f *Fake) GetDependencies(context.Context, string) ([]decoder.Dependency, error) {
	if err := f.enter(OpDependencies); err != nil {
		return nil, err
	}
	return append([]decoder.Dependency(nil), f.Dependencies...), nil
}

func (f *Fake) GetTools(context.Context, string) ([]decoder.Tool, error) {
	if err := f.enter(OpTools); err != nil {
		return nil, err
	}
	return append([]decoder.Tool(nil), f.Tools...), nil
}

func (f *Fake) GetTests(context.Context, string) ([]decoder.Test, error) {
	if err := f.enter(OpTests); err != nil {
		return nil, err
	}
	return append([]decoder.Test(nil), f.Tests...), nil
}

func (f *Fake) GetDocumentation(context.Context, string) ([]decoder.Documentation, error) {
	if err := f.enter(OpDocumentation); err != nil {
		return nil, err
	}
	return append([]decoder.Documentation(nil), f.Documentation...), nil
}

func (f *Fake) GetGraph(context.Context, string) (*decoder.Graph, error) {
	if err := f.enter(OpGraph); err != nil {
		return nil, err
	}
	if f.Graph == nil {
		return decoder.EmptyGraph(), nil
	}
	g := *f.Graph
	return &g, nil
}

func (f *Fake) Ping(context.Context) error {
	return f.enter(OpHealth)
}
