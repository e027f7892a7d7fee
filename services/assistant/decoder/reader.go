// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package decoder is the read-only client for the Architecture Decoder, the
// external service that parses repositories and stores their code graph.
//
// # Description
//
// Reader is the interface every assistant component depends on. Client is
// its HTTP implementation; decodertest.Fake is an in-memory one for tests.
// Attempt and Outcome turn any Reader call into a best-effort fetch that
// degrades to a caller-chosen fallback.
//
// # Thread Safety
//
// Client and Guard are safe for concurrent use.
package decoder

import (
	"context"
	"errors"
	"fmt"
)

// Reader exposes the decoder operations the assistant consumes.
//
// Every method is a single remote read with no retries. Implementations
// return an error matching ErrUpstreamUnavailable for transport failures,
// timeouts and non-2xx responses.
type Reader interface {
	GetRepository(ctx context.Context, repoID string) (*Repository, error)
	ListRepositories(ctx context.Context) ([]Repository, error)
	GetCodeElements(ctx context.Context, repoID, elementType string) ([]CodeElement, error)
	GetCodeRelationships(ctx context.Context, repoID string, q RelationshipQuery) ([]Relationship, error)
	GetCallEdges(ctx context.Context, repoID string) ([]CallEdge, error)
	GetServices(ctx context.Context, repoID string) ([]Service, error)
	GetDependencies(ctx context.Context, repoID string) ([]Dependency, error)
	GetTools(ctx context.Context, repoID string) ([]Tool, error)
	GetTests(ctx context.Context, repoID string) ([]Test, error)
	GetDocumentation(ctx context.Context, repoID string) ([]Documentation, error)
	GetGraph(ctx context.Context, repoID string) (*Graph, error)
	Ping(ctx context.Context) error
}

// ErrUpstreamUnavailable matches every failed decoder call.
var ErrUpstreamUnavailable = errors.New("decoder unavailable")

// UpstreamError describes one failed decoder call.
type UpstreamError struct {
	// Op is the operation name, e.g. "services".
	Op string

	// StatusCode is the HTTP status, or 0 for transport failures.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("decoder %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("decoder %s: status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("decoder %s: %v", e.Op, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Is reports whether target is ErrUpstreamUnavailable.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstreamUnavailable
}
