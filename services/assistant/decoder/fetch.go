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
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Outcome is the result of one guarded fetch.
type Outcome[T any] struct {
	// Op names the fetch, e.g. "services".
	Op string

	// Value is the fetched value. Meaningless when Err is non-nil.
	Value T

	// Err is the fetch failure, if any.
	Err error
}

// Failed reports whether the fetch failed.
func (o Outcome[T]) Failed() bool { return o.Err != nil }

// Or returns the fetched value, or fallback when the fetch failed.
func (o Outcome[T]) Or(fallback T) T {
	if o.Err != nil {
		return fallback
	}
	return o.Value
}

// Guard observes guarded fetches: it logs failures and records them in
// FetchMetrics. A nil *Guard is valid and only uses slog.Default().
type Guard struct {
	logger  *slog.Logger
	metrics *FetchMetrics
}

// NewGuard creates a Guard. Both arguments may be nil.
func NewGuard(logger *slog.Logger, metrics *FetchMetrics) *Guard {
	return &Guard{logger: logger, metrics: metrics}
}

func (g *Guard) log() *slog.Logger {
	if g == nil || g.logger == nil {
		return slog.Default()
	}
	return g.logger
}

func (g *Guard) observe(op string, start time.Time, err error) {
	if g == nil || g.metrics == nil {
		return
	}
	g.metrics.observe(op, time.Since(start), err)
}

// Attempt runs fn once and captures its result as an Outcome.
//
// # Description
//
// Attempt is the single place where decoder failures are absorbed. It never
// retries. A failure is logged at Warn with the operation name, counted in
// the guard's metrics, and recorded as an event on the span in ctx. Callers
// then pick their degradation with Outcome.Or.
//
// # Inputs
//
//   - ctx: Passed to fn.
//   - g: Observer. May be nil.
//   - op: Operation name for logs and metrics.
//   - fn: The fetch.
//
// # Outputs
//
//   - Outcome[T]: Value or error, never both meaningful.
//
// # Example
//
//	services := decoder.Attempt(ctx, guard, "services", func(ctx context.Context) ([]decoder.Service, error) {
//	    return reader.GetServices(ctx, repoID)
//	}).Or(nil)
func Attempt[T any](ctx context.Context, g *Guard, op string, fn func(context.Context) (T, error)) Outcome[T] {
	start := time.Now()
	v, err := fn(ctx)
	g.observe(op, start, err)

	if err != nil {
		g.log().Warn("decoder fetch degraded",
			slog.String("operation", op),
			slog.String("error", err.Error()),
		)
		trace.SpanFromContext(ctx).AddEvent("decoder.fetch_failed", trace.WithAttributes(
			attribute.String("operation", op),
			attribute.String("error", err.Error()),
		))
	}
	return Outcome[T]{Op: op, Value: v, Err: err}
}
