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
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAttempt_Success(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewFetchMetrics(reg)
	guard := NewGuard(nil, metrics)

	out := Attempt(context.Background(), guard, "services", func(context.Context) ([]Service, error) {
		return []Service{{ID: "s1", Name: "Stripe"}}, nil
	})

	assert.False(t, out.Failed())
	assert.Equal(t, "services", out.Op)
	assert.Len(t, out.Or(nil), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchesTotal.WithLabelValues("services", "success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.FetchesTotal.WithLabelValues("services", "degraded")))
}

func TestAttempt_FailureDegradesToFallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	reg := prometheus.NewRegistry()
	metrics := NewFetchMetrics(reg)
	guard := NewGuard(logger, metrics)

	out := Attempt(context.Background(), guard, "graph", func(context.Context) (*Graph, error) {
		return nil, &UpstreamError{Op: "graph", StatusCode: 502}
	})

	assert.True(t, out.Failed())
	assert.True(t, errors.Is(out.Err, ErrUpstreamUnavailable))
	g := out.Or(EmptyGraph())
	assert.NotNil(t, g)
	assert.Empty(t, g.Nodes)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.FetchesTotal.WithLabelValues("graph", "degraded")))
	assert.Contains(t, buf.String(), "decoder fetch degraded")
	assert.Contains(t, buf.String(), "operation=graph")
}

func TestAttempt_NilGuard(t *testing.T) {
	out := Attempt(context.Background(), nil, "tools", func(context.Context) ([]Tool, error) {
		return nil, errors.New("boom")
	})
	assert.Equal(t, []Tool{}, out.Or([]Tool{}))
}

func TestUpstreamError_Messages(t *testing.T) {
	assert.Equal(t, "decoder tools: status 503", (&UpstreamError{Op: "tools", StatusCode: 503}).Error())
	assert.Equal(t, "decoder tools: dial refused", (&UpstreamError{Op: "tools", Err: errors.New("dial refused")}).Error())
	assert.Equal(t, "decoder tools: status 500: oops", (&UpstreamError{Op: "tools", StatusCode: 500, Err: errors.New("oops")}).Error())
}
