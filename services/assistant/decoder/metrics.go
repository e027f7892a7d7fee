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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "archassist"
	metricsSubsystem = "decoder"
)

// FetchMetrics holds the Prometheus metrics for guarded decoder fetches.
//
// # Fields
//
//   - FetchesTotal: Fetches by operation and outcome (success, degraded).
//   - FetchDurationSeconds: Fetch latency by operation.
//
// # Thread Safety
//
// All operations are thread-safe.
type FetchMetrics struct {
	FetchesTotal         *prometheus.CounterVec
	FetchDurationSeconds *prometheus.HistogramVec
}

// NewFetchMetrics creates and registers the fetch metrics with reg.
//
// # Description
//
// Pass prometheus.DefaultRegisterer in binaries and a fresh
// prometheus.NewRegistry() in tests. Registering twice on the same
// registry panics.
func NewFetchMetrics(reg prometheus.Registerer) *FetchMetrics {
	factory := promauto.With(reg)
	return &FetchMetrics{
		FetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "fetch_total",
				Help:      "Decoder fetches by operation and outcome.",
			},
			[]string{"operation", "outcome"},
		),
		FetchDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: metricsSubsystem,
				Name:      "fetch_duration_seconds",
				Help:      "Decoder fetch latency.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"operation"},
		),
	}
}

func (m *FetchMetrics) observe(op string, d time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "degraded"
	}
	m.FetchesTotal.WithLabelValues(op, outcome).Inc()
	m.FetchDurationSeconds.WithLabelValues(op).Observe(d.Seconds())
}
