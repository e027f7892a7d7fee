// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package impact

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("assistant.impact")
	meter  = otel.Meter("assistant.impact")
)

var (
	analysisLatency   metric.Float64Histogram
	analysisTotal     metric.Int64Counter
	affectedFunctions metric.Int64Histogram
	chainDepth        metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		analysisLatency, err = meter.Float64Histogram(
			"archassist_impact_analysis_duration_seconds",
			metric.WithDescription("Duration of refactoring impact analyses"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		analysisTotal, err = meter.Int64Counter(
			"archassist_impact_analysis_total",
			metric.WithDescription("Total number of refactoring impact analyses"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		affectedFunctions, err = meter.Int64Histogram(
			"archassist_impact_affected_functions",
			metric.WithDescription("Number of direct callers affected per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		chainDepth, err = meter.Int64Histogram(
			"archassist_impact_max_chain_depth",
			metric.WithDescription("Deepest call chain found per analysis"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startAnalysisSpan(ctx context.Context, repoID string, targets int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "impact.Analyzer.Analyze",
		trace.WithAttributes(
			attribute.String("impact.repository_id", repoID),
			attribute.Int("impact.targets", targets),
		),
	)
}

func setAnalysisSpanResult(span trace.Span, r *Report) {
	span.SetAttributes(
		attribute.String("impact.risk_level", string(r.RiskLevel)),
		attribute.Int("impact.affected_functions", len(r.AffectedFunctions)),
		attribute.Int("impact.call_chains", len(r.CallChains)),
		attribute.Int("impact.max_chain_depth", r.MaxChainDepth()),
		attribute.Int("impact.warnings", len(r.Warnings)),
	)
}

func recordAnalysisMetrics(ctx context.Context, duration time.Duration, r *Report) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("risk_level", string(r.RiskLevel)),
		attribute.Bool("degraded", len(r.Warnings) > 0),
	)

	analysisLatency.Record(ctx, duration.Seconds(), attrs)
	analysisTotal.Add(ctx, 1, attrs)
	affectedFunctions.Record(ctx, int64(len(r.AffectedFunctions)))
	chainDepth.Record(ctx, int64(r.MaxChainDepth()))
}
