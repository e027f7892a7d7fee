// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package impact estimates the blast radius of changing code elements.
//
// # Overview
//
// Given target element ids, the analyzer finds every direct caller of each
// target in the repository's call-edge snapshot, walks a few bounded
// upward call chains, and turns the caller count and chain depth into a
// risk tier with recommendations.
//
// # Flow
//
//	┌──────────────┐     ┌──────────────┐     ┌──────────────┐
//	│  Call-edge   │────▶│  Per-target  │────▶│     Risk     │
//	│  snapshot    │     │  callers +   │     │  tier + recs │
//	│  (one fetch) │     │  chains      │     │              │
//	└──────────────┘     └──────────────┘     └──────────────┘
//
// Per target the sequence is: fetch relationships, find callers, find
// callees, build call chains, accumulate. A target whose relationship fetch
// fails contributes nothing; the others are unaffected.
//
// # Usage
//
//	analyzer := impact.NewAnalyzer(reader)
//	report, err := analyzer.Analyze(ctx, repoID, []string{"fn-42"}, "rename to fetchUser")
//	if err != nil {
//	    return err // malformed input only
//	}
//	fmt.Printf("Risk: %s, Affected: %d\n", report.RiskLevel, len(report.AffectedFunctions))
//
// # Thread Safety
//
// Analyzer is safe for concurrent use.
package impact
