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

import "fmt"

// Risk thresholds. Both comparisons are strict.
const (
	highCallerThreshold   = 10
	highDepthThreshold    = 4
	mediumCallerThreshold = 5
	mediumDepthThreshold  = 2
)

// AssessRisk maps the number of affected functions and the deepest call
// chain to a risk tier.
//
//	high:   affected > 10 or depth > 4
//	medium: affected > 5  or depth > 2
//	low:    otherwise
func AssessRisk(affected, maxChainDepth int) RiskLevel {
	switch {
	case affected > highCallerThreshold || maxChainDepth > highDepthThreshold:
		return RiskHigh
	case affected > mediumCallerThreshold || maxChainDepth > mediumDepthThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Recommendations returns the advice for a result, in a fixed order.
func Recommendations(affected int, risk RiskLevel) []string {
	recs := make([]string, 0, 5)
	if affected > 0 {
		recs = append(recs, fmt.Sprintf("Update %d affected function(s) before refactoring", affected))
	}
	if risk == RiskHigh {
		recs = append(recs,
			"Consider creating a wrapper function first",
			"Add deprecation warnings before removal",
		)
	}
	recs = append(recs,
		"Run full test suite after changes",
		"Update documentation",
	)
	return recs
}

func maxDepth(chains []CallChain) int {
	deepest := 0
	for _, c := range chains {
		if c.Depth > deepest {
			deepest = c.Depth
		}
	}
	return deepest
}
