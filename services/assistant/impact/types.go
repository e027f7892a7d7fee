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
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidArgument is returned for malformed analysis requests.
var ErrInvalidArgument = errors.New("invalid impact request")

// RiskLevel represents the severity of a proposed change.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

var riskOrder = map[RiskLevel]int{
	RiskLow:    0,
	RiskMedium: 1,
	RiskHigh:   2,
}

// ParseRiskLevel parses "low", "medium" or "high" in any case.
func ParseRiskLevel(s string) (RiskLevel, error) {
	level := RiskLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := riskOrder[level]; !ok {
		return "", fmt.Errorf("unknown risk level %q", s)
	}
	return level, nil
}

// Exceeds returns true if r is strictly more severe than threshold.
func (r RiskLevel) Exceeds(threshold RiskLevel) bool {
	return riskOrder[r] > riskOrder[threshold]
}

// Relationship labels used in the report.
const (
	relationshipCalls    = "calls"
	relationshipCalledBy = "called_by"
)

// AffectedFunction is a direct caller of a target. Every direct caller is
// tagged high risk: a direct call is the strongest breakage signal.
type AffectedFunction struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	FilePath     string    `json:"file_path"`
	Relationship string    `json:"relationship"`
	Risk         RiskLevel `json:"risk"`
}

// Callee is something a target calls. Callees are reported but do not
// count as affected.
type Callee struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
}

// CallChain is an upward path of caller names starting at a direct caller.
type CallChain struct {
	Path  []string `json:"path"`
	Depth int      `json:"depth"`
}

// Report is the result of one impact analysis.
type Report struct {
	Targets           []string           `json:"targets"`
	ProposedChange    string             `json:"proposed_change,omitempty"`
	AffectedFunctions []AffectedFunction `json:"affected_functions"`
	Callees           []Callee           `json:"callees"`
	CallChains        []CallChain        `json:"call_chains"`
	RiskLevel         RiskLevel          `json:"risk_level"`
	Recommendations   []string           `json:"recommendations"`

	// AffectedServices and AffectedDependencies are the services and
	// dependencies the targets reference, from their relationships.
	AffectedServices     []string `json:"affected_services"`
	AffectedDependencies []string `json:"affected_dependencies"`

	// Warnings names the fetches that failed and were skipped.
	Warnings []string `json:"warnings,omitempty"`
}

// NewReport returns a low-risk report with non-nil empty lists.
func NewReport() *Report {
	return &Report{
		Targets:              make([]string, 0),
		AffectedFunctions:    make([]AffectedFunction, 0),
		Callees:              make([]Callee, 0),
		CallChains:           make([]CallChain, 0),
		RiskLevel:            RiskLow,
		Recommendations:      make([]string, 0),
		AffectedServices:     make([]string, 0),
		AffectedDependencies: make([]string, 0),
	}
}

// MaxChainDepth returns the deepest call chain, or 0 when there is none.
func (r *Report) MaxChainDepth() int {
	return maxDepth(r.CallChains)
}
