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
	"testing"
)

func TestAssessRisk(t *testing.T) {
	tests := []struct {
		affected int
		depth    int
		want     RiskLevel
	}{
		{0, 0, RiskLow},
		{5, 2, RiskLow},
		{6, 0, RiskMedium},
		{0, 3, RiskMedium},
		{10, 4, RiskMedium},
		{11, 0, RiskHigh},
		{0, 5, RiskHigh},
	}
	for _, tt := range tests {
		if got := AssessRisk(tt.affected, tt.depth); got != tt.want {
			t.Errorf("AssessRisk(%d, %d) = %s, want %s", tt.affected, tt.depth, got, tt.want)
		}
	}
}

func TestRecommendations_Medium(t *testing.T) {
	got := Recommendations(6, RiskMedium)
	want := []string{
		"Update 6 affected function(s) before refactoring",
		"Run full test suite after changes",
		"Update documentation",
	}
	if len(got) != len(want) {
		t.Fatalf("Recommendations() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recommendations()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseRiskLevel(t *testing.T) {
	for _, s := range []string{"low", "MEDIUM", " High "} {
		if _, err := ParseRiskLevel(s); err != nil {
			t.Errorf("ParseRiskLevel(%q) error = %v", s, err)
		}
	}
	if _, err := ParseRiskLevel("critical"); err == nil {
		t.Error("ParseRiskLevel(critical) expected error")
	}
}

func TestRiskLevel_Exceeds(t *testing.T) {
	if !RiskHigh.Exceeds(RiskMedium) {
		t.Error("high should exceed medium")
	}
	if RiskMedium.Exceeds(RiskMedium) {
		t.Error("medium should not exceed medium")
	}
	if RiskLow.Exceeds(RiskHigh) {
		t.Error("low should not exceed high")
	}
}
