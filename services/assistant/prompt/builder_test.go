// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/ArchAssist/services/assistant/bundle"
	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
	"github.com/AleutianAI/ArchAssist/services/assistant/related"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder()
	require.NoError(t, err)
	return b
}

func sampleBundle() *bundle.Bundle {
	return &bundle.Bundle{
		Repository: decoder.Repository{ID: "r1", Name: "shop-api", Language: "typescript"},
		Sources: []bundle.Source{
			bundle.FunctionSource{
				Type: bundle.SourceCodeElement, ID: "f1", Name: "getUser",
				Signature: "getUser(id: string)", FilePath: "src/user.ts", Line: 12, Language: "typescript",
				Relationships: []decoder.Relationship{
					{RelationshipType: "uses", TargetName: "Postgres"},
					{RelationshipType: "imports", TargetName: "pg"},
					{RelationshipType: "", TargetName: ""},
					{RelationshipType: "calls", TargetName: "fourth"},
				},
			},
			bundle.ServiceSource{Type: bundle.SourceService, ID: "s1", Name: "Stripe", Provider: "stripe", ServiceType: "payments", FilePath: "src/pay.ts"},
			bundle.DependencySource{Type: bundle.SourceDependency, ID: "d1", Name: "axios", Version: "1.6.0", PackageManager: "npm"},
			bundle.ToolSource{Type: bundle.SourceTool, ID: "t1", Name: "eslint", ToolType: "linter", ConfigFile: ".eslintrc"},
			bundle.TestSource{Type: bundle.SourceTest, ID: "x1", Name: "getUser returns user", TestFramework: "jest", FilePath: "src/user.test.ts", LineNumber: 3},
			bundle.DocumentationSource{Type: bundle.SourceDocumentation, ID: "doc1", FileName: "README.md", Title: "Shop API", FilePath: "README.md"},
		},
		Related: related.Entities{
			Services:     []string{"A", "B", "C", "D", "E", "F"},
			Dependencies: []string{"pg"},
		},
	}
}

func TestQueryPrompt_Sections(t *testing.T) {
	p := newBuilder(t)

	out, err := p.QueryPrompt("where is getUser?", sampleBundle())
	require.NoError(t, err)

	for _, want := range []string{
		"Repository: shop-api",
		"Language: typescript",
		"User Query: where is getUser?",
		"## Available Functions/Code Elements:",
		"- **getUser**",
		"  Signature: `getUser(id: string)`",
		"  Location: `src/user.ts`",
		"  Line: 12",
		"  Relationships: 4 found",
		"    - uses: Postgres",
		"    - unknown: unknown",
		"## Services Used:",
		"- **Stripe** (stripe) - payments",
		"  Found in: `src/pay.ts`",
		"## Dependencies:",
		"- **axios** (v1.6.0) [npm]",
		"## Tools:",
		"- **eslint** (linter)",
		"  Config: `.eslintrc`",
		"## Tests:",
		"- **getUser returns user** (jest)",
		"## Documentation:",
		"- **Shop API**",
		"Related Services: A, B, C, D, E\n",
		"Related Dependencies: pg",
		"Be thorough but concise.",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "fourth", "only three relationships are shown")
	assert.NotContains(t, out, ", F")
}

func TestQueryPrompt_EmptyBundle(t *testing.T) {
	p := newBuilder(t)

	out, err := p.QueryPrompt("anything", &bundle.Bundle{})
	require.NoError(t, err)

	assert.Contains(t, out, "Repository: Unknown")
	assert.NotContains(t, out, "## Available Functions")
	assert.NotContains(t, out, "## Related Entities")
}

func TestRefactoringPrompt(t *testing.T) {
	p := newBuilder(t)

	report := impact.NewReport()
	for i := 0; i < 12; i++ {
		report.AffectedFunctions = append(report.AffectedFunctions, impact.AffectedFunction{
			ID: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("caller%d", i),
			FilePath: "src/x.go", Relationship: "calls", Risk: impact.RiskHigh,
		})
	}
	report.CallChains = []impact.CallChain{
		{Path: []string{"a", "b", "c"}, Depth: 3},
		{Path: nil, Depth: 0},
	}
	report.AffectedServices = []string{"Stripe"}

	out, err := p.RefactoringPrompt(report, "rename getUser")
	require.NoError(t, err)

	assert.Contains(t, out, "Proposed Changes: rename getUser")
	assert.Contains(t, out, "**Affected Functions**: 12")
	assert.Contains(t, out, "**Affected Services**: 1")
	assert.Contains(t, out, "**Affected Dependencies**: 0")
	assert.Contains(t, out, "- **caller9**")
	assert.NotContains(t, out, "caller10")
	assert.Contains(t, out, "  Risk: high")
	assert.Contains(t, out, "- a → b → c")
	assert.Equal(t, 1, strings.Count(out, " → b"))
}

func TestSummary(t *testing.T) {
	p := newBuilder(t)

	out, err := p.Summary(sampleBundle())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Found 6 relevant items in repository 'shop-api':"))
	assert.Contains(t, out, "**Functions/Code Elements (1):**\n- getUser (src/user.ts)")
	assert.Contains(t, out, "**Services (1):**\n- Stripe (stripe)")
	assert.Contains(t, out, "**Dependencies (1):**\n- axios (v1.6.0)")
	assert.NotContains(t, out, "eslint")
}

func TestSummary_Deterministic(t *testing.T) {
	p := newBuilder(t)
	b := sampleBundle()

	first, err := p.Summary(b)
	require.NoError(t, err)
	second, err := p.Summary(b)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
