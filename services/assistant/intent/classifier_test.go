// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package intent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Intent(t *testing.T) {
	c := New()
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  Intent
	}{
		{"functions by topic", "what functions use Firebase?", FindFunctions},
		{"how function", "How does the login function work", FindFunctions},
		{"remove", "can I remove getAdminStorage?", RefactoringImpact},
		{"what would break", "what would break if I change the auth api", RefactoringImpact},
		{"services", "what services are used here", ListServices},
		{"services used", "Services used for email", ListServices},
		{"dependencies", "list all dependencies used by the api", FindDependencies},
		{"tools", "what tools are configured", ToolDiscovery},
		{"test tools", "which test runner tools exist", ToolDiscovery},
		{"linter", "is there a linter", ToolDiscovery},
		{"tests", "which tests cover login", FindTests},
		{"show tests", "show me the tests for payment", FindTests},
		{"readme", "where is the README", FindDocumentation},
		{"documented", "is the upload flow documented", FindDocumentation},
		{"no match", "hello there", General},
		{"empty", "", General},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(ctx, tt.query)
			assert.Equal(t, tt.want, got.Intent)
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	c := New()

	// Matches both the function and the refactoring rules.
	got := c.Classify(context.Background(), "which functions would break if I rename parseToken")
	assert.Equal(t, FindFunctions, got.Intent)

	// Matches both the services and the refactoring rules.
	got = c.Classify(context.Background(), "which services change if I remove the queue")
	assert.Equal(t, ListServices, got.Intent)
}

func TestClassify_Firebase(t *testing.T) {
	got := New().Classify(context.Background(), "what functions use Firebase?")

	assert.Equal(t, FindFunctions, got.Intent)
	assert.Contains(t, got.Topics, "firebase")
	assert.Equal(t, []string{"use"}, got.Entities)
}

func TestClassify_RemoveEntities(t *testing.T) {
	got := New().Classify(context.Background(), "can I remove getAdminStorage?")

	assert.Equal(t, RefactoringImpact, got.Intent)
	assert.Equal(t, []string{"can", "getAdminStorage", "remove"}, got.Entities)
	assert.Equal(t, []string{"storage", "admin"}, got.Topics)
}

func TestClassify_GeneralHasNoTopics(t *testing.T) {
	got := New().Classify(context.Background(), "hello there")

	assert.Equal(t, General, got.Intent)
	assert.NotNil(t, got.Topics)
	assert.Empty(t, got.Topics)
	assert.Equal(t, []string{"hello", "there"}, got.Entities)
}

func TestClassify_EmptyQuery(t *testing.T) {
	got := New().Classify(context.Background(), "")

	assert.Equal(t, General, got.Intent)
	assert.NotNil(t, got.Entities)
	assert.Empty(t, got.Entities)
	assert.NotNil(t, got.Topics)
	assert.Empty(t, got.Topics)
}

func TestClassify_QuotedSubstringVerbatim(t *testing.T) {
	c := New()
	queries := map[string]string{
		`where is "UserService.Login" called`: "UserService.Login",
		`find "payment gateway" code`:         "payment gateway",
		`what calls "the"`:                    "the",
		`"X"`:                                 "X",
	}

	for query, quoted := range queries {
		got := c.Classify(context.Background(), query)
		assert.Contains(t, got.Entities, quoted, "query %q", query)
	}
}

func TestClassify_QuotedStopWordKept(t *testing.T) {
	got := New().Classify(context.Background(), `find "list" helpers`)

	assert.Equal(t, []string{"find", "helpers", "list"}, got.Entities)
	assert.Equal(t, []string{"list"}, got.Quoted)
}

func TestClassify_UnquotedHasNoQuoted(t *testing.T) {
	got := New().Classify(context.Background(), "list the helpers")

	assert.Nil(t, got.Quoted)
}

func TestClassify_StopWordsRemoved(t *testing.T) {
	got := New().Classify(context.Background(), "what is the list of available functions for the user")

	assert.Equal(t, []string{"of", "user"}, got.Entities)
}

func TestClassify_DuplicatesCollapse(t *testing.T) {
	got := New().Classify(context.Background(), "token token refresh token")

	assert.Equal(t, []string{"refresh", "token"}, got.Entities)
	assert.Equal(t, []string{"token"}, got.Topics)
}

func TestClassify_TopicsInVocabularyOrder(t *testing.T) {
	got := New().Classify(context.Background(), "encryption of stripe payment tokens in the database")

	assert.Equal(t, []string{"database", "stripe", "payment", "token", "encryption"}, got.Topics)
}

func TestClassify_TopicsSubstring(t *testing.T) {
	got := New().Classify(context.Background(), "AUTHENTICATION flow")

	assert.Equal(t, []string{"authentication", "auth"}, got.Topics)
}

func TestClassify_CustomStopWords(t *testing.T) {
	c := New(WithStopWords([]string{"Hello"}))
	got := c.Classify(context.Background(), "hello there")

	assert.Equal(t, []string{"there"}, got.Entities)
	assert.True(t, c.IsStopWord("HELLO"))
	assert.False(t, c.IsStopWord("what"))
}

func TestClassify_NilContext(t *testing.T) {
	got := New().Classify(nil, "what tools")
	assert.Equal(t, ToolDiscovery, got.Intent)
}

func TestIntent_Valid(t *testing.T) {
	for _, i := range All {
		assert.True(t, i.Valid(), string(i))
	}
	assert.False(t, Intent("find_everything").Valid())
}

func TestIntentRules_CoverEveryNonGeneralIntent(t *testing.T) {
	covered := make(map[Intent]bool)
	for _, rule := range intentRules {
		covered[rule.intent] = true
		assert.NotEmpty(t, rule.patterns, string(rule.intent))
	}
	for _, i := range All {
		if i == General {
			assert.False(t, covered[i])
			continue
		}
		assert.True(t, covered[i], "no rule for %s", i)
	}
}
