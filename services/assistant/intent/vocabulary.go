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

import "regexp"

// Intent is the kind of information a query asks for.
type Intent string

const (
	FindFunctions     Intent = "find_functions"
	ListServices      Intent = "list_services"
	FindDependencies  Intent = "find_dependencies"
	RefactoringImpact Intent = "refactoring_impact"
	ToolDiscovery     Intent = "tool_discovery"
	FindTests         Intent = "find_tests"
	FindDocumentation Intent = "find_documentation"
	General           Intent = "general"
)

// All lists every intent, General last.
var All = []Intent{
	FindFunctions, ListServices, FindDependencies, RefactoringImpact,
	ToolDiscovery, FindTests, FindDocumentation, General,
}

// Valid reports whether i is a known intent.
func (i Intent) Valid() bool {
	for _, known := range All {
		if i == known {
			return true
		}
	}
	return false
}

// intentRule binds an intent to the patterns that select it.
type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// intentRules is evaluated top to bottom and the first rule with a matching
// pattern wins. Order matters: "what functions would break if I rename X"
// is FindFunctions, not RefactoringImpact. Patterns match anywhere in the
// lowercased query, without word boundaries.
var intentRules = []intentRule{
	{FindFunctions, compileAll(
		`what functions`,
		`show.*functions`,
		`list.*functions`,
		`functions.*available`,
		`how.*function`,
		`which functions`,
	)},
	{ListServices, compileAll(
		`what services`,
		`which services`,
		`services.*used`,
		`show.*services`,
		`list.*services`,
	)},
	{FindDependencies, compileAll(
		`what dependencies`,
		`which dependencies`,
		`dependencies.*used`,
		`list.*dependencies`,
	)},
	{RefactoringImpact, compileAll(
		`what would break`,
		`what.*impact`,
		`refactor`,
		`rename`,
		`remove`,
		`change`,
		`can i.*remove`,
		`can i.*rename`,
		`safe.*remove`,
	)},
	{ToolDiscovery, compileAll(
		`what tools`,
		`build tools`,
		`test.*tools`,
		`linter`,
		`which tools`,
	)},
	{FindTests, compileAll(
		`what tests`,
		`which tests`,
		`show.*tests`,
		`list.*tests`,
		`unit tests?`,
		`test coverage`,
		`tested`,
	)},
	{FindDocumentation, compileAll(
		`documentation`,
		`readme`,
		`what docs`,
		`which docs`,
		`show.*docs`,
		`list.*docs`,
		`documented`,
	)},
}

// topicVocabulary is scanned in order; its order is the order of
// Classification.Topics.
var topicVocabulary = []string{
	"authentication", "auth", "storage", "database", "api", "firebase",
	"aws", "stripe", "payment", "email", "notification", "user", "admin",
	"file", "upload", "download", "session", "token", "security",
	"encryption", "validation",
}

// DefaultStopWords is removed from extracted entities. It is the single
// list used both by the classifier and by name matching downstream.
var DefaultStopWords = []string{
	"what", "which", "show", "list", "the", "are", "is", "a", "an", "to",
	"for", "with", "from", "functions", "function", "available",
}

var (
	quotedPattern = regexp.MustCompile(`"([^"]+)"`)
	tokenPattern  = regexp.MustCompile(`\b([a-z][a-zA-Z0-9_]*)\b`)
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}
