// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package bundle

import (
	"strings"
	"unicode/utf8"
)

// DefaultVendorMarkers are path fragments of vendored or installed
// third-party code. Code elements under them never reach a bundle.
var DefaultVendorMarkers = []string{
	"vendor/",
	"node_modules/",
	"venv/",
	".venv/",
	"__pycache__/",
	"site-packages/",
}

// previewLimit caps DocumentationSource.ContentPreview, in characters.
const previewLimit = 500

// matcher implements the shared case-insensitive substring rule.
//
// With topics, an item matches when a topic occurs in its name or in one
// of its secondary fields. Without topics but with entities, an entity must
// occur in the name. With neither, everything matches.
type matcher struct {
	topics   []string
	entities []string
}

// newMatcher drops stop-word entities unless they appear in quoted.
func newMatcher(topics, entities, quoted []string, isStopWord func(string) bool) matcher {
	m := matcher{}
	keep := make(map[string]struct{}, len(quoted))
	for _, q := range quoted {
		keep[q] = struct{}{}
	}
	for _, t := range topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			m.topics = append(m.topics, t)
		}
	}
	for _, e := range entities {
		if _, ok := keep[e]; !ok && isStopWord != nil && isStopWord(e) {
			continue
		}
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			m.entities = append(m.entities, e)
		}
	}
	return m
}

// topicsOnly drops entity matching, for strategies that filter by topic alone.
func (m matcher) topicsOnly() matcher {
	return matcher{topics: m.topics}
}

func (m matcher) match(name string, secondary ...string) bool {
	if len(m.topics) > 0 {
		fields := make([]string, 0, len(secondary)+1)
		fields = append(fields, strings.ToLower(name))
		for _, s := range secondary {
			if s != "" {
				fields = append(fields, strings.ToLower(s))
			}
		}
		for _, t := range m.topics {
			for _, f := range fields {
				if strings.Contains(f, t) {
					return true
				}
			}
		}
		return false
	}

	if len(m.entities) > 0 {
		lname := strings.ToLower(name)
		for _, e := range m.entities {
			if strings.Contains(lname, e) {
				return true
			}
		}
		return false
	}

	return true
}

func isVendored(path string, markers []string) bool {
	p := strings.ToLower(strings.ReplaceAll(path, "\\", "/"))
	for _, m := range markers {
		if m != "" && strings.Contains(p, strings.ToLower(m)) {
			return true
		}
	}
	return false
}

// truncate cuts s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// head returns the first n items of items.
func head[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
