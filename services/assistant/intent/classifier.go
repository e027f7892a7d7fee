// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package intent classifies free-text developer questions.
//
// A query is mapped to one Intent through an ordered pattern table, and two
// kinds of search terms are pulled out of it: topics from a fixed vocabulary
// and free-form entities used for literal name matching.
package intent

import (
	"context"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Classification is the result of classifying one query.
type Classification struct {
	Query    string   `json:"query"`
	Intent   Intent   `json:"intent"`
	Entities []string `json:"entities"`
	Topics   []string `json:"topics"`
	// Quoted lists the entities the query quoted. They match even when
	// they are stop words.
	Quoted []string `json:"quoted,omitempty"`
}

// Classifier maps queries to intents, topics and entities.
//
// Thread Safety: Safe for concurrent use. All state is read-only after New.
type Classifier struct {
	stopWords map[string]struct{}
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithStopWords replaces DefaultStopWords. Words are compared lowercased.
func WithStopWords(words []string) Option {
	return func(c *Classifier) {
		c.stopWords = toSet(words)
	}
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{stopWords: toSet(DefaultStopWords)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsStopWord reports whether word is on the classifier's stop-word list.
func (c *Classifier) IsStopWord(word string) bool {
	_, ok := c.stopWords[strings.ToLower(word)]
	return ok
}

// Classify resolves the intent, topics and entities of query.
//
// Description:
//
//	Intent is the first entry of the ordered rule table with a pattern
//	matching the lowercased query; General when none match. Topics are the
//	vocabulary terms contained in the lowercased query, in vocabulary
//	order. Entities are every quoted substring, verbatim, plus every
//	identifier-shaped token that starts with a lowercase letter and is not
//	a stop word. Entities are deduplicated and sorted. Quoted repeats the
//	quoted subset so stop-word filtering downstream can spare it.
//
// Inputs:
//
//	ctx - Context for tracing. May be nil.
//	query - Raw user question. May be empty.
//
// Outputs:
//
//	Classification - Never fails; Entities and Topics are non-nil.
//
// Example:
//
//	c := intent.New()
//	got := c.Classify(ctx, "what functions use Firebase?")
//	// got.Intent == intent.FindFunctions, got.Topics == ["firebase"]
//
// Thread Safety: Safe for concurrent use.
func (c *Classifier) Classify(ctx context.Context, query string) Classification {
	if ctx == nil {
		ctx = context.Background()
	}
	_, span := otel.Tracer("assistant.intent").Start(ctx, "intent.Classifier.Classify",
		trace.WithAttributes(attribute.Int("query_length", len(query))),
	)
	defer span.End()

	lower := strings.ToLower(query)
	entities, quoted := c.extractEntities(query)
	result := Classification{
		Query:    query,
		Intent:   resolveIntent(lower),
		Entities: entities,
		Topics:   extractTopics(lower),
		Quoted:   quoted,
	}

	span.SetAttributes(
		attribute.String("intent", string(result.Intent)),
		attribute.Int("entities", len(result.Entities)),
		attribute.Int("topics", len(result.Topics)),
	)
	return result
}

func resolveIntent(lower string) Intent {
	for _, rule := range intentRules {
		for _, p := range rule.patterns {
			if p.MatchString(lower) {
				return rule.intent
			}
		}
	}
	return General
}

func (c *Classifier) extractEntities(query string) (entities, quoted []string) {
	seen := make(map[string]struct{})

	// Quoted text is kept even when it is a stop word.
	for _, m := range quotedPattern.FindAllStringSubmatch(query, -1) {
		if _, dup := seen[m[1]]; !dup {
			quoted = append(quoted, m[1])
		}
		seen[m[1]] = struct{}{}
	}
	for _, m := range tokenPattern.FindAllStringSubmatch(query, -1) {
		if c.IsStopWord(m[1]) {
			continue
		}
		seen[m[1]] = struct{}{}
	}

	entities = make([]string, 0, len(seen))
	for e := range seen {
		entities = append(entities, e)
	}
	sort.Strings(entities)
	sort.Strings(quoted)
	return entities, quoted
}

func extractTopics(lower string) []string {
	topics := make([]string, 0, 4)
	for _, term := range topicVocabulary {
		if strings.Contains(lower, term) {
			topics = append(topics, term)
		}
	}
	return topics
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	return set
}
