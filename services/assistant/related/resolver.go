// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package related derives the services and dependencies referenced by
// relationship data that has already been fetched. It performs no I/O.
package related

import (
	"sort"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
)

// Entities holds distinct related names, each list sorted ascending.
type Entities struct {
	Services     []string `json:"services"`
	Dependencies []string `json:"dependencies"`
}

// Resolve collects the distinct target names of every relationship whose
// target type is a service or a dependency.
//
// Relationships without a target name are skipped. Both output lists are
// non-nil and sorted, so equal inputs always give equal outputs regardless
// of relationship order.
func Resolve(relationshipLists ...[]decoder.Relationship) Entities {
	services := make(map[string]struct{})
	deps := make(map[string]struct{})

	for _, rels := range relationshipLists {
		for _, rel := range rels {
			if rel.TargetName == "" {
				continue
			}
			switch rel.TargetType {
			case decoder.TargetService:
				services[rel.TargetName] = struct{}{}
			case decoder.TargetDependency:
				deps[rel.TargetName] = struct{}{}
			}
		}
	}

	return Entities{
		Services:     sortedKeys(services),
		Dependencies: sortedKeys(deps),
	}
}

// Empty reports whether no related entity was found.
func (e Entities) Empty() bool {
	return len(e.Services) == 0 && len(e.Dependencies) == 0
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
