// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package related

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AleutianAI/ArchAssist/services/assistant/decoder"
)

func TestResolve(t *testing.T) {
	first := []decoder.Relationship{
		{TargetType: "service", TargetName: "Stripe"},
		{TargetType: "dependency", TargetName: "axios"},
		{TargetType: "code_element", TargetName: "helper"},
	}
	second := []decoder.Relationship{
		{TargetType: "service", TargetName: "Firebase"},
		{TargetType: "service", TargetName: "Stripe"},
		{TargetType: "dependency", TargetName: ""},
	}

	got := Resolve(first, second)

	assert.Equal(t, []string{"Firebase", "Stripe"}, got.Services)
	assert.Equal(t, []string{"axios"}, got.Dependencies)
	assert.False(t, got.Empty())
}

func TestResolve_OrderIndependent(t *testing.T) {
	rels := []decoder.Relationship{
		{TargetType: "service", TargetName: "SendGrid"},
		{TargetType: "service", TargetName: "AWS S3"},
		{TargetType: "dependency", TargetName: "lodash"},
		{TargetType: "dependency", TargetName: "express"},
	}
	reversed := make([]decoder.Relationship, len(rels))
	for i, r := range rels {
		reversed[len(rels)-1-i] = r
	}

	assert.Equal(t, Resolve(rels), Resolve(reversed))
}

func TestResolve_Empty(t *testing.T) {
	got := Resolve()

	assert.NotNil(t, got.Services)
	assert.NotNil(t, got.Dependencies)
	assert.True(t, got.Empty())
}
