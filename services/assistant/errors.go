// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package assistant

import (
	"errors"

	"github.com/AleutianAI/ArchAssist/services/assistant/bundle"
	"github.com/AleutianAI/ArchAssist/services/assistant/impact"
)

// Sentinel errors for the assistant service.
var (
	// ErrInvalidRequest indicates a malformed request.
	ErrInvalidRequest = errors.New("invalid request")
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

// IsInvalid reports whether err was caused by malformed input.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, bundle.ErrInvalidArgument) ||
		errors.Is(err, impact.ErrInvalidArgument)
}
