// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command archassist serves and queries the architecture assistant.
//
// Usage:
//
//	archassist serve [--port 8090]
//	archassist ask "what services are used?" --repo <id>
//	archassist classify "list all dependencies"
//	archassist impact <element-id>... --repo <id> [--fail-on medium]
package main

import (
	"errors"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		code := CLIExitError
		var ce *cliError
		if errors.As(err, &ce) {
			code = ce.code
			if ce.err == nil {
				os.Exit(code)
			}
			err = ce.err
		}
		outputError(os.Stdout, os.Stderr, jsonOutput, err)
		os.Exit(code)
	}
}
