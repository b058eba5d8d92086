// ============================================================================
// ember - Lexer, Parser und AST
// ============================================================================
//
// Package:     version
// Description: Central version management for the ember components
// Author:      Mike Stoffels
// Created:     2025-03-06
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for the ember components
const (
	// Release version of the ember tool chain
	Platform = "0.1.0"

	// Component versions
	Parser  = "0.1.0"
	Engine  = "0.1.0"
	Service = "0.1.0"
	CLI     = "0.1.0"
)

// Build metadata, overridden via -ldflags "-X ...".
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "parser":
		return Parser
	case "engine":
		return Engine
	case "service", "serve":
		return Service
	case "cli":
		return CLI
	default:
		return Platform
	}
}

// Info returns a one-line description of the running build
func Info() string {
	return fmt.Sprintf("ember %s (commit %s, built %s, %s %s/%s)",
		Platform, Commit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
