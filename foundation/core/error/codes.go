// File: codes.go
// Title: Error Codes
// Description: Defines the structured error codes used across the ember
//              front end, the category each belongs to and the gRPC status
//              that the parse service maps it to.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial error codes
// - 2025-03-02 v0.2.0: Front-end codes, gRPC mapping replaces HTTP mapping

package error

import (
	"google.golang.org/grpc/codes"
)

// Code represents a structured error code for categorizing errors
type Code string

const (
	// Generic codes
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeCanceled     Code = "CANCELED"

	// Front end
	CodeLexical       Code = "LEXICAL"
	CodeSyntax        Code = "SYNTAX"
	CodeInputTooLarge Code = "INPUT_TOO_LARGE"

	// Configuration
	CodeConfigError   Code = "CONFIG_ERROR"
	CodeInvalidConfig Code = "INVALID_CONFIG"

	// Storage and service
	CodeStorageError       Code = "STORAGE_ERROR"
	CodeServiceUnavailable Code = "SERVICE_UNAVAILABLE"
)

// String returns the string representation of the error code
func (c Code) String() string {
	return string(c)
}

// IsValid checks if the error code is a known valid code
func (c Code) IsValid() bool {
	switch c {
	case CodeUnknown, CodeInternal, CodeInvalidInput, CodeNotFound, CodeCanceled,
		CodeLexical, CodeSyntax, CodeInputTooLarge,
		CodeConfigError, CodeInvalidConfig,
		CodeStorageError, CodeServiceUnavailable:
		return true
	default:
		return false
	}
}

// GRPCCode returns the gRPC status code the parse service reports for this error code
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeLexical, CodeSyntax, CodeInvalidInput:
		return codes.InvalidArgument
	case CodeInputTooLarge:
		return codes.ResourceExhausted
	case CodeNotFound:
		return codes.NotFound
	case CodeCanceled:
		return codes.Canceled
	case CodeServiceUnavailable:
		return codes.Unavailable
	case CodeConfigError, CodeInvalidConfig:
		return codes.FailedPrecondition
	default:
		return codes.Internal
	}
}
