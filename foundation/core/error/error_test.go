// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, code lookup through
//              foreign error types, severity derivation and serialization.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-03-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2025-03-02 v0.2.0: Coder lookups and front-end codes

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"google.golang.org/grpc/codes"
)

// positionError mimics a parser error that carries its own code
type positionError struct {
	offset int
}

func (e *positionError) Error() string { return fmt.Sprintf("bad input at %d", e.offset) }
func (e *positionError) Code() Code    { return CodeSyntax }

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}
	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if err.Timestamp().IsZero() {
		t.Error("Timestamp() should not be zero")
	}
	if len(err.stackTrace) == 0 {
		t.Fatal("stack trace should not be empty")
	}
	if !strings.Contains(err.stackTrace[0].Function, "TestNew") {
		t.Errorf("first frame = %s, want the caller of New", err.stackTrace[0].Function)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		message      string
		wantNil      bool
		wantMsg      string
		wantCode     Code
		wantSeverity Severity
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:         "wrap standard error",
			err:          errors.New("original error"),
			message:      "wrapper message",
			wantMsg:      "wrapper message: original error",
			wantCode:     CodeUnknown,
			wantSeverity: SeverityMedium,
		},
		{
			name:         "wrap structured error",
			err:          New("disk full").WithCode(CodeStorageError),
			message:      "cache write failed",
			wantMsg:      "cache write failed: disk full",
			wantCode:     CodeStorageError,
			wantSeverity: SeverityHigh,
		},
		{
			name:         "wrap coder",
			err:          &positionError{offset: 4},
			message:      "parse failed",
			wantMsg:      "parse failed: bad input at 4",
			wantCode:     CodeSyntax,
			wantSeverity: SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Wrap(tt.err, tt.message)
			if tt.wantNil {
				if got != nil {
					t.Errorf("Wrap() = %v, want nil", got)
				}
				return
			}
			if got.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got.Error(), tt.wantMsg)
			}
			if got.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", got.Code(), tt.wantCode)
			}
			if got.Severity() != tt.wantSeverity {
				t.Errorf("Severity() = %v, want %v", got.Severity(), tt.wantSeverity)
			}
			if !errors.Is(got, tt.err) {
				t.Error("errors.Is() should find the wrapped error")
			}
		})
	}
}

func TestWrap_PreservesDetails(t *testing.T) {
	inner := New("inner").WithDetail("offset", 7).WithRequestID("req-1")
	outer := Wrap(inner, "outer").WithDetail("file", "main.em")

	details := outer.Details()
	if details["offset"] != 7 {
		t.Errorf("offset detail = %v, want 7", details["offset"])
	}
	if details["file"] != "main.em" {
		t.Errorf("file detail = %v, want main.em", details["file"])
	}
	if outer.RequestID() != "req-1" {
		t.Errorf("RequestID() = %q, want req-1", outer.RequestID())
	}
	if !errors.Is(outer, inner) {
		t.Error("outer should wrap inner")
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeUnknown},
		{"plain", errors.New("x"), CodeUnknown},
		{"structured", New("x").WithCode(CodeLexical), CodeLexical},
		{"coder", &positionError{}, CodeSyntax},
		{"fmt wrapped coder", fmt.Errorf("ctx: %w", &positionError{}), CodeSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
			if tt.want != CodeUnknown && !HasCode(tt.err, tt.want) {
				t.Errorf("HasCode(%v) = false", tt.want)
			}
		})
	}
}

func TestGetSeverity(t *testing.T) {
	if got := GetSeverity(&positionError{}); got != SeverityLow {
		t.Errorf("GetSeverity(coder) = %v, want low", got)
	}
	if got := GetSeverity(errors.New("x")); got != SeverityMedium {
		t.Errorf("GetSeverity(plain) = %v, want medium", got)
	}
	explicit := New("x").WithSeverity(SeverityCritical).WithCode(CodeSyntax)
	if got := GetSeverity(explicit); got != SeverityCritical {
		t.Errorf("explicit severity overridden: %v", got)
	}
}

func TestCode_Mappings(t *testing.T) {
	tests := []struct {
		code     Code
		grpc     codes.Code
		severity Severity
	}{
		{CodeLexical, codes.InvalidArgument, SeverityLow},
		{CodeSyntax, codes.InvalidArgument, SeverityLow},
		{CodeInputTooLarge, codes.ResourceExhausted, SeverityLow},
		{CodeInvalidConfig, codes.FailedPrecondition, SeverityHigh},
		{CodeStorageError, codes.Internal, SeverityHigh},
		{CodeCanceled, codes.Canceled, SeverityLow},
		{CodeInternal, codes.Internal, SeverityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			if !tt.code.IsValid() {
				t.Errorf("IsValid() = false")
			}
			if got := tt.code.GRPCCode(); got != tt.grpc {
				t.Errorf("GRPCCode() = %v, want %v", got, tt.grpc)
			}
			if got := GetSeverityFromCode(tt.code); got != tt.severity {
				t.Errorf("GetSeverityFromCode() = %v, want %v", got, tt.severity)
			}
		})
	}

	if Code("NOPE").IsValid() {
		t.Error("unknown code reported as valid")
	}
}

func TestError_MarshalJSON(t *testing.T) {
	err := Wrap(errors.New("root"), "outer").
		WithCode(CodeSyntax).
		WithOperation("ember.Engine.Parse").
		WithDetail("line", 3)

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("MarshalJSON() error = %v", marshalErr)
	}

	var decoded map[string]interface{}
	if jsonErr := json.Unmarshal(data, &decoded); jsonErr != nil {
		t.Fatalf("invalid JSON: %v", jsonErr)
	}

	checks := map[string]interface{}{
		"message":   "outer",
		"code":      "SYNTAX",
		"severity":  "low",
		"operation": "ember.Engine.Parse",
		"cause":     "root",
	}
	for key, want := range checks {
		if decoded[key] != want {
			t.Errorf("%s = %v, want %v", key, decoded[key], want)
		}
	}
}

func TestError_String(t *testing.T) {
	err := New("boom").WithCode(CodeSyntax).WithDetail("b", 2).WithDetail("a", 1)
	s := err.String()

	for _, want := range []string{"Error: boom", "Code: SYNTAX", "Severity: low", "Details: {a=1, b=2}"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
}
