// File: internal/services/apperrors/errors_test.go
package apperrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestTypeHelpers(t *testing.T) {
	cases := []struct {
		err   error
		check func(error) bool
		name  string
	}{
		{NewValidationError("op", "bad input"), IsValidation, "validation"},
		{NewPayloadTooLargeError("op", "too big"), IsPayloadTooLarge, "payload"},
		{NewNotFoundError("op", "missing"), IsNotFound, "not found"},
		{NewStorageError("op", "write failed", errors.New("io")), IsStorage, "storage"},
		{NewUpstreamError("op", "llm down", errors.New("timeout")), IsUpstream, "upstream"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(tc.err) {
				t.Fatalf("helper rejected its own error: %v", tc.err)
			}
			if IsValidation(tc.err) && tc.name != "validation" {
				t.Fatalf("cross-type match for %v", tc.err)
			}
		})
	}
}

func TestHelpersMatchWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewNotFoundError("op", "gone"))
	if !IsNotFound(wrapped) {
		t.Fatal("wrapped not-found error not recognized")
	}
	if IsNotFound(errors.New("plain")) {
		t.Fatal("plain error recognized as not-found")
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("ingest_chunks", "chunk persistence failed", cause)
	if !errors.Is(err, cause) {
		t.Fatal("cause lost through Unwrap")
	}
}
