package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"travelblog/errs"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	if got := errs.ErrorCode(nil); got != "" {
		t.Errorf("nil error: code = %q, want empty", got)
	}
	err := errs.Errorf(errs.EFORBIDDEN, "nope")
	if got := errs.ErrorCode(err); got != errs.EFORBIDDEN {
		t.Errorf("code = %q, want %q", got, errs.EFORBIDDEN)
	}
	wrapped := fmt.Errorf("while doing something: %w", err)
	if got := errs.ErrorCode(wrapped); got != errs.EFORBIDDEN {
		t.Errorf("wrapped code = %q, want %q", got, errs.EFORBIDDEN)
	}
	if got := errs.ErrorCode(errors.New("driver exploded")); got != errs.EINTERNAL {
		t.Errorf("plain error code = %q, want %q", got, errs.EINTERNAL)
	}
}

func TestErrorMessage(t *testing.T) {
	t.Parallel()

	err := errs.Errorf(errs.ENOTFOUND, "The post does not exist.")
	if got := errs.ErrorMessage(err); got != "The post does not exist." {
		t.Errorf("message = %q", got)
	}
	// Internals never leak.
	if got := errs.ErrorMessage(errors.New("pq: connection refused")); got != "Internal error." {
		t.Errorf("plain error message = %q, want generic", got)
	}
}

func TestErrorStatusCode(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		errs.ECONFLICT:        http.StatusConflict,
		errs.EINVALID:         http.StatusBadRequest,
		errs.ENOTFOUND:        http.StatusNotFound,
		errs.EUNAUTHENTICATED: http.StatusUnauthorized,
		errs.EFORBIDDEN:       http.StatusForbidden,
		errs.EINTERNAL:        http.StatusInternalServerError,
		"made-up":             http.StatusInternalServerError,
	}
	for code, want := range tests {
		if got := errs.ErrorStatusCode(code); got != want {
			t.Errorf("status(%q) = %d, want %d", code, got, want)
		}
	}
}
