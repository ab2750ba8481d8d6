package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{NotFound("Product", nil), "NOT_FOUND", http.StatusNotFound},
		{BadRequest("bad", nil), "BAD_REQUEST", http.StatusBadRequest},
		{Unauthorized("no", nil), "UNAUTHORIZED", http.StatusUnauthorized},
		{Forbidden("no", nil), "FORBIDDEN", http.StatusForbidden},
		// Business-rule conflicts surface as 400, not 409.
		{Conflict("taken"), "CONFLICT", http.StatusBadRequest},
		{Unprocessable("invalid", nil), "VALIDATION_ERROR", http.StatusUnprocessableEntity},
		{Unavailable("down", nil), "DEPENDENCY_UNAVAILABLE", http.StatusServiceUnavailable},
		{Internal("boom", nil), "INTERNAL_ERROR", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, tt.err.Code)
		assert.Equal(t, tt.status, tt.err.Status)
	}
}

func TestIsMatchesWrappedErrors(t *testing.T) {
	base := NotFound("Product", nil)
	wrapped := fmt.Errorf("lookup failed: %w", base)

	assert.True(t, Is(wrapped, "NOT_FOUND"))
	assert.False(t, Is(wrapped, "FORBIDDEN"))
	assert.False(t, Is(stderrors.New("plain"), "NOT_FOUND"))
}

func TestUnwrap(t *testing.T) {
	cause := stderrors.New("driver failure")
	err := Internal("query failed", cause)

	assert.Equal(t, cause, stderrors.Unwrap(err))
	assert.Equal(t, "INTERNAL_ERROR: query failed", err.Error())
}
