package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationFailedError(t *testing.T) {
	err := &ValidationFailedError{
		Message: "validation failed: 2 critical issue(s) in skill pdf-processing",
	}

	assert.Equal(t, "validation failed: 2 critical issue(s) in skill pdf-processing", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{
			name:     "ValidationFailedError",
			err:      &ValidationFailedError{Message: "validation failed"},
			wantType: "ValidationFailedError",
		},
		{
			name:     "regular error",
			err:      errors.New("config error"),
			wantType: "other",
		},
		{
			name:     "wrapped ValidationFailedError",
			err:      errors.Join(&ValidationFailedError{Message: "validation failed"}, errors.New("additional context")),
			wantType: "ValidationFailedError",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var validationErr *ValidationFailedError
			isValidationFailure := errors.As(tt.err, &validationErr)

			if tt.wantType == "ValidationFailedError" {
				assert.True(t, isValidationFailure, "expected error to be detected as ValidationFailedError")
			} else {
				assert.False(t, isValidationFailure, "expected error NOT to be detected as ValidationFailedError")
			}
		})
	}
}
