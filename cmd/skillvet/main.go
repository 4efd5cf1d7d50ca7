package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess          = 0 // Skill passed validation (possibly with warnings)
	ExitValidationFailed = 1 // Skill has one or more critical issues
	ExitError            = 2 // Configuration or runtime error
)

// ValidationFailedError indicates that validation ran to completion,
// but the skill has at least one critical issue.
type ValidationFailedError struct {
	Message string
}

func (e *ValidationFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var validationErr *ValidationFailedError
		if errors.As(err, &validationErr) {
			os.Exit(ExitValidationFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
