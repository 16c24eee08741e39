package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // Document scored at or above the threshold
	ExitQualityGate = 1 // Document scored below the threshold or hit --fail-on
	ExitError       = 2 // Configuration or runtime error
)

// QualityGateError indicates the document was scored successfully but failed
// the configured quality gate.
type QualityGateError struct {
	Message string
}

func (e *QualityGateError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var gateErr *QualityGateError
		if errors.As(err, &gateErr) {
			os.Exit(ExitQualityGate)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
