package main

import (
	"errors"
	"fmt"
	"os"

	"feedback_analyzer/internal/domain"
)

// Exit codes for different failure modes
const (
	ExitSuccess      = 0
	ExitError        = 1 // runtime failure (oracle, I/O, configuration)
	ExitInvalidInput = 2 // missing/malformed input, schema or row errors
	ExitEmptyDataset = 3 // input had no rows; the "no data" report was still written
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, domain.ErrEmptyDataset):
		return ExitEmptyDataset
	case errors.Is(err, domain.ErrInputNotFound),
		errors.Is(err, domain.ErrMalformedInput),
		errors.Is(err, domain.ErrSchema),
		errors.Is(err, domain.ErrInvalidRow),
		errors.Is(err, domain.ErrEmptyText),
		errors.Is(err, domain.ErrTextTooLong):
		return ExitInvalidInput
	default:
		return ExitError
	}
}
