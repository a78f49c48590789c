package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInputNotFound  = errors.New("input not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrSchema         = errors.New("missing required column " + ColReviewText)
	ErrEmptyDataset   = errors.New("no data: dataset has zero rows")
	ErrInvalidRow     = errors.New("invalid row")
	ErrEmptyText      = errors.New("review text is empty")
	ErrTextTooLong    = errors.New("review text too long")
)

// RowError describes a single rejected row.
type RowError struct {
	Line   int    `json:"line"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %s", e.Line, e.Field, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrInvalidRow }

// RowPolicy decides what happens to rows with a null or invalid field.
type RowPolicy int

const (
	// RowPolicyReject fails the whole batch on the first invalid row.
	RowPolicyReject RowPolicy = iota
	// RowPolicySkip drops invalid rows and reports them.
	RowPolicySkip
)

// ParseRowPolicy accepts "reject" or "skip".
func ParseRowPolicy(s string) (RowPolicy, error) {
	switch s {
	case "", "reject":
		return RowPolicyReject, nil
	case "skip":
		return RowPolicySkip, nil
	}
	return RowPolicyReject, fmt.Errorf("unknown row policy %q (want reject|skip)", s)
}

func (p RowPolicy) String() string {
	if p == RowPolicySkip {
		return "skip"
	}
	return "reject"
}
