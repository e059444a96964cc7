// Package lending implements the borrow/return transaction core. Every
// mutation pairs a borrow-record write with the matching quantity change on
// the ledger inside one atomic commit, so the two can never drift apart.
package lending

import "errors"

// ErrNotFound is returned when a borrow record does not exist.
var ErrNotFound = errors.New("borrow record not found")

// ErrInvalidInput marks failures of a business rule on caller-supplied data.
// Match with errors.Is; the concrete detail travels in InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError carries the human-readable detail of a rejected input.
type InvalidInputError struct {
	Detail string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Detail
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(detail string) error {
	return &InvalidInputError{Detail: detail}
}
