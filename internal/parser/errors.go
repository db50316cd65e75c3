package parser

import (
	"errors"
	"strings"
)

// ErrNoTransactionsFound is matched by every NoTransactionsError.
var ErrNoTransactionsFound = errors.New("no transactions found")

// NoTransactionsError reports a parse that completed without producing a
// single transaction. Reasons holds the soft errors collected on the way.
type NoTransactionsError struct {
	Reasons []string
}

func (e *NoTransactionsError) Error() string {
	if len(e.Reasons) == 0 {
		return ErrNoTransactionsFound.Error()
	}
	return ErrNoTransactionsFound.Error() + ": " + strings.Join(e.Reasons, "; ")
}

func (e *NoTransactionsError) Is(target error) bool {
	return target == ErrNoTransactionsFound
}
