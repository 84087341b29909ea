package normalize

import (
	"errors"
	"fmt"
)

var (
	ErrBadDate     = errors.New("unparsable date")
	ErrMissingName = errors.New("missing team name")
	ErrSelfMatch   = errors.New("team and opponent are the same")
)

// RowError is a row that cannot be normalized at all. It aborts a load.
type RowError struct {
	Line  int
	Field string
	Value string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Warning records a cell that was coerced (rounds -> 0) or dropped
// (rank/percentage -> absent). Warnings never fail a row.
type Warning struct {
	Line   int
	Field  string
	Value  string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d: %s %q: %s", w.Line, w.Field, w.Value, w.Reason)
}
