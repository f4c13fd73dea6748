package store

import (
	"errors"
	"fmt"
)

// ErrNotOpen is returned by every operation issued before Open succeeded.
var ErrNotOpen = errors.New("task store is not open")

// Kind classifies store failures.
type Kind int

const (
	OpenFailure Kind = iota + 1
	WriteFailure
	ReadFailure
)

func (k Kind) String() string {
	switch k {
	case OpenFailure:
		return "open"
	case WriteFailure:
		return "write"
	case ReadFailure:
		return "read"
	default:
		return "unknown"
	}
}

// OpError describes a failed store operation.
type OpError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("task store %s (%s failure): %v", e.Op, e.Kind, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	// Keep the ready-guard error recognizable without unwrapping.
	if errors.Is(err, ErrNotOpen) {
		return err
	}
	return &OpError{Kind: kind, Op: op, Err: err}
}

// IsKind reports whether err is an OpError of the given kind.
func IsKind(err error, kind Kind) bool {
	var oe *OpError
	if errors.As(err, &oe) {
		return oe.Kind == kind
	}
	return false
}
