package network

import (
	"errors"
	"fmt"
)

// Sentinel causes carried by NetworkLoadError.
var (
	ErrUnreadable    = errors.New("edge table unreadable")
	ErrEmptyTable    = errors.New("edge table is empty")
	ErrNoValidEdges  = errors.New("no valid edges remain after filtering")
	ErrUnknownFormat = errors.New("unknown network format")
	ErrMissingColumn = errors.New("required column missing from header")
	ErrSelfLoop      = errors.New("self-loop")
	ErrEmptyID       = errors.New("empty node identifier")
)

// NetworkLoadError reports why an edge table could not be turned into a
// Network. It is fatal: callers must not run propagation after it.
type NetworkLoadError struct {
	Op    string // "open", "parse", "build"
	Path  string // source path, empty for in-memory readers
	Line  int    // 1-based line, 0 when not tied to a row
	Cause error
}

// Error implements the error interface.
func (e *NetworkLoadError) Error() string {
	src := e.Path
	if src == "" {
		src = "<reader>"
	}
	if e.Line > 0 {
		return fmt.Sprintf("network %s %s:%d: %v", e.Op, src, e.Line, e.Cause)
	}
	return fmt.Sprintf("network %s %s: %v", e.Op, src, e.Cause)
}

// Unwrap returns the underlying cause for error chain support.
func (e *NetworkLoadError) Unwrap() error {
	return e.Cause
}

func loadError(op, path string, line int, cause error) *NetworkLoadError {
	return &NetworkLoadError{Op: op, Path: path, Line: line, Cause: cause}
}
