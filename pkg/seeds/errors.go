package seeds

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptySeedList = errors.New("seed list is empty")
	ErrNilNetwork    = errors.New("network is nil")
)

// Reason explains why an input identifier did not become a seed.
type Reason string

const (
	ReasonNotInNetwork Reason = "not_in_network"
	ReasonIsolated     Reason = "isolated"
)

// Unresolved is an input identifier that did not map onto an active node.
type Unresolved struct {
	Input  string `yaml:"input"`
	Reason Reason `yaml:"reason"`
}

// NoSeedsResolvedError is returned when none of the inputs maps onto an
// active network node. It is fatal: neither engine may run without seeds.
type NoSeedsResolvedError struct {
	Unresolved []Unresolved
}

// Error implements the error interface.
func (e *NoSeedsResolvedError) Error() string {
	if len(e.Unresolved) == 0 {
		return "no seeds resolved: empty input"
	}
	parts := make([]string, 0, len(e.Unresolved))
	for _, u := range e.Unresolved {
		parts = append(parts, fmt.Sprintf("%s (%s)", u.Input, u.Reason))
	}
	return fmt.Sprintf("no seeds resolved: %d unresolved: %s", len(e.Unresolved), strings.Join(parts, ", "))
}
