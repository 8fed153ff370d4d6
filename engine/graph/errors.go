package graph

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotCompiled is returned by Execute when no successful Compile has run.
	ErrNotCompiled = errors.New("graph: execute called without a compiled plan")

	// ErrDisposed is returned by Execute and Compile after Dispose.
	ErrDisposed = errors.New("graph: engine has been disposed")

	// ErrNotSized is returned by Execute when SetSize was never called and no
	// initial size was configured.
	ErrNotSized = errors.New("graph: viewport size has not been set")
)

// CompileError aggregates every hard configuration problem found during a
// compile: unknown resource ids, invalid attachment selectors, duplicate
// writers, dependency cycles. A compile that produces one of these yields no
// plan at all.
type CompileError struct {
	// Problems holds one human-readable diagnostic per configuration error,
	// each naming the implicated pass and resource ids.
	Problems []string
}

// Error returns all problems joined into a single diagnostic string.
//
// Returns:
//   - string: the combined error message
func (e *CompileError) Error() string {
	if len(e.Problems) == 1 {
		return "graph: compile failed: " + e.Problems[0]
	}
	return fmt.Sprintf("graph: compile failed with %d problems:\n  %s",
		len(e.Problems), strings.Join(e.Problems, "\n  "))
}

// Warning is a soft compile diagnostic. Warnings are logged and returned
// alongside the plan; they never abort compilation.
type Warning string
