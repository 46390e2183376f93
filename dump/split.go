// Package dump talks to the compiler front-end and turns its combined output
// into per-file AST chunks.
package dump

import (
	"fmt"
	"strings"

	"github.com/teranos/jsongen/errors"
)

// sourceFileMarker starts every AST chunk; anything else is a diagnostic.
const sourceFileMarker = "(source_file"

// Chunks is the classified compiler output, both sequences in output order.
type Chunks struct {
	Outputs []string
	Errors  []string
}

// Split classifies raw compiler output into AST chunks and diagnostic chunks.
//
// A line continues the current chunk when it is empty or starts with a space
// or ')'. Any other line starts a new chunk.
func Split(output string) Chunks {
	var (
		chunks  Chunks
		current []string
	)

	flush := func() {
		merged := strings.Join(current, "\n")
		current = nil
		if strings.TrimSpace(merged) == "" {
			return
		}
		if strings.HasPrefix(merged, sourceFileMarker) {
			chunks.Outputs = append(chunks.Outputs, merged)
		} else {
			chunks.Errors = append(chunks.Errors, merged)
		}
	}

	for _, line := range strings.Split(output, "\n") {
		if isContinuation(line) {
			current = append(current, line)
			continue
		}
		flush()
		current = []string{line}
	}
	flush()

	return chunks
}

func isContinuation(line string) bool {
	return line == "" || line[0] == ' ' || line[0] == ')'
}

// Collect classifies output for a batch of expected files. It either returns
// exactly one AST chunk per requested file, in request order, or an error:
// *DiagnosticsError when the compiler reported anything besides dumps, and
// *ConsistencyError when the chunk count does not match.
func Collect(output string, expected int) ([]string, error) {
	chunks := Split(output)
	if len(chunks.Errors) > 0 {
		return nil, &DiagnosticsError{Chunks: chunks.Errors}
	}
	if len(chunks.Outputs) != expected {
		return nil, &ConsistencyError{Expected: expected, Actual: len(chunks.Outputs)}
	}
	return chunks.Outputs, nil
}

// DiagnosticsError carries the raw diagnostic chunks of a failed batch.
type DiagnosticsError struct {
	Chunks []string
}

func (e *DiagnosticsError) Error() string {
	if len(e.Chunks) == 1 {
		return "compiler reported 1 diagnostic"
	}
	return fmt.Sprintf("compiler reported %d diagnostics", len(e.Chunks))
}

// Is makes errors.Is(err, errors.ErrDiagnostics) true.
func (e *DiagnosticsError) Is(target error) bool {
	return target == errors.ErrDiagnostics
}

// MissingRuntime reports whether any diagnostic points at the JSON runtime
// library not being available to the compiler.
func (e *DiagnosticsError) MissingRuntime() bool {
	for _, chunk := range e.Chunks {
		if mentionsMissingRuntime(chunk) {
			return true
		}
	}
	return false
}

var missingRuntimeMarkers = []string{
	"use of undeclared type 'AnyJson'",
	"use of undeclared type 'JsonObject'",
	"use of undeclared type 'JsonArray'",
	"cannot find type 'AnyJson' in scope",
	"cannot find type 'JsonObject' in scope",
	"cannot find type 'JsonArray' in scope",
	"no such module 'Statham'",
}

func mentionsMissingRuntime(chunk string) bool {
	for _, marker := range missingRuntimeMarkers {
		if strings.Contains(chunk, marker) {
			return true
		}
	}
	return false
}

// ConsistencyError reports a dump whose chunk count differs from the number
// of files handed to the compiler.
type ConsistencyError struct {
	Expected int
	Actual   int
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("inconsistency: compiler produced %d AST dumps for %d files", e.Actual, e.Expected)
}

// Is makes errors.Is(err, errors.ErrInconsistent) true.
func (e *ConsistencyError) Is(target error) bool {
	return target == errors.ErrInconsistent
}
