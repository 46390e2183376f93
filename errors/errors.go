// Package errors provides error handling for jsongen.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - User-facing hints (printed by the CLI on abort)
//
// Usage:
//
//	// Wrap with context
//	if err := compile(); err != nil {
//	    return errors.Wrap(err, "failed to dump AST")
//	}
//
//	// Add hints for users
//	return errors.WithHint(err, "pass --statham=Pods/Statham")
//
//	// Check errors
//	if errors.Is(err, errors.ErrDiagnostics) {
//	    // compiler reported diagnostics
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	GetAllDetails  = crdb.GetAllDetails
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var AssertionFailedf = crdb.AssertionFailedf

// Sentinel errors for the failure classes that abort a run.
// Concrete error types in sexp and dump report themselves as these via Is,
// so callers can branch with errors.Is() without importing those packages.
var (
	// ErrParse indicates a malformed AST dump chunk
	ErrParse = New("malformed AST dump")

	// ErrDiagnostics indicates the compiler reported diagnostics instead of a dump
	ErrDiagnostics = New("compiler reported diagnostics")

	// ErrInconsistent indicates the dump chunk count does not match the input file count
	ErrInconsistent = New("internal inconsistency")

	// ErrStale indicates generated files are out of date (check mode)
	ErrStale = New("generated files are out of date")
)

// IsFatal reports whether err belongs to one of the batch-fatal classes.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return Is(err, ErrParse) || Is(err, ErrDiagnostics) || Is(err, ErrInconsistent)
}
