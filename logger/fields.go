package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across jsongen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Files and paths
	FieldFile   = "file"
	FieldOutput = "output"
	FieldDir    = "dir"

	// Declarations
	FieldType   = "type"
	FieldAction = "action"

	// Compiler
	FieldCommand = "command"
	FieldVersion = "version"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError = "error"

	// Counts and sizes
	FieldCount   = "count"
	FieldWritten = "written"
	FieldSize    = "size"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Reconciler struct {
//	    log *zap.SugaredLogger
//	}
//
//	func NewReconciler() *Reconciler {
//	    return &Reconciler{
//	        log: logger.ComponentLogger("output"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	fileLogger := logger.ChildLogger(baseLogger, logger.FieldFile, path)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
