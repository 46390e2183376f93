package logger

import "go.uber.org/zap/zapcore"

// Verbosity is the -v count passed on the command line.
const (
	VerbosityUser  = 0 // written files, warnings and errors
	VerbosityInfo  = 1 // -v
	VerbosityDebug = 2 // -vv
	VerbosityTrace = 3 // -vvv
)

// VerbosityToLevel maps a -v count onto the minimum zap level logged.
// Trace shares DebugLevel; what it adds is decided by output categories.
func VerbosityToLevel(verbosity int) zapcore.Level {
	switch {
	case verbosity <= VerbosityUser:
		return zapcore.WarnLevel
	case verbosity == VerbosityInfo:
		return zapcore.InfoLevel
	default:
		return zapcore.DebugLevel
	}
}
