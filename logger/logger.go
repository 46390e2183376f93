// Package logger holds the process-wide zap logger and the verbosity
// gates used by the command line.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger. It discards everything until Initialize.
	Logger = zap.NewNop().Sugar()

	// JSONOutput is set when logs are written as JSON.
	JSONOutput bool

	verbosity int

	// Stdout is reserved for command results such as the --json summary.
	output io.Writer = os.Stderr
)

// Initialize replaces the global logger for the given format and -v count.
func Initialize(jsonOutput bool, v int) error {
	level := VerbosityToLevel(v)

	var (
		l   *zap.Logger
		err error
	)
	if jsonOutput {
		l, err = jsonLogger(level)
		if err != nil {
			return err
		}
	} else {
		l = consoleLogger(level)
	}

	Logger = l.Sugar()
	JSONOutput = jsonOutput
	verbosity = v
	return nil
}

func jsonLogger(level zapcore.Level) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func consoleLogger(level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(newMinimalEncoder(colorEnabled()), zapcore.AddSync(output), level)
	return zap.New(core)
}

// colorEnabled honours NO_COLOR (https://no-color.org).
func colorEnabled() bool {
	_, disabled := os.LookupEnv("NO_COLOR")
	return !disabled
}

// Cleanup flushes buffered entries.
func Cleanup() {
	_ = Logger.Sync()
}

// Infow logs on the global logger.
func Infow(msg string, keysAndValues ...interface{}) {
	Logger.Infow(msg, keysAndValues...)
}

// Warnw logs on the global logger.
func Warnw(msg string, keysAndValues ...interface{}) {
	Logger.Warnw(msg, keysAndValues...)
}

// Debugw logs on the global logger.
func Debugw(msg string, keysAndValues ...interface{}) {
	Logger.Debugw(msg, keysAndValues...)
}
