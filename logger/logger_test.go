package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{name: "console default", jsonOutput: false, verbosity: 0, wantLevel: zapcore.WarnLevel},
		{name: "console -v", jsonOutput: false, verbosity: 1, wantLevel: zapcore.InfoLevel},
		{name: "json -vv", jsonOutput: true, verbosity: 2, wantLevel: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(func() {
				Logger = zap.NewNop().Sugar()
				JSONOutput = false
			})

			require.NoError(t, Initialize(tt.jsonOutput, tt.verbosity))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.True(t, Logger.Desugar().Core().Enabled(tt.wantLevel))
			if tt.wantLevel > zapcore.DebugLevel {
				assert.False(t, Logger.Desugar().Core().Enabled(tt.wantLevel-1))
			}
		})
	}
}

func TestInitialize_ConsoleWritesToOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := output
	output = &buf
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(func() {
		output = prev
		Logger = zap.NewNop().Sugar()
	})

	require.NoError(t, Initialize(false, VerbosityInfo))
	ComponentLogger("generate").Infow("Wrote companion", FieldOutput, "A+JsonGen.swift", FieldCount, 2)
	Debugw("hidden at -v")

	line := buf.String()
	assert.Contains(t, line, "generate  Wrote companion  A+JsonGen.swift 2 types\n")
	assert.NotContains(t, line, "hidden")
	assert.NotContains(t, line, "\x1b[")
}

func TestEnabled_FollowsInitialize(t *testing.T) {
	t.Cleanup(func() {
		Logger = zap.NewNop().Sugar()
		verbosity = VerbosityUser
	})

	require.NoError(t, Initialize(true, VerbosityDebug))
	assert.True(t, Enabled(OutputCommand))
	assert.False(t, Enabled(OutputDumpText))

	require.NoError(t, Initialize(true, VerbosityTrace))
	assert.True(t, Enabled(OutputDumpText))
	assert.NotPanics(t, Cleanup)
}

func TestVerbosityToLevel(t *testing.T) {
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(-1))
	assert.Equal(t, zapcore.WarnLevel, VerbosityToLevel(VerbosityUser))
	assert.Equal(t, zapcore.InfoLevel, VerbosityToLevel(VerbosityInfo))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(VerbosityDebug))
	assert.Equal(t, zapcore.DebugLevel, VerbosityToLevel(7))
}

func TestShouldOutput(t *testing.T) {
	tests := []struct {
		category  OutputCategory
		verbosity int
		want      bool
	}{
		{OutputResults, VerbosityUser, true},
		{OutputProgress, VerbosityUser, false},
		{OutputProgress, VerbosityInfo, true},
		{OutputCommand, VerbosityInfo, false},
		{OutputCommand, VerbosityDebug, true},
		{OutputDumpText, VerbosityDebug, false},
		{OutputDumpText, VerbosityTrace, true},
		{OutputCategory(99), VerbosityDebug, false},
		{OutputCategory(99), VerbosityTrace, true},
	}

	for _, tt := range tests {
		t.Run(tt.category.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldOutput(tt.verbosity, tt.category))
		})
	}
}
