package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfo(t *testing.T) {
	tests := []struct {
		name      string
		info      Info
		wantShort string
		wantLine  string
	}{
		{
			name:      "release build",
			info:      Info{Version: "v1.2.0", CommitHash: "3f9c2a1b7d", BuildTime: "2026-10-19T12:30:00Z"},
			wantShort: "3f9c2a1",
			wantLine:  "jsongen v1.2.0 (commit 3f9c2a1, built 2026-10-19T12:30:00Z)",
		},
		{
			name:      "dev build",
			info:      Info{Version: "dev", CommitHash: "dev", BuildTime: "unknown"},
			wantShort: "dev",
			wantLine:  "jsongen dev (commit dev, built unknown)",
		},
		{
			name:      "uncommitted changes",
			info:      Info{Version: "v1.2.0", CommitHash: "3f9c2a1b7d", BuildTime: "2026-10-19T12:30:00Z", Modified: true},
			wantShort: "3f9c2a1",
			wantLine:  "jsongen v1.2.0 (commit 3f9c2a1-dirty, built 2026-10-19T12:30:00Z)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantShort, tt.info.Short())
			assert.Equal(t, tt.wantLine, tt.info.String())
		})
	}
}

func TestGet(t *testing.T) {
	info := Get()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
	assert.Contains(t, info.Platform, "/")
}

func TestWithBuildInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Main: debug.Module{Path: "github.com/teranos/jsongen", Version: "v1.3.0"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "a1b2c3d4e5f6"},
			{Key: "vcs.time", Value: "2026-10-01T08:00:00Z"},
			{Key: "vcs.modified", Value: "true"},
		},
	}

	t.Run("fills placeholders", func(t *testing.T) {
		got := withBuildInfo(Info{Version: unset, CommitHash: unset, BuildTime: "unknown"}, bi)
		assert.Equal(t, "v1.3.0", got.Version)
		assert.Equal(t, "a1b2c3d", got.Short())
		assert.Equal(t, "2026-10-01T08:00:00Z", got.BuildTime)
		assert.True(t, got.Modified)
	})

	t.Run("ldflags win", func(t *testing.T) {
		got := withBuildInfo(Info{Version: "v2.0.0", CommitHash: "ffffffff", BuildTime: "yesterday"}, bi)
		assert.Equal(t, "v2.0.0", got.Version)
		assert.Equal(t, "ffffffff", got.CommitHash)
		assert.Equal(t, "yesterday", got.BuildTime)
	})

	t.Run("devel main module", func(t *testing.T) {
		got := withBuildInfo(Info{Version: unset}, &debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})
		assert.Equal(t, unset, got.Version)
	})
}
