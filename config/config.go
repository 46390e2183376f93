// Package config loads jsongen settings from TOML files, the environment
// and command-line flags.
package config

import "time"

// Config represents the jsongen configuration
type Config struct {
	Compiler CompilerConfig `mapstructure:"compiler" toml:"compiler"`
	Output   OutputConfig   `mapstructure:"output" toml:"output"`
	Naming   NamingConfig   `mapstructure:"naming" toml:"naming"`
	Statham  StathamConfig  `mapstructure:"statham" toml:"statham"`
	Watch    WatchConfig    `mapstructure:"watch" toml:"watch"`
}

// CompilerConfig configures the Swift front-end invocation
type CompilerConfig struct {
	Command           string `mapstructure:"command" toml:"command"`                       // e.g. "xcrun swiftc"
	SDKCommand        string `mapstructure:"sdk_command" toml:"sdk_command"`               // prints the SDK path; empty disables -sdk
	SupportedVersions string `mapstructure:"supported_versions" toml:"supported_versions"` // semver constraint, mismatch only warns
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" toml:"timeout_seconds"`
}

// Timeout returns the compiler timeout as a duration.
func (c CompilerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// OutputConfig configures where and how companions are written
type OutputConfig struct {
	Directory   string `mapstructure:"directory" toml:"directory"` // empty = alongside each input
	Parallelism int    `mapstructure:"parallelism" toml:"parallelism"`
}

// NamingConfig holds the file naming conventions
type NamingConfig struct {
	SourceExtension string `mapstructure:"source_extension" toml:"source_extension"`
	GeneratedSuffix string `mapstructure:"generated_suffix" toml:"generated_suffix"`
	OverrideSuffix  string `mapstructure:"override_suffix" toml:"override_suffix"`
}

// StathamConfig points at the JSON runtime library sources
type StathamConfig struct {
	Directory string `mapstructure:"directory" toml:"directory"` // e.g. "Pods/Statham"
}

// WatchConfig configures the watch command
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms"`
}

// Debounce returns the quiet period as a duration.
func (c WatchConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)

// ProjectFile is the project config file name, searched upward from the
// working directory.
const ProjectFile = "jsongen.toml"
