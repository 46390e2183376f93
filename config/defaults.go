package config

import "github.com/spf13/viper"

// Default values
const (
	DefaultCompilerCommand   = "xcrun swiftc"
	DefaultSDKCommand        = "xcrun --show-sdk-path"
	DefaultSupportedVersions = ">= 3.0, < 6.0"
	DefaultTimeoutSeconds    = 600
	DefaultParallelism       = 4
	DefaultDebounceMS        = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Compiler defaults
	v.SetDefault("compiler.command", DefaultCompilerCommand)
	v.SetDefault("compiler.sdk_command", DefaultSDKCommand)
	v.SetDefault("compiler.supported_versions", DefaultSupportedVersions)
	v.SetDefault("compiler.timeout_seconds", DefaultTimeoutSeconds)

	// Output defaults
	v.SetDefault("output.directory", "")
	v.SetDefault("output.parallelism", DefaultParallelism)

	// Naming defaults
	v.SetDefault("naming.source_extension", ".swift")
	v.SetDefault("naming.generated_suffix", "+JsonGen")
	v.SetDefault("naming.override_suffix", "+Extensions")

	v.SetDefault("statham.directory", "")

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns the configuration with only built-in defaults applied.
func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Command:           DefaultCompilerCommand,
			SDKCommand:        DefaultSDKCommand,
			SupportedVersions: DefaultSupportedVersions,
			TimeoutSeconds:    DefaultTimeoutSeconds,
		},
		Output: OutputConfig{
			Parallelism: DefaultParallelism,
		},
		Naming: NamingConfig{
			SourceExtension: ".swift",
			GeneratedSuffix: "+JsonGen",
			OverrideSuffix:  "+Extensions",
		},
		Watch: WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}
