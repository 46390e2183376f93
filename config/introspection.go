package config

import (
	"os"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/jsongen/config.toml
	SourceUser        ConfigSource = "user"        // ~/.jsongen/config.toml
	SourceProject     ConfigSource = "project"     // jsongen.toml found upward
	SourceExplicit    ConfigSource = "explicit"    // --config
	SourceEnvironment ConfigSource = "environment" // JSONGEN_* env vars
	SourceFlag        ConfigSource = "flag"        // command-line flag
)

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // file path, env var or flag name
}

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key"`
	Value      interface{}  `json:"value"`
	Source     ConfigSource `json:"source"`
	SourcePath string       `json:"source_path,omitempty"`
}

// Introspection describes the effective configuration
type Introspection struct {
	Files    []string      `json:"files"`
	Settings []SettingInfo `json:"settings"`
}

// MarkFlag records that a command-line flag set key.
func (l *Loaded) MarkFlag(key, flag string) {
	l.Sources[key] = SourceInfo{Source: SourceFlag, Path: "--" + flag}
}

// Introspect lists every effective setting with the source that won.
func (l *Loaded) Introspect() *Introspection {
	in := &Introspection{
		Files:    append([]string{}, l.Files...),
		Settings: make([]SettingInfo, 0),
	}

	for _, key := range Keys(l.Viper) {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := l.Sources[key]; ok {
			info = si
		}

		// Environment overrides files but not --config or flags
		if info.Source != SourceFlag && info.Source != SourceExplicit {
			envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
			if _, ok := os.LookupEnv(envKey); ok {
				info = SourceInfo{Source: SourceEnvironment, Path: envKey}
			}
		}

		in.Settings = append(in.Settings, SettingInfo{
			Key:        key,
			Value:      l.Viper.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}
	return in
}
