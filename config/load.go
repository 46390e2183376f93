package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/jsongen/errors"
)

// EnvPrefix prefixes environment overrides, e.g. JSONGEN_OUTPUT_DIRECTORY.
const EnvPrefix = "JSONGEN"

// DefaultSystemFile is the system-wide config file.
const DefaultSystemFile = "/etc/jsongen/config.toml"

// Options locates the config files. Empty fields use the real system
// locations.
type Options struct {
	ConfigFile string // explicit --config file, highest file precedence
	WorkDir    string // project search starts here
	HomeDir    string // user config lives in HomeDir/.jsongen/config.toml
	SystemFile string
}

// Loaded is a merged configuration and where each value came from.
type Loaded struct {
	Viper   *viper.Viper
	Sources map[string]SourceInfo
	Files   []string // merged files, lowest precedence first
}

// Load reads the configuration using Viper
func Load(opts Options) (*Config, error) {
	loaded, err := NewViper(opts)
	if err != nil {
		return nil, err
	}
	return loaded.Config()
}

// Config unmarshals and validates the merged settings.
func (l *Loaded) Config() (*Config, error) {
	cfg, err := LoadWithViper(l.Viper)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "invalid configuration"),
			"run 'jsongen config show --sources' to see where each value comes from")
	}
	return cfg, nil
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}
	return LoadWithViper(v)
}

// NewViper builds a Viper instance with defaults, config files and
// environment bindings merged in precedence order:
// system < user < project < env vars < explicit file.
// Command-line flags are bound on top by the caller.
func NewViper(opts Options) (*Loaded, error) {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	loaded := &Loaded{
		Viper:   v,
		Sources: make(map[string]SourceInfo),
	}
	for _, cf := range configFiles(opts) {
		if cf.path == "" {
			continue
		}
		if _, err := os.Stat(cf.path); err != nil {
			if cf.source == SourceExplicit {
				return nil, errors.Wrapf(err, "config file %s", cf.path)
			}
			continue
		}
		if err := loaded.merge(cf.path, cf.source); err != nil {
			return nil, err
		}
	}
	return loaded, nil
}

type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists candidate files, lowest precedence first.
func configFiles(opts Options) []configFile {
	system := opts.SystemFile
	if system == "" {
		system = DefaultSystemFile
	}

	home := opts.HomeDir
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	var user string
	if home != "" {
		user = filepath.Join(home, ".jsongen", "config.toml")
	}

	workDir := opts.WorkDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}

	return []configFile{
		{path: system, source: SourceSystem},
		{path: user, source: SourceUser},
		{path: FindProjectConfig(workDir), source: SourceProject},
		{path: opts.ConfigFile, source: SourceExplicit},
	}
}

// merge reads one TOML file into the main instance and records the
// source of every key it sets.
func (l *Loaded) merge(path string, source ConfigSource) error {
	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	// An explicit file outranks the environment, so its values go in the
	// override layer; flags are set there afterwards and still win.
	if source == SourceExplicit {
		for _, key := range tmp.AllKeys() {
			l.Viper.Set(key, tmp.Get(key))
		}
	} else if err := l.Viper.MergeConfigMap(tmp.AllSettings()); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	for _, key := range tmp.AllKeys() {
		l.Sources[key] = SourceInfo{Source: source, Path: path}
	}
	l.Files = append(l.Files, path)
	return nil
}

// FindProjectConfig searches for jsongen.toml by walking up the directory
// tree from dir. Returns the path to the first file found, or empty string
// if none found.
func FindProjectConfig(dir string) string {
	if dir == "" {
		return ""
	}
	for {
		path := filepath.Join(dir, ProjectFile)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Keys returns every known configuration key in sorted order.
func Keys(v *viper.Viper) []string {
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}
