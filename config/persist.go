package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	gotoml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/teranos/jsongen/errors"
)

// Formats accepted by Render.
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Render prints the effective settings in the given format.
func (l *Loaded) Render(format string) ([]byte, error) {
	settings := l.Viper.AllSettings()

	switch format {
	case FormatTOML, "":
		data, err := gotoml.Marshal(settings)
		return data, errors.Wrap(err, "failed to marshal config as TOML")
	case FormatYAML:
		data, err := yaml.Marshal(settings)
		return data, errors.Wrap(err, "failed to marshal config as YAML")
	case FormatJSON:
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as JSON")
		}
		return append(data, '\n'), nil
	default:
		return nil, errors.WithHint(errors.Newf("unknown format %q", format),
			"use one of: toml, yaml, json")
	}
}

const starterHeader = `# jsongen configuration
#
# Precedence, lowest first: /etc/jsongen/config.toml, ~/.jsongen/config.toml,
# this file, JSONGEN_* environment variables, --config, command-line flags.

`

// WriteStarter writes a starter project file with every default spelled
// out. It refuses to overwrite an existing file.
func WriteStarter(fsys afero.Fs, path string) error {
	exists, err := afero.Exists(fsys, path)
	if err != nil {
		return errors.Wrapf(err, "failed to check %s", path)
	}
	if exists {
		return errors.WithHint(errors.Wrapf(os.ErrExist, "refusing to overwrite %s", path),
			"edit the existing file or remove it first")
	}

	var buf bytes.Buffer
	buf.WriteString(starterHeader)
	if err := toml.NewEncoder(&buf).Encode(Default()); err != nil {
		return errors.Wrap(err, "failed to encode starter config")
	}

	if err := fsys.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}
	if err := afero.WriteFile(fsys, path, buf.Bytes(), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", path)
	}
	return nil
}
