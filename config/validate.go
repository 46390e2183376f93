package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/teranos/jsongen/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Compiler.Command) == "" {
		return errors.New("compiler.command cannot be empty")
	}
	if c.Compiler.TimeoutSeconds <= 0 {
		return errors.Newf("compiler.timeout_seconds must be > 0, got %d", c.Compiler.TimeoutSeconds)
	}
	// Empty constraint disables the version gate
	if c.Compiler.SupportedVersions != "" {
		if _, err := semver.NewConstraint(c.Compiler.SupportedVersions); err != nil {
			return errors.Wrapf(err, "compiler.supported_versions %q is not a version constraint", c.Compiler.SupportedVersions)
		}
	}

	if c.Output.Parallelism <= 0 {
		return errors.Newf("output.parallelism must be > 0, got %d", c.Output.Parallelism)
	}

	if !strings.HasPrefix(c.Naming.SourceExtension, ".") {
		return errors.Newf("naming.source_extension must start with a dot, got %q", c.Naming.SourceExtension)
	}
	if c.Naming.GeneratedSuffix == "" {
		return errors.New("naming.generated_suffix cannot be empty")
	}
	if c.Naming.GeneratedSuffix == c.Naming.OverrideSuffix {
		return errors.Newf("naming.generated_suffix and naming.override_suffix are both %q", c.Naming.GeneratedSuffix)
	}

	if c.Watch.DebounceMS < 0 {
		return errors.Newf("watch.debounce_ms must be >= 0, got %d", c.Watch.DebounceMS)
	}

	return nil
}
