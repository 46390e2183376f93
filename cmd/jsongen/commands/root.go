// Package commands implements the jsongen command line.
package commands

import (
	"context"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/jsongen/config"
	"github.com/teranos/jsongen/display"
	"github.com/teranos/jsongen/dump"
	"github.com/teranos/jsongen/errors"
	"github.com/teranos/jsongen/generate"
	"github.com/teranos/jsongen/logger"
	"github.com/teranos/jsongen/source"
	"github.com/teranos/jsongen/version"
)

// Flag names bound onto configuration keys.
var flagKeys = map[string]string{
	"output":  "output.directory",
	"statham": "statham.directory",
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jsongen [flags] <paths...>",
		Short: "Generate JSON decoders, encoders and initializers for Swift types",
		Long: `jsongen reads the declarations of Swift structs and enums through the
compiler's -dump-ast output and writes a companion Foo+JsonGen.swift for
each Foo.swift with the decodeJson, encodeJson and init members that are
not already written by hand.

Hand-written members anywhere in the input set suppress generation for
that type. Files ending in +JsonGen.swift or +Extensions.swift are never
inputs.

Configuration sources (in order of precedence):
1. Command line flags
2. Explicit --config file
3. Environment variables (JSONGEN_* prefix)
4. Project config (jsongen.toml, searched upward)
5. User config (~/.jsongen/config.toml)
6. System config (/etc/jsongen/config.toml)
7. Default values

Examples:
  jsongen Sources/Models                       # companions next to each input
  jsongen -o Generated Sources                 # all companions in one directory
  jsongen --statham=Pods/Statham Sources       # link against the runtime library
  jsongen check Sources                        # fail if any companion is stale`,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("json-logs")
			if err := logger.Initialize(jsonLogs, verbosity); err != nil {
				return errors.Wrap(err, "failed to initialize logger")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			result, err := runPipeline(cmd, args, false)
			if err != nil {
				return err
			}
			return report(cmd, result, false)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "Explicit config file (TOML)")
	flags.CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	flags.Bool("json-logs", false, "Write logs as JSON")
	flags.Bool("json", false, "Print the run summary as JSON")
	flags.StringP("output", "o", "", "Output directory for all companions (default: next to each input)")
	flags.String("statham", "", "Statham library root to compile and link, e.g. Pods/Statham")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newWatchCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig merges config files, environment and command-line flags.
func loadConfig(cmd *cobra.Command) (*config.Loaded, *config.Config, error) {
	explicit, _ := cmd.Flags().GetString("config")
	loaded, err := config.NewViper(config.Options{ConfigFile: explicit})
	if err != nil {
		return nil, nil, err
	}

	for flag, key := range flagKeys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		loaded.Viper.Set(key, f.Value.String())
		loaded.MarkFlag(key, flag)
	}

	cfg, err := loaded.Config()
	if err != nil {
		return nil, nil, err
	}
	return loaded, cfg, nil
}

func options(cfg *config.Config, paths []string, dryRun bool) generate.Options {
	return generate.Options{
		Paths:      paths,
		OutputDir:  cfg.Output.Directory,
		StathamDir: cfg.Statham.Directory,
		Naming: source.Naming{
			SourceExt:       cfg.Naming.SourceExtension,
			GeneratedSuffix: cfg.Naming.GeneratedSuffix,
			OverrideSuffix:  cfg.Naming.OverrideSuffix,
		},
		Parallelism:       cfg.Output.Parallelism,
		SupportedVersions: cfg.Compiler.SupportedVersions,
		Timeout:           cfg.Compiler.Timeout(),
		DryRun:            dryRun,
	}
}

func newGenerator(cfg *config.Config) (*generate.Generator, error) {
	swiftc, err := dump.NewSwiftc(dump.SwiftcConfig{
		Command:    cfg.Compiler.Command,
		SDKCommand: cfg.Compiler.SDKCommand,
	}, logger.ComponentLogger("swiftc"))
	if err != nil {
		return nil, err
	}
	return generate.New(afero.NewOsFs(), swiftc), nil
}

func runPipeline(cmd *cobra.Command, paths []string, dryRun bool) (*generate.Result, error) {
	_, cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	g, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return g.Run(ctx, options(cfg, paths, dryRun))
}

func report(cmd *cobra.Command, result *generate.Result, check bool) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), result)
	}
	display.Report(cmd.OutOrStdout(), result, check)
	return nil
}
