package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/teranos/jsongen/config"
	"github.com/teranos/jsongen/display"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create jsongen configuration",
		Long: `Show the effective configuration merged from every source, or write a
starter jsongen.toml with every default spelled out.`,
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		format  string
		sources bool
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long: `Show the configuration after merging defaults, config files, environment
variables and flags.

Examples:
  jsongen config show                   # TOML
  jsongen config show --format yaml
  jsongen config show --sources         # where each value came from`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loaded, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sources {
				in := loaded.Introspect()
				if display.ShouldOutputJSON(cmd) {
					return display.OutputJSON(out, in)
				}
				return printSources(cmd, in)
			}

			if display.ShouldOutputJSON(cmd) {
				format = config.FormatJSON
			}
			data, err := loaded.Render(format)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", config.FormatTOML, "Output format (toml, yaml, json)")
	cmd.Flags().BoolVar(&sources, "sources", false, "Show the source of every setting")
	return cmd
}

func printSources(cmd *cobra.Command, in *config.Introspection) error {
	out := cmd.OutOrStdout()
	if len(in.Files) == 0 {
		pterm.Fprintln(out, pterm.Gray("No config files found, using defaults"))
	} else {
		pterm.Fprintln(out, pterm.Bold.Sprint("Config files (lowest precedence first):"))
		for _, f := range in.Files {
			pterm.Fprintln(out, "  "+f)
		}
	}
	pterm.Fprintln(out)

	data := pterm.TableData{{"KEY", "VALUE", "SOURCE"}}
	for _, s := range in.Settings {
		src := string(s.Source)
		if s.SourcePath != "" {
			src = fmt.Sprintf("%s (%s)", s.Source, s.SourcePath)
		}
		data = append(data, []string{s.Key, fmt.Sprintf("%v", s.Value), src})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	pterm.Fprintln(out, table)
	return nil
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter jsongen.toml",
		Long: `Write a starter project config with every default spelled out. The
default path is ./jsongen.toml. An existing file is never overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ProjectFile
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.WriteStarter(afero.NewOsFs(), path); err != nil {
				return err
			}
			pterm.Fprintln(cmd.OutOrStdout(), pterm.LightGreen("✓ Created: ")+path)
			return nil
		},
	}
}
