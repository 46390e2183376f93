package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/jsongen/errors"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] <paths...>",
		Short: "Check if generated companions are up to date",
		Long: `Run the full pipeline without writing anything and report every
companion whose body differs from what would be generated. The banner
timestamp is ignored.

Exit codes:
  0 - Companions are up to date
  1 - Companions are out of date, or the check failed

Examples:
  jsongen check Sources
  jsongen check --json Sources`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := runPipeline(cmd, args, true)
			if err != nil {
				return err
			}
			if err := report(cmd, result, true); err != nil {
				return err
			}

			if stale := result.Stale(); len(stale) > 0 {
				return errors.WithHint(
					errors.Wrapf(errors.ErrStale, "%d of %d companions", len(stale), len(result.Files)),
					"run 'jsongen' with the same paths to regenerate")
			}
			return nil
		},
	}
}
