package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/shade/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [path]",
		Short: "Delete the ignored files under each workspace root",
		Long: "Delete the ignored files under each workspace root.\n\n" +
			"Without --force this is a dry run: the entries that would be deleted\n" +
			"are printed and nothing is touched.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			report, err := c.app.Clean(cmd.Context(), app.CleanOptions{
				ListOptions: listOptions(cmd, args),
				Force:       force,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			if report.Truncated {
				_, _ = fmt.Fprintln(errOut, "listing truncated: more ignored entries exist than were selected")
			}

			if !force {
				for _, entry := range report.Entries {
					_, _ = fmt.Fprintln(out, entry)
				}
				_, _ = fmt.Fprintf(out, "dry run: %d entries would be deleted (use --force)\n", len(report.Entries))
				return nil
			}

			_, _ = fmt.Fprintf(out, "deleted %d entries\n", report.Deleted)
			return nil
		},
	}

	addScanFlags(cmd)
	cmd.Flags().Bool("force", false, "Actually delete instead of reporting")
	return cmd
}
