package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths [path]",
		Short: "Print the absolute path of every ignored entry, one per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := c.app.Paths(cmd.Context(), listOptions(cmd, args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range paths {
				_, _ = fmt.Fprintln(out, path)
			}
			return nil
		},
	}

	addScanFlags(cmd)
	return cmd
}
