package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/shade/internal/adapters/detector"
	"go.trai.ch/shade/internal/ui/tree"
)

func (c *CLI) newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [path]",
		Short: "Show the ignored files under each workspace root as a tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if flat, _ := cmd.Flags().GetBool("flat"); flat {
				output = "flat"
			}
			mode := detector.ResolveMode(detector.DetectEnvironment(), output)

			listings, err := c.app.List(cmd.Context(), listOptions(cmd, args))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			var failed error
			for _, listing := range listings {
				if listing.Err != nil {
					_, _ = fmt.Fprintf(errOut, "%s: %s\n", listing.Root, listing.Err.Error())
					failed = errors.Join(failed, listing.Err)
					continue
				}

				if mode == detector.ModeFlat {
					for _, rel := range listing.Result.Files {
						_, _ = fmt.Fprintln(out, rel)
					}
				} else {
					root := tree.Build(listing.Root, listing.Result)
					if err := tree.Render(out, root); err != nil {
						return err
					}
				}

				if listing.Result.Truncated {
					_, _ = fmt.Fprintf(errOut, "%s: listing truncated at %d entries\n",
						listing.Root, len(listing.Result.Files))
				}
			}

			return failed
		},
	}

	addScanFlags(cmd)
	cmd.Flags().BoolP("flat", "f", false, "Print one relative path per line instead of a tree")
	cmd.Flags().StringP("output", "o", "auto", "Output mode: auto, tree, or flat")
	return cmd
}
