// Package commands implements the CLI commands for the shade tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/shade/internal/app"
	"go.trai.ch/shade/internal/build"
)

// CLI represents the command line interface for shade.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	List(ctx context.Context, opts app.ListOptions) ([]app.RootListing, error)
	Paths(ctx context.Context, opts app.ListOptions) ([]string, error)
	Clean(ctx context.Context, opts app.CleanOptions) (*app.CleanReport, error)
	Watch(ctx context.Context, opts app.ListOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "shade",
		Short:         "Explore the files git ignores in your workspace",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newListCmd())
	rootCmd.AddCommand(c.newPathsCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// listOptions reads the flags shared by the scan-backed commands.
func listOptions(cmd *cobra.Command, args []string) app.ListOptions {
	maxItems, _ := cmd.Flags().GetInt("max-items")

	opts := app.ListOptions{MaxItems: maxItems}
	if len(args) > 0 {
		opts.Path = args[0]
	}
	return opts
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("max-items", "m", 0, "Cap the number of reported entries per root (0 = configured value)")
}
