package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version and build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			b := app.Build
			fmt.Fprintf(cmd.OutOrStdout(), "beamspring %s (commit %s, built %s, %s)\n",
				b.Version, b.Commit, b.BuildDate, b.GoVersion)
		},
	}
}
