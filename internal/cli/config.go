package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/beamspring/internal/config/loader"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}

	check := &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration",
		Long: `Load defaults, the config file, the environment and flags, and validate
the result. Exits non-zero with the offending setting on failure.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			src := app.ConfigPath
			if src == "" {
				src = "defaults"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %s\n", src)
			return nil
		},
	}

	var format string
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			data, err := app.Config().Encode(f)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	show.Flags().StringVarP(&format, "format", "f", "toml", "output format (toml, yaml)")

	cmd.AddCommand(check, show)
	return cmd
}

func parseFormat(name string) (loader.Format, error) {
	switch strings.ToLower(name) {
	case "toml":
		return loader.FormatTOML, nil
	case "yaml", "yml":
		return loader.FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", loader.ErrUnknownFormat, name)
}
