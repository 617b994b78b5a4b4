package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/beamspring/internal/host"
	"github.com/dshills/beamspring/internal/input"
	"github.com/dshills/beamspring/internal/report"
)

// addSettingFlags adds flags that override config settings by name.
func addSettingFlags(fs *pflag.FlagSet) {
	fs.Bool("socd.enabled", false, "start with SOCD cleaning on")
	fs.Bool("macro.confirm", false, "arm recorded macros before playing them")
	fs.Bool("report.nkro", true, "send NKRO reports instead of 6KRO")
}

func newReplayCmd(app *App) *cobra.Command {
	var stats bool

	cmd := &cobra.Command{
		Use:   "replay SCRIPT",
		Short: "Run a timed key script through the keymap",
		Long: `Replay a YAML script of key transitions on a virtual clock and print every
report the keyboard would send, with its time in milliseconds.

  steps:
    - {at: 0, key: W, action: press}
    - {at: 40, key: S, action: press}
    - {at: 90, key: S, action: release}
    - {at: 120, key: W, action: release}
  until: 500

Use "-" to read the script from standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := readScript(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			sink := report.SinkFunc(func(r report.Report) error {
				_, err := fmt.Fprintf(out, "%6d  %s\n", r.Time.Milliseconds(), r)
				return err
			})
			h, err := host.New(app.Config(), sink, host.WithLogger(app.Logger()))
			if err != nil {
				return err
			}
			if err := host.Replay(h, script); err != nil {
				return err
			}
			if stats {
				writeStats(out, h.Metrics().Snapshot(), h.Repeat().Taps())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "print dispatcher counters after the replay")
	addSettingFlags(cmd.Flags())
	return cmd
}

func readScript(stdin io.Reader, path string) (*host.Script, error) {
	if path == "-" {
		return host.ParseScript(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := host.ParseScript(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func writeStats(w io.Writer, s input.MetricsSnapshot, taps uint64) {
	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "events      %d\n", s.Events)
	fmt.Fprintf(w, "passed      %d\n", s.Passed)
	fmt.Fprintf(w, "suppressed  %d\n", s.Suppressed)
	fmt.Fprintf(w, "synthetic   %d\n", s.Synthetic)
	fmt.Fprintf(w, "socd        %d blocked, %d toggles\n", s.SOCDBlocked, s.SOCDToggles)
	fmt.Fprintf(w, "macro keys  %d\n", s.MacroKeys)
	fmt.Fprintf(w, "repeat keys %d (%d taps)\n", s.RepeatKeys, taps)
}
