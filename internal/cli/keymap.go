package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dshills/beamspring/internal/input/key"
	"github.com/dshills/beamspring/internal/layout"
)

func newKeymapCmd(_ *App) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "keymap",
		Short: "Print a keymap layer as a matrix grid",
		Long: `Print one layer of the keymap in matrix order, one row per sense line.

Empty matrix cells print as "." and transparent entries as "▽".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			km := layout.Default()
			if n < 0 || n >= len(km.Layers) {
				return fmt.Errorf("layer %d out of range 0..%d", n, len(km.Layers)-1)
			}
			return writeLayer(cmd.OutOrStdout(), km, n)
		},
	}
	cmd.Flags().IntVarP(&n, "layer", "l", 0, "layer to print")
	return cmd
}

func writeLayer(w io.Writer, km *layout.Keymap, n int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)

	header := make([]string, 0, layout.Cols+1)
	header = append(header, "")
	for c := 0; c < layout.Cols; c++ {
		header = append(header, fmt.Sprintf("c%d", c))
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for r := 0; r < layout.Rows; r++ {
		cells := make([]string, 0, layout.Cols+1)
		cells = append(cells, fmt.Sprintf("r%d", r))
		for c := 0; c < layout.Cols; c++ {
			cells = append(cells, cellName(km.Layers[n].At(key.Pos{Row: uint8(r), Col: uint8(c)})))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cellName(c key.Code) string {
	switch c {
	case key.KeyNone:
		return "."
	case key.KeyTransparent:
		return "▽"
	}
	return c.String()
}
