package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List difficulty presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tROWS\tCOLUMNS\tMINES")
			for _, name := range a.cfg.PresetNames() {
				p := a.cfg.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%d\n", name, p.Rows, p.Columns, p.Mines)
			}
			return w.Flush()
		},
	}
}
