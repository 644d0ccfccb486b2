package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dd0wney/biocatalog/pkg/visualization"
	"github.com/spf13/cobra"
)

func newPresetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List layout presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tCLOSEST\tNEAR\tFAR\tBANDS")
			for _, name := range visualization.PresetNames() {
				p, _ := visualization.Preset(name)
				th := p.Thresholds
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%v\n", name, th.Closest, th.Near, th.Far, p.BaseBands)
			}
			return w.Flush()
		},
	}
}
