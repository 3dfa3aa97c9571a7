package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"clocktree-go/clocks"
	"clocktree-go/profile"
)

func newFamiliesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "families",
		Short: "List supported MCU families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FAMILY\tMAX\tPLLN\tPLLM\tAPB\tWAIT STATES\tDEFAULT")
			for _, f := range clocks.Families() {
				d := clocks.Default(f)
				pllm := f.PLLM.Values()
				fmt.Fprintf(tw, "%s\t%s\t%d-%d\t%d-%d\t%d\t%d\t%s\n",
					f.Name, mhz(f.MaxClock), f.PLLN.Min, f.PLLN.Max,
					pllm[0], pllm[len(pllm)-1], f.APBBuses, f.MaxWaitStates()+1, mhz(d.SysClk()))
			}
			return tw.Flush()
		},
	}
}

func newProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List builtin profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range profile.Names() {
				c, err := profile.Builtin(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s %s\n", name, c.Family.Name, mhz(c.SysClk()))
			}
			return nil
		},
	}
}
