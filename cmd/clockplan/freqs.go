package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"clocktree-go/clocks"
	"clocktree-go/errcode"
)

var errInvalid = errors.New("configuration is not valid")

func newFreqsCmd(opts *rootOpts) *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "freqs",
		Short: "Print the derived clock frequencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !asYAML {
				if err := clocks.WriteFrequencies(out, &c); err != nil {
					return err
				}
				fmt.Fprintf(out, "latency %d\n", c.Family.WaitStates(c.HClk()))
				return nil
			}
			for _, f := range c.Frequencies() {
				fmt.Fprintf(out, "%s: %d\n", f.Name, f.Hz)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print as a YAML mapping")
	return cmd
}

func newValidateCmd(opts *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check ranges and frequency ceilings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.config()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			chk := c.Check()
			fmt.Fprintf(out, "%s: %s\n", c.Family.Name, chk.Validity)
			switch {
			case chk.RangeFault != "":
				fmt.Fprintf(out, "  out of range: %s\n", chk.RangeFault)
			case len(chk.Over) > 0:
				for _, d := range chk.Over {
					fmt.Fprintf(out, "  %s above %s\n", d, mhz(c.Family.MaxClock))
				}
			}
			if chk.Validity != clocks.Valid {
				return &errcode.E{C: errcode.InvalidSpeed, Op: "clockplan.validate", Err: errInvalid}
			}
			return nil
		},
	}
}
