package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clocktree-go/clocks"
	"clocktree-go/profile"
	"clocktree-go/regs"
)

func newInspectCmd(opts *rootOpts) *cobra.Command {
	var (
		image  string
		devmem bool
		hseHz  uint32
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Decode the clock tree from a register image or /dev/mem",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fam, err := opts.familyDesc()
			if err != nil {
				return err
			}
			var rccWin, flashWin *regs.Window
			var rccBase, flashBase uintptr
			switch {
			case devmem:
				if rccWin, err = regs.OpenWindow("/dev/mem", int64(fam.RCCBase), os.Getpagesize()); err != nil {
					return err
				}
				defer rccWin.Close()
				if flashWin, err = regs.OpenWindow("/dev/mem", int64(fam.FlashBase), os.Getpagesize()); err != nil {
					return err
				}
				defer flashWin.Close()
			case image != "":
				if rccWin, err = regs.OpenWindow(image, 0, imageSize); err != nil {
					return err
				}
				defer rccWin.Close()
				flashWin, rccBase, flashBase = rccWin, imageRCC, imageFlash
			default:
				return fmt.Errorf("one of --image or --devmem is required")
			}

			rcc, flash := clocks.Map(fam, rccWin.At(rccBase), flashWin.At(flashBase))
			c, err := clocks.Decode(fam, rcc, hseHz)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if err := profile.Write(w, c); err != nil {
				return err
			}
			got, want := clocks.Latency(fam, flash), fam.WaitStates(c.HClk())
			fmt.Fprintf(w, "# latency %d, %d required for %s\n", got, want, mhz(c.HClk()))
			if got < want {
				return fmt.Errorf("flash latency %d below %d", got, want)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&image, "image", "i", "", "register image written by plan --out")
	cmd.Flags().BoolVar(&devmem, "devmem", false, "map the live RCC and FLASH blocks through /dev/mem")
	cmd.Flags().Uint32Var(&hseHz, "hse", 0, "HSE frequency in Hz, needed when HSE is in use")
	return cmd
}
