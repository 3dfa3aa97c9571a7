package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"clocktree-go/clocks"
	"clocktree-go/drivers/si5351"
	"clocktree-go/errcode"
	"clocktree-go/regs"
)

// Image layout written by plan --out and read by inspect --image. The
// FLASH block sits one page after RCC, as on every supported family.
const (
	imageSize  = 0x2000
	imageRCC   = 0x0000
	imageFlash = 0x1000
)

func newPlanCmd(opts *rootOpts) *cobra.Command {
	var (
		lag   int
		xtal  uint32
		out   string
		quiet bool
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Run the setup sequence against a simulated RCC",
		Long: "Run the setup sequence against a simulated RCC and print the milestones " +
			"and register writes in order. Sequencing faults fail the command.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.config()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			sim := clocks.NewSim(c.Family)
			sim.Lag = lag
			if h, ok := c.Source.(clocks.HSE); ok {
				sim.HSEHz = h.Hz
			} else if p, ok := c.Source.(clocks.PLL); ok {
				if h, ok := p.Src.(clocks.HSE); ok {
					sim.HSEHz = h.Hz
				}
			}

			var i2c *si5351.HostI2C
			setupOpts := []clocks.Option{}
			if !quiet {
				setupOpts = append(setupOpts, clocks.Trace(w))
			}
			if xtal != 0 {
				i2c = &si5351.HostI2C{}
				setupOpts = append(setupOpts, clocks.WithExternalClock(si5351.New(i2c, si5351.Config{Crystal: xtal})))
			}
			if err := c.Setup(sim.RCC, sim.Flash, setupOpts...); err != nil {
				return err
			}

			if i2c != nil {
				for _, wr := range i2c.Writes {
					fmt.Fprintf(w, "i2c % X\n", wr)
				}
			}
			for _, wr := range sim.Journal() {
				fmt.Fprintln(w, wr)
			}
			fmt.Fprintf(w, "active %s latency %d\n", sim.Active(), clocks.Latency(c.Family, sim.Flash))

			if len(sim.Faults) > 0 {
				return &errcode.E{C: errcode.Error, Op: "clockplan.plan", Msg: strings.Join(sim.Faults, "; ")}
			}
			if out != "" {
				return writeImage(out, c.Family, sim)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&lag, "lag", 2, "polls before a simulated ready flag settles")
	cmd.Flags().Uint32Var(&xtal, "si5351", 0, "drive HSE from a simulated Si5351 with this crystal (Hz)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the final registers to a register image file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "omit milestones")
	return cmd
}

// writeImage stores the simulated register state in a file laid out like
// the RCC and FLASH blocks.
func writeImage(path string, fam *clocks.Family, sim *clocks.Sim) error {
	win, err := regs.CreateImage(path, imageSize)
	if err != nil {
		return err
	}
	rcc, flash := clocks.Map(fam, win.At(imageRCC), win.At(imageFlash))
	for _, p := range []struct{ dst, src regs.Register }{
		{rcc.CR, sim.RCC.CR}, {rcc.CFGR, sim.RCC.CFGR}, {rcc.PLLCFGR, sim.RCC.PLLCFGR},
		{rcc.PLLSAI1CFGR, sim.RCC.PLLSAI1CFGR}, {rcc.PLLSAI2CFGR, sim.RCC.PLLSAI2CFGR},
		{rcc.CCIPR, sim.RCC.CCIPR}, {rcc.BDCR, sim.RCC.BDCR}, {rcc.CSR, sim.RCC.CSR},
		{rcc.CRRCR, sim.RCC.CRRCR}, {flash.ACR, sim.Flash.ACR},
	} {
		if p.dst != nil && p.src != nil {
			p.dst.Set(p.src.Get())
		}
	}
	if err := win.Flush(); err != nil {
		win.Close()
		return err
	}
	return win.Close()
}
