//go:build !tinygo

package main

import "clocktree-go/clocks"

// Host builds run against the simulator so the boot path can be exercised
// without a board.
func platformRegs(fam *clocks.Family) (*clocks.RCC, *clocks.Flash) {
	sim := clocks.NewSim(fam)
	sim.Lag = 1
	return sim.RCC, sim.Flash
}
