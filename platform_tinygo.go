//go:build tinygo

package main

import (
	"clocktree-go/clocks"
	"clocktree-go/regs"
)

func platformRegs(fam *clocks.Family) (*clocks.RCC, *clocks.Flash) {
	return clocks.Map(fam, regs.At(fam.RCCBase), regs.At(fam.FlashBase))
}
