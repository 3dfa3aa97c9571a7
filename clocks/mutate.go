package clocks

import "clocktree-go/errcode"

// ChangeMSISpeed retunes MSI while it drives SYSCLK. It panics unless the
// configured source is MSI. With a non-nil flash the wait states follow the
// new HCLK: raised before the change, lowered after it.
func (c *Config) ChangeMSISpeed(rcc *RCC, flash *Flash, r MSIRange) {
	const op = "clocks.change_msi_speed"
	if _, ok := c.Source.(MSI); !ok {
		panic(&errcode.E{C: errcode.Precondition, Op: op, Msg: "source is not msi"})
	}
	if !r.Valid() {
		panic(&errcode.E{C: errcode.InvalidParams, Op: op, Msg: "msi range"})
	}

	s := newSequencer(c, rcc, flash)
	l := s.l
	c.Source = MSI{Range: r}
	target := c.Family.WaitStates(c.HClk())
	if flash != nil {
		s.raiseLatency(target)
	}

	waitSet(rcc.CR, l.MSI.rdy)
	modify(rcc.CR, l.MSIRange.in(uint32(r))|l.MSIRGSEL, l.MSIRange.placed())
	waitSet(rcc.CR, l.MSI.rdy)

	if flash != nil {
		s.setLatency(target)
	}
}

// EnableMSI48 restarts MSI at 48 MHz for the 48 MHz domain. It panics when
// MSI clocks SYSCLK, directly or through the PLL, or when the family has no
// MSI.
func (c *Config) EnableMSI48(rcc *RCC) {
	const op = "clocks.enable_msi48"
	if !c.Family.Layout.MSI.present() {
		panic(&errcode.E{C: errcode.Unsupported, Op: op, Msg: "no msi"})
	}
	if uses(c.Source, KindMSI) {
		panic(&errcode.E{C: errcode.Precondition, Op: op, Msg: "msi drives sysclk"})
	}

	l := &c.Family.Layout
	rcc.CR.ClearBits(l.MSI.on)
	waitClear(rcc.CR, l.MSI.rdy)
	modify(rcc.CR, l.MSIRange.in(uint32(MSI48M))|l.MSIRGSEL|l.MSI.on, l.MSIRange.placed())
	waitSet(rcc.CR, l.MSI.rdy)
}
