package clocks

// ReSelectInput restores the configured SYSCLK source after the hardware
// fell back to its wake oscillator (Stop mode exit), then restarts the
// PLLSAI units and HSI48 that Stop mode powered down. It assumes c was
// validated by a previous Setup and writes nothing when everything is
// already running.
func (c *Config) ReSelectInput(rcc *RCC) {
	s := newSequencer(c, rcc, nil)
	l := s.l
	fallback := c.Family.wakeSource(c.StopWake)

	switch src := c.Source.(type) {
	case PLL:
		if s.active() == KindPLL {
			waitSet(rcc.CR, l.PLL.rdy)
			break
		}
		if k := src.Src.Kind(); k != fallback {
			s.enable(k)
		}
		// Stop mode clears PLLON; the fields and output enables survive.
		rcc.CR.ClearBits(l.PLL.on)
		waitClear(rcc.CR, l.PLL.rdy)
		rcc.CR.SetBits(l.PLL.on)
		waitSet(rcc.CR, l.PLL.rdy)
		s.selectSystem(KindPLL)
	default:
		k := src.Kind()
		if s.active() == k {
			break
		}
		if k != fallback || !rcc.reg(k).HasBits(c.Family.gate(k).rdy) {
			s.enable(k)
		}
		s.selectSystem(k)
	}
	s.restoreAux()
}

// restoreAux restarts stopped PLLSAI units and HSI48. A unit's outputs are
// only raised after its ready flag.
func (s *sequencer) restoreAux() {
	for _, u := range s.sais() {
		if s.rcc.CR.HasBits(u.gate.on) {
			continue
		}
		s.rcc.CR.SetBits(u.gate.on)
		waitSet(s.rcc.CR, u.gate.rdy)
		if u.reg.Get()&u.outputs != u.outputs {
			u.reg.SetBits(u.outputs)
		}
	}
	if s.c.HSI48On && s.fam.HasHSI48 && !s.rcc.CRRCR.HasBits(s.l.HSI48.on) {
		s.rcc.CRRCR.SetBits(s.l.HSI48.on)
		waitSet(s.rcc.CRRCR, s.l.HSI48.rdy)
	}
}
