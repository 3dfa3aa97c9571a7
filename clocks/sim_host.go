//go:build !tinygo

package clocks

import (
	"clocktree-go/regs"
	"clocktree-go/x/conv"
)

// Sim is a host model of one family's RCC and FLASH blocks. Ready flags
// follow their enable bits after Lag polls of the owning register, SWS
// follows SW once the selected source is ready, and violations of the
// reference-manual sequencing rules are appended to Faults instead of
// hanging the caller.
type Sim struct {
	Family *Family
	Bus    *regs.Bus
	RCC    *RCC
	Flash  *Flash

	// Lag is the number of reads before a ready flag or SWS settles.
	Lag int
	// HSEHz is the frequency of the crystal on the HSE pins.
	HSEHz uint32

	Faults []string

	pend   []pending
	gates  []simGate
	inHook bool
}

type pending struct {
	reg   *regs.Sim
	n     int
	apply func()
}

type simGate struct {
	kind Kind
	reg  *regs.Sim
	g    gate
}

// NewSim returns a simulator in the family's reset state.
func NewSim(fam *Family) *Sim {
	s := &Sim{Family: fam, Bus: regs.NewBus()}
	l := &fam.Layout

	cr := uint32(0x0000_0500) // HSION | HSIRDY
	if fam.ResetSource == KindMSI {
		cr = l.MSI.on | l.MSI.rdy | l.MSIRange.in(uint32(MSI4M))
	}
	cfgr := l.SW.in(fam.Sources[fam.ResetSource]) | l.SWS.in(fam.Sources[fam.ResetSource])

	reset := map[string]uint32{
		"CR":          cr,
		"CFGR":        cfgr,
		"PLLCFGR":     0x0000_1000,
		"PLLSAI1CFGR": 0x0000_1000,
		"PLLSAI2CFGR": 0x0000_1000,
	}
	o := &fam.Offsets
	names := map[uintptr]string{}
	for _, e := range []struct {
		off  uintptr
		name string
	}{
		{o.CR, "CR"}, {o.CFGR, "CFGR"}, {o.PLLCFGR, "PLLCFGR"},
		{o.PLLSAI1CFGR, "PLLSAI1CFGR"}, {o.PLLSAI2CFGR, "PLLSAI2CFGR"},
		{o.CCIPR, "CCIPR"}, {o.BDCR, "BDCR"}, {o.CSR, "CSR"}, {o.CRRCR, "CRRCR"},
	} {
		if _, ok := names[e.off]; !ok {
			names[e.off] = e.name
		}
	}
	s.RCC, s.Flash = Map(fam,
		func(off uintptr) regs.Register { return s.Bus.Reg(names[off], reset[names[off]]) },
		func(uintptr) regs.Register { return s.Bus.Reg("ACR", 0) },
	)

	for _, g := range []struct {
		k    Kind
		name string
		g    gate
	}{
		{KindMSI, "CR", l.MSI}, {KindHSI, "CR", l.HSI}, {KindHSE, "CR", l.HSE},
		{KindPLL, "CR", l.PLL}, {kindSAI1, "CR", l.SAI1}, {kindSAI2, "CR", l.SAI2},
		{KindLSI, "CSR", l.LSI}, {KindLSE, "BDCR", l.LSE}, {kindHSI48, "CRRCR", l.HSI48},
	} {
		if r := s.Bus.Lookup(g.name); r != nil && g.g.present() {
			s.gates = append(s.gates, simGate{kind: g.k, reg: r, g: g.g})
		}
	}

	s.Bus.OnWrite = s.onWrite
	s.Bus.OnRead = s.onRead
	return s
}

// Pseudo kinds for gates that never drive SYSCLK.
const (
	kindSAI1 Kind = 100 + iota
	kindSAI2
	kindHSI48
)

// Reg returns a simulated register by name ("CR", "CFGR", "ACR", ...).
func (s *Sim) Reg(name string) *regs.Sim { return s.Bus.Lookup(name) }

// Active is the source SWS currently reports.
func (s *Sim) Active() Kind {
	return s.Family.swKind(s.Family.Layout.SWS.get(s.Reg("CFGR").Peek()))
}

// EnterStop models a Stop mode round trip: high-speed oscillators and PLLs
// stop, and on wake the hardware selects the fallback oscillator.
func (s *Sim) EnterStop(wake StopWake) {
	fam, l := s.Family, &s.Family.Layout
	fallback := fam.wakeSource(wake)
	s.pend = nil
	for _, g := range s.gates {
		switch g.kind {
		case KindLSI, KindLSE:
			continue
		case fallback:
			g.reg.Poke(g.reg.Peek() | g.g.on | g.g.rdy)
		default:
			g.reg.Poke(g.reg.Peek() &^ (g.g.on | g.g.rdy))
		}
	}
	cfgr := s.Reg("CFGR")
	bits := fam.Sources[fallback]
	v := cfgr.Peek() &^ (l.SW.placed() | l.SWS.placed())
	cfgr.Poke(v | l.SW.in(bits) | l.SWS.in(bits))
}

// Journal returns the writes recorded so far.
func (s *Sim) Journal() []regs.Write { return s.Bus.Journal }

// ---------------- hooks ----------------

func (s *Sim) onRead(r *regs.Sim) {
	if s.inHook {
		return
	}
	kept := s.pend[:0]
	var due []pending
	for _, p := range s.pend {
		if p.reg == r {
			p.n--
			if p.n <= 0 {
				due = append(due, p)
				continue
			}
		}
		kept = append(kept, p)
	}
	s.pend = kept
	for _, p := range due {
		p.apply()
	}
}

func (s *Sim) later(r *regs.Sim, apply func()) {
	if s.Lag <= 0 {
		apply()
		return
	}
	s.pend = append(s.pend, pending{reg: r, n: s.Lag, apply: apply})
}

func (s *Sim) fault(msg string) { s.Faults = append(s.Faults, msg) }

func (s *Sim) onWrite(r *regs.Sim, old uint32) {
	s.inHook = true
	defer func() { s.inHook = false }()

	l := &s.Family.Layout
	switch r.Name() {
	case "CFGR":
		s.onCFGR(r, old)
	case "PLLCFGR":
		enables := l.PLLPEN | l.PLLQEN | l.PLLREN
		s.checkLocked(r, old, l.PLL, enables, "pllcfgr")
	case "PLLSAI1CFGR":
		s.checkLocked(r, old, l.SAI1, l.SAIPEN|l.SAIQEN|l.SAIREN, "pllsai1cfgr")
	case "PLLSAI2CFGR":
		s.checkLocked(r, old, l.SAI2, l.SAIPEN|l.SAIREN, "pllsai2cfgr")
	}
	if r.Name() == "CR" && l.MSI.present() {
		v := r.Peek()
		if l.MSIRange.get(old) != l.MSIRange.get(v) && old&l.MSI.on != 0 && old&l.MSI.rdy == 0 {
			s.fault("msi range changed while on and not ready")
		}
	}
	for _, g := range s.gates {
		if g.reg == r {
			s.onGate(g, old)
		}
	}
	s.checkLatency()
}

func (s *Sim) onGate(g simGate, old uint32) {
	v := g.reg.Peek()
	switch {
	case v&g.g.on != 0 && old&g.g.on == 0:
		if g.kind == KindPLL && !s.ready(s.pllFeed()) {
			s.fault("pll enabled without a ready input")
		}
		if (g.kind == kindSAI1 || g.kind == kindSAI2) && !s.ready(s.pllFeed()) {
			s.fault("pllsai enabled without a ready input")
		}
		s.later(g.reg, func() {
			if g.reg.Peek()&g.g.on != 0 {
				g.reg.Poke(g.reg.Peek() | g.g.rdy)
			}
		})
	case v&g.g.on == 0 && old&g.g.on != 0:
		if s.feedsSystem(g.kind) {
			g.reg.Poke(v | g.g.on)
			return
		}
		g.reg.Poke(v &^ g.g.rdy)
	}
}

func (s *Sim) onCFGR(r *regs.Sim, old uint32) {
	fam, l := s.Family, &s.Family.Layout
	v := r.Peek()
	if l.SW.get(v) == l.SW.get(old) {
		return
	}
	bits := l.SW.get(v)
	k := fam.swKind(bits)
	if k == KindNone {
		s.fault("sw reserved value")
		return
	}
	if !s.ready(k) {
		s.fault("switched to " + k.String() + " before ready")
	}
	s.later(r, func() {
		cur := r.Peek()
		r.Poke(cur&^l.SWS.placed() | l.SWS.in(l.SW.get(cur)))
	})
}

// checkLocked flags configuration fields written while the PLL behind them
// runs, and output enables raised before it reports ready.
func (s *Sim) checkLocked(r *regs.Sim, old uint32, g gate, enables uint32, name string) {
	cr := s.Reg("CR").Peek()
	v := r.Peek()
	if (old^v)&^enables != 0 && cr&(g.on|g.rdy) != 0 {
		s.fault(name + " fields written while pll on")
	}
	if v&^old&enables != 0 && cr&g.rdy == 0 {
		s.fault(name + " outputs enabled before ready")
	}
}

func (s *Sim) checkLatency() {
	c, err := Decode(s.Family, s.RCC, s.HSEHz)
	if err != nil {
		return
	}
	have := s.Family.Layout.LATENCY.get(s.Reg("ACR").Peek())
	if want := s.Family.WaitStates(c.HClk()); have < want {
		var a, b [20]byte
		s.fault("latency " + string(conv.Utoa(a[:], uint64(have))) +
			" below " + string(conv.Utoa(b[:], uint64(want))))
	}
}

// ---------------- state helpers ----------------

func (s *Sim) gateOf(k Kind) (simGate, bool) {
	for _, g := range s.gates {
		if g.kind == k {
			return g, true
		}
	}
	return simGate{}, false
}

func (s *Sim) ready(k Kind) bool {
	g, ok := s.gateOf(k)
	return ok && g.reg.Peek()&g.g.rdy != 0
}

func (s *Sim) pllFeed() Kind {
	l := &s.Family.Layout
	bits := l.PLLSRC.get(s.Reg("PLLCFGR").Peek())
	for k, b := range s.Family.PLLSources {
		if b == bits {
			return k
		}
	}
	return KindNone
}

// feedsSystem reports whether k clocks SYSCLK directly or through the PLL;
// hardware ignores attempts to stop it.
func (s *Sim) feedsSystem(k Kind) bool {
	a := s.Active()
	if a == k {
		return true
	}
	return a == KindPLL && k == s.pllFeed()
}
