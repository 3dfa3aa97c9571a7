package clocks

import (
	"clocktree-go/errcode"
	"clocktree-go/regs"
)

// State is a sequencer milestone, reported in order through WithObserver.
type State uint8

const (
	StateSourceOff State = iota
	StateSourceEnabling
	StateSourceReady
	StatePLLConfiguring
	StatePLLReady
	StateSwitched
	StateAuxConfigured
	StateLegacySourceDisabled
)

var stateNames = [...]string{
	"source_off",
	"source_enabling",
	"source_ready",
	"pll_configuring",
	"pll_ready",
	"switched",
	"aux_configured",
	"legacy_source_disabled",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// ExternalClock is an off-chip generator driving the HSE pin. Setup starts
// it before any on-chip register is written.
type ExternalClock interface {
	Start(hz uint32) error
}

// Option customises a single Setup call.
type Option func(*sequencer)

// WithObserver registers fn to be called at every milestone. Observers run
// inline on the polling path and must not block.
func WithObserver(fn func(State)) Option {
	return func(s *sequencer) { s.observers = append(s.observers, fn) }
}

// WithExternalClock starts ec at the HSE frequency when the configuration
// uses HSE.
func WithExternalClock(ec ExternalClock) Option {
	return func(s *sequencer) { s.ext = ec }
}

// ---------------- Setup ----------------

// Setup validates c and programs the clock tree. On an invalid
// configuration it returns an invalid_speed error and writes nothing.
// Once the first register is written the sequence runs to completion;
// every wait is an unbounded poll.
func (c *Config) Setup(rcc *RCC, flash *Flash, opts ...Option) error {
	const op = "clocks.setup"

	if chk := c.Check(); chk.Validity != Valid {
		return speedError(op, chk)
	}

	s := newSequencer(c, rcc, flash)
	for _, o := range opts {
		o(s)
	}

	if hz, ok := c.hseHz(); ok && s.ext != nil {
		if err := s.ext.Start(hz); err != nil {
			return &errcode.E{C: errcode.MapDriverErr(err), Op: op, Msg: "external clock", Err: err}
		}
	}
	s.emit(StateSourceOff)

	// Raise wait states before anything can speed up HCLK; lower them only
	// once the new clock is selected.
	target := c.Family.WaitStates(c.HClk())
	s.raiseLatency(target)

	s.emit(StateSourceEnabling)
	s.startSource(feed(c.Source))
	s.emit(StateSourceReady)

	if p, ok := c.Source.(PLL); ok {
		s.emit(StatePLLConfiguring)
		s.configurePLL(p)
		s.emit(StatePLLReady)
	}

	s.switchSystem()
	s.setLatency(target)
	s.emit(StateSwitched)

	s.aux()
	s.emit(StateAuxConfigured)

	s.disableLegacy()
	s.emit(StateLegacySourceDisabled)
	return nil
}

// ---------------- sequencer ----------------

type sequencer struct {
	c     *Config
	fam   *Family
	l     *Layout
	rcc   *RCC
	flash *Flash

	observers []func(State)
	ext       ExternalClock
}

func newSequencer(c *Config, rcc *RCC, flash *Flash) *sequencer {
	return &sequencer{c: c, fam: c.Family, l: &c.Family.Layout, rcc: rcc, flash: flash}
}

func (s *sequencer) emit(st State) {
	for _, fn := range s.observers {
		fn(st)
	}
}

// active decodes SWS: what the hardware reports as driving SYSCLK.
func (s *sequencer) active() Kind {
	return s.fam.swKind(s.l.SWS.get(s.rcc.CFGR.Get()))
}

// activeFeed is the oscillator that clocks the running PLL, as programmed.
func (s *sequencer) activeFeed() Kind {
	bits := s.l.PLLSRC.get(s.rcc.PLLCFGR.Get())
	for k, b := range s.fam.PLLSources {
		if b == bits {
			return k
		}
	}
	return KindNone
}

// ---------------- Flash latency ----------------

func (s *sequencer) latency() uint32 {
	return s.l.LATENCY.get(s.flash.ACR.Get())
}

// setLatency writes LATENCY and waits until the read-back matches.
func (s *sequencer) setLatency(ws uint32) {
	if s.latency() == ws {
		return
	}
	put(s.flash.ACR, s.l.LATENCY, ws)
	for s.latency() != ws {
	}
}

func (s *sequencer) raiseLatency(ws uint32) {
	if ws > s.latency() {
		s.setLatency(ws)
	}
}

// coverHz raises the latency for SYSCLK running at hz under the prescaler
// currently in CFGR.
func (s *sequencer) coverHz(hz uint32) {
	div, ok := s.fam.AHB.Value(s.l.HPRE.get(s.rcc.CFGR.Get()))
	if !ok || div == 0 {
		div = 1
	}
	s.raiseLatency(s.fam.WaitStates(hz / uint32(div)))
}

// ---------------- Oscillators ----------------

// enable turns on oscillator k and waits for its ready flag.
func (s *sequencer) enable(k Kind) {
	g := s.fam.gate(k)
	r := s.rcc.reg(k)
	r.SetBits(g.on)
	waitSet(r, g.rdy)
}

func (s *sequencer) startSource(src Source) {
	switch o := src.(type) {
	case MSI:
		s.startMSI(o.Range)
	case HSE:
		s.enable(KindHSE)
		if s.c.HSEBypass {
			s.rcc.CR.SetBits(s.l.HSEBYP)
		}
	default:
		s.enable(src.Kind())
	}
}

// startMSI brings MSI up at range r. MSI cannot be stopped while it clocks
// SYSCLK, so in that case the range is changed in place once MSIRDY is set.
func (s *sequencer) startMSI(r MSIRange) {
	l := s.l
	if s.active() == KindPLL && s.activeFeed() == KindMSI {
		s.leavePLL(KindMSI)
	}
	if s.active() == KindMSI {
		s.coverHz(r.Hz())
		waitSet(s.rcc.CR, l.MSI.rdy)
		modify(s.rcc.CR, l.MSIRange.in(uint32(r))|l.MSIRGSEL, l.MSIRange.placed())
		waitSet(s.rcc.CR, l.MSI.rdy)
		return
	}
	s.rcc.CR.ClearBits(l.MSI.on)
	waitClear(s.rcc.CR, l.MSI.rdy)
	modify(s.rcc.CR, l.MSIRange.in(uint32(r))|l.MSIRGSEL|l.MSI.on, l.MSIRange.placed())
	waitSet(s.rcc.CR, l.MSI.rdy)
}

// ---------------- PLL ----------------

// leavePLL moves SYSCLK from the PLL to the oscillator to, which must be
// running.
func (s *sequencer) leavePLL(to Kind) {
	s.coverHz(s.runningHz(to))
	s.selectSystem(to)
}

// runningHz is the frequency of a running oscillator. HSE cannot be read
// back and is taken from the configuration.
func (s *sequencer) runningHz(k Kind) uint32 {
	switch k {
	case KindMSI:
		return MSIRange(s.l.MSIRange.get(s.rcc.CR.Get())).Hz()
	case KindHSE:
		hz, _ := s.c.hseHz()
		return hz
	}
	return OscHz(oscOf(k))
}

func (s *sequencer) configurePLL(p PLL) {
	c, l, fam := s.c, s.l, s.fam
	if s.active() == KindPLL {
		s.leavePLL(p.Src.Kind())
	}

	s.rcc.CR.ClearBits(l.PLL.on)
	waitClear(s.rcc.CR, l.PLL.rdy)

	src := fam.PLLSources[p.Src.Kind()]
	m, _ := fam.PLLM.Bits(c.PLLM)
	r, _ := fam.PLLR.Bits(c.PLLR)
	q, _ := fam.PLLQ.Bits(c.PLLQ)
	modify(s.rcc.PLLCFGR,
		l.PLLSRC.in(src)|l.PLLM.in(m)|l.PLLN.in(uint32(c.PLLN))|l.PLLR.in(r)|l.PLLQ.in(q),
		l.PLLSRC.placed()|l.PLLM.placed()|l.PLLN.placed()|l.PLLR.placed()|l.PLLQ.placed()|
			l.PLLPEN|l.PLLQEN|l.PLLREN)

	sai := s.sais()
	for _, u := range sai {
		s.rcc.CR.ClearBits(u.gate.on)
		waitClear(s.rcc.CR, u.gate.rdy)
		modify(u.reg, u.fields, l.SAIN.placed()|l.SAIQ.placed()|u.outputs)
	}

	s.rcc.CR.SetBits(l.PLL.on)
	for _, u := range sai {
		s.rcc.CR.SetBits(u.gate.on)
		waitSet(s.rcc.CR, u.gate.rdy)
	}
	waitSet(s.rcc.CR, l.PLL.rdy)

	s.rcc.PLLCFGR.SetBits(l.PLLPEN | l.PLLQEN | l.PLLREN)
	for _, u := range sai {
		u.reg.SetBits(u.outputs)
	}
}

type saiUnit struct {
	gate    gate
	reg     regs.Register
	fields  uint32
	outputs uint32
}

// sais lists the enabled PLLSAI units with their target field values.
func (s *sequencer) sais() []saiUnit {
	c, l := s.c, s.l
	var out []saiUnit
	if c.SAI1Enabled && s.fam.SAIPLLs > 0 {
		q, _ := s.fam.SAIQ.Bits(c.SAI1Q)
		out = append(out, saiUnit{
			gate:    l.SAI1,
			reg:     s.rcc.PLLSAI1CFGR,
			fields:  l.SAIN.in(uint32(c.SAI1N)) | l.SAIQ.in(q),
			outputs: l.SAIPEN | l.SAIQEN | l.SAIREN,
		})
	}
	if c.SAI2Enabled && s.fam.SAIPLLs > 1 {
		// PLLSAI2 has no Q output.
		out = append(out, saiUnit{
			gate:    l.SAI2,
			reg:     s.rcc.PLLSAI2CFGR,
			fields:  l.SAIN.in(uint32(c.SAI2N)),
			outputs: l.SAIPEN | l.SAIREN,
		})
	}
	return out
}

// ---------------- System switch ----------------

func (s *sequencer) selectSystem(k Kind) {
	bits := s.fam.Sources[k]
	put(s.rcc.CFGR, s.l.SW, bits)
	for s.l.SWS.get(s.rcc.CFGR.Get()) != bits {
	}
}

// switchSystem writes SW and the bus prescalers in one store, then waits
// for SWS to follow.
func (s *sequencer) switchSystem() {
	c, l, fam := s.c, s.l, s.fam
	sw := fam.Sources[c.Source.Kind()]
	hpre, _ := fam.AHB.Bits(c.AHBDiv)
	ppre1, _ := fam.APB.Bits(c.APB1Div)

	set := l.SW.in(sw) | l.HPRE.in(hpre) | l.PPRE1.in(ppre1)
	clear := l.SW.placed() | l.HPRE.placed() | l.PPRE1.placed()
	if l.PPRE2.present() {
		ppre2, _ := fam.APB.Bits(c.APB2Div)
		set |= l.PPRE2.in(ppre2)
		clear |= l.PPRE2.placed()
	}
	if l.STOPWUCK != 0 {
		clear |= l.STOPWUCK
		if c.StopWake == StopWakeHSI {
			set |= l.STOPWUCK
		}
	}
	modify(s.rcc.CFGR, set, clear)
	for l.SWS.get(s.rcc.CFGR.Get()) != sw {
	}
}

// ---------------- Aux and cleanup ----------------

func (s *sequencer) aux() {
	c, l, fam := s.c, s.l, s.fam
	if c.SecuritySystem {
		s.rcc.CR.SetBits(l.CSSON)
	} else if s.rcc.CR.HasBits(l.CSSON) {
		s.rcc.CR.ClearBits(l.CSSON)
	}
	if l.CLK48SEL.present() && c.Clk48 != Clk48None {
		put(s.rcc.CCIPR, l.CLK48SEL, fam.Clk48[c.Clk48])
	}
	if c.HSI48On && fam.HasHSI48 {
		s.rcc.CRRCR.SetBits(l.HSI48.on)
		waitSet(s.rcc.CRRCR, l.HSI48.rdy)
	}
}

// disableLegacy stops the oscillator the part boots from unless the new
// tree still depends on it.
func (s *sequencer) disableLegacy() {
	k := s.fam.ResetSource
	if uses(s.c.Source, k) {
		return
	}
	s.rcc.reg(k).ClearBits(s.fam.gate(k).on)
}

// oscOf returns the zero-valued variant of an oscillator kind, for
// frequency lookups of fixed oscillators.
func oscOf(k Kind) Source {
	switch k {
	case KindHSI:
		return HSI{}
	case KindLSI:
		return LSI{}
	case KindLSE:
		return LSE{}
	}
	return nil
}
