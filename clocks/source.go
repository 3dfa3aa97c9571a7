package clocks

// Kind identifies an oscillator or the PLL as a clock source.
type Kind uint8

const (
	KindNone Kind = iota
	KindHSI       // 16 MHz internal RC
	KindHSE       // external crystal or clock
	KindMSI       // multi-speed internal RC (L4/L5)
	KindLSI       // 32 kHz internal RC (G0)
	KindLSE       // 32.768 kHz crystal (G0)
	KindPLL
)

var kindNames = [...]string{"none", "hsi", "hse", "msi", "lsi", "lse", "pll"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	for i, n := range kindNames {
		if n == s {
			return Kind(i), true
		}
	}
	return KindNone, false
}

// ---------------- Source variants ----------------

// Source selects what drives the system clock multiplexer. Exactly one of
// HSI, HSE, MSI, LSI, LSE or PLL.
type Source interface {
	Kind() Kind
	source()
}

// PLLSource selects what feeds the PLL input divider. PLL itself does not
// implement it, so a PLL cannot feed itself.
type PLLSource interface {
	Source
	pllSource()
}

type HSI struct{}

// HSE carries the frequency of the external oscillator in Hz.
type HSE struct{ Hz uint32 }

// MSI carries the selected MSI range.
type MSI struct{ Range MSIRange }

type LSI struct{}

type LSE struct{}

// PLL drives SYSCLK from the main PLL R output. A nil Src is representable
// but never valid.
type PLL struct{ Src PLLSource }

func (HSI) Kind() Kind { return KindHSI }
func (HSE) Kind() Kind { return KindHSE }
func (MSI) Kind() Kind { return KindMSI }
func (LSI) Kind() Kind { return KindLSI }
func (LSE) Kind() Kind { return KindLSE }
func (PLL) Kind() Kind { return KindPLL }

func (HSI) source() {}
func (HSE) source() {}
func (MSI) source() {}
func (LSI) source() {}
func (LSE) source() {}
func (PLL) source() {}

func (HSI) pllSource() {}
func (HSE) pllSource() {}
func (MSI) pllSource() {}

// feed returns the oscillator that ultimately clocks src: the PLL's input
// for PLL, src itself otherwise. It is nil for a PLL without input.
func feed(src Source) Source {
	if p, ok := src.(PLL); ok {
		if p.Src == nil {
			return nil
		}
		return p.Src
	}
	return src
}

// uses reports whether osc is src or feeds src through the PLL.
func uses(src Source, osc Kind) bool {
	if src == nil {
		return false
	}
	if src.Kind() == osc {
		return true
	}
	f := feed(src)
	return f != nil && f.Kind() == osc
}

// ---------------- MSI ranges ----------------

// MSIRange is the MSIRANGE field value; it is also the hardware bit pattern.
type MSIRange uint8

const (
	MSI100k MSIRange = iota
	MSI200k
	MSI400k
	MSI800k
	MSI1M
	MSI2M
	MSI4M // reset default
	MSI8M
	MSI16M
	MSI24M
	MSI32M
	MSI48M
)

var msiTable = [...]struct {
	name string
	hz   uint32
}{
	{"100k", 100_000},
	{"200k", 200_000},
	{"400k", 400_000},
	{"800k", 800_000},
	{"1M", 1_000_000},
	{"2M", 2_000_000},
	{"4M", 4_000_000},
	{"8M", 8_000_000},
	{"16M", 16_000_000},
	{"24M", 24_000_000},
	{"32M", 32_000_000},
	{"48M", 48_000_000},
}

// Hz returns the nominal frequency of the range, 0 for an unknown range.
func (r MSIRange) Hz() uint32 {
	if int(r) < len(msiTable) {
		return msiTable[r].hz
	}
	return 0
}

func (r MSIRange) Valid() bool { return int(r) < len(msiTable) }

func (r MSIRange) String() string {
	if r.Valid() {
		return msiTable[r].name
	}
	return "invalid"
}

// ParseMSIRange accepts the names printed by String, e.g. "4M" or "100k".
func ParseMSIRange(s string) (MSIRange, bool) {
	for i, e := range msiTable {
		if e.name == s {
			return MSIRange(i), true
		}
	}
	return 0, false
}

// ---------------- Auxiliary selectors ----------------

// Clk48Src selects the source of the 48 MHz domain (USB, RNG, SDMMC).
type Clk48Src uint8

const (
	Clk48None Clk48Src = iota
	Clk48HSI48
	Clk48PLLSAI1 // PLLSAI1 Q output
	Clk48PLLQ    // main PLL Q output
	Clk48MSI
)

var clk48Names = [...]string{"none", "hsi48", "pllsai1", "pllq", "msi"}

func (c Clk48Src) String() string {
	if int(c) < len(clk48Names) {
		return clk48Names[c]
	}
	return "unknown"
}

func ParseClk48Src(s string) (Clk48Src, bool) {
	for i, n := range clk48Names {
		if n == s {
			return Clk48Src(i), true
		}
	}
	return Clk48None, false
}

// StopWake selects the oscillator hardware switches SYSCLK to when leaving
// Stop mode (STOPWUCK, L4/L5 only).
type StopWake uint8

const (
	StopWakeMSI StopWake = iota
	StopWakeHSI
)

func (w StopWake) String() string {
	if w == StopWakeHSI {
		return "hsi"
	}
	return "msi"
}

func (w StopWake) kind() Kind {
	if w == StopWakeHSI {
		return KindHSI
	}
	return KindMSI
}
