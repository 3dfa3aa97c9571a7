package clocks

// field is a multi-bit register field.
type field struct {
	pos   uint8
	width uint8
}

func (f field) mask() uint32        { return 1<<f.width - 1 }
func (f field) get(v uint32) uint32 { return v >> f.pos & f.mask() }
func (f field) in(v uint32) uint32  { return (v & f.mask()) << f.pos }
func (f field) placed() uint32      { return f.mask() << f.pos }
func (f field) present() bool       { return f.width != 0 }

// gate is an enable bit and the ready flag hardware raises once the
// oscillator or PLL behind it is stable.
type gate struct {
	on  uint32
	rdy uint32
}

// Layout holds the bit positions used by the sequencer. Zero values mean
// the family lacks the feature.
type Layout struct {
	// RCC_CR
	MSI, HSI, HSE, PLL, SAI1, SAI2 gate
	MSIRange                       field
	MSIRGSEL, HSEBYP, CSSON        uint32

	// RCC_CFGR
	SW, SWS, HPRE, PPRE1, PPRE2 field
	STOPWUCK                    uint32

	// RCC_PLLCFGR
	PLLSRC, PLLM, PLLN, PLLQ, PLLR field
	PLLPEN, PLLQEN, PLLREN         uint32

	// RCC_PLLSAIxCFGR
	SAIN, SAIQ             field
	SAIPEN, SAIQEN, SAIREN uint32

	CLK48SEL field // RCC_CCIPR
	HSI48    gate  // RCC_CRRCR
	LSI      gate  // RCC_CSR
	LSE      gate  // RCC_BDCR

	LATENCY field // FLASH_ACR
}

// Offsets are register byte offsets inside the RCC and FLASH blocks.
type Offsets struct {
	CR, CFGR, PLLCFGR, PLLSAI1CFGR, PLLSAI2CFGR, CCIPR, BDCR, CSR, CRRCR uintptr
	ACR                                                                  uintptr
}

// Family describes one MCU family: its field encodings, limits, breakpoint
// table and register map. Values are shared and must not be modified.
type Family struct {
	Name     string
	MaxClock uint32 // ceiling for SYSCLK, HCLK and every APB bus, Hz

	PLLN     Range
	PLLM     Table[uint8]
	PLLR     Table[uint8]
	PLLQ     Table[uint8]
	SAIPLLs  uint8 // number of PLLSAI units
	SAIN     Range
	SAIQ     Table[uint8]
	AHB      Table[uint16]
	APB      Table[uint8]
	APBBuses uint8

	// WaitBreakpoints are ascending HCLK ceilings for 0, 1, 2... wait states.
	WaitBreakpoints []uint32

	// SW encodings of the supported system clock sources.
	Sources map[Kind]uint32
	// PLLSRC encodings of the supported PLL inputs.
	PLLSources map[Kind]uint32
	// CLK48SEL encodings; empty on families without a 48 MHz domain.
	Clk48 map[Clk48Src]uint32

	HasHSI48    bool
	HasStopWake bool
	// ResetSource is the oscillator driving SYSCLK out of reset.
	ResetSource Kind

	DefaultPLLN  uint8
	DefaultClk48 Clk48Src

	Layout    Layout
	RCCBase   uintptr
	FlashBase uintptr
	Offsets   Offsets
}

// ---------------- Family descriptors ----------------

var lLayout = Layout{
	MSI:      gate{on: 1 << 0, rdy: 1 << 1},
	MSIRGSEL: 1 << 3,
	MSIRange: field{4, 4},
	HSI:      gate{on: 1 << 8, rdy: 1 << 10},
	HSE:      gate{on: 1 << 16, rdy: 1 << 17},
	HSEBYP:   1 << 18,
	CSSON:    1 << 19,
	PLL:      gate{on: 1 << 24, rdy: 1 << 25},
	SAI1:     gate{on: 1 << 26, rdy: 1 << 27},
	SAI2:     gate{on: 1 << 28, rdy: 1 << 29},

	SW:       field{0, 2},
	SWS:      field{2, 2},
	HPRE:     field{4, 4},
	PPRE1:    field{8, 3},
	PPRE2:    field{11, 3},
	STOPWUCK: 1 << 15,

	PLLSRC: field{0, 2},
	PLLM:   field{4, 3},
	PLLN:   field{8, 7},
	PLLPEN: 1 << 16,
	PLLQEN: 1 << 20,
	PLLQ:   field{21, 2},
	PLLREN: 1 << 24,
	PLLR:   field{25, 2},

	SAIN:   field{8, 7},
	SAIPEN: 1 << 16,
	SAIQEN: 1 << 20,
	SAIQ:   field{21, 2},
	SAIREN: 1 << 24,

	CLK48SEL: field{26, 2},
	HSI48:    gate{on: 1 << 0, rdy: 1 << 1},

	LATENCY: field{0, 3},
}

var lOffsets = Offsets{
	CR: 0x00, CFGR: 0x08, PLLCFGR: 0x0C, PLLSAI1CFGR: 0x10, PLLSAI2CFGR: 0x14,
	CCIPR: 0x88, BDCR: 0x90, CSR: 0x94, CRRCR: 0x98,
	ACR: 0x00,
}

var lSources = map[Kind]uint32{KindMSI: 0b00, KindHSI: 0b01, KindHSE: 0b10, KindPLL: 0b11}

var pllSourcesMSI = map[Kind]uint32{KindMSI: 0b01, KindHSI: 0b10, KindHSE: 0b11}

// L4 is the STM32L4 family (Range 1). PLLSAI2 exists on L4x5/L4x6 only.
var L4 = &Family{
	Name:            "l4",
	MaxClock:        80_000_000,
	PLLN:            Range{7, 86},
	PLLM:            linear[uint8](1, 8, 1),
	PLLR:            evenDiv,
	PLLQ:            evenDiv,
	SAIPLLs:         2,
	SAIN:            Range{7, 86},
	SAIQ:            evenDiv,
	AHB:             ahbDiv,
	APB:             apbDiv,
	APBBuses:        2,
	WaitBreakpoints: []uint32{16_000_000, 32_000_000, 48_000_000, 64_000_000},
	Sources:         lSources,
	PLLSources:      pllSourcesMSI,
	Clk48:           map[Clk48Src]uint32{Clk48HSI48: 0b00, Clk48PLLSAI1: 0b01, Clk48PLLQ: 0b10, Clk48MSI: 0b11},
	HasHSI48:        true,
	HasStopWake:     true,
	ResetSource:     KindMSI,
	DefaultPLLN:     20,
	DefaultClk48:    Clk48MSI,
	Layout:          lLayout,
	RCCBase:         0x4002_1000,
	FlashBase:       0x4002_2000,
	Offsets:         lOffsets,
}

// L5 is the STM32L5 family (non-secure aliases).
var L5 = &Family{
	Name:            "l5",
	MaxClock:        110_000_000,
	PLLN:            Range{7, 86},
	PLLM:            linear[uint8](1, 8, 1),
	PLLR:            evenDiv,
	PLLQ:            evenDiv,
	SAIPLLs:         2,
	SAIN:            Range{7, 86},
	SAIQ:            evenDiv,
	AHB:             ahbDiv,
	APB:             apbDiv,
	APBBuses:        2,
	WaitBreakpoints: []uint32{20_000_000, 40_000_000, 60_000_000, 80_000_000, 100_000_000},
	Sources:         lSources,
	PLLSources:      pllSourcesMSI,
	Clk48:           map[Clk48Src]uint32{Clk48HSI48: 0b00, Clk48PLLSAI1: 0b01, Clk48PLLQ: 0b10, Clk48MSI: 0b11},
	HasHSI48:        true,
	HasStopWake:     true,
	ResetSource:     KindMSI,
	DefaultPLLN:     27,
	DefaultClk48:    Clk48MSI,
	Layout:          withFields(lLayout, field{4, 4}, field{0, 4}),
	RCCBase:         0x4002_1000,
	FlashBase:       0x4002_2000,
	Offsets:         lOffsets,
}

// G4 is the STM32G4 family (Range 1 boost mode).
var G4 = &Family{
	Name:            "g4",
	MaxClock:        170_000_000,
	PLLN:            Range{8, 127},
	PLLM:            linear[uint8](1, 16, 1),
	PLLR:            evenDiv,
	PLLQ:            evenDiv,
	AHB:             ahbDiv,
	APB:             apbDiv,
	APBBuses:        2,
	WaitBreakpoints: []uint32{34_000_000, 68_000_000, 102_000_000, 136_000_000},
	Sources:         map[Kind]uint32{KindHSI: 0b01, KindHSE: 0b10, KindPLL: 0b11},
	PLLSources:      map[Kind]uint32{KindHSI: 0b10, KindHSE: 0b11},
	Clk48:           map[Clk48Src]uint32{Clk48HSI48: 0b00, Clk48PLLQ: 0b10},
	HasHSI48:        true,
	ResetSource:     KindHSI,
	DefaultPLLN:     42,
	DefaultClk48:    Clk48HSI48,
	Layout:          g4Layout(),
	RCCBase:         0x4002_1000,
	FlashBase:       0x4002_2000,
	Offsets:         Offsets{CR: 0x00, CFGR: 0x08, PLLCFGR: 0x0C, CCIPR: 0x88, BDCR: 0x90, CSR: 0x94, CRRCR: 0x98, ACR: 0x00},
}

// G0 is the STM32G0 family. It has a single APB bus and no 48 MHz domain.
var G0 = &Family{
	Name:            "g0",
	MaxClock:        64_000_000,
	PLLN:            Range{9, 86},
	PLLM:            linear[uint8](1, 8, 1),
	PLLR:            linear[uint8](2, 8, 1),
	PLLQ:            linear[uint8](2, 8, 1),
	AHB:             ahbDiv,
	APB:             apbDiv,
	APBBuses:        1,
	WaitBreakpoints: []uint32{24_000_000, 48_000_000},
	Sources:         map[Kind]uint32{KindHSI: 0b000, KindHSE: 0b001, KindPLL: 0b010, KindLSI: 0b011, KindLSE: 0b100},
	PLLSources:      map[Kind]uint32{KindHSI: 0b10, KindHSE: 0b11},
	ResetSource:     KindHSI,
	DefaultPLLN:     16,
	Layout:          g0Layout(),
	RCCBase:         0x4002_1000,
	FlashBase:       0x4002_2000,
	Offsets:         Offsets{CR: 0x00, CFGR: 0x08, PLLCFGR: 0x0C, BDCR: 0x5C, CSR: 0x60, ACR: 0x00},
}

func withFields(l Layout, pllm, latency field) Layout {
	l.PLLM = pllm
	l.LATENCY = latency
	return l
}

func g4Layout() Layout {
	l := withFields(lLayout, field{4, 4}, field{0, 4})
	l.MSI, l.MSIRGSEL, l.MSIRange = gate{}, 0, field{}
	l.SAI1, l.SAI2 = gate{}, gate{}
	l.SAIN, l.SAIQ = field{}, field{}
	l.SAIPEN, l.SAIQEN, l.SAIREN = 0, 0, 0
	l.STOPWUCK = 0
	return l
}

func g0Layout() Layout {
	return Layout{
		HSI:    gate{on: 1 << 8, rdy: 1 << 10},
		HSE:    gate{on: 1 << 16, rdy: 1 << 17},
		HSEBYP: 1 << 18,
		CSSON:  1 << 19,
		PLL:    gate{on: 1 << 24, rdy: 1 << 25},

		SW:    field{0, 3},
		SWS:   field{3, 3},
		HPRE:  field{8, 4},
		PPRE1: field{12, 3},

		PLLSRC: field{0, 2},
		PLLM:   field{4, 3},
		PLLN:   field{8, 7},
		PLLPEN: 1 << 16,
		PLLQEN: 1 << 24,
		PLLQ:   field{25, 3},
		PLLREN: 1 << 28,
		PLLR:   field{29, 3},

		LSI: gate{on: 1 << 0, rdy: 1 << 1},
		LSE: gate{on: 1 << 0, rdy: 1 << 1},

		LATENCY: field{0, 3},
	}
}

// ---------------- Lookup ----------------

var families = []*Family{L4, L5, G0, G4}

// Families lists the built-in family descriptors.
func Families() []*Family { return families }

// FamilyByName returns the descriptor called name ("l4", "l5", "g0", "g4").
func FamilyByName(name string) (*Family, bool) {
	for _, f := range families {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

func (f *Family) supports(k Kind) bool {
	_, ok := f.Sources[k]
	return ok
}

// swKind decodes an SW/SWS field value.
func (f *Family) swKind(bits uint32) Kind {
	for k, b := range f.Sources {
		if b == bits {
			return k
		}
	}
	return KindNone
}

// gate returns the enable/ready pair of an oscillator or the PLL.
func (f *Family) gate(k Kind) gate {
	l := &f.Layout
	switch k {
	case KindHSI:
		return l.HSI
	case KindHSE:
		return l.HSE
	case KindMSI:
		return l.MSI
	case KindLSI:
		return l.LSI
	case KindLSE:
		return l.LSE
	case KindPLL:
		return l.PLL
	}
	return gate{}
}

// wakeSource is the oscillator hardware selects when leaving Stop mode.
func (f *Family) wakeSource(w StopWake) Kind {
	if f.HasStopWake {
		return w.kind()
	}
	return KindHSI
}

func (g gate) present() bool { return g.on != 0 }
