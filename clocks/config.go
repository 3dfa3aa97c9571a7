// Package clocks configures the STM32 L4/L5/G0/G4 clock tree: oscillator and
// PLL selection, bus prescalers, flash wait states, and the register
// sequence the RCC requires to switch SYSCLK safely.
//
// A Config is plain data bound to a *Family descriptor. Setup validates it
// and programs the hardware once at boot; ReSelectInput restores the source
// after Stop mode. All operations block on ready flags without timeout and
// assume exclusive, single-threaded access to the registers.
package clocks

// Config describes a clock tree. It owns no hardware.
type Config struct {
	Family *Family

	// Source drives SYSCLK.
	Source Source

	PLLM uint8 // PLL input divider
	PLLN uint8 // PLL multiplier
	PLLR uint8 // PLL output divider for SYSCLK
	PLLQ uint8 // PLL Q output divider (48 MHz domain)

	// PLLSAI1/PLLSAI2 share the main PLL input and divider (L4/L5).
	SAI1N       uint8
	SAI1Q       uint8
	SAI1Enabled bool
	SAI2N       uint8
	SAI2Enabled bool

	AHBDiv  uint16 // SYSCLK -> HCLK
	APB1Div uint8  // HCLK -> PCLK1
	APB2Div uint8  // HCLK -> PCLK2, ignored on single-bus families

	Clk48 Clk48Src

	// HSEBypass uses an external clock signal instead of a crystal.
	HSEBypass bool
	// SecuritySystem enables the clock security system (CSS) on HSE.
	SecuritySystem bool
	// HSI48On starts the 48 MHz RC oscillator (USB, RNG).
	HSI48On bool
	// StopWake selects the oscillator used after Stop mode on L4/L5.
	StopWake StopWake
}

// Default returns the reference configuration of fam: PLL fed by HSI16,
// M=2, R=2, all prescalers 1. That is 80 MHz on L4, 108 MHz on L5, 64 MHz
// on G0 and 168 MHz on G4.
func Default(fam *Family) Config {
	return Config{
		Family:   fam,
		Source:   PLL{Src: HSI{}},
		PLLM:     2,
		PLLN:     fam.DefaultPLLN,
		PLLR:     2,
		PLLQ:     2,
		SAI1N:    8,
		SAI1Q:    2,
		SAI2N:    8,
		AHBDiv:   1,
		APB1Div:  1,
		APB2Div:  1,
		Clk48:    fam.DefaultClk48,
		StopWake: StopWakeMSI,
	}
}

// hseHz returns the HSE frequency when HSE drives SYSCLK directly or through
// the PLL.
func (c *Config) hseHz() (uint32, bool) {
	if h, ok := feed(c.Source).(HSE); ok {
		return h.Hz, true
	}
	return 0, false
}
