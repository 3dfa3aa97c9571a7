package clocks

import "math"

// Nominal oscillator frequencies, Hz.
const (
	HSIHz   = 16_000_000
	HSI48Hz = 48_000_000
	// LSIHz is the RM0444 typical value; the RC spreads roughly ±5%
	// across temperature and parts.
	LSIHz = 32_000
	LSEHz = 32_768
)

// OscHz returns the nominal frequency of a non-PLL source, 0 for PLL or nil.
func OscHz(src Source) uint32 {
	switch s := src.(type) {
	case HSI:
		return HSIHz
	case HSE:
		return s.Hz
	case MSI:
		return s.Range.Hz()
	case LSI:
		return LSIHz
	case LSE:
		return LSEHz
	}
	return 0
}

// pllOut computes in / m * n / div, truncating at every step as the
// hardware does. Zero divisors yield 0.
func pllOut(in uint32, m, n, div uint8) uint32 {
	if m == 0 || div == 0 {
		return 0
	}
	v := uint64(in) / uint64(m) * uint64(n) / uint64(div)
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

// Calc returns the raw input frequency of src and the resulting SYSCLK. For
// a PLL the input is the PLL's source oscillator and SYSCLK is
// input / m * n / r.
func Calc(src Source, m, n, r uint8) (input, sysclk uint32) {
	if p, ok := src.(PLL); ok {
		if p.Src == nil {
			return 0, 0
		}
		input = OscHz(p.Src)
		return input, pllOut(input, m, n, r)
	}
	input = OscHz(src)
	return input, input
}

// ---------------- Queries ----------------
//
// Every query recomputes from the Config; nothing is cached, so a mutation
// between calls (ChangeMSISpeed) is always reflected. Hot paths should keep
// their own copy of the value.

// SysClk returns the SYSCLK frequency in Hz.
func (c *Config) SysClk() uint32 {
	_, sys := Calc(c.Source, c.PLLM, c.PLLN, c.PLLR)
	return sys
}

// HClk returns the AHB (core bus) frequency in Hz.
func (c *Config) HClk() uint32 {
	if c.AHBDiv == 0 {
		return 0
	}
	return c.SysClk() / uint32(c.AHBDiv)
}

// Systick returns the SysTick reference frequency, equal to HCLK.
func (c *Config) Systick() uint32 { return c.HClk() }

func (c *Config) APB1() uint32 { return apb(c.HClk(), c.APB1Div) }

// APB2 returns the PCLK2 frequency. Single-bus families (G0) alias APB1.
func (c *Config) APB2() uint32 {
	if c.Family != nil && c.Family.APBBuses < 2 {
		return c.APB1()
	}
	return apb(c.HClk(), c.APB2Div)
}

// APB1Timer returns the APB1 timer kernel clock: PCLK1 when the prescaler
// is 1, twice PCLK1 otherwise.
func (c *Config) APB1Timer() uint32 { return timer(c.APB1(), c.APB1Div) }

func (c *Config) APB2Timer() uint32 {
	if c.Family != nil && c.Family.APBBuses < 2 {
		return c.APB1Timer()
	}
	return timer(c.APB2(), c.APB2Div)
}

// USB returns the frequency of the 48 MHz domain as selected by Clk48, or 0
// when the family has none. Clk48MSI follows the configured MSI range when
// MSI clocks SYSCLK, directly or through the PLL; otherwise it assumes
// EnableMSI48 has run.
func (c *Config) USB() uint32 {
	if c.Family != nil && len(c.Family.Clk48) == 0 {
		return 0
	}
	switch c.Clk48 {
	case Clk48HSI48:
		return HSI48Hz
	case Clk48MSI:
		if m, ok := feed(c.Source).(MSI); ok {
			return m.Range.Hz()
		}
		return HSI48Hz
	case Clk48PLLQ:
		return pllOut(c.pllInput(), c.PLLM, c.PLLN, c.PLLQ)
	case Clk48PLLSAI1:
		return pllOut(c.pllInput(), c.PLLM, c.SAI1N, c.SAI1Q)
	}
	return 0
}

// pllInput is the PLL reference frequency, also when the PLL does not
// drive SYSCLK.
func (c *Config) pllInput() uint32 {
	if p, ok := c.Source.(PLL); ok {
		return OscHz(p.Src)
	}
	return 0
}

func apb(hclk uint32, div uint8) uint32 {
	if div == 0 {
		return 0
	}
	return hclk / uint32(div)
}

func timer(pclk uint32, div uint8) uint32 {
	if div == 1 {
		return pclk
	}
	return pclk * 2
}
