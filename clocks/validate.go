package clocks

import (
	"clocktree-go/errcode"
	"clocktree-go/x/mathx"
)

// Validity is the result of the speed predicate.
type Validity uint8

const (
	Valid Validity = iota
	NotValid
)

func (v Validity) String() string {
	if v == Valid {
		return "valid"
	}
	return "not_valid"
}

// Domain names a derived clock checked against the family ceiling.
type Domain uint8

const (
	DomainSYSCLK Domain = iota
	DomainHCLK
	DomainAPB1
	DomainAPB2
)

var domainNames = [...]string{"sysclk", "hclk", "apb1", "apb2"}

func (d Domain) String() string {
	if int(d) < len(domainNames) {
		return domainNames[d]
	}
	return "unknown"
}

// Check is the detailed validation report.
type Check struct {
	Validity Validity
	// RangeFault names the first field outside its family range. When set,
	// frequencies were not examined.
	RangeFault string
	// Over lists every domain above the family ceiling.
	Over []Domain
}

// Check validates the configuration without touching hardware. Range
// checks short-circuit; frequency checks accumulate.
func (c *Config) Check() Check {
	if f := c.rangeFault(); f != "" {
		return Check{Validity: NotValid, RangeFault: f}
	}

	var chk Check
	max := c.Family.MaxClock
	over := func(d Domain, hz uint32) {
		if hz > max {
			chk.Over = append(chk.Over, d)
			chk.Validity = NotValid
		}
	}
	over(DomainSYSCLK, c.SysClk())
	over(DomainHCLK, c.HClk())
	over(DomainAPB1, c.APB1())
	if c.Family.APBBuses > 1 {
		over(DomainAPB2, c.APB2())
	}
	return chk
}

// ValidateSpeeds is the validity predicate used before any register write.
func (c *Config) ValidateSpeeds() Validity { return c.Check().Validity }

func (c *Config) rangeFault() string {
	f := c.Family
	if f == nil {
		return "family"
	}
	if !mathx.Between(c.PLLN, f.PLLN.Min, f.PLLN.Max) {
		return "plln"
	}
	if f.SAIPLLs > 0 {
		if !mathx.Between(c.SAI1N, f.SAIN.Min, f.SAIN.Max) {
			return "sai1n"
		}
		if f.SAIPLLs > 1 && !mathx.Between(c.SAI2N, f.SAIN.Min, f.SAIN.Max) {
			return "sai2n"
		}
		if !f.SAIQ.Contains(c.SAI1Q) {
			return "sai1q"
		}
	}
	switch {
	case !f.PLLM.Contains(c.PLLM):
		return "pllm"
	case !f.PLLR.Contains(c.PLLR):
		return "pllr"
	case !f.PLLQ.Contains(c.PLLQ):
		return "pllq"
	case !f.AHB.Contains(c.AHBDiv):
		return "ahb_div"
	case !f.APB.Contains(c.APB1Div):
		return "apb1_div"
	case f.APBBuses > 1 && !f.APB.Contains(c.APB2Div):
		return "apb2_div"
	}

	if c.Source == nil || !f.supports(c.Source.Kind()) {
		return "source"
	}
	switch s := c.Source.(type) {
	case PLL:
		if s.Src == nil {
			return "pll_source"
		}
		if _, ok := f.PLLSources[s.Src.Kind()]; !ok {
			return "pll_source"
		}
		if m, ok := s.Src.(MSI); ok && !m.Range.Valid() {
			return "msi_range"
		}
	case MSI:
		if !s.Range.Valid() {
			return "msi_range"
		}
	}

	if len(f.Clk48) > 0 {
		if _, ok := f.Clk48[c.Clk48]; !ok {
			return "clk48"
		}
	}
	_, pll := c.Source.(PLL)
	// The SAI PLLs and the PLL Q output share the main PLL input stage,
	// which is only programmed when the PLL drives SYSCLK.
	if (c.SAI1Enabled && f.SAIPLLs < 1) || (c.SAI2Enabled && f.SAIPLLs < 2) ||
		((c.SAI1Enabled || c.SAI2Enabled) && !pll) {
		return "sai_enabled"
	}
	if (c.Clk48 == Clk48PLLQ && !pll) || (c.Clk48 == Clk48PLLSAI1 && !c.SAI1Enabled) {
		return "clk48"
	}
	if c.HSI48On && !f.HasHSI48 {
		return "hsi48"
	}
	return ""
}

// speedError reports a failed Check without fmt.
func speedError(op string, chk Check) error {
	msg := chk.RangeFault
	if msg != "" {
		msg = "out of range: " + msg
	} else {
		msg = "over ceiling:"
		for _, d := range chk.Over {
			msg += " " + d.String()
		}
	}
	return &errcode.E{C: errcode.InvalidSpeed, Op: op, Msg: msg}
}
