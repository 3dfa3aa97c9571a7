package clocks

import (
	"io"

	"clocktree-go/x/conv"
)

// Trace returns an observer option that writes one line per milestone to w,
// e.g. "clocks: pll_ready". Write errors are ignored.
func Trace(w io.Writer) Option {
	return WithObserver(func(s State) {
		_, _ = io.WriteString(w, "clocks: "+s.String()+"\n")
	})
}

// WriteFrequencies prints the derived clocks of c, one "name hz" pair per
// line, without fmt.
func WriteFrequencies(w io.Writer, c *Config) error {
	var buf [20]byte
	for _, f := range c.Frequencies() {
		if _, err := io.WriteString(w, f.Name+" "+string(conv.Utoa(buf[:], uint64(f.Hz)))+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Frequency is one named derived clock.
type Frequency struct {
	Name string
	Hz   uint32
}

// Frequencies evaluates every query once, in a fixed order.
func (c *Config) Frequencies() []Frequency {
	out := []Frequency{
		{"sysclk", c.SysClk()},
		{"hclk", c.HClk()},
		{"systick", c.Systick()},
		{"apb1", c.APB1()},
		{"apb1_timer", c.APB1Timer()},
	}
	if c.Family.APBBuses > 1 {
		out = append(out, Frequency{"apb2", c.APB2()}, Frequency{"apb2_timer", c.APB2Timer()})
	}
	if len(c.Family.Clk48) > 0 {
		out = append(out, Frequency{"usb", c.USB()})
	}
	return out
}
