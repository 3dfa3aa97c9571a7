package clocks

import "testing"

func TestDefaultFrequencies(t *testing.T) {
	want := map[string]uint32{
		"l4": 80_000_000,
		"l5": 108_000_000,
		"g0": 64_000_000,
		"g4": 168_000_000,
	}
	for _, fam := range Families() {
		c := Default(fam)
		if got := c.SysClk(); got != want[fam.Name] {
			t.Fatalf("%s: sysclk %d, want %d", fam.Name, got, want[fam.Name])
		}
		if c.HClk() != c.SysClk() || c.APB1() != c.SysClk() || c.APB2() != c.SysClk() {
			t.Fatalf("%s: prescalers of 1 must pass sysclk through", fam.Name)
		}
		if c.Systick() != c.HClk() {
			t.Fatalf("%s: systick %d != hclk %d", fam.Name, c.Systick(), c.HClk())
		}
	}
}

func TestCalc(t *testing.T) {
	cases := []struct {
		name    string
		src     Source
		m, n, r uint8
		in, sys uint32
	}{
		{"hsi", HSI{}, 0, 0, 0, 16_000_000, 16_000_000},
		{"msi 100k", MSI{Range: MSI100k}, 0, 0, 0, 100_000, 100_000},
		{"msi 48M", MSI{Range: MSI48M}, 0, 0, 0, 48_000_000, 48_000_000},
		{"lsi", LSI{}, 0, 0, 0, 32_000, 32_000},
		{"lse", LSE{}, 0, 0, 0, 32_768, 32_768},
		{"pll hsi", PLL{Src: HSI{}}, 2, 20, 2, 16_000_000, 80_000_000},
		// 25e6/3 = 8333333, *20 = 166666660, /2 = 83333330
		{"pll truncates", PLL{Src: HSE{Hz: 25_000_000}}, 3, 20, 2, 25_000_000, 83_333_330},
		{"pll msi", PLL{Src: MSI{Range: MSI4M}}, 1, 40, 2, 4_000_000, 80_000_000},
		{"pll zero m", PLL{Src: HSI{}}, 0, 20, 2, 16_000_000, 0},
		{"pll no source", PLL{}, 2, 20, 2, 0, 0},
	}
	for _, tc := range cases {
		in, sys := Calc(tc.src, tc.m, tc.n, tc.r)
		if in != tc.in || sys != tc.sys {
			t.Fatalf("%s: got (%d, %d), want (%d, %d)", tc.name, in, sys, tc.in, tc.sys)
		}
	}
}

func TestPLLOutDoesNotWrap(t *testing.T) {
	// 4e9 / 1 * 127 overflows 32 bits in the intermediate product.
	if got := pllOut(4_000_000_000, 1, 127, 2); got != 4_294_967_295 {
		t.Fatalf("pllOut = %d, want saturation", got)
	}
	if got := pllOut(48_000_000, 1, 86, 2); got != 2_064_000_000 {
		t.Fatalf("pllOut = %d", got)
	}
}

func TestTimerDoubling(t *testing.T) {
	c := Default(L4)
	if c.APB1() != 80_000_000 || c.APB1Timer() != 80_000_000 {
		t.Fatalf("div 1: apb1 %d timer %d", c.APB1(), c.APB1Timer())
	}

	c.APB1Div = 2
	if c.APB1() != 40_000_000 || c.APB1Timer() != 80_000_000 {
		t.Fatalf("div 2: apb1 %d timer %d", c.APB1(), c.APB1Timer())
	}

	c.APB2Div = 16
	if c.APB2() != 5_000_000 || c.APB2Timer() != 10_000_000 {
		t.Fatalf("div 16: apb2 %d timer %d", c.APB2(), c.APB2Timer())
	}
}

func TestSingleBusAliasesAPB2(t *testing.T) {
	c := Default(G0)
	c.APB1Div = 4
	c.APB2Div = 1 // ignored
	if c.APB2() != c.APB1() || c.APB2() != 16_000_000 {
		t.Fatalf("apb2 %d, apb1 %d", c.APB2(), c.APB1())
	}
	if c.APB2Timer() != 32_000_000 {
		t.Fatalf("apb2 timer %d", c.APB2Timer())
	}
}

func TestUSB(t *testing.T) {
	c := Default(L4)
	if c.USB() != 48_000_000 {
		t.Fatalf("msi: %d", c.USB())
	}

	c.Clk48 = Clk48PLLQ
	c.PLLQ = 4
	if got := c.USB(); got != 40_000_000 {
		t.Fatalf("pllq: %d", got)
	}

	c.Clk48 = Clk48PLLSAI1
	c.SAI1N, c.SAI1Q = 12, 2
	if got := c.USB(); got != 48_000_000 {
		t.Fatalf("pllsai1: %d", got)
	}

	// MSI clocking SYSCLK cannot be moved to 48 MHz, so the 48 MHz domain
	// runs at whatever range SYSCLK uses.
	c.Clk48 = Clk48MSI
	c.Source = MSI{Range: MSI4M}
	if got := c.USB(); got != 4_000_000 {
		t.Fatalf("msi source: %d", got)
	}
	c.Source = PLL{Src: MSI{Range: MSI16M}}
	if got := c.USB(); got != 16_000_000 {
		t.Fatalf("msi pll input: %d", got)
	}
	c.Source = PLL{Src: HSE{Hz: 8_000_000}}
	if got := c.USB(); got != 48_000_000 {
		t.Fatalf("msi48 beside hse: %d", got)
	}

	g0 := Default(G0)
	if g0.USB() != 0 {
		t.Fatalf("g0 has no 48 MHz domain, got %d", g0.USB())
	}
}

func TestQueriesFollowMutation(t *testing.T) {
	c := Default(L4)
	c.Source = MSI{Range: MSI8M}
	if c.SysClk() != 8_000_000 {
		t.Fatalf("sysclk %d", c.SysClk())
	}
	c.Source = MSI{Range: MSI32M}
	c.AHBDiv = 4
	if c.HClk() != 8_000_000 {
		t.Fatalf("hclk %d", c.HClk())
	}
}
