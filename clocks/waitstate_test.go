package clocks

import "testing"

func TestWaitStateBreakpoints(t *testing.T) {
	cases := []struct {
		fam  *Family
		hclk uint32
		want uint32
	}{
		{L4, 0, 0},
		{L4, 16_000_000, 0},
		{L4, 16_000_001, 1},
		{L4, 48_000_000, 2},
		{L4, 64_000_000, 3},
		{L4, 80_000_000, 4},
		{L5, 20_000_000, 0},
		{L5, 100_000_000, 4},
		{L5, 110_000_000, 5},
		{G0, 24_000_000, 0},
		{G0, 48_000_000, 1},
		{G0, 64_000_000, 2},
		{G4, 34_000_000, 0},
		{G4, 136_000_000, 3},
		{G4, 170_000_000, 4},
	}
	for _, tc := range cases {
		if got := tc.fam.WaitStates(tc.hclk); got != tc.want {
			t.Fatalf("%s @ %d: got %d, want %d", tc.fam.Name, tc.hclk, got, tc.want)
		}
	}
}

func TestWaitStatesMonotonic(t *testing.T) {
	for _, fam := range Families() {
		prev := uint32(0)
		for hz := uint32(0); hz <= fam.MaxClock; hz += 250_000 {
			ws := fam.WaitStates(hz)
			if ws < prev {
				t.Fatalf("%s: %d wait states at %d Hz after %d", fam.Name, ws, hz, prev)
			}
			prev = ws
		}
		if prev != fam.MaxWaitStates() {
			t.Fatalf("%s: ceiling uses %d, max is %d", fam.Name, prev, fam.MaxWaitStates())
		}
	}
}
