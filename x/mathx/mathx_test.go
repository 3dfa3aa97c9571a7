package mathx

import "testing"

func TestClamp(t *testing.T) {
	cases := []struct{ v, lo, hi, want int }{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{11, 10, 0, 10}, // swapped bounds
	}
	for _, c := range cases {
		if got := Clamp(c.v, c.lo, c.hi); got != c.want {
			t.Fatalf("Clamp(%d,%d,%d)=%d want %d", c.v, c.lo, c.hi, got, c.want)
		}
	}
}

func TestBetweenInclusive(t *testing.T) {
	if !Between[uint8](8, 8, 86) || !Between[uint8](86, 8, 86) {
		t.Fatalf("bounds must be inclusive")
	}
	if Between[uint8](7, 8, 86) || Between[uint8](87, 86, 8) {
		t.Fatalf("outside values accepted")
	}
}

func TestRoundDiv(t *testing.T) {
	cases := map[[2]uint64]uint64{
		{7, 2}:  4,
		{5, 3}:  2,
		{9, 10}: 1,
		{4, 10}: 0,
		{1, 0}:  0,
	}
	for in, want := range cases {
		if got := RoundDiv(in[0], in[1]); got != want {
			t.Fatalf("RoundDiv(%d,%d)=%d want %d", in[0], in[1], got, want)
		}
	}
}

func TestCeilDiv(t *testing.T) {
	if got := CeilDiv[uint32](600_000_000, 8_000_000); got != 75 {
		t.Fatalf("exact: %d", got)
	}
	if got := CeilDiv[uint32](600_000_000, 7_000_000); got != 86 {
		t.Fatalf("round up: %d", got)
	}
	if got := CeilDiv[uint32](1, 0); got != 0 {
		t.Fatalf("zero divisor: %d", got)
	}
}
