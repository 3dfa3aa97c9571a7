package clocks

import "golang.org/x/exp/constraints"

// Code pairs a divider or multiplier value with its register bit pattern.
type Code[V constraints.Unsigned] struct {
	Bits  uint32
	Value V
}

// Table is a closed set of codes for one register field on one family.
type Table[V constraints.Unsigned] []Code[V]

// Bits returns the bit pattern encoding v.
func (t Table[V]) Bits(v V) (uint32, bool) {
	for _, c := range t {
		if c.Value == v {
			return c.Bits, true
		}
	}
	return 0, false
}

// Value decodes a bit pattern.
func (t Table[V]) Value(bits uint32) (V, bool) {
	for _, c := range t {
		if c.Bits == bits {
			return c.Value, true
		}
	}
	return 0, false
}

func (t Table[V]) Contains(v V) bool {
	_, ok := t.Bits(v)
	return ok
}

// Values lists the decoded values in table order.
func (t Table[V]) Values() []V {
	out := make([]V, len(t))
	for i, c := range t {
		out[i] = c.Value
	}
	return out
}

// linear builds a table where value v is encoded as v-offset, for
// lo <= v <= hi.
func linear[V constraints.Unsigned](lo, hi V, offset V) Table[V] {
	t := make(Table[V], 0, int(hi-lo)+1)
	for v := lo; v <= hi; v++ {
		t = append(t, Code[V]{Bits: uint32(v - offset), Value: v})
	}
	return t
}

// Range is an inclusive multiplier range.
type Range struct {
	Min uint8
	Max uint8
}

// ---------------- Shared tables ----------------

var (
	// PLLR / PLLQ / PLLSAI1Q on L4, L5 and G4.
	evenDiv = Table[uint8]{{0b00, 2}, {0b01, 4}, {0b10, 6}, {0b11, 8}}

	// HPRE. There is no /32.
	ahbDiv = Table[uint16]{
		{0b0000, 1}, {0b1000, 2}, {0b1001, 4}, {0b1010, 8}, {0b1011, 16},
		{0b1100, 64}, {0b1101, 128}, {0b1110, 256}, {0b1111, 512},
	}

	// PPRE1 / PPRE2.
	apbDiv = Table[uint8]{{0b000, 1}, {0b100, 2}, {0b101, 4}, {0b110, 8}, {0b111, 16}}
)
