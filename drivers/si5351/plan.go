package si5351

import "clocktree-go/x/mathx"

const (
	vcoMin = 600_000_000
	vcoMax = 900_000_000

	denom = 1<<20 - 1

	msMin = 8
	msMax = 2048
)

// Plan is a PLLA feedback ratio A + B/C and an integer output divider.
type Plan struct {
	VCO     uint32
	A, B, C uint32
	Div     uint32
}

// PlanFor picks the smallest even output divider that puts the VCO in its
// 600-900 MHz band, then the feedback fraction reaching that VCO from xtal.
func PlanFor(xtal, hz uint32) (Plan, error) {
	if !mathx.Between(xtal, 10_000_000, 40_000_000) {
		return Plan{}, ErrCrystal
	}
	if hz == 0 {
		return Plan{}, ErrFrequency
	}
	div := mathx.CeilDiv[uint32](vcoMin, hz)
	if div%2 != 0 {
		div++
	}
	div = mathx.Clamp(div, msMin, msMax)
	vco := uint64(hz) * uint64(div)
	if vco < vcoMin || vco > vcoMax {
		return Plan{}, ErrFrequency
	}

	a := vco / uint64(xtal)
	b := mathx.RoundDiv(vco%uint64(xtal)*denom, uint64(xtal))
	if b == denom {
		a, b = a+1, 0
	}
	return Plan{VCO: uint32(vco), A: uint32(a), B: uint32(b), C: denom, Div: div}, nil
}

// Output is the frequency the plan produces from xtal, truncated to 1 Hz.
func (p Plan) Output(xtal uint32) uint32 {
	if p.Div == 0 || p.C == 0 {
		return 0
	}
	num := uint64(xtal)*uint64(p.A)*uint64(p.C) + uint64(xtal)*uint64(p.B)
	return uint32(num / (uint64(p.C) * uint64(p.Div)))
}

// multisynth packs a + b/c into the P1/P2/P3 register form (AN619 3.2).
func multisynth(a, b, c uint32, out *[8]byte) {
	f := 128 * uint64(b) / uint64(c)
	p1 := uint32(128*uint64(a) + f - 512)
	p2 := uint32(128*uint64(b) - uint64(c)*f)
	p3 := c

	out[0] = byte(p3 >> 8)
	out[1] = byte(p3)
	out[2] = byte(p1>>16) & 0x03
	out[3] = byte(p1 >> 8)
	out[4] = byte(p1)
	out[5] = byte(p3>>16)<<4 | byte(p2>>16)&0x0F
	out[6] = byte(p2 >> 8)
	out[7] = byte(p2)
}

func (p Plan) feedbackParams(out *[8]byte) { multisynth(p.A, p.B, p.C, out) }

func (p Plan) outputParams(out *[8]byte) { multisynth(p.Div, 0, 1, out) }
