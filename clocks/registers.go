package clocks

import "clocktree-go/regs"

// RCC holds the reset and clock control registers the sequencer touches.
// Registers the family lacks are nil.
type RCC struct {
	CR          regs.Register
	CFGR        regs.Register
	PLLCFGR     regs.Register
	PLLSAI1CFGR regs.Register
	PLLSAI2CFGR regs.Register
	CCIPR       regs.Register
	BDCR        regs.Register
	CSR         regs.Register
	CRRCR       regs.Register
}

// Flash holds the flash interface registers.
type Flash struct {
	ACR regs.Register
}

// Map builds the register blocks of fam from two resolvers, one rooted at
// the RCC block and one at the FLASH block.
func Map(fam *Family, rcc, flash regs.Resolver) (*RCC, *Flash) {
	o := &fam.Offsets
	r := &RCC{
		CR:      rcc(o.CR),
		CFGR:    rcc(o.CFGR),
		PLLCFGR: rcc(o.PLLCFGR),
		BDCR:    rcc(o.BDCR),
		CSR:     rcc(o.CSR),
	}
	if fam.SAIPLLs > 0 {
		r.PLLSAI1CFGR = rcc(o.PLLSAI1CFGR)
	}
	if fam.SAIPLLs > 1 {
		r.PLLSAI2CFGR = rcc(o.PLLSAI2CFGR)
	}
	if len(fam.Clk48) > 0 {
		r.CCIPR = rcc(o.CCIPR)
	}
	if fam.HasHSI48 {
		r.CRRCR = rcc(o.CRRCR)
	}
	return r, &Flash{ACR: flash(o.ACR)}
}

// reg returns the register holding the enable and ready bits of k.
func (r *RCC) reg(k Kind) regs.Register {
	switch k {
	case KindLSI:
		return r.CSR
	case KindLSE:
		return r.BDCR
	}
	return r.CR
}

// ---------------- Access helpers ----------------

func waitSet(r regs.Register, bit uint32) {
	for !r.HasBits(bit) {
	}
}

func waitClear(r regs.Register, bit uint32) {
	for r.HasBits(bit) {
	}
}

// modify is a single read-modify-write: clear first, then set.
func modify(r regs.Register, set, clear uint32) {
	v := r.Get()
	r.Set(v&^clear | set)
}

func put(r regs.Register, f field, v uint32) {
	r.ReplaceBits(v, f.mask(), f.pos)
}
