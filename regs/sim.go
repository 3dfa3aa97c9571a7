package regs

import "clocktree-go/x/conv"

// ---------------- Journal ----------------

// Write is one journaled register store.
type Write struct {
	Reg string
	Old uint32
	New uint32
}

// String renders the write without fmt, e.g. "CR 00000063 -> 01000063".
func (w Write) String() string {
	var a, b [8]byte
	return w.Reg + " " + string(conv.U32Hex(a[:], w.Old)) + " -> " + string(conv.U32Hex(b[:], w.New))
}

// Changed returns the bits that differ between Old and New.
func (w Write) Changed() uint32 { return w.Old ^ w.New }

// ---------------- Bus ----------------

// Bus groups simulated registers that share one journal and one set of
// hardware hooks.
type Bus struct {
	Journal []Write

	// OnWrite runs after every store. It may Poke any register on the bus
	// to model hardware side effects; pokes are not journaled.
	OnWrite func(r *Sim, old uint32)
	// OnRead runs before every load.
	OnRead func(r *Sim)

	regs map[string]*Sim
}

func NewBus() *Bus {
	return &Bus{regs: make(map[string]*Sim)}
}

// Reg returns the register called name, creating it with the reset value
// on first use.
func (b *Bus) Reg(name string, reset uint32) *Sim {
	if r, ok := b.regs[name]; ok {
		return r
	}
	r := &Sim{name: name, v: reset, bus: b}
	b.regs[name] = r
	return r
}

// Lookup returns the register called name, or nil.
func (b *Bus) Lookup(name string) *Sim { return b.regs[name] }

// Index returns the journal position of the first write matching pred, or -1.
func (b *Bus) Index(pred func(Write) bool) int {
	for i, w := range b.Journal {
		if pred(w) {
			return i
		}
	}
	return -1
}

// ---------------- Sim register ----------------

// Sim is an in-memory register attached to a Bus.
type Sim struct {
	name string
	v    uint32
	bus  *Bus
}

func (r *Sim) Name() string { return r.name }

// Peek reads the value without running the read hook.
func (r *Sim) Peek() uint32 { return r.v }

// Poke stores the value without journaling or hooks.
func (r *Sim) Poke(v uint32) { r.v = v }

func (r *Sim) Get() uint32 {
	if r.bus.OnRead != nil {
		r.bus.OnRead(r)
	}
	return r.v
}

func (r *Sim) Set(v uint32) {
	old := r.v
	r.v = v
	r.bus.Journal = append(r.bus.Journal, Write{Reg: r.name, Old: old, New: v})
	if r.bus.OnWrite != nil {
		r.bus.OnWrite(r, old)
	}
}

func (r *Sim) SetBits(v uint32)      { r.Set(r.v | v) }
func (r *Sim) ClearBits(v uint32)    { r.Set(r.v &^ v) }
func (r *Sim) HasBits(v uint32) bool { return r.Get()&v != 0 }
func (r *Sim) ReplaceBits(v, mask uint32, pos uint8) {
	r.Set(r.v&^(mask<<pos) | (v&mask)<<pos)
}
