package regs

import "testing"

func TestSimJournal(t *testing.T) {
	b := NewBus()
	r := b.Reg("CR", 0x63)
	if b.Reg("CR", 0) != r {
		t.Fatal("second lookup must return the same register")
	}

	r.SetBits(1 << 8)
	r.ClearBits(1 << 0)
	r.ReplaceBits(0xB, 0xF, 4)

	want := []Write{
		{Reg: "CR", Old: 0x63, New: 0x163},
		{Reg: "CR", Old: 0x163, New: 0x162},
		{Reg: "CR", Old: 0x162, New: 0x1B2},
	}
	if len(b.Journal) != len(want) {
		t.Fatalf("journal %v", b.Journal)
	}
	for i := range want {
		if b.Journal[i] != want[i] {
			t.Fatalf("write %d: got %v, want %v", i, b.Journal[i], want[i])
		}
	}
	if got := b.Journal[0].String(); got != "CR 00000063 -> 00000163" {
		t.Fatalf("String() = %q", got)
	}
	if b.Journal[2].Changed() != 0xD0 {
		t.Fatalf("changed %x", b.Journal[2].Changed())
	}
	if i := b.Index(func(w Write) bool { return w.New&1 == 0 }); i != 1 {
		t.Fatalf("index %d", i)
	}
}

func TestSimHooks(t *testing.T) {
	b := NewBus()
	cr := b.Reg("CR", 0)
	reads := 0
	// Ready follows enable on the next read.
	b.OnRead = func(r *Sim) {
		reads++
		if r.Peek()&1 != 0 {
			r.Poke(r.Peek() | 2)
		}
	}
	var seen []uint32
	b.OnWrite = func(r *Sim, old uint32) { seen = append(seen, old) }

	cr.Set(1)
	if cr.Peek() != 1 {
		t.Fatal("poke before read")
	}
	if !cr.HasBits(2) || reads != 1 {
		t.Fatalf("ready not raised by read hook: %x", cr.Peek())
	}
	if len(seen) != 1 || seen[0] != 0 {
		t.Fatalf("write hook saw %v", seen)
	}
	if len(b.Journal) != 1 {
		t.Fatal("pokes must not be journaled")
	}
	if b.Lookup("nope") != nil {
		t.Fatal("lookup of unknown register")
	}
}

func TestReplaceBitsMasksValue(t *testing.T) {
	b := NewBus()
	r := b.Reg("CFGR", 0xFFFF_FFFF)
	r.ReplaceBits(0x1F, 0x3, 2)
	if r.Get() != 0xFFFF_FFFF {
		t.Fatalf("got %08x", r.Get())
	}
	r.ReplaceBits(0, 0x3, 2)
	if r.Get() != 0xFFFF_FFF3 {
		t.Fatalf("got %08x", r.Get())
	}
}
