package clocks

import (
	"testing"

	"clocktree-go/errcode"
)

func expectPanic(t *testing.T, want errcode.Code, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		err, ok := r.(error)
		if !ok {
			t.Fatalf("expected panic with %q, got %v", want, r)
		}
		if errcode.Of(err) != want {
			t.Fatalf("panic code %q, want %q", errcode.Of(err), want)
		}
	}()
	fn()
}

func TestChangeMSISpeedRequiresMSI(t *testing.T) {
	c := Default(L4)
	sim := NewSim(L4)
	expectPanic(t, errcode.Precondition, func() { c.ChangeMSISpeed(sim.RCC, sim.Flash, MSI8M) })
	if len(sim.Journal()) != 0 {
		t.Fatal("registers touched before panic")
	}
}

func TestChangeMSISpeed(t *testing.T) {
	c := Default(L4)
	c.Source = MSI{Range: MSI4M}
	sim := apply(t, &c, 1)
	l := &L4.Layout

	c.ChangeMSISpeed(sim.RCC, sim.Flash, MSI24M)
	noFaults(t, sim)
	if MSIRange(l.MSIRange.get(sim.Reg("CR").Peek())) != MSI24M {
		t.Fatalf("cr %08x", sim.Reg("CR").Peek())
	}
	if c.SysClk() != 24_000_000 || Latency(L4, sim.Flash) != 1 {
		t.Fatalf("sysclk %d latency %d", c.SysClk(), Latency(L4, sim.Flash))
	}

	c.ChangeMSISpeed(sim.RCC, sim.Flash, MSI100k)
	noFaults(t, sim)
	if c.SysClk() != 100_000 || Latency(L4, sim.Flash) != 0 {
		t.Fatalf("sysclk %d latency %d", c.SysClk(), Latency(L4, sim.Flash))
	}

	expectPanic(t, errcode.InvalidParams, func() { c.ChangeMSISpeed(sim.RCC, sim.Flash, 12) })
}

func TestEnableMSI48(t *testing.T) {
	c := Default(L4)
	sim := apply(t, &c, 1)
	l := &L4.Layout

	c.EnableMSI48(sim.RCC)
	noFaults(t, sim)
	cr := sim.Reg("CR").Peek()
	if cr&l.MSI.rdy == 0 || MSIRange(l.MSIRange.get(cr)) != MSI48M {
		t.Fatalf("cr %08x", cr)
	}
	if sim.Active() != KindPLL {
		t.Fatalf("active %v", sim.Active())
	}
}

func TestEnableMSI48Preconditions(t *testing.T) {
	sim := NewSim(L4)

	c := Default(L4)
	c.Source = MSI{Range: MSI4M}
	expectPanic(t, errcode.Precondition, func() { c.EnableMSI48(sim.RCC) })

	c.Source = PLL{Src: MSI{Range: MSI4M}}
	expectPanic(t, errcode.Precondition, func() { c.EnableMSI48(sim.RCC) })

	g := Default(G4)
	gs := NewSim(G4)
	expectPanic(t, errcode.Unsupported, func() { g.EnableMSI48(gs.RCC) })
}
