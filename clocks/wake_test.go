package clocks

import "testing"

func TestStopRoundTrip(t *testing.T) {
	for _, wake := range []StopWake{StopWakeMSI, StopWakeHSI} {
		c := Default(L4)
		c.StopWake = wake
		sim := apply(t, &c, 2)

		sim.EnterStop(wake)
		if sim.Active() != wake.kind() {
			t.Fatalf("woke on %v, want %v", sim.Active(), wake.kind())
		}

		c.ReSelectInput(sim.RCC)
		noFaults(t, sim)
		if sim.Active() != KindPLL {
			t.Fatalf("%v: active %v after reselect", wake, sim.Active())
		}
		got, err := Decode(L4, sim.RCC, 0)
		if err != nil || got != c {
			t.Fatalf("%v: decode %+v %v", wake, got, err)
		}
	}
}

func TestStopRoundTripRestartsAux(t *testing.T) {
	sai := Default(L4)
	sai.SAI1Enabled, sai.SAI1N, sai.SAI1Q = true, 12, 2
	sai.Clk48 = Clk48PLLSAI1

	hsi48 := Default(G4)
	hsi48.HSI48On = true

	for _, c := range []Config{sai, hsi48} {
		name := c.Family.Name
		sim := apply(t, &c, 2)
		sim.EnterStop(c.StopWake)

		c.ReSelectInput(sim.RCC)
		noFaults(t, sim)
		if sim.Active() != KindPLL {
			t.Fatalf("%s: active %v after reselect", name, sim.Active())
		}
		got, err := Decode(c.Family, sim.RCC, 0)
		if err != nil || got != c {
			t.Fatalf("%s: decode after wake\n got %+v\nwant %+v (%v)", name, got, c, err)
		}
		l := &c.Family.Layout
		if c.SAI1Enabled && sim.Reg("CR").Peek()&l.SAI1.rdy == 0 {
			t.Fatalf("%s: pllsai1 not ready: CR=%08x", name, sim.Reg("CR").Peek())
		}
		if c.HSI48On && sim.Reg("CRRCR").Peek()&l.HSI48.rdy == 0 {
			t.Fatalf("%s: hsi48 not ready: CRRCR=%08x", name, sim.Reg("CRRCR").Peek())
		}

		// A second wake-up check must find everything running.
		n := len(sim.Journal())
		c.ReSelectInput(sim.RCC)
		if len(sim.Journal()) != n {
			t.Fatalf("%s: repeated reselect wrote %v", name, sim.Journal()[n:])
		}
	}
}

func TestReSelectIdempotent(t *testing.T) {
	for _, fam := range Families() {
		c := Default(fam)
		sim := apply(t, &c, 0)
		before := c.Frequencies()
		n := len(sim.Journal())

		c.ReSelectInput(sim.RCC)
		if len(sim.Journal()) != n {
			t.Fatalf("%s: reselect without transition wrote %v", fam.Name, sim.Journal()[n:])
		}
		after := c.Frequencies()
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("%s: %v -> %v", fam.Name, before[i], after[i])
			}
		}
	}
}

func TestReSelectDirectSource(t *testing.T) {
	c := Default(G0)
	c.Source = HSE{Hz: 8_000_000}
	sim := apply(t, &c, 1)

	sim.EnterStop(c.StopWake)
	if sim.Active() != KindHSI {
		t.Fatalf("g0 woke on %v", sim.Active())
	}
	c.ReSelectInput(sim.RCC)
	noFaults(t, sim)
	if sim.Active() != KindHSE {
		t.Fatalf("active %v", sim.Active())
	}
}

func TestReSelectFallbackIsSource(t *testing.T) {
	c := Default(G4)
	c.Source = HSI{}
	sim := apply(t, &c, 0)

	sim.EnterStop(c.StopWake)
	n := len(sim.Journal())
	c.ReSelectInput(sim.RCC)
	if len(sim.Journal()) != n || sim.Active() != KindHSI {
		t.Fatalf("writes %v active %v", sim.Journal()[n:], sim.Active())
	}
}
