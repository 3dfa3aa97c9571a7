package clocks

import "testing"

func TestTables(t *testing.T) {
	if b, ok := evenDiv.Bits(6); !ok || b != 0b10 {
		t.Fatalf("evenDiv 6 -> %b %v", b, ok)
	}
	if v, ok := ahbDiv.Value(0b1100); !ok || v != 64 {
		t.Fatalf("hpre 1100 -> %d %v", v, ok)
	}
	if ahbDiv.Contains(32) {
		t.Fatal("hpre has no /32")
	}
	if _, ok := apbDiv.Value(0b011); ok {
		t.Fatal("0b011 is not a canonical ppre code")
	}
}

func TestLinear(t *testing.T) {
	r := G0.PLLR
	if b, _ := r.Bits(2); b != 1 {
		t.Fatalf("g0 pllr 2 -> %b", b)
	}
	if b, _ := r.Bits(8); b != 7 {
		t.Fatalf("g0 pllr 8 -> %b", b)
	}
	if r.Contains(1) || r.Contains(9) {
		t.Fatal("g0 pllr is 2..8")
	}

	m := G4.PLLM.Values()
	if len(m) != 16 || m[0] != 1 || m[15] != 16 {
		t.Fatalf("g4 pllm values %v", m)
	}
	if b, _ := G4.PLLM.Bits(16); b != 15 {
		t.Fatalf("g4 pllm 16 -> %b", b)
	}
}

func TestFamilyLookup(t *testing.T) {
	for _, name := range []string{"l4", "l5", "g0", "g4"} {
		f, ok := FamilyByName(name)
		if !ok || f.Name != name {
			t.Fatalf("lookup %q", name)
		}
	}
	if _, ok := FamilyByName("f4"); ok {
		t.Fatal("unknown family resolved")
	}
	if G0.wakeSource(StopWakeMSI) != KindHSI {
		t.Fatal("g0 always wakes on hsi")
	}
	if L4.wakeSource(StopWakeHSI) != KindHSI || L4.wakeSource(StopWakeMSI) != KindMSI {
		t.Fatal("l4 wakes on the selected oscillator")
	}
}
