package conv

import "testing"

func TestUtoa(t *testing.T) {
	var buf [20]byte
	cases := map[uint64]string{
		0:                    "0",
		7:                    "7",
		170_000_000:          "170000000",
		18446744073709551615: "18446744073709551615",
	}
	for n, want := range cases {
		if got := string(Utoa(buf[:], n)); got != want {
			t.Fatalf("Utoa(%d)=%q want %q", n, got, want)
		}
	}
	if got := Utoa(nil, 5); len(got) != 0 {
		t.Fatalf("empty buffer must yield empty slice")
	}
}

func TestU32Hex(t *testing.T) {
	var buf [8]byte
	if got := string(U32Hex(buf[:], 0x0300_0063)); got != "03000063" {
		t.Fatalf("U32Hex=%q", got)
	}
	if got := U32Hex(buf[:4], 1); len(got) != 0 {
		t.Fatalf("short buffer must yield empty slice")
	}
}
