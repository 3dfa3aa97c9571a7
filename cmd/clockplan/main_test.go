package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clocktree-go/errcode"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func mustContain(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Fatalf("output missing %q:\n%s", w, out)
		}
	}
}

func TestFamilies(t *testing.T) {
	out, err := run(t, "families")
	if err != nil {
		t.Fatalf("families: %v", err)
	}
	mustContain(t, out, "l4", "l5", "g0", "g4", "170.000 MHz", "80.000 MHz")
}

func TestProfiles(t *testing.T) {
	out, err := run(t, "profiles")
	if err != nil {
		t.Fatalf("profiles: %v", err)
	}
	mustContain(t, out, "l4-hse-usb", "g4-hse-170m")
}

func TestFreqsBuiltin(t *testing.T) {
	out, err := run(t, "freqs", "--profile", "l4-hse-usb")
	if err != nil {
		t.Fatalf("freqs: %v", err)
	}
	mustContain(t, out, "sysclk 80000000\n", "usb 48000000\n", "latency 4\n")
}

func TestFreqsFamilyDefault(t *testing.T) {
	out, err := run(t, "freqs", "-f", "g0", "--yaml")
	if err != nil {
		t.Fatalf("freqs: %v", err)
	}
	mustContain(t, out, "sysclk: 64000000\n")
	if strings.Contains(out, "apb2") {
		t.Fatalf("g0 has one APB bus:\n%s", out)
	}
}

func TestUnknownFamilyAndProfile(t *testing.T) {
	if _, err := run(t, "freqs", "-f", "f4"); err == nil {
		t.Fatalf("expected unknown family error")
	}
	if _, err := run(t, "freqs", "-p", "no-such-profile"); err == nil {
		t.Fatalf("expected unknown profile error")
	}
}

func TestValidateOverCeiling(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fast.yaml")
	if err := os.WriteFile(path, []byte("family: l4\npll: {m: 1, n: 40, r: 2}\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, err := run(t, "validate", "-p", path)
	if errcode.Of(err) != errcode.InvalidSpeed {
		t.Fatalf("err = %v, want invalid_speed", err)
	}
	mustContain(t, out, "l4: not_valid", "sysclk above 80.000 MHz")

	out, err = run(t, "validate", "-p", "l4-hsi-80m")
	if err != nil {
		t.Fatalf("validate builtin: %v", err)
	}
	mustContain(t, out, "l4: valid")
}

func TestPlanAndInspectImage(t *testing.T) {
	img := filepath.Join(t.TempDir(), "rcc.img")
	out, err := run(t, "plan", "-p", "l4-hse-usb", "--si5351", "25000000", "-o", img)
	if err != nil {
		t.Fatalf("plan: %v\n%s", err, out)
	}
	mustContain(t, out,
		"clocks: source_off\n",
		"clocks: legacy_source_disabled\n",
		"i2c B1 A0\n",
		"active pll latency 4\n",
	)

	out, err = run(t, "inspect", "--image", img, "--hse", "8000000")
	if err != nil {
		t.Fatalf("inspect: %v\n%s", err, out)
	}
	mustContain(t, out,
		"source: pll\n",
		"pllSource: hse\n",
		"hseHz: 8000000\n",
		"clk48: pllsai1\n",
		"# latency 4, 4 required for 80.000 MHz\n",
	)
}

func TestInspectNeedsInput(t *testing.T) {
	if _, err := run(t, "inspect"); err == nil {
		t.Fatalf("expected error without --image or --devmem")
	}
}
