//go:build !tinygo

package regs

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestWindowImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rcc.img")
	w, err := CreateImage(path, 0x2000)
	if err != nil {
		t.Fatal(err)
	}
	if w.Len() != 0x2000 {
		t.Fatalf("len %d", w.Len())
	}

	rcc, flash := w.At(0), w.At(0x1000)
	rcc(0x08).Set(0x0000_000F)
	rcc(0x08).ClearBits(0x3)
	flash(0).ReplaceBits(4, 0xF, 0)
	if !rcc(0x08).HasBits(0xC) || rcc(0x08).HasBits(0x3) {
		t.Fatalf("cfgr %08x", rcc(0x08).Get())
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	w, err = OpenWindow(path, 0, 0x2000)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	if got := w.At(0x1000)(0).Get(); got != 4 {
		t.Fatalf("flash acr %d after reopen", got)
	}
	if got := w.At(0)(0x08).Get(); got != 0xC {
		t.Fatalf("cfgr %08x after reopen", got)
	}
}

func TestWindowBounds(t *testing.T) {
	w, err := CreateImage(filepath.Join(t.TempDir(), "small.img"), 16)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	for _, off := range []uintptr{16, 2} {
		func() {
			defer func() {
				r := recover()
				if err, ok := r.(error); !ok || !errors.Is(err, ErrOutOfWindow) {
					t.Fatalf("offset %d: recovered %v", off, r)
				}
			}()
			w.At(0)(off)
		}()
	}
}
