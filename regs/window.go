//go:build !tinygo

package regs

import (
	"errors"
	"os"
	"sync/atomic"
	"unsafe"

	mmap "github.com/edsrzf/mmap-go"
)

var ErrOutOfWindow = errors.New("register offset outside mapped window")

// Window maps a span of physical memory (/dev/mem) or a register image file
// so its words can be used as Registers. Offsets passed to OpenWindow must be
// page aligned.
type Window struct {
	f *os.File
	m mmap.MMap
}

// OpenWindow maps size bytes of path starting at offset, read-write.
func OpenWindow(path string, offset int64, size int) (*Window, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	m, err := mmap.MapRegion(f, size, mmap.RDWR, 0, offset)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Window{f: f, m: m}, nil
}

// CreateImage creates (or truncates) a zero-filled register image file of
// size bytes and maps it.
func CreateImage(path string, size int) (*Window, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(size)); err != nil {
		f.Close()
		return nil, err
	}
	f.Close()
	return OpenWindow(path, 0, size)
}

// Len returns the mapped size in bytes.
func (w *Window) Len() int { return len(w.m) }

// At resolves registers of a block starting base bytes into the window.
// It panics with ErrOutOfWindow on an offset outside the mapping.
func (w *Window) At(base uintptr) Resolver {
	return func(off uintptr) Register {
		i := base + off
		if i%4 != 0 || i+4 > uintptr(len(w.m)) {
			panic(ErrOutOfWindow)
		}
		return windowReg{p: (*uint32)(unsafe.Pointer(&w.m[i]))}
	}
}

func (w *Window) Flush() error { return w.m.Flush() }

func (w *Window) Close() error {
	err := w.m.Unmap()
	if cerr := w.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// windowReg accesses a mapped word with atomic loads and stores, which is
// the closest host equivalent of a volatile access.
type windowReg struct{ p *uint32 }

func (r windowReg) Get() uint32           { return atomic.LoadUint32(r.p) }
func (r windowReg) Set(v uint32)          { atomic.StoreUint32(r.p, v) }
func (r windowReg) SetBits(v uint32)      { r.Set(r.Get() | v) }
func (r windowReg) ClearBits(v uint32)    { r.Set(r.Get() &^ v) }
func (r windowReg) HasBits(v uint32) bool { return r.Get()&v != 0 }
func (r windowReg) ReplaceBits(v, mask uint32, pos uint8) {
	r.Set(r.Get()&^(mask<<pos) | (v&mask)<<pos)
}
