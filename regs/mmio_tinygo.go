//go:build tinygo

package regs

import (
	"runtime/volatile"
	"unsafe"
)

// At resolves registers of the peripheral block mapped at base.
func At(base uintptr) Resolver {
	return func(off uintptr) Register {
		return (*volatile.Register32)(unsafe.Pointer(base + off))
	}
}
