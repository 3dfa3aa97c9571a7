//go:build !tinygo

package si5351

import "sync"

// HostI2C implements tinygo drivers.I2C as an Si5351 register file for
// host-side tests and dry runs.
type HostI2C struct {
	mu   sync.Mutex
	Regs [256]byte
	// Busy keeps SYS_INIT set for this many status reads.
	Busy int
	// Err, when set, fails every transfer.
	Err error
	// Writes logs every write transfer, register address first.
	Writes [][]byte
}

func (h *HostI2C) Tx(addr uint16, w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.Err != nil {
		return h.Err
	}
	if len(w) == 0 {
		return nil
	}
	reg := int(w[0])
	if len(r) == 0 {
		h.Writes = append(h.Writes, append([]byte(nil), w...))
		for i, v := range w[1:] {
			h.Regs[(reg+i)&0xFF] = v
		}
		return nil
	}
	for i := range r {
		r[i] = h.Regs[(reg+i)&0xFF]
	}
	if reg == regStatus && h.Busy > 0 {
		h.Busy--
		r[0] |= statusSysInit
	}
	return nil
}
