// Package si5351 is a minimal TinyGo driver for the Si5351A clock generator,
// used as an external HSE source. Only CLK0 driven from PLLA is managed.
//
// Design notes (AN619 references):
//   - I2C, 7-bit address 0x60; burst writes auto-increment.
//   - SYS_INIT (reg 0 bit 7) stays set until the device has loaded its NVM.
//   - PLL feedback is fractional a+b/c, the output multisynth runs in
//     integer mode with an even divider, which keeps jitter lowest.
package si5351

import (
	"errors"

	"clocktree-go/errcode"

	"tinygo.org/x/drivers"
)

// ---------------- Top level vars ----------------

var (
	ErrNotReady  = errors.New("si5351: device still initialising")
	ErrFrequency = errors.New("si5351: frequency out of range")
	ErrCrystal   = errors.New("si5351: crystal frequency out of range")
)

const (
	AddressDefault = 0x60

	CrystalDefault = 25_000_000

	// Crystal load capacitance, reg 183 bits 7:6 (low bits reserved as 010010).
	Load6pF  = 0b01_010010
	Load8pF  = 0b10_010010
	Load10pF = 0b11_010010

	initPolls = 1000
)

// ---------------- Types and configuration ----------------

type Config struct {
	Address uint16
	Crystal uint32 // Hz, 0 means CrystalDefault
	Load    uint8  // 0 means Load10pF
}

type Device struct {
	i2c  drivers.I2C
	addr uint16
	xtal uint32
	load uint8

	// Fixed buffers to avoid per-call heap allocations.
	w [9]byte
	r [1]byte
}

func New(i2c drivers.I2C, cfg Config) *Device {
	d := &Device{i2c: i2c, addr: cfg.Address, xtal: cfg.Crystal, load: cfg.Load}
	if d.addr == 0 {
		d.addr = AddressDefault
	}
	if d.xtal == 0 {
		d.xtal = CrystalDefault
	}
	if d.load == 0 {
		d.load = Load10pF
	}
	return d
}

// Start programs CLK0 to hz and enables it. It implements the external
// clock hook of the clocks package, so it runs before the MCU touches HSE.
func (d *Device) Start(hz uint32) error {
	const op = "si5351.start"
	p, err := PlanFor(d.xtal, hz)
	if err != nil {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Err: err}
	}
	if err := d.waitInit(); err != nil {
		return err
	}

	steps := []struct {
		reg byte
		val []byte
	}{
		{regOutputEnable, []byte{0xFF}},
		{regCLK0Control, []byte{clkPowerDown}},
		{regCrystalLoad, []byte{d.load}},
	}
	for _, s := range steps {
		if err := d.write(s.reg, s.val...); err != nil {
			return driverErr(op, err)
		}
	}

	var params [8]byte
	p.feedbackParams(&params)
	if err := d.write(regPLLA, params[:]...); err != nil {
		return driverErr(op, err)
	}
	p.outputParams(&params)
	if err := d.write(regMS0, params[:]...); err != nil {
		return driverErr(op, err)
	}
	for _, s := range []struct{ reg, val byte }{
		{regCLK0Control, clk0Integer},
		{regPLLReset, pllResetAB},
		{regOutputEnable, 0xFE},
	} {
		if err := d.write(s.reg, s.val); err != nil {
			return driverErr(op, err)
		}
	}
	return nil
}

// Stop disables every output.
func (d *Device) Stop() error {
	if err := d.write(regOutputEnable, 0xFF); err != nil {
		return driverErr("si5351.stop", err)
	}
	return nil
}

// ---------------- Low level ----------------

func (d *Device) waitInit() error {
	for i := 0; i < initPolls; i++ {
		v, err := d.read(regStatus)
		if err != nil {
			return driverErr("si5351.start", err)
		}
		if v&statusSysInit == 0 {
			return nil
		}
	}
	return &errcode.E{C: errcode.Timeout, Op: "si5351.start", Msg: "sys_init", Err: ErrNotReady}
}

func (d *Device) read(reg byte) (byte, error) {
	d.w[0] = reg
	if err := d.i2c.Tx(d.addr, d.w[:1], d.r[:1]); err != nil {
		return 0, err
	}
	return d.r[0], nil
}

func (d *Device) write(reg byte, vals ...byte) error {
	d.w[0] = reg
	n := copy(d.w[1:], vals)
	return d.i2c.Tx(d.addr, d.w[:1+n], nil)
}

func driverErr(op string, err error) error {
	return &errcode.E{C: errcode.MapDriverErr(err), Op: op, Err: err}
}
