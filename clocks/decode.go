package clocks

import "clocktree-go/errcode"

// Decode reconstructs the configuration programmed into rcc. HSE frequency
// is not observable in the registers and is supplied by the caller. PLL
// fields are decoded only when the PLL is on; otherwise they keep the
// family defaults. Reserved bit patterns yield an invalid_params error.
func Decode(fam *Family, rcc *RCC, hseHz uint32) (Config, error) {
	const op = "clocks.decode"
	l := &fam.Layout
	bad := func(what string) (Config, error) {
		return Config{}, &errcode.E{C: errcode.InvalidParams, Op: op, Msg: what}
	}

	cr, cfgr, pllcfgr := rcc.CR.Get(), rcc.CFGR.Get(), rcc.PLLCFGR.Get()
	c := Default(fam)
	c.Clk48 = Clk48None

	osc := func(k Kind) Source {
		switch k {
		case KindHSI:
			return HSI{}
		case KindHSE:
			return HSE{Hz: hseHz}
		case KindMSI:
			if r := MSIRange(l.MSIRange.get(cr)); r.Valid() {
				return MSI{Range: r}
			}
		case KindLSI:
			return LSI{}
		case KindLSE:
			return LSE{}
		}
		return nil
	}

	sw := fam.swKind(l.SWS.get(cfgr))
	switch sw {
	case KindNone:
		return bad("sws")
	case KindPLL:
		var in Kind
		bits := l.PLLSRC.get(pllcfgr)
		for k, b := range fam.PLLSources {
			if b == bits {
				in = k
			}
		}
		ps, ok := osc(in).(PLLSource)
		if !ok {
			return bad("pllsrc")
		}
		c.Source = PLL{Src: ps}
	default:
		src := osc(sw)
		if src == nil {
			return bad("msirange")
		}
		c.Source = src
	}

	if cr&l.PLL.on != 0 || sw == KindPLL {
		var ok bool
		if c.PLLM, ok = fam.PLLM.Value(l.PLLM.get(pllcfgr)); !ok {
			return bad("pllm")
		}
		if c.PLLR, ok = fam.PLLR.Value(l.PLLR.get(pllcfgr)); !ok {
			return bad("pllr")
		}
		if c.PLLQ, ok = fam.PLLQ.Value(l.PLLQ.get(pllcfgr)); !ok {
			return bad("pllq")
		}
		c.PLLN = uint8(l.PLLN.get(pllcfgr))
	}

	var ok bool
	if c.AHBDiv, ok = fam.AHB.Value(undivided(l.HPRE.get(cfgr), 0b1000)); !ok {
		return bad("hpre")
	}
	if c.APB1Div, ok = fam.APB.Value(undivided(l.PPRE1.get(cfgr), 0b100)); !ok {
		return bad("ppre1")
	}
	if l.PPRE2.present() {
		if c.APB2Div, ok = fam.APB.Value(undivided(l.PPRE2.get(cfgr), 0b100)); !ok {
			return bad("ppre2")
		}
	}

	c.HSEBypass = cr&l.HSEBYP != 0
	c.SecuritySystem = cr&l.CSSON != 0
	if l.STOPWUCK != 0 && cfgr&l.STOPWUCK != 0 {
		c.StopWake = StopWakeHSI
	}

	if rcc.PLLSAI1CFGR != nil && cr&l.SAI1.on != 0 {
		v := rcc.PLLSAI1CFGR.Get()
		c.SAI1Enabled = true
		c.SAI1N = uint8(l.SAIN.get(v))
		if c.SAI1Q, ok = fam.SAIQ.Value(l.SAIQ.get(v)); !ok {
			return bad("pllsai1q")
		}
	}
	if rcc.PLLSAI2CFGR != nil && cr&l.SAI2.on != 0 {
		c.SAI2Enabled = true
		c.SAI2N = uint8(l.SAIN.get(rcc.PLLSAI2CFGR.Get()))
	}

	if rcc.CCIPR != nil {
		bits := l.CLK48SEL.get(rcc.CCIPR.Get())
		c.Clk48 = Clk48None
		for k, b := range fam.Clk48 {
			if b == bits {
				c.Clk48 = k
			}
		}
		if c.Clk48 == Clk48None {
			return bad("clk48sel")
		}
	}
	if rcc.CRRCR != nil {
		c.HSI48On = rcc.CRRCR.Get()&l.HSI48.on != 0
	}
	return c, nil
}

// undivided folds the "0xx" prescaler patterns, which all mean /1.
func undivided(bits, top uint32) uint32 {
	if bits&top == 0 {
		return 0
	}
	return bits
}

// Latency returns the LATENCY code currently programmed in flash.
func Latency(fam *Family, flash *Flash) uint32 {
	return fam.Layout.LATENCY.get(flash.ACR.Get())
}
