package clocks

// WaitStates returns the FLASH_ACR LATENCY code for an HCLK frequency. A
// frequency equal to a breakpoint stays in that breakpoint's tier; anything
// above the last breakpoint gets the family maximum.
func (f *Family) WaitStates(hclk uint32) uint32 {
	for i, bp := range f.WaitBreakpoints {
		if hclk <= bp {
			return uint32(i)
		}
	}
	return uint32(len(f.WaitBreakpoints))
}

// MaxWaitStates is the highest latency code the family uses.
func (f *Family) MaxWaitStates() uint32 { return uint32(len(f.WaitBreakpoints)) }
