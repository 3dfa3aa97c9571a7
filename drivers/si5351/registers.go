package si5351

const (
	regStatus       = 0
	regOutputEnable = 3
	regCLK0Control  = 16
	regPLLA         = 26 // 26..33
	regMS0          = 42 // 42..49
	regPLLReset     = 177
	regCrystalLoad  = 183

	statusSysInit = 1 << 7

	clkPowerDown = 0x80
	// MS0_INT | PLLA | multisynth source | 8 mA drive
	clk0Integer = 0x4F
	pllResetAB  = 0xA0
)
