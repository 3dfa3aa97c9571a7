package main

import (
	"time"

	"clocktree-go/clocks"
)

// familyName picks the clock family at link time:
//
//	tinygo build -target=nucleo-l432kc -ldflags "-X main.familyName=l4"
var familyName = "l4"

// console adapts the runtime's print to io.Writer.
type console struct{}

func (console) Write(p []byte) (int, error) {
	print(string(p))
	return len(p), nil
}

func main() {
	fam, ok := clocks.FamilyByName(familyName)
	if !ok {
		println("unknown clock family", familyName)
		return
	}
	cfg := clocks.Default(fam)
	rcc, flash := platformRegs(fam)
	if err := cfg.Setup(rcc, flash, clocks.Trace(console{})); err != nil {
		println("clock setup:", err.Error())
		return
	}

	// Give the console time to attach before we print.
	time.Sleep(2 * time.Second)
	println("boot", fam.Name)
	_ = clocks.WriteFrequencies(console{}, &cfg)

	tick := time.NewTicker(1 * time.Second)
	defer tick.Stop()

	for t := range tick.C {
		println(t.Format("15:04:05"), "Heartbeat", cfg.SysClk())
	}
}
