package evk

import "github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/reg"

// WDOG1 register offsets and bit positions (p4298, 60.4, IMX6ULLRM). The
// WDOG block is 16 bits wide; see internal/reg's halfword accessors.
const (
	wdogWCR  = 0x00
	wcrWDE   = 2
	wcrSRE   = 6
	wcrSRS   = 4

	wdogWSR = 0x02

	wsrSeq1 = 0x5555
	wsrSeq2 = 0xaaaa

	wdogWICR = 0x06
	wicrWIE  = 15
	wicrWICT = 0
)

// HardwareWDOG implements hal.HardwareWatchdog and hal.SystemReset against
// WDOG1, configured to reset at 1 s with the pre-timeout interrupt 0.5 s
// earlier. The tick ISR kicks on a fixed cadence with margin against that
// deadline, so this driver only needs Kick and Reset.
type HardwareWDOG struct {
	wcr uint32
	wsr uint32
}

// NewHardwareWDOG initializes WDOG1 with its clock gate and enables a 1000ms
// timeout (the resolution is 500ms, so this rounds to two ticks), with the
// pre-timeout interrupt enabled 500ms (WICT = 1) before it.
func NewHardwareWDOG() *HardwareWDOG {
	reg.SetN(ccmCCGR3, cg8, 0b11, 0b11)

	w := &HardwareWDOG{wcr: wdog1Base + wdogWCR, wsr: wdog1Base + wdogWSR}
	reg.SetN16(w.wcr, 8, 0xff, uint16(1000/500-1))
	reg.Write16(wdog1Base+wdogWICR, 1<<wicrWIE|1<<wicrWICT)
	reg.Set16(w.wcr, wcrWDE)
	return w
}

// Kick implements hal.HardwareWatchdog: the two-word service sequence resets
// the countdown without changing the configured timeout.
func (w *HardwareWDOG) Kick() {
	reg.Write16(w.wsr, wsrSeq1)
	reg.Write16(w.wsr, wsrSeq2)
}

// Reset implements hal.SystemReset: asserts the WDOG software-reset path.
// This never returns on real silicon; the caller spins if it somehow does.
func (w *HardwareWDOG) Reset() {
	reg.Set16(w.wcr, wcrSRE)
	reg.Clear16(w.wcr, wcrSRS)
}
