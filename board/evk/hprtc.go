package evk

import "github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/reg"

// EPIT1 register offsets (p2993, ch.25, IMX6ULLRM), relative to epit1Base.
// The periodic interrupt driving the supervisory tick is realized on
// i.MX6ULL by EPIT1, running free of the SRTC/SNVS block the rest of this
// package talks to.
const (
	epitCR   = epit1Base + 0x00
	epitSR   = epit1Base + 0x04
	epitLR   = epit1Base + 0x08
	epitCMPR = epit1Base + 0x0c
)

const (
	epitCREN      = 0  // counter enable
	epitCRENMOD   = 1  // count from EPIT_LR on enable (reload mode)
	epitCROCIEN   = 2  // output compare interrupt enable
	epitCRRLD     = 3  // free-run (0) vs set-and-forget reload (1)
	epitCRCLKSRC0 = 24 // clock source select, bits 24:25

	epitSROCIF = 0 // output compare interrupt flag
)

// epitRefHz is the EPIT1 input clock once routed to the 32kHz low-power
// oscillator (CLKSRC=11b), the same reference the SNVS SRTC counter runs
// from, so HPRTC ticks stay phase-locked to the same crystal the supervisory
// core measures the SRTC/RTC offset model against.
const epitRefHz = 32768

// HPRTC implements hal.HPRTCTimer against EPIT1 configured as a free-running
// periodic counter with an output-compare interrupt.
type HPRTC struct{}

// NewHPRTC gates EPIT1's clock and returns the driver handle. The timer
// itself is left disabled until StartPeriodic is called with the core's
// configured tick frequency.
func NewHPRTC() *HPRTC {
	reg.SetN(ccmCCGR1, cg14, 0b11, 0b11)
	reg.Clear(epitCR, epitCREN)
	return &HPRTC{}
}

// StartPeriodic implements hal.HPRTCTimer: it reloads EPIT1 to fire its
// output-compare interrupt every 1/hz seconds and enables the counter.
func (*HPRTC) StartPeriodic(hz uint32) error {
	if hz == 0 || hz > epitRefHz {
		return errHPRTCRange
	}

	reload := epitRefHz/hz - 1

	reg.Clear(epitCR, epitCREN)
	reg.SetN(epitCR, epitCRCLKSRC0, 0b11, 0b11)
	reg.Set(epitCR, epitCRENMOD)
	reg.Set(epitCR, epitCRRLD)
	reg.Set(epitCR, epitCROCIEN)

	reg.Write(epitLR, reload)
	reg.Write(epitCMPR, reload)

	reg.Set(epitSR, epitSROCIF)
	reg.Set(epitCR, epitCREN)
	return nil
}

var errHPRTCRange = hprtcRangeError{}

type hprtcRangeError struct{}

func (hprtcRangeError) Error() string { return "evk: hprtc frequency out of range" }
