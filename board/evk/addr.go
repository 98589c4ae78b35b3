// Package evk wires the supervisory core against real i.MX6ULL EVK register
// addresses: it is the non-simulated counterpart to internal/simboard,
// implementing every hal.* contract against the actual GPIO, WDOG, TEMPMON,
// SNVS-LP, and CSU peripherals instead of plain Go state. Base addresses
// and clock-gate assignments are i.MX6ULL reference-manual facts
// (IMX6ULLRM).
//
// This package touches physical memory directly via unsafe pointer casts
// (internal/reg) and is only meaningful when linked into a binary running
// on i.MX6ULL silicon with the expected MMU/cache configuration; it is not
// exercised by unit tests.
package evk

// Peripheral base addresses (p2, Table 2-1, IMX6ULLRM).
const (
	ccmBase     = 0x020c4000
	csuBase     = 0x021c0000
	epit1Base   = 0x020d0000
	gpio1Base   = 0x0209c000
	snvsHPBase  = 0x020cc000
	snvsLPBase  = 0x020b0000
	tempmonBase = 0x020c8180
	wdog1Base   = 0x020bc000
)

// Clock Controller Module gating registers (p636, 18.6, IMX6ULLRM). Offsets
// relative to ccmBase.
const (
	ccmCCGR0 = ccmBase + 0x68
	ccmCCGR1 = ccmBase + 0x6c
	ccmCCGR3 = ccmBase + 0x74
	ccmCCGR5 = ccmBase + 0x7c
)

// Clock gate bit positions within a CCGRx register, two bits per gate
// (p638, IMX6ULLRM).
const (
	cg9  = 9 * 2
	cg8  = 8 * 2
	cg13 = 13 * 2
	cg14 = 14 * 2
)

// SNVS_LP general-purpose registers used as the battery-backed persistent
// store (p4379, 66.7 SNVS_LP Memory Map, IMX6ULLRM): four consecutive 32-bit
// words starting at SNVS_LP_GPR, matching snvsmirror's GPR[0..3] layout
// one-to-one.
const snvsLPGPR0 = snvsLPBase + 0x90

// SNVS_LP SRTC counter (p4351, 66.6.1.10/11, IMX6ULLRM): a monotonic 47-bit
// counter at 32768 Hz, split across an MSB and LSB register.
const (
	snvsLPSRTCMR = snvsLPBase + 0x34
	snvsLPSRTCLR = snvsLPBase + 0x38
)
