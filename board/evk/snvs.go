package evk

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/reg"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"
)

// PersistentRegisters implements snvsmirror.Registers (and so
// hal.PersistentRegisters) against the four SNVS_LP general-purpose
// registers, battery-backed across a power loss.
type PersistentRegisters struct {
	base uint32
}

// NewPersistentRegisters returns the SNVS_LP GPR0..GPR3 accessor.
func NewPersistentRegisters() *PersistentRegisters {
	return &PersistentRegisters{base: snvsLPGPR0}
}

// GPR implements snvsmirror.Registers.
func (p *PersistentRegisters) GPR(index int) uint32 {
	return reg.Read(p.base + uint32(4*index))
}

// SetGPR implements snvsmirror.Registers.
func (p *PersistentRegisters) SetGPR(index int, value uint32) {
	reg.Write(p.base+uint32(4*index), value)
}

// SRTC implements rtcmodel's Counter contract against the SNVS_LP secure
// real-time counter: a monotonic 47-bit counter split across MSB (bits
// 46:32) and LSB (bits 31:0) registers (p4351, 66.6.1.10/11, IMX6ULLRM).
// rtcmodel owns the stability retry; this type only exposes the raw split
// read.
type SRTC struct{}

// ReadRaw implements hal.SRTCCounter: a single non-atomic read of the
// MSB:LSB pair. Two consecutive ReadRaw calls from rtcmodel's retry loop
// catch a rollover between the halves.
func (SRTC) ReadRaw() uint64 {
	msb := reg.Get(snvsLPSRTCMR, 0, 0xffff)
	lsb := reg.Read(snvsLPSRTCLR)
	return uint64(msb)<<32 | uint64(lsb)
}

// SNVS security state machine and tamper-detection status registers
// (p4330/p4360, 66.5.1.6 and 66.6.1.16, IMX6ULLRM).
const (
	snvsHPSR     = snvsHPBase + 0x14
	hpsrSSMState = 8

	ssmStateHardFail = 0b0001
	ssmStateSoftFail = 0b0011

	snvsLPSR = snvsHPBase + 0x4c
	lpsrVTD  = 6
	lpsrTTD  = 5
	lpsrCTD  = 4
	lpsrPGD  = 3
)

// TamperMonitor implements hal.TamperMonitor against the SNVS security
// state machine: tamper is reported only when the SSM sits in a fail state,
// with the LP status register's detector flags identifying the source.
type TamperMonitor struct{}

// TamperStatus implements hal.TamperMonitor.
func (TamperMonitor) TamperStatus() snvsmirror.TamperStatus {
	ssm := reg.Get(snvsHPSR, hpsrSSMState, 0b1111)
	if ssm != ssmStateHardFail && ssm != ssmStateSoftFail {
		return 0
	}

	var t snvsmirror.TamperStatus

	lpsr := reg.Read(snvsLPSR)
	if lpsr&(1<<lpsrCTD) != 0 {
		t |= snvsmirror.TamperClock
	}
	if lpsr&(1<<lpsrTTD) != 0 {
		t |= snvsmirror.TamperTemperature
	}
	if lpsr&(1<<lpsrVTD) != 0 {
		t |= snvsmirror.TamperVoltage
	}
	if lpsr&(1<<lpsrPGD) != 0 {
		t |= snvsmirror.TamperPowerGlitch
	}

	if t == 0 {
		// SSM failed without a specific LP detector flag: the glitch
		// detector is the only source that can clear its flag across a
		// brown-out, so attribute the failure there.
		t = snvsmirror.TamperPowerGlitch
	}

	return t
}
