// Package snvsmirror implements the battery-backed persistent-state mirror
// pair (HW and Modified) backed by the four SNVS general-purpose registers.
//
// Only the Modified copy is mutated by application-path code; periodically
// (from the main loop, outside ISR context) the Modified copy is diffed
// against the HW copy and changed fields are written through to the
// persistent registers in a fixed order, so that a power loss mid-write
// leaves only the field combinations that order allows on the next boot
// (srtcOffset, split across two registers, can still tear; see Commit).
package snvsmirror

import (
	"errors"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/bits"
)

// ResetCause is the stored reason for the most recent reset.
type ResetCause uint8

const (
	ResetNone ResetCause = iota
	ResetRequest
	ResetFunctionalWd
	ResetSecureWd

	resetCauseCount
)

// Valid reports whether c is one of the known enum values.
func (c ResetCause) Valid() bool {
	return c < resetCauseCount
}

// FwuStatus bits, packed into the top byte of GPR[0].
type FwuStatus uint8

const (
	FwuRevert FwuStatus = 1 << iota
	FwuCommit
	FwuBackupCfgData
	FwuAwdtExpired
	FwuVerifyFw
	FwuTimestampIssue

	fwuStatusKnownMask = FwuRevert | FwuCommit | FwuBackupCfgData | FwuAwdtExpired | FwuVerifyFw | FwuTimestampIssue
)

// Valid reports whether f has no bits set outside the known set.
func (f FwuStatus) Valid() bool {
	return f&^fwuStatusKnownMask == 0
}

// Mirror is one copy (HW or Modified) of the persistent state.
type Mirror struct {
	WdTimerBackup    uint16
	WdStatus         uint8
	FwuStatus        FwuStatus
	SrtcOffset       int64
	ResetCause       ResetCause
	GpioOutputStatus uint32
}

// sane reports whether m satisfies the SNVS sanity invariant:
// (resetCause == SecureWd) => (wdStatus == 0), plus the per-field validity
// checks for resetCause and fwuStatus.
func (m Mirror) sane() bool {
	if !m.ResetCause.Valid() {
		return false
	}
	if !m.FwuStatus.Valid() {
		return false
	}
	if m.ResetCause == ResetSecureWd && m.WdStatus != 0 {
		return false
	}
	return true
}

// ErrCorrupted is returned by Load when the persisted state failed its
// sanity check and has been reset to zero values.
var ErrCorrupted = errors.New("snvsmirror: sanity check failed, state reset to zero")

// gprPacked is the raw content of the four persistent general-purpose
// registers, in index order.
type gprPacked [4]uint32

// gpr0 bitfield layout: wdTimerBackup[15:0], wdStatus[23:16], fwuStatus[31:24].
const (
	gpr0WdTimerBackupPos = 0
	gpr0WdStatusPos      = 16
	gpr0FwuStatusPos     = 24
)

func unpack(raw gprPacked) Mirror {
	return Mirror{
		WdTimerBackup: uint16(bits.Field(raw[0], gpr0WdTimerBackupPos, 16)),
		WdStatus:      uint8(bits.Field(raw[0], gpr0WdStatusPos, 8)),
		FwuStatus:     FwuStatus(bits.Field(raw[0], gpr0FwuStatusPos, 8)),
		SrtcOffset:    int64(uint64(raw[2])<<32 | uint64(raw[1])),
		ResetCause:    ResetCause(uint8(raw[3])),
	}
}

func pack(m Mirror) gprPacked {
	var raw gprPacked
	bits.SetField(&raw[0], gpr0WdTimerBackupPos, 16, uint32(m.WdTimerBackup))
	bits.SetField(&raw[0], gpr0WdStatusPos, 8, uint32(m.WdStatus))
	bits.SetField(&raw[0], gpr0FwuStatusPos, 8, uint32(m.FwuStatus))
	raw[1] = uint32(uint64(m.SrtcOffset))
	raw[2] = uint32(uint64(m.SrtcOffset) >> 32)
	raw[3] = uint32(m.ResetCause)
	return raw
}

// Registers is the narrow persistent-register surface snvsmirror needs from
// the hal package: four 32-bit battery-backed words, read and written one
// at a time.
type Registers interface {
	GPR(index int) uint32
	SetGPR(index int, value uint32)
}

func loadRaw(regs Registers) gprPacked {
	var raw gprPacked
	for i := range raw {
		raw[i] = regs.GPR(i)
	}
	return raw
}

// Load reads the four persistent registers and sanity-checks the result. If
// the sanity check fails, the returned Mirror is the zero value (and so is
// every register, which Load writes back immediately) and err is
// ErrCorrupted; the boot sequence treats this as "fresh install" and sets
// fwuStatus.AwdtExpired so that the next boot enters recovery.
func Load(regs Registers) (Mirror, error) {
	m := unpack(loadRaw(regs))

	if m.sane() {
		return m, nil
	}

	return Zero(regs), ErrCorrupted
}

// Zero writes zero values through to every persistent register and returns
// the matching zero Mirror. Load uses it when the sanity check fails; the
// boot sequence also calls it directly when the SNVS security state machine
// reports a tamper detection, which discredits the persisted state the same
// way.
func Zero(regs Registers) Mirror {
	zero := Mirror{}
	for i, v := range pack(zero) {
		regs.SetGPR(i, v)
	}
	return zero
}

// Diff reports which of the five GPR-packed fields differ between hw and
// modified. The canonical commit order is fwuStatus, resetCause,
// wdTimerBackup, wdStatus, srtcOffset. GpioOutputStatus is not
// part of the GPR-packed commit; it is written through immediately by the
// GPIO HAL path whenever it changes and is carried on Mirror only for
// snapshot/test convenience.
type Diff struct {
	FwuStatus     bool
	ResetCause    bool
	WdTimerBackup bool
	WdStatus      bool
	SrtcOffset    bool
}

// Any reports whether any field differs.
func (d Diff) Any() bool {
	return d.FwuStatus || d.ResetCause || d.WdTimerBackup || d.WdStatus || d.SrtcOffset
}

// ComputeDiff compares modified against hw field by field.
func ComputeDiff(hw, modified Mirror) Diff {
	return Diff{
		FwuStatus:     hw.FwuStatus != modified.FwuStatus,
		ResetCause:    hw.ResetCause != modified.ResetCause,
		WdTimerBackup: hw.WdTimerBackup != modified.WdTimerBackup,
		WdStatus:      hw.WdStatus != modified.WdStatus,
		SrtcOffset:    hw.SrtcOffset != modified.SrtcOffset,
	}
}

// Commit writes every field Diff marks changed from modified into regs, one
// field at a time in the canonical order (fwuStatus, resetCause,
// wdTimerBackup, wdStatus, srtcOffset), so that a power loss mid-sequence
// leaves only the field combinations that order allows, and returns the new
// HW mirror value. srtcOffset spans GPR[1] and GPR[2], written back to back
// with no atomicity: a power loss between the two writes leaves a torn
// offset.
//
// wdTimerBackup, wdStatus, and fwuStatus share GPR[0]. Because the order
// requires fwuStatus to land before wdTimerBackup/wdStatus, GPR[0] may be
// rewritten up to three times in one Commit call; collapsing the three into
// a single combined write would make the ordering between fwuStatus and the
// other two GPR[0] fields unobservable across a power loss.
func Commit(hw, modified Mirror, regs Registers, d Diff) Mirror {
	next := hw

	if d.FwuStatus {
		next.FwuStatus = modified.FwuStatus
		regs.SetGPR(0, pack(next)[0])
	}
	if d.ResetCause {
		next.ResetCause = modified.ResetCause
		regs.SetGPR(3, pack(next)[3])
	}
	if d.WdTimerBackup {
		next.WdTimerBackup = modified.WdTimerBackup
		regs.SetGPR(0, pack(next)[0])
	}
	if d.WdStatus {
		next.WdStatus = modified.WdStatus
		regs.SetGPR(0, pack(next)[0])
	}
	if d.SrtcOffset {
		next.SrtcOffset = modified.SrtcOffset
		raw := pack(next)
		regs.SetGPR(1, raw[1])
		regs.SetGPR(2, raw[2])
	}

	next.GpioOutputStatus = modified.GpioOutputStatus
	return next
}
