package snvsmirror

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRegisters struct {
	gpr    [4]uint32
	writes []int // GPR indices in the order SetGPR was called
}

func (f *fakeRegisters) GPR(index int) uint32 { return f.gpr[index] }

func (f *fakeRegisters) SetGPR(index int, value uint32) {
	f.gpr[index] = value
	f.writes = append(f.writes, index)
}

func TestLoadZeroIsSane(t *testing.T) {
	regs := &fakeRegisters{}

	m, err := Load(regs)
	require.NoError(t, err, "expected zero state to be sane")
	require.Equal(t, Mirror{}, m)
}

// Pre-seed resetCause=SecureWd, wdStatus=1 (an invalid combination); Load
// must detect the corruption and zero the store.
func TestLoadDetectsSanityViolation(t *testing.T) {
	regs := &fakeRegisters{}

	corrupt := Mirror{ResetCause: ResetSecureWd, WdStatus: 1}
	raw := pack(corrupt)
	for i, v := range raw {
		regs.SetGPR(i, v)
	}

	m, err := Load(regs)
	if err != ErrCorrupted {
		t.Fatalf("expected ErrCorrupted, got %v", err)
	}
	if m != (Mirror{}) {
		t.Fatalf("expected zeroed mirror on corruption, got %+v", m)
	}

	for i, v := range regs.gpr {
		if v != 0 {
			t.Fatalf("expected GPR[%d] to be zeroed on disk, got %#x", i, v)
		}
	}
}

func TestLoadRejectsUnknownResetCause(t *testing.T) {
	regs := &fakeRegisters{}
	regs.SetGPR(3, uint32(resetCauseCount))

	if _, err := Load(regs); err != ErrCorrupted {
		t.Fatalf("expected ErrCorrupted for unknown reset cause, got %v", err)
	}
}

func TestLoadRejectsUnknownFwuStatusBits(t *testing.T) {
	regs := &fakeRegisters{}
	regs.SetGPR(0, uint32(0x80)<<24) // a bit outside the known mask

	if _, err := Load(regs); err != ErrCorrupted {
		t.Fatalf("expected ErrCorrupted for unknown fwuStatus bit, got %v", err)
	}
}

func TestRoundTripPackUnpack(t *testing.T) {
	m := Mirror{
		WdTimerBackup: 0xBEEF,
		WdStatus:      1,
		FwuStatus:     FwuAwdtExpired | FwuVerifyFw,
		SrtcOffset:    -123456789,
		ResetCause:    ResetFunctionalWd,
	}

	got := unpack(pack(m))
	require.Equal(t, m, got, "round trip mismatch")
}

func TestCommitWritesOnlyChangedFieldsInCanonicalOrder(t *testing.T) {
	regs := &fakeRegisters{}

	hw := Mirror{}
	modified := Mirror{
		FwuStatus:     FwuAwdtExpired,
		ResetCause:    ResetSecureWd,
		WdTimerBackup: 0,
		WdStatus:      0,
		SrtcOffset:    1000,
	}

	diff := ComputeDiff(hw, modified)
	if !diff.Any() {
		t.Fatal("expected a diff")
	}
	if diff.WdTimerBackup || diff.WdStatus {
		t.Fatal("expected wdTimerBackup/wdStatus to be unchanged (both zero in both mirrors)")
	}

	newHW := Commit(hw, modified, regs, diff)

	// fwuStatus (GPR[0]), then resetCause (GPR[3]), then srtcOffset
	// (GPR[1], GPR[2]); the unchanged GPR[0] fields add no writes.
	require.Equal(t, []int{0, 3, 1, 2}, regs.writes, "commit write order")

	if newHW.FwuStatus != modified.FwuStatus || newHW.ResetCause != modified.ResetCause || newHW.SrtcOffset != modified.SrtcOffset {
		t.Fatalf("expected committed fields to match modified: %+v", newHW)
	}

	reloaded := unpack(loadRaw(regs))
	if reloaded.FwuStatus != modified.FwuStatus || reloaded.ResetCause != modified.ResetCause || reloaded.SrtcOffset != modified.SrtcOffset {
		t.Fatalf("expected registers to reflect the commit: %+v", reloaded)
	}
}

func TestCommitGpioOutputStatusNotPackedButCarried(t *testing.T) {
	regs := &fakeRegisters{}

	hw := Mirror{GpioOutputStatus: 0b0101}
	modified := Mirror{GpioOutputStatus: 0b1010}

	newHW := Commit(hw, modified, regs, ComputeDiff(hw, modified))

	if newHW.GpioOutputStatus != modified.GpioOutputStatus {
		t.Fatalf("expected GpioOutputStatus to carry through, got %#x", newHW.GpioOutputStatus)
	}
	for i, v := range regs.gpr {
		if v != 0 {
			t.Fatalf("expected no GPR writes for a GpioOutputStatus-only change, GPR[%d]=%#x", i, v)
		}
	}
}
