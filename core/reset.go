package core

import "github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"

// reset is the single point enforcing the reset policy: any out-of-range
// cause is coerced to SecureWd (fail-closed), the resulting cause is
// combined with whatever cause Modified already carries using
// SecureWd > FunctionalWd > Request > None priority, a SecureWd outcome
// additionally forces fwuStatus.AwdtExpired and zeros the AWDG backup
// fields, and the mirror is flushed synchronously before a hardware system
// reset. If the hardware reset returns -- which on real hardware it never
// does -- this spins forever and relies on the hardware watchdog to
// eventually rescue the device.
func (c *Core) reset(cause snvsmirror.ResetCause) {
	if !cause.Valid() {
		cause = snvsmirror.ResetSecureWd
	}

	merged := combineResetCause(c.modMirror.ResetCause, cause)
	c.modMirror.ResetCause = merged

	if merged == snvsmirror.ResetSecureWd {
		c.modMirror.FwuStatus |= snvsmirror.FwuAwdtExpired
		c.modMirror.WdTimerBackup = 0
		c.modMirror.WdStatus = 0
	}

	c.flushMirror()
	c.deps.Reset.Reset()

	for {
	}
}

// awdgExpiredInISR fires the instant the AWDG's grace watchdog starts. It
// marks the forced-recovery state in Modified, zeros the persisted backup,
// and posts the reset-pending event -- but does not itself reset; the
// actual reset happens when the grace watchdog later expires (tick ISR or
// bootAWDG observing lwdgu.JustExpired).
func (c *Core) awdgExpiredInISR() {
	c.modMirror.FwuStatus |= snvsmirror.FwuAwdtExpired
	c.modMirror.ResetCause = combineResetCause(c.modMirror.ResetCause, snvsmirror.ResetSecureWd)
	c.modMirror.WdTimerBackup = 0
	c.modMirror.WdStatus = 0

	c.region.ResetPending.Cause = uint8(snvsmirror.ResetSecureWd)
	if c.server != nil {
		c.server.EmitEvent(c.region.resetEvent)
	}
}

// hwBackupFromTicks converts a remaining-tick count to the persisted
// 16-bit backup representation: shifted right by 16 with ceiling, zero only
// when the input itself is zero.
func hwBackupFromTicks(ticks uint32) uint16 {
	if ticks == 0 {
		return 0
	}
	backup := (ticks + 1<<16 - 1) >> 16
	if backup == 0 {
		backup = 1
	}
	return uint16(backup)
}
