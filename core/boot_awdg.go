package core

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/awdg"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdgu"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// bootAWDG is boot step 6: initialize the AWDG fresh, or resume it from the
// SNVS backup with the mandatory halving that guarantees progress toward
// expiry across a reset loop. If the very first tick after resuming already
// crosses into (or past) the grace period, the reset-pending bookkeeping
// (or the reset itself, if grace is zero) runs synchronously here rather
// than waiting for the tick ISR.
func (c *Core) bootAWDG() status.Status {
	wasRunning := c.hwMirror.WdStatus != 0

	var savedTicks uint32
	if wasRunning {
		// wdTimerBackup is the remaining tick count shifted right by 16
		// with ceiling; reconstruct an approximate tick count and halve
		// it.
		savedTicks = (uint32(c.hwMirror.WdTimerBackup) << 16) / 2
	}

	a, _, st := awdg.Init(
		c.cfg.AWDGInitialTimeoutMs,
		c.cfg.AWDGGraceMs,
		c.cfg.TickFrequencyHz,
		savedTicks,
		wasRunning,
		c.deps.RNGSeed,
		c.deps.PubKeyDER,
	)
	if !st.Ok() {
		// The crypto state could not be built; force a recovery boot by
		// marking AwdtExpired+SecureWd, since the AWDG is unable to run.
		c.modMirror.FwuStatus |= snvsmirror.FwuAwdtExpired
		c.modMirror.ResetCause = snvsmirror.ResetSecureWd
		c.modMirror.WdTimerBackup = 0
		c.modMirror.WdStatus = 0
		c.wdg = nil
		return status.OK
	}
	c.wdg = a

	if !wasRunning {
		return status.OK
	}

	// "the initial AWDG tick-after-kick" -- run it synchronously during
	// boot rather than waiting for the first periodic tick.
	wasGrace := a.GraceIsRunning()
	tr := a.Tick()
	nowGrace := a.GraceIsRunning()

	switch {
	case tr == lwdgu.JustExpired:
		// Grace itself is zero-length: expiry and grace-expiry land on
		// the same synchronous tick.
		c.reset(snvsmirror.ResetSecureWd)
	case !wasGrace && nowGrace:
		c.awdgExpiredInISR()
	}

	return status.OK
}
