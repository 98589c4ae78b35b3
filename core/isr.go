package core

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdgu"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"
)

// TickISR is the periodic HP-RTC interrupt body: it ticks
// the functional-watchdog unit, then the AWDG, then (every
// HWWatchdogKickEveryTicks ticks) kicks the hardware watchdog. Must not be
// reentered; the platform's fixed interrupt priority order guarantees this
// (periodic tick outranks everything but the hardware-watchdog pre-timeout
// IRQ, which never returns here).
func (c *Core) TickISR() {
	c.tickFunctional()
	c.tickAWDG()

	c.tickCount++
	if c.cfg.HWWatchdogKickEveryTicks != 0 && c.tickCount%c.cfg.HWWatchdogKickEveryTicks == 0 {
		c.deps.HWWatchdog.Kick()
	}
}

func (c *Core) tickFunctional() {
	wasGrace := c.functional.GraceIsRunning()
	tr := c.functional.Tick()
	nowGrace := c.functional.GraceIsRunning()

	if !wasGrace && nowGrace {
		c.modMirror.ResetCause = combineResetCause(c.modMirror.ResetCause, snvsmirror.ResetFunctionalWd)
		c.region.ResetPending.Cause = uint8(snvsmirror.ResetFunctionalWd)
		if c.server != nil {
			c.server.EmitEvent(c.region.resetEvent)
		}
	}

	if tr == lwdgu.JustExpired {
		c.reset(snvsmirror.ResetFunctionalWd)
	}
}

func (c *Core) tickAWDG() {
	if c.wdg == nil {
		return
	}

	wasGrace := c.wdg.GraceIsRunning()
	tr := c.wdg.Tick()
	nowGrace := c.wdg.GraceIsRunning()

	backup := hwBackupFromTicks(c.wdg.RemainingTicks())
	if backup > 0 && backup != c.hwMirror.WdTimerBackup {
		c.modMirror.WdTimerBackup = backup
		c.modMirror.WdStatus = 1
		diff := snvsmirror.Diff{WdTimerBackup: true, WdStatus: true}
		c.hwMirror = snvsmirror.Commit(c.hwMirror, c.modMirror, c.deps.Regs, diff)
	}

	if !wasGrace && nowGrace {
		c.awdgExpiredInISR()
	}

	if tr == lwdgu.JustExpired {
		c.reset(snvsmirror.ResetSecureWd)
	}
}

// GPIOEdgeISR is the GPIO pin-change interrupt body: for every input pin
// whose raw level differs from the last observed edge, it (re)arms that
// pin's debounce counter.
func (c *Core) GPIOEdgeISR(rawBank uint32) {
	changed := rawBank ^ c.lastRawBank
	for pin := 0; pin < c.cfg.GPIOInputCount; pin++ {
		if changed&(uint32(1)<<uint(pin)) != 0 {
			c.debounce.Edge(pin)
		}
	}
	c.lastRawBank = rawBank
}

// SystickISR is the 10 ms systick body: it advances the GPIO debouncer
// against the current raw input bank and, if the debounced bank changed,
// pushes a GPIO-change event.
func (c *Core) SystickISR(rawBank uint32) {
	changed, bank := c.debounce.Tick(rawBank)
	if !changed {
		return
	}

	c.region.GPIOChange.Bank = bank
	c.server.EmitEvent(c.region.gpioEvent)
}

// InterCoreISR is the inter-core-signal body: it runs one pass of the RPC
// dispatch table.
func (c *Core) InterCoreISR() {
	c.server.Dispatch()
}

// HWWatchdogPreTimeoutISR is the hardware-watchdog pre-timeout IRQ: the
// last-chance reset path. The running code is not trusted to be healthy
// under whatever fault caused the kick cadence to be missed, so it bypasses
// Modified and writes the forced-recovery state directly through to the
// persistent registers.
func (c *Core) HWWatchdogPreTimeoutISR() {
	forced := c.hwMirror
	forced.FwuStatus |= snvsmirror.FwuAwdtExpired
	forced.ResetCause = snvsmirror.ResetSecureWd
	forced.WdTimerBackup = 0
	forced.WdStatus = 0

	diff := snvsmirror.Diff{FwuStatus: true, ResetCause: true, WdTimerBackup: true, WdStatus: true}
	c.hwMirror = snvsmirror.Commit(c.hwMirror, forced, c.deps.Regs, diff)

	_ = c.deps.Regs.GPR(0)

	c.deps.Reset.Reset()

	for {
	}
}
