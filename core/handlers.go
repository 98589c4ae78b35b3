package core

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/rpc"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// wireRPC builds the region's status records, events, and the RPC server
// table, binding each call slot to the glue method that implements its
// handler body.
func (c *Core) wireRPC() {
	r := &c.region

	r.FunctionalSt = rpc.NewStatus()
	r.SecureWDGSt = rpc.NewStatus()
	r.GPIOOutSt = rpc.NewStatus()
	r.RTCSt = rpc.NewStatus()
	r.FWUpdateSt = rpc.NewStatus()
	r.ResetSt = rpc.NewStatus()
	r.TempSt = rpc.NewStatus()
	r.MemWriteSt = rpc.NewStatus()
	r.resetEvent = rpc.NewEventSlot()
	r.gpioEvent = rpc.NewEventSlot()

	functionalCall := &rpc.Call{Name: "functional-wdg-kick", Status: r.FunctionalSt, TriggerPeer: true, Handler: c.handleFunctionalKick}
	secureWDGCall := &rpc.Call{Name: "secure-wdg", Status: r.SecureWDGSt, TriggerPeer: true, Handler: c.handleSecureWDG}
	gpioOutCall := &rpc.Call{Name: "gpio-out", Status: r.GPIOOutSt, TriggerPeer: true, Handler: c.handleGPIOOut}
	rtcCall := &rpc.Call{Name: "rtc", Status: r.RTCSt, TriggerPeer: true, Handler: c.handleRTC}
	fwUpdateCall := &rpc.Call{Name: "fw-update", Status: r.FWUpdateSt, TriggerPeer: true, Handler: c.handleFWUpdate}
	resetCall := &rpc.Call{Name: "reset", Status: r.ResetSt, TriggerPeer: true, Handler: c.handleReset}
	tempCall := &rpc.Call{Name: "mcu-temp", Status: r.TempSt, TriggerPeer: true, Handler: c.handleTemp}
	memWriteCall := &rpc.Call{Name: "mem-write", Status: r.MemWriteSt, TriggerPeer: true, Handler: c.handleMemWrite}

	c.secureWDGCall = secureWDGCall

	c.server = &rpc.Server{
		Signal:  c.deps.Signal,
		Gate:    c.deps.Critical,
		Barrier: c.deps.Barrier,
		Calls: []*rpc.Call{
			functionalCall, secureWDGCall, gpioOutCall, rtcCall,
			fwUpdateCall, resetCall, tempCall, memWriteCall,
		},
		Events: []*rpc.EventSlot{r.resetEvent, r.gpioEvent},
	}
}

// handleFunctionalKick is the functional-WDG kick contract: range-check the
// id and dispatch to LWDGU_KickOne.
func (c *Core) handleFunctionalKick() (status.Status, bool) {
	id := int(c.region.FunctionalKick.ID)
	_, result := c.functional.KickOne(id)
	return result, false
}

// handleSecureWDG implements both secure-WDG sub-operations. GetNonce is
// cheap and answered inline; a ticket submission latches a private copy of
// the shared-memory ticket bytes (the source is volatile and could change
// out from under a multi-second verification) into the static arena and
// returns async-pending, leaving the slot parked on awaitAsyncCompletion.
// The main loop later observes the parked slot via ProcessDeferredWork and
// runs the verification there, outside interrupt context.
func (c *Core) handleSecureWDG() (status.Status, bool) {
	req := c.region.SecureWDGReq

	switch req.Op {
	case rpc.SecureWDGGetNonce:
		nonce, ok := c.wdg.Nonce()
		if !ok {
			return status.Synchronization, false
		}
		c.region.SecureWDGOut.Nonce = nonce
		return status.OK, false

	case rpc.SecureWDGSubmitTicket:
		if req.TicketLen <= 0 {
			return status.InvalidArgument, false
		}

		raw, err := c.arena.Alloc(req.TicketLen)
		if err != nil {
			return status.Internal, false
		}
		copy(raw, req.Ticket[:req.TicketLen])

		c.pendingTicket = raw
		return status.OK, true

	default:
		return status.InvalidArgument, false
	}
}

// ProcessDeferredWork is the main loop's half of the deferred-completion
// protocol: when the secure-WDG slot is parked on awaitAsyncCompletion, it
// runs the (seconds-long) ECDSA verification here, on the single
// cooperative thread, then -- only if it succeeded -- defers the watchdog
// under a critical section that serializes against the tick ISR, clears the
// forced-recovery bit, and posts the real result back through
// Server.CompleteAsync. Must be called outside ISR context, alongside
// FlushMirror.
func (c *Core) ProcessDeferredWork() {
	if c.secureWDGCall == nil || !c.secureWDGCall.Status.AwaitAsyncCompletion() {
		return
	}

	raw := c.pendingTicket
	if raw == nil {
		return
	}
	c.pendingTicket = nil
	defer c.arena.Free(raw)

	st := c.wdg.ValidateTicket(raw)

	if st.Ok() {
		c.deps.Critical.Enter()
		st = c.wdg.DeferWatchdog()
		if st.Ok() {
			c.modMirror.FwuStatus &^= snvsmirror.FwuAwdtExpired
		}
		c.deps.Critical.Exit()
	}

	c.server.CompleteAsync(c.secureWDGCall, st)
}

// handleGPIOOut applies a mask/data pair to the live outputs and to
// Modified.gpioOutputStatus, refusing any bit outside the allowed control
// mask.
func (c *Core) handleGPIOOut() (status.Status, bool) {
	req := c.region.GPIOOutReq

	if req.Mask&^c.cfg.OutputMask != 0 {
		return status.InvalidArgument, false
	}

	for pin := 0; pin < 32; pin++ {
		bit := uint32(1) << uint(pin)
		if req.Mask&bit == 0 {
			continue
		}
		high := req.Data&bit != 0
		c.deps.GPIO.SetOutput(pin, high)
		if high {
			c.modMirror.GpioOutputStatus |= bit
		} else {
			c.modMirror.GpioOutputStatus &^= bit
		}
	}

	return status.OK, false
}

// handleRTC implements the RTC get/set call.
func (c *Core) handleRTC() (status.Status, bool) {
	req := c.region.RTCReq

	if req.Set {
		offset, st := c.rtc.Set(c.deps.SRTC, req.SetSeconds, req.SetMillis)
		if !st.Ok() {
			return st, false
		}
		c.modMirror.SrtcOffset = offset
	}

	seconds, ms, st := c.rtc.Get(c.deps.SRTC)
	if !st.Ok() {
		return st, false
	}
	c.region.RTCOut = rpc.RTCReply{Seconds: seconds, Millis: ms}

	return status.OK, false
}

// handleFWUpdate reads the fwuStatus/resetCause snapshot, or sets the
// Commit or Revert bit.
func (c *Core) handleFWUpdate() (status.Status, bool) {
	switch c.region.FWUpdateReq.Op {
	case rpc.FWUpdateReadStatus:
		c.region.FWUpdateOut = rpc.FWUpdateReply{
			FwuStatus:  uint8(c.modMirror.FwuStatus),
			ResetCause: uint8(c.prevResetCause),
		}
		return status.OK, false
	case rpc.FWUpdateSetCommit:
		c.modMirror.FwuStatus |= snvsmirror.FwuCommit
		return status.OK, false
	case rpc.FWUpdateSetRevert:
		c.modMirror.FwuStatus |= snvsmirror.FwuRevert
		return status.OK, false
	default:
		return status.InvalidArgument, false
	}
}

// handleReset coerces the requested cause and enforces the reset policy.
// This call never returns on real hardware; the handler's
// (status.Status, bool) return type exists only to satisfy
// rpc.HandlerFunc's signature for the case a test's fake hal.SystemReset
// unwinds the call via panic/recover instead of actually resetting.
func (c *Core) handleReset() (status.Status, bool) {
	c.reset(snvsmirror.ResetCause(c.region.ResetReq.Cause))
	return status.OK, false
}

// handleTemp measures the MCU die temperature.
func (c *Core) handleTemp() (status.Status, bool) {
	milliC, err := c.deps.Temp.MeasureMilliC()
	if err != nil {
		return status.Internal, false
	}
	c.region.TempOut = rpc.TempReply{MilliC: milliC}
	return status.OK, false
}

// handleMemWrite is the guarded memory-write service: a denied access
// resets the device with cause SecureWd and, like handleReset, never
// returns on real hardware.
func (c *Core) handleMemWrite() (status.Status, bool) {
	req := c.region.MemWriteReq

	if !c.mpu.IsAccessAllowed(req.Address, uint32(req.Size)) {
		c.reset(snvsmirror.ResetSecureWd)
		return status.SignatureInvalid, false
	}

	if err := c.deps.MemWriter.Write(req.Address, req.Data[:req.Size]); err != nil {
		return status.Internal, false
	}

	return status.OK, false
}
