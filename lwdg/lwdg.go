// Package lwdg implements the logical watchdog (LWDG), the countdown
// primitive the rest of the supervisory core's watchdog machinery is built
// from.
//
// A LWDG provides no internal locking: the owning tick context (normally an
// interrupt handler) and the owning mutator (kicks, reconfiguration,
// normally non-ISR code) must be mutually excluded by the caller, keeping
// the hot path free of a mutex it would pay for on every tick.
package lwdg

import "github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"

// TickResult reports the outcome of a Tick call.
type TickResult int

const (
	NotRunning TickResult = iota + 1
	Running
	JustExpired
	PreviouslyExpired
)

// KickResult reports the outcome of a Kick call.
type KickResult int

const (
	Started KickResult = iota + 1
	Kicked
)

// LWDG is a single countdown watchdog.
//
// Invariant: if Running && !Expired then TicksToTimeout > 0.
type LWDG struct {
	running        bool
	expired        bool
	ticksToTimeout uint32
	reloadTicks    uint32
}

// Init sets the watchdog to stopped/not-expired with the given reload value.
// It fails if reloadTicks would overflow the +1 reload bookkeeping.
func Init(reloadTicks uint32) (LWDG, status.Status) {
	if reloadTicks >= ^uint32(0) {
		return LWDG{}, status.InvalidArgument
	}

	return LWDG{
		running:        false,
		expired:        false,
		ticksToTimeout: reloadTicks + 1,
		reloadTicks:    reloadTicks,
	}, status.OK
}

// Tick decrements the countdown by one tick interval. It must be called from
// a single consistent execution context (the tick ISR in the orchestrator).
func (l *LWDG) Tick() TickResult {
	if !l.running {
		return NotRunning
	}

	if l.expired {
		return PreviouslyExpired
	}

	l.ticksToTimeout--

	if l.ticksToTimeout == 0 {
		l.expired = true
		return JustExpired
	}

	return Running
}

// Kick reloads the countdown to reloadTicks+1 (the current tick interval
// counts as served) and starts the watchdog if it was not already running.
// An already-expired watchdog stays expired and its countdown is untouched.
func (l *LWDG) Kick() KickResult {
	if !l.expired {
		l.ticksToTimeout = l.reloadTicks + 1
	}

	if !l.running {
		l.running = true
		return Started
	}

	return Kicked
}

// ChangeTimeoutTicks updates the reload value. The change takes effect on
// the next Kick only.
func (l *LWDG) ChangeTimeoutTicks(n uint32) status.Status {
	if n >= ^uint32(0) {
		return status.InvalidArgument
	}

	l.reloadTicks = n
	return status.OK
}

// RemainingTicks returns the current countdown value.
func (l *LWDG) RemainingTicks() uint32 {
	return l.ticksToTimeout
}

// IsRunning reports whether the watchdog has been started.
func (l *LWDG) IsRunning() bool {
	return l.running
}

// IsExpired reports whether the watchdog has expired.
func (l *LWDG) IsExpired() bool {
	return l.expired
}
