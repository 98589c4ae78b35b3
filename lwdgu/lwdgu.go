// Package lwdgu implements the logical watchdog unit (LWDGU): a group of
// member watchdogs sharing one grace-period watchdog and one tick frequency.
//
// A Unit owns its grace LWDG and member LWDGs directly, by value; there is
// no polymorphism between the watchdog kinds, only composition.
package lwdgu

import (
	"math"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdg"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// TickResult mirrors lwdg.TickResult at the unit level: it reports the
// status of the grace watchdog after a Tick.
type TickResult = lwdg.TickResult

const (
	NotRunning  = lwdg.NotRunning
	Running     = lwdg.Running
	JustExpired = lwdg.JustExpired
)

// NotTriggered is the sentinel stored in GraceTriggeredBy before any member
// has expired.
const NotTriggered int16 = -1

// Unit groups member watchdogs behind one grace-period watchdog.
type Unit struct {
	grace            lwdg.LWDG
	members          []lwdg.LWDG
	tickFrequencyHz  uint32
	graceTriggeredBy int16
}

// MsToTicks converts a millisecond duration to a tick count at the given
// frequency, rounding up. It fails if the conversion would overflow uint32.
func MsToTicks(ms uint32, tickHz uint32) (uint32, status.Status) {
	if tickHz == 0 {
		return 0, status.InvalidArgument
	}

	product := uint64(ms)*uint64(tickHz) + 999

	ticks := product / 1000

	if ticks >= math.MaxUint32 {
		return 0, status.OutOfRange
	}

	return uint32(ticks), status.OK
}

// Init builds a unit with the given grace timeout (ms), tick frequency, and
// member count. Members are initialized with reload 0 so that an
// uninitialized member expires at its first tick after being kicked -- a
// deliberate fail-loud default that surfaces a missing InitMember call
// instead of silently granting an infinite timeout.
func Init(graceMs uint32, tickHz uint32, memberCount int) (*Unit, status.Status) {
	if tickHz == 0 || memberCount <= 0 || memberCount > 255 {
		return nil, status.InvalidArgument
	}

	graceTicks, st := MsToTicks(graceMs, tickHz)
	if !st.Ok() {
		return nil, status.InvalidArgument
	}

	grace, st := lwdg.Init(graceTicks)
	if !st.Ok() {
		return nil, status.InvalidArgument
	}

	members := make([]lwdg.LWDG, memberCount)
	for i := range members {
		members[i], _ = lwdg.Init(0)
	}

	return &Unit{
		grace:            grace,
		members:          members,
		tickFrequencyHz:  tickHz,
		graceTriggeredBy: NotTriggered,
	}, status.OK
}

// InitMember sets the reload value, in milliseconds, for member id.
func (u *Unit) InitMember(id int, timeoutMs uint32) status.Status {
	if id < 0 || id >= len(u.members) {
		return status.InvalidArgument
	}

	ticks, st := MsToTicks(timeoutMs, u.tickFrequencyHz)
	if !st.Ok() {
		return status.InvalidArgument
	}

	member, st := lwdg.Init(ticks)
	if !st.Ok() {
		return status.InvalidArgument
	}

	u.members[id] = member
	return status.OK
}

// Tick advances the unit by one tick interval and returns the grace
// watchdog's status. While the grace watchdog is running, only it is
// ticked; otherwise each member is ticked in index order and the first to
// expire starts the grace watchdog via a kick-then-tick, which corrects for
// the "current interval served" semantics so that a grace of 0 ticks yields
// JustExpired immediately.
func (u *Unit) Tick() TickResult {
	if u.grace.IsRunning() {
		return u.grace.Tick()
	}

	for i := range u.members {
		if u.members[i].Tick() == lwdg.JustExpired {
			u.graceTriggeredBy = int16(i)
			u.grace.Kick()
			return u.grace.Tick()
		}
	}

	return NotRunning
}

// KickOne kicks the member identified by id.
func (u *Unit) KickOne(id int) (lwdg.KickResult, status.Status) {
	if id < 0 || id >= len(u.members) {
		return 0, status.InvalidArgument
	}

	return u.members[id].Kick(), status.OK
}

// IsRunning reports whether member id is running.
func (u *Unit) IsRunning(id int) (bool, status.Status) {
	if id < 0 || id >= len(u.members) {
		return false, status.InvalidArgument
	}

	return u.members[id].IsRunning(), status.OK
}

// RemainingTicks returns the countdown remaining for member id.
func (u *Unit) RemainingTicks(id int) (uint32, status.Status) {
	if id < 0 || id >= len(u.members) {
		return 0, status.InvalidArgument
	}

	return u.members[id].RemainingTicks(), status.OK
}

// ChangeTimeoutMs updates the reload value, in milliseconds, for member id.
// Effective on the member's next kick only.
func (u *Unit) ChangeTimeoutMs(id int, ms uint32) status.Status {
	if id < 0 || id >= len(u.members) {
		return status.InvalidArgument
	}

	ticks, st := MsToTicks(ms, u.tickFrequencyHz)
	if !st.Ok() {
		return status.InvalidArgument
	}

	return u.members[id].ChangeTimeoutTicks(ticks)
}

// GraceTriggeredBy returns the index of the member that triggered the grace
// watchdog, or NotTriggered if none has.
func (u *Unit) GraceTriggeredBy() int16 {
	return u.graceTriggeredBy
}

// GraceRemainingTicks exposes the grace watchdog's countdown.
func (u *Unit) GraceRemainingTicks() uint32 {
	return u.grace.RemainingTicks()
}

// GraceIsRunning reports whether the grace watchdog has been started.
func (u *Unit) GraceIsRunning() bool {
	return u.grace.IsRunning()
}

// Member exposes a direct reference to member id, for embedding units that
// need fine-grained control (see awdg, which manages a single-member unit
// plus ticket-deferral logic on top of it).
func (u *Unit) Member(id int) *lwdg.LWDG {
	if id < 0 || id >= len(u.members) {
		return nil
	}

	return &u.members[id]
}

// TickFrequencyHz returns the fixed tick frequency the unit was initialized
// with.
func (u *Unit) TickFrequencyHz() uint32 {
	return u.tickFrequencyHz
}
