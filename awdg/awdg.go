// Package awdg implements the authenticated watchdog (AWDG): a single-member
// logical watchdog unit that can only be deferred by presenting a freshly
// signed ticket for the AWDG's current nonce.
package awdg

import (
	"crypto/ecdsa"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/awdg/drbg"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/awdg/ticket"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdgu"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// InitResult reports whether Init started a fresh timer or resumed one
// restored from persisted state.
type InitResult int

const (
	InitializedNew InitResult = iota + 1
	InitializedResumed
)

// watchdogMemberID is the single member index inside the underlying unit.
const watchdogMemberID = 0

// AWDG is an authenticated watchdog: a one-member lwdgu.Unit whose sole
// member can only be deferred by a verified ticket.
type AWDG struct {
	unit *lwdgu.Unit
	rng  *drbg.DRBG
	pub  *ecdsa.PublicKey

	nonce       [ticket.NonceLength]byte
	rngDisabled bool
	canDefer    bool
	deferralMs  uint32
}

// Init sets up the AWDG: it builds the underlying one-member unit, seeds the
// DRBG, parses the public key, and draws the first nonce.
//
// If wasRunning is true, savedTicksToTimeout restores the member's countdown
// from persisted state instead of starting from initialTimeoutMs; the caller
// is responsible for the half-on-resume / shift-by-16 transformation applied
// to the backup value before it reaches here.
func Init(
	initialTimeoutMs uint32,
	gracePeriodTimeoutMs uint32,
	tickFrequencyHz uint32,
	savedTicksToTimeout uint32,
	wasRunning bool,
	rngSeed []byte,
	pubKeyDER []byte,
) (*AWDG, InitResult, status.Status) {
	if initialTimeoutMs < 1 || tickFrequencyHz < 1 {
		return nil, 0, status.InvalidArgument
	}

	if len(rngSeed) != drbg.SeedLength {
		return nil, 0, status.InvalidArgument
	}

	unit, st := lwdgu.Init(gracePeriodTimeoutMs, tickFrequencyHz, 1)
	if !st.Ok() {
		return nil, 0, status.InvalidArgument
	}

	if st := unit.InitMember(watchdogMemberID, initialTimeoutMs); !st.Ok() {
		return nil, 0, status.InvalidArgument
	}

	rng, err := drbg.Instantiate(rngSeed)
	if err != nil {
		return nil, 0, status.Internal
	}

	pub, err := ticket.ParsePublicKey(pubKeyDER)
	if err != nil {
		return nil, 0, status.InvalidArgument
	}

	a := &AWDG{unit: unit, rng: rng, pub: pub}

	if err := a.rng.Generate(a.nonce[:]); err != nil {
		return nil, 0, status.Internal
	}

	result := InitializedNew

	if wasRunning {
		if st := unit.Member(watchdogMemberID).ChangeTimeoutTicks(savedTicksToTimeout); !st.Ok() {
			return nil, 0, status.OutOfRange
		}
		result = InitializedResumed
	}

	if _, st := unit.KickOne(watchdogMemberID); !st.Ok() {
		return nil, 0, status.Internal
	}

	return a, result, status.OK
}

// Tick advances the underlying unit by one tick interval. Safe to call from
// an interrupt context; must not run concurrently with DeferWatchdog or
// RemainingTicks.
func (a *AWDG) Tick() lwdgu.TickResult {
	return a.unit.Tick()
}

// RemainingTicks returns the countdown remaining on the watchdog member.
// Must not run concurrently with Tick or DeferWatchdog.
func (a *AWDG) RemainingTicks() uint32 {
	ticks, _ := a.unit.RemainingTicks(watchdogMemberID)
	return ticks
}

// GraceRemainingTicks exposes the grace-period countdown.
func (a *AWDG) GraceRemainingTicks() uint32 {
	return a.unit.GraceRemainingTicks()
}

// Nonce returns the current challenge nonce, or ok=false if the DRBG has
// been permanently disabled by an earlier reseed failure.
func (a *AWDG) Nonce() (n [ticket.NonceLength]byte, ok bool) {
	if a.rngDisabled {
		return n, false
	}
	return a.nonce, true
}

// ValidateTicket checks a deferral ticket's signature against the current
// nonce. On success, the timeout it carries is latched for the next
// DeferWatchdog call; on any failure, a pending deferral is cleared. Either
// way, the nonce is rotated to a fresh value so a ticket can never be
// replayed.
//
// Must not run concurrently with Nonce or DeferWatchdog.
func (a *AWDG) ValidateTicket(raw []byte) status.Status {
	a.canDefer = false

	if a.rngDisabled {
		return status.Synchronization
	}

	result := status.Internal

	parsed, err := ticket.Parse(raw)
	switch {
	case err != nil:
		result = status.InvalidArgument
	case ticket.Verify(a.pub, parsed, a.nonce) != nil:
		result = status.SignatureInvalid
	default:
		a.deferralMs = parsed.TimeoutMs
		a.canDefer = true
		result = status.OK
	}

	if err := a.rng.Generate(a.nonce[:]); err != nil {
		a.rngDisabled = true
	}

	return result
}

// DeferWatchdog extends the watchdog member using the timeout latched by the
// most recent successful ValidateTicket call. It fails if no such validation
// is pending; either way, the pending state is cleared so a ticket can only
// ever be used once.
//
// Must not run concurrently with Nonce, ValidateTicket, Tick, or
// RemainingTicks.
func (a *AWDG) DeferWatchdog() status.Status {
	if !a.canDefer {
		return status.SignatureInvalid
	}
	a.canDefer = false

	if st := a.unit.ChangeTimeoutMs(watchdogMemberID, a.deferralMs); !st.Ok() {
		return status.OutOfRange
	}

	if _, st := a.unit.KickOne(watchdogMemberID); !st.Ok() {
		return status.Internal
	}

	return status.OK
}

// GraceTriggeredBy reports whether the watchdog member (the unit's only
// member) was the one that triggered the grace period.
func (a *AWDG) GraceTriggeredBy() bool {
	return a.unit.GraceTriggeredBy() == watchdogMemberID
}

// GraceIsRunning reports whether the grace-period countdown has started.
func (a *AWDG) GraceIsRunning() bool {
	return a.unit.GraceIsRunning()
}
