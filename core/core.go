// Package core implements the supervisory-core orchestrator: the boot
// sequence, the tick/systick/inter-core/hardware-watchdog ISR bodies, the
// reset policy, and the RPC handler glue that ties the AWDG, the
// functional-watchdog unit, the SNVS mirror pair, the RTC model, the GPIO
// debouncer, and the software MPU together.
//
// One Core value owns every subsystem; all ISR entry points and RPC
// handlers are methods on it, so non-reentrancy is enforced by there being
// exactly one handle.
package core

import (
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/awdg"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/config"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/gpiomon"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/hal"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/arena"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdgu"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/mpu"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/rpc"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/rtcmodel"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// Deps bundles every HAL collaborator and one-shot bootloader handoff input
// the boot sequence needs (the AWDG init handoff: a 48-byte seed and a DER
// public key).
type Deps struct {
	GPIO       hal.GPIO
	SRTC       hal.SRTCCounter
	HPRTC      hal.HPRTCTimer
	Signal     hal.InterCoreSignal
	HWWatchdog hal.HardwareWatchdog
	Reset      hal.SystemReset
	Regs       hal.PersistentRegisters
	Temp       hal.TemperatureSensor
	Tamper     hal.TamperMonitor
	MemWriter  hal.MemoryWriter
	Barrier    hal.Barrier
	Critical   hal.CriticalSection

	// RNGSeed and PubKeyDER are consumed once by AWDG init and then
	// zeroed in place.
	RNGSeed   []byte
	PubKeyDER []byte
}

// Core is the supervisory core's live state.
type Core struct {
	cfg  config.Config
	deps Deps

	functional *lwdgu.Unit
	wdg        *awdg.AWDG
	mpu        *mpu.MPU
	rtc        rtcmodel.Model
	debounce    *gpiomon.Debouncer
	lastRawBank uint32

	hwMirror  snvsmirror.Mirror
	modMirror snvsmirror.Mirror

	// prevResetCause is the read-only snapshot of the cause latched from
	// the HW mirror at boot, before Modified.ResetCause is cleared (boot
	// step 4).
	prevResetCause snvsmirror.ResetCause

	region        Region
	server        *rpc.Server
	secureWDGCall *rpc.Call
	arena         *arena.Arena

	// pendingTicket is the arena-staged ticket copy awaiting the main
	// loop's ProcessDeferredWork pass; non-nil exactly while the
	// secure-WDG slot is parked on awaitAsyncCompletion.
	pendingTicket []byte

	tickCount uint32
	ready     bool
}

// arenaSize is the static arena's capacity. Only the secure-WDG ticket copy
// is staged in it; the ECDSA verification does not allocate from it.
const arenaSize = 16 * 1024

// Region is the shared-memory RPC region this core's server dispatches
// against: one payload block per call, plus the events block.
type Region struct {
	FunctionalKick rpc.FunctionalKickRequest
	FunctionalSt   *rpc.Status

	SecureWDGReq  rpc.SecureWDGRequest
	SecureWDGOut  rpc.SecureWDGReply
	SecureWDGSt   *rpc.Status

	GPIOOutReq rpc.GPIOOutRequest
	GPIOOutSt  *rpc.Status

	RTCReq rpc.RTCRequest
	RTCOut rpc.RTCReply
	RTCSt  *rpc.Status

	FWUpdateReq rpc.FWUpdateRequest
	FWUpdateOut rpc.FWUpdateReply
	FWUpdateSt  *rpc.Status

	ResetReq rpc.ResetRequest
	ResetSt  *rpc.Status

	TempOut rpc.TempReply
	TempSt  *rpc.Status

	MemWriteReq rpc.MemWriteRequest
	MemWriteSt  *rpc.Status

	ResetPending rpc.ResetPendingEvent
	GPIOChange   rpc.GPIOChangeEvent
	resetEvent   *rpc.EventSlot
	gpioEvent    *rpc.EventSlot
}

// New runs the boot sequence and returns a ready-to-drive Core. Interrupts
// are conceptually "disabled" for the duration of New; the caller must not
// invoke any ISR method until New returns.
func New(cfg config.Config, deps Deps) (*Core, status.Status) {
	if cfg.TickFrequencyHz == 0 || len(cfg.FunctionalWatchdogs) == 0 {
		return nil, status.InvalidArgument
	}

	c := &Core{cfg: cfg, deps: deps}

	// Step 1: outputs to the compile-time initial bitmap, SRTC already
	// running (owned by the board), HP-RTC periodic IRQ, initial input
	// snapshot.
	for pin := 0; pin < 32; pin++ {
		deps.GPIO.SetOutput(pin, cfg.InitialOutputBitmap&(1<<uint(pin)) != 0)
	}
	if deps.HPRTC != nil {
		if err := deps.HPRTC.StartPeriodic(cfg.TickFrequencyHz); err != nil {
			return nil, status.Internal
		}
	}
	c.debounce = gpiomon.New(cfg.GPIOInputCount, cfg.GPIODebounceTicks)
	initialBank := deps.GPIO.ReadInputs()
	c.lastRawBank = initialBank

	// Step 3: load SNVS into both mirror halves; a sanity failure zeros
	// the store and is treated as "fresh install", not reported up. A
	// discredited store sets fwuStatus.AwdtExpired in the Modified mirror,
	// which the boot-time flush persists, so the next boot enters recovery.
	hwMirror, err := snvsmirror.Load(deps.Regs)
	discredited := err != nil
	if deps.Tamper != nil && deps.Tamper.TamperStatus().Tampered() {
		// A tamper detection from the SNVS security state machine
		// discredits the persisted state the same way a failed sanity
		// check does.
		hwMirror = snvsmirror.Zero(deps.Regs)
		discredited = true
	}
	c.hwMirror = hwMirror
	c.modMirror = hwMirror
	if discredited {
		c.modMirror.FwuStatus |= snvsmirror.FwuAwdtExpired
	}

	// Step 4: latch and clear resetCause; restore the RTC offset model from
	// the persisted offset so real time survives the reboot.
	c.prevResetCause = c.hwMirror.ResetCause
	c.modMirror.ResetCause = snvsmirror.ResetNone
	c.rtc.Offset = c.hwMirror.SrtcOffset

	// Step 5: functional-WDG unit and members from the compile-time table.
	functional, st := lwdgu.Init(cfg.FunctionalGraceMs, cfg.TickFrequencyHz, len(cfg.FunctionalWatchdogs))
	if !st.Ok() {
		return nil, st
	}
	for _, w := range cfg.FunctionalWatchdogs {
		if st := functional.InitMember(w.ID, w.TimeoutMs); !st.Ok() {
			return nil, st
		}
	}
	c.functional = functional

	// Step 6: AWDG, new or resumed.
	if st := c.bootAWDG(); !st.Ok() {
		return nil, st
	}

	// Software MPU table, from the compile-time configuration.
	regions := make([]mpu.Region, len(cfg.MemWriteRegions))
	for i, r := range cfg.MemWriteRegions {
		regions[i] = mpu.Region{Base: r.Base, Last: r.Last, Policy: mpu.Policy(r.Policy)}
	}
	m, err := mpu.New(regions)
	if err != nil {
		return nil, status.InvalidArgument
	}
	c.mpu = m

	// Step 7: zero the one-shot RNG seed and public-key buffers now that
	// AWDG.Init has consumed them. Go has no portable "volatile write
	// then compiler fence" primitive; a plain zeroing loop is sufficient
	// since escape analysis cannot prove these slices dead across the
	// exported Init call boundary.
	zeroBytes(deps.RNGSeed)
	zeroBytes(deps.PubKeyDER)

	// Step 2 (reordered here since it needs no peripheral access): the
	// static allocator backing the ticket-copy staging the secure-WDG RPC
	// handler performs before handing a ticket to the (slow, ISR-unsafe)
	// ECDSA verifier.
	c.arena = arena.New(arenaSize)

	c.wireRPC()

	// Step 8: flush mirror diffs.
	c.flushMirror()

	// Step 9: read back a register once, as a barrier against the last
	// write being dropped by a reset that follows immediately.
	_ = deps.Regs.GPR(0)

	// Step 11: initial GPIO state event, before Step 12 starts systick.
	changed, bank := c.debounce.Tick(initialBank)
	if !changed {
		// Force the first publish regardless of whether Tick happened to
		// already match the zero-valued shadow.
		bank = c.debounce.Published()
	}
	c.region.GPIOChange = rpc.GPIOChangeEvent{Bank: bank}
	c.server.EmitEvent(c.region.gpioEvent)

	// Step 10: ready.
	c.ready = true

	return c, status.OK
}

// Ready reports whether boot completed and the peer core may proceed.
func (c *Core) Ready() bool {
	return c.ready
}

// PreviousResetCause exposes the cause latched at boot, for diagnostics.
func (c *Core) PreviousResetCause() snvsmirror.ResetCause {
	return c.prevResetCause
}

// FlushMirror is the main loop's steady-state maintenance call: it commits
// any Modified-vs-HW differences accumulated by the last batch of RPC
// handlers and ISRs since the previous flush. Must be called outside ISR
// context, at whatever cadence the main loop chooses; this is a background
// responsibility, not a per-tick one.
func (c *Core) FlushMirror() {
	c.flushMirror()
}

// zeroBytes overwrites b with zeros in place.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// flushMirror diffs Modified against HW and writes through any changed
// fields, in the canonical order snvsmirror.Commit enforces. Called from
// the main loop (and the tail of the boot sequence), never from ISR
// context.
func (c *Core) flushMirror() {
	diff := snvsmirror.ComputeDiff(c.hwMirror, c.modMirror)
	if !diff.Any() {
		return
	}
	c.hwMirror = snvsmirror.Commit(c.hwMirror, c.modMirror, c.deps.Regs, diff)
}

// combineResetCause arbitrates reset causes with priority
// SecureWd > FunctionalWd > Request > None. The underlying enum is declared
// in that exact priority order, so arbitration is a plain max; an
// out-of-range value on either side is coerced to SecureWd first
// (fail-closed). This one-way precedence is why a functional-watchdog
// expiry during an AWDG reset never downgrades the cause, but an AWDG
// expiry during a functional-watchdog grace period does overwrite it: the
// device must always reboot into recovery mode when both watchdogs are
// implicated.
func combineResetCause(a, b snvsmirror.ResetCause) snvsmirror.ResetCause {
	if !a.Valid() {
		a = snvsmirror.ResetSecureWd
	}
	if !b.Valid() {
		b = snvsmirror.ResetSecureWd
	}
	if a > b {
		return a
	}
	return b
}
