// Package hal defines the peripheral contracts the supervisory core needs
// from the board: GPIO, the SRTC counter, the HP-RTC periodic interrupt, the
// inter-core signal, the hardware watchdog, the persistent GPR registers,
// the temperature sensor, and the barrier/critical-section primitives.
//
// This package is deliberately thin: it names the shape of each
// collaborator without implementing one. The real driver detail (register
// offsets, clock gates, IRQ numbers) belongs to the board packages.
// internal/simboard provides a software stand-in implementing every
// interface below, for tests and the cmd entry point; board/evk implements
// the same interfaces against real i.MX6ULL peripherals.
package hal

import "github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"

// GPIO is the narrow surface the core needs from the GPIO controller: read
// the raw input bank, and set/clear individual output pins.
type GPIO interface {
	// ReadInputs returns the raw (undebounced) input bank, bit i
	// reflecting user input i.
	ReadInputs() uint32

	// SetOutput sets or clears output pin (0-indexed) in the live output
	// register, independent of the SNVS-mirrored gpioOutputStatus value.
	SetOutput(pin int, high bool)
}

// SRTCCounter is the single-shot raw read rtcmodel.Counter needs; it is
// declared again here (rather than imported) so hal stays the contract
// boundary and rtcmodel stays decoupled from the board package.
type SRTCCounter interface {
	ReadRaw() uint64
}

// PersistentRegisters is the four-GPR battery-backed store snvsmirror
// operates on.
type PersistentRegisters = snvsmirror.Registers

// TemperatureSensor measures the MCU die temperature, in millidegrees
// Celsius, for the MCU-temperature RPC.
type TemperatureSensor interface {
	MeasureMilliC() (int32, error)
}

// TamperMonitor exposes the SNVS security state machine's tamper detections
// (clock, temperature, voltage, power glitch), consulted once by the boot
// sequence's sanity check. Optional: a nil TamperMonitor in core.Deps skips
// the check, for boards whose SNVS security monitor is owned elsewhere.
type TamperMonitor interface {
	TamperStatus() snvsmirror.TamperStatus
}

// HardwareWatchdog is the last-chance reset path: a single hardware timer
// kicked periodically by the tick ISR well before its own pre-timeout IRQ
// would fire.
type HardwareWatchdog interface {
	Kick()
}

// SystemReset performs an unconditional hardware system reset. If this
// returns at all the caller treats it as fatal and spins; a real board's
// implementation never returns.
type SystemReset interface {
	Reset()
}

// InterCoreSignal drives the single shared software interrupt line used to
// notify the peer core: toggle one bit and clear it, wrapped in barriers.
type InterCoreSignal interface {
	Raise()
}

// Barrier issues a data-memory barrier (ordering prior writes before it)
// and a data-synchronization barrier (ordering the fence itself before
// subsequent instructions): the DMB/DSB pair issued around every
// cross-core-visible write.
type Barrier interface {
	DataMemoryBarrier()
	DataSynchronizationBarrier()
}

// CriticalSection disables and restores interrupt delivery around a
// non-ISR mutation of state an ISR may also touch, with nesting support
// (an inner Enter/Exit pair is a no-op against the outer one).
type CriticalSection interface {
	Enter()
	Exit()
}

// MemoryWriter performs the single guarded write the MemWrite RPC allows
// once the software MPU has approved the access. The real
// board's implementation targets the platform clock-controller/analog
// register blocks directly; this contract stays address-space-agnostic so
// a software simulation can back it with a plain byte array.
type MemoryWriter interface {
	Write(addr uint32, data []byte) error
}

// HPRTCTimer starts the periodic high-precision RTC interrupt that drives
// the tick ISR, at the given frequency (a power of two dividing 32768 Hz).
type HPRTCTimer interface {
	StartPeriodic(hz uint32) error
}
