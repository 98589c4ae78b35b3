// Package config holds the supervisory core's compile-time configuration: a
// plain struct of constants assembled via a Go initializer rather than
// through flag parsing or environment variables -- there is no environment
// at bare-metal reset, and the seed/key/timeout table are one-shot
// boot-time inputs, not runtime-tunable settings.
package config

// FunctionalWatchdog is one entry of the compile-time functional-watchdog
// timeout table, applied during boot.
type FunctionalWatchdog struct {
	ID        int
	TimeoutMs uint32
}

// Config is the supervisory core's full compile-time configuration.
type Config struct {
	// TickFrequencyHz is the HP-RTC periodic interrupt rate driving every
	// LWDGU and the AWDG. Must be a power of two dividing 32768
	// (frequency = 2^(15-k) Hz, default 1024 Hz).
	TickFrequencyHz uint32

	// FunctionalWatchdogs is the compile-time table of functional
	// watchdog members and their timeouts, initialized during boot.
	FunctionalWatchdogs []FunctionalWatchdog

	// FunctionalGraceMs is the shared grace-period timeout for the
	// functional-watchdog unit.
	FunctionalGraceMs uint32

	// AWDGInitialTimeoutMs and AWDGGraceMs seed a fresh (never-run)
	// AWDG; a resumed AWDG instead restores its countdown from the SNVS
	// backup.
	AWDGInitialTimeoutMs uint32
	AWDGGraceMs          uint32

	// InitialOutputBitmap is the compile-time initial state of the six
	// user outputs, applied early in boot, before the SNVS mirror is
	// loaded.
	InitialOutputBitmap uint32

	// OutputMask is the set of output bits the GPIO-out RPC is allowed to
	// touch: the four user outputs plus the two SPI-select outputs.
	OutputMask uint32

	// GPIOInputCount and GPIODebounceTicks configure the debounced input
	// mirror: four user inputs, each reloaded for GPIODebounceTicks
	// systick periods (10 ms each) on every edge.
	GPIOInputCount    int
	GPIODebounceTicks int32

	// HWWatchdogKickEveryTicks is the number of supervisory ticks between
	// hardware-watchdog kicks, computed at build time so the hardware
	// watchdog (1 s timeout, 0.5 s pre-timeout) is always kicked with a
	// 5 ms safety margin before its pre-timeout IRQ would fire.
	HWWatchdogKickEveryTicks uint32

	// MemWriteRegions is the software-MPU table guarding the
	// guarded-memory-write RPC: the clock-controller and analog-block
	// address ranges that may be written without disturbing the
	// supervisory core's own clock, power, or reset domains.
	MemWriteRegions []MPURegion
}

// MPURegion mirrors mpu.Region without importing mpu, so config stays a
// leaf package the rest of the module depends on rather than the reverse.
type MPURegion struct {
	Base   uint32
	Last   uint32
	Policy int // 0 = Deny, 1 = Allow, matching mpu.Policy's values
}

// Default is the reference configuration: 1024 Hz ticks, a three-member
// functional watchdog bank, and a conservative single-region MemWrite allow
// list.
var Default = Config{
	TickFrequencyHz: 1024,
	FunctionalWatchdogs: []FunctionalWatchdog{
		{ID: 0, TimeoutMs: 2000},
		{ID: 1, TimeoutMs: 5000},
		{ID: 2, TimeoutMs: 10000},
	},
	FunctionalGraceMs:        500,
	AWDGInitialTimeoutMs:     30000,
	AWDGGraceMs:              5000,
	InitialOutputBitmap:      0,
	OutputMask:               0x3f,
	GPIOInputCount:           4,
	GPIODebounceTicks:        5,
	HWWatchdogKickEveryTicks: (500 - 5) * 1024 / 1000, // 506: pre-timeout IRQ at 500 ms, less 5 ms, at 1024 Hz
	MemWriteRegions: []MPURegion{
		// Allow the CCM analog block, the target of the guarded
		// memory-write RPC.
		{Base: 0x020c0000, Last: 0x020c7fff, Policy: 1},
		// Carve out (deny) the clock controller's own ROOT/ enable
		// registers for the domains this core depends on (clock gating for
		// SNVS/WDOG/GPT). Later entries win ties, so this narrower deny
		// overrides the broader allow above for the addresses it covers.
		{Base: 0x020c4000, Last: 0x020c4fff, Policy: 0},
	},
}
