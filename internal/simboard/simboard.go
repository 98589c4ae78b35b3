// Package simboard is a software stand-in for the real board package: it
// implements every hal interface against plain Go state instead of memory-
// mapped registers, standing in for the bootloader handoff and peripheral
// set board/evk provides on silicon, so tests and the cmd entry point have
// something to drive against.
package simboard

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/snvsmirror"
)

// GPIO simulates a GPIO controller: a raw input bank the test driver can
// set directly, and an output register the core writes through SetOutput.
type GPIO struct {
	mu      sync.Mutex
	inputs  uint32
	outputs uint32
}

func (g *GPIO) ReadInputs() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inputs
}

func (g *GPIO) SetOutput(pin int, high bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	bit := uint32(1) << uint(pin)
	if high {
		g.outputs |= bit
	} else {
		g.outputs &^= bit
	}
}

// SetInputs lets a test drive the raw input bank directly, simulating the
// GPIO edge IRQ's view of the world.
func (g *GPIO) SetInputs(bank uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.inputs = bank
}

// Outputs returns the current live output register, for assertions.
func (g *GPIO) Outputs() uint32 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outputs
}

// SRTC simulates the monotonic 47-bit SRTC counter: a plain incrementing
// tick count a test can advance directly, standing in for the free-running
// 32768 Hz hardware counter.
type SRTC struct {
	ticks atomic.Uint64
}

func (s *SRTC) ReadRaw() uint64 {
	return s.ticks.Load()
}

// Advance moves the simulated counter forward by n ticks.
func (s *SRTC) Advance(n uint64) {
	s.ticks.Add(n)
}

// HPRTC records the frequency it was started at; the simulated main loop
// drives core.TickISR directly rather than through a real periodic
// interrupt.
type HPRTC struct {
	HzStarted uint32
}

func (h *HPRTC) StartPeriodic(hz uint32) error {
	h.HzStarted = hz
	return nil
}

// Signal counts inter-core IRQ raises, for assertions that the retransmit
// logic actually re-triggers when expected.
type Signal struct {
	raises atomic.Int32
}

func (s *Signal) Raise() {
	s.raises.Add(1)
}

// Raises returns the number of times Raise has been called.
func (s *Signal) Raises() int {
	return int(s.raises.Load())
}

// HardwareWatchdog counts kicks.
type HardwareWatchdog struct {
	kicks atomic.Int32
}

func (h *HardwareWatchdog) Kick() {
	h.kicks.Add(1)
}

func (h *HardwareWatchdog) Kicks() int {
	return int(h.kicks.Load())
}

// ErrSystemReset is the panic value SystemReset.Reset raises: on real
// hardware a system reset never returns, and core's reset path spins
// forever if it somehow does. A test that wants to observe the
// side effects committed just before a reset recovers this panic instead
// of letting the spin loop run.
var ErrSystemReset = errors.New("simboard: system reset requested")

// SystemReset simulates the hardware reset line: it records the call and
// panics with ErrSystemReset, unwinding the caller the same way a real
// reset "returning" never lets core's post-reset spin loop actually spin in
// a test.
type SystemReset struct {
	resets atomic.Int32
}

func (r *SystemReset) Reset() {
	r.resets.Add(1)
	panic(ErrSystemReset)
}

func (r *SystemReset) Resets() int {
	return int(r.resets.Load())
}

// Registers simulates the four battery-backed persistent GPR words.
type Registers struct {
	mu  sync.Mutex
	gpr [4]uint32
}

func (r *Registers) GPR(index int) uint32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gpr[index]
}

func (r *Registers) SetGPR(index int, value uint32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gpr[index] = value
}

// TemperatureSensor returns a fixed reading a test can adjust.
type TemperatureSensor struct {
	MilliC int32
}

func (t *TemperatureSensor) MeasureMilliC() (int32, error) {
	return t.MilliC, nil
}

// TamperMonitor reports a fixed tamper status a test can pre-seed, standing
// in for the SNVS security state machine's detectors.
type TamperMonitor struct {
	Status snvsmirror.TamperStatus
}

func (t *TamperMonitor) TamperStatus() snvsmirror.TamperStatus {
	return t.Status
}

// Barrier is a no-op: simboard runs single-threaded from the simulated main
// loop's perspective, so memory ordering beyond Go's own happens-before
// rules needs no extra fencing.
type Barrier struct{}

func (Barrier) DataMemoryBarrier() {}

func (Barrier) DataSynchronizationBarrier() {}

// CriticalSection simulates IRQ disable/restore with a nesting counter.
type CriticalSection struct {
	mu    sync.Mutex
	depth int
}

func (c *CriticalSection) Enter() {
	c.mu.Lock()
	c.depth++
	c.mu.Unlock()
}

func (c *CriticalSection) Exit() {
	c.mu.Lock()
	if c.depth > 0 {
		c.depth--
	}
	c.mu.Unlock()
}

// MemoryWriter simulates the guarded-write target: a flat byte array
// addressed the same way the real clock-controller/analog register blocks
// would be, sized generously for the default configuration's MPU ranges.
type MemoryWriter struct {
	mu   sync.Mutex
	base uint32
	mem  []byte
}

// NewMemoryWriter builds a MemoryWriter covering [base, base+len(mem)).
func NewMemoryWriter(base uint32, size int) *MemoryWriter {
	return &MemoryWriter{base: base, mem: make([]byte, size)}
}

var ErrOutOfRange = errors.New("simboard: address out of range")

func (m *MemoryWriter) Write(addr uint32, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if addr < m.base {
		return ErrOutOfRange
	}
	offset := int(addr - m.base)
	if offset+len(data) > len(m.mem) {
		return ErrOutOfRange
	}

	copy(m.mem[offset:], data)
	return nil
}

// Read returns a copy of the simulated memory at addr, for assertions.
func (m *MemoryWriter) Read(addr uint32, n int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	offset := int(addr - m.base)
	if addr < m.base || offset+n > len(m.mem) {
		return nil, ErrOutOfRange
	}

	out := make([]byte, n)
	copy(out, m.mem[offset:offset+n])
	return out, nil
}
