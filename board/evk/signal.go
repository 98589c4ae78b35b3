package evk

import "sync"

// InterCoreSignal implements hal.InterCoreSignal against a spare GPIO pin
// wired to the application core's external interrupt input: Raise toggles
// the pin high then immediately low, edge-generating the single shared
// inter-core interrupt.
type InterCoreSignal struct {
	pin *Pin
}

// NewInterCoreSignal wires the signal pin as an output.
func NewInterCoreSignal(bank *Controller, pinNum int) *InterCoreSignal {
	p := bank.Init(pinNum)
	p.Out()
	p.Low()
	return &InterCoreSignal{pin: p}
}

// Raise implements hal.InterCoreSignal.
func (s *InterCoreSignal) Raise() {
	s.pin.High()
	s.pin.Low()
}

// Barrier implements hal.Barrier. A real DMB/DSB pair is a single ARM
// instruction; a pure-Go board package has no portable equivalent without
// an architecture-specific assembly stub. sync/atomic's operations already
// impose the ordering Go's own memory model guarantees between goroutines
// on this target, which is as far as this layer can go without cgo or a .s
// file.
type Barrier struct{}

func (Barrier) DataMemoryBarrier() {}

func (Barrier) DataSynchronizationBarrier() {}

// CriticalSection implements hal.CriticalSection with a nesting counter
// guarded by a mutex. On real silicon this additionally masks IRQ delivery
// (CPSID/CPSIE), which again requires target-specific assembly out of this
// package's scope; the nesting counter only tracks the nesting depth and
// neither masks IRQs nor excludes other callers.
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
