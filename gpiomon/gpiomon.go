// Package gpiomon implements the debounced GPIO input mirror: a per-input
// reload counter armed by an edge IRQ and decremented by the 10 ms systick,
// which latches the raw input bank into a shadow word on the tick that
// drives a counter to zero, and reports a change event whenever the shadow
// word differs from the last-published word.
//
// The debounce counters are touched from both the GPIO edge ISR and the
// systick ISR (mutually interrupting, per the platform's fixed priority
// order), so they're held in atomic words rather than behind a critical
// section; the shadow and published words are touched only from the systick
// context and so need no atomic discipline beyond being readable from the
// main loop for event emission.
package gpiomon

import (
	"sync/atomic"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// Debouncer tracks a fixed-size bank of digital inputs.
type Debouncer struct {
	reloadTicks int32
	counters    []atomic.Int32

	shadow    uint32
	published uint32
}

// New builds a Debouncer for the given number of inputs, each debounced
// over reloadTicks systick periods.
func New(inputs int, reloadTicks int32) *Debouncer {
	return &Debouncer{
		reloadTicks: reloadTicks,
		counters:    make([]atomic.Int32, inputs),
	}
}

// Edge arms input pin's debounce counter. Called from the GPIO edge IRQ.
func (d *Debouncer) Edge(pin int) status.Status {
	if pin < 0 || pin >= len(d.counters) {
		return status.InvalidArgument
	}

	d.counters[pin].Store(d.reloadTicks)
	return status.OK
}

// Tick advances every armed counter by one systick period against the
// current raw input bank (bit i reflects pin i), latching any pin whose
// counter reaches zero on this tick into the shadow word. It reports
// whether the shadow word changed relative to the last call, and the
// published (i.e. current shadow) bank to use for an emitted change event.
//
// Called from the systick ISR.
func (d *Debouncer) Tick(rawBank uint32) (changed bool, bank uint32) {
	for pin := range d.counters {
		c := &d.counters[pin]

		cur := c.Load()
		if cur <= 0 {
			continue
		}

		next := c.Add(-1)
		if next == 0 {
			bit := uint32(1) << uint(pin)
			if rawBank&bit != 0 {
				d.shadow |= bit
			} else {
				d.shadow &^= bit
			}
		}
	}

	if d.shadow != d.published {
		d.published = d.shadow
		return true, d.published
	}

	return false, d.published
}

// Published returns the last-published debounced bank, for the boot
// sequence's initial GPIO snapshot.
func (d *Debouncer) Published() uint32 {
	return d.published
}
