// Package rpc implements the cross-core shared-memory RPC dispatcher: a
// fixed table of call slots, each guarded by an isNew/isProcessed/
// awaitAsyncCompletion status record, dispatched on the inter-core
// interrupt, plus an events block for the two event types (reset-pending,
// GPIO-change) the core pushes to the peer.
//
// The flag discipline is the same ownership idiom a virtio-style descriptor
// ring uses: a slot's flag word decides which side may touch its payload,
// so the payload itself needs no lock. Each slot's behavior is a single
// HandlerFunc closure, a function value being the natural shape for a
// fixed, small set of per-slot behaviors.
package rpc

import (
	"sync/atomic"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// Signal is the narrow inter-core-IRQ capability the server needs to
// notify the peer core. Satisfied by hal.InterCoreSignal.
type Signal interface {
	Raise()
}

// IRQGate disables and restores the inter-core IRQ around the deferred
// secure-WDG completion path. Named Enter/Exit to match
// hal.CriticalSection's shape, since gating the single inter-core IRQ here
// is the same nesting-counter discipline applied to a narrower scope.
type IRQGate interface {
	Enter()
	Exit()
}

// Barrier orders a shared-memory write (the payload) before the flag flip
// that makes it visible to the peer, and the flag flip before the IRQ that
// announces it. Satisfied by hal.Barrier; nil-safe (a nil Barrier on Server
// just skips the fence, for tests that don't care about memory ordering).
type Barrier interface {
	DataMemoryBarrier()
	DataSynchronizationBarrier()
}

// Status is one RPC call slot's status record: isNew, isProcessed,
// awaitAsyncCompletion, and a retval. The idle state is isNew=false,
// isProcessed=true, awaitAsyncCompletion=false.
type Status struct {
	isNew                atomic.Bool
	isProcessed          atomic.Bool
	awaitAsyncCompletion atomic.Bool
	retval               atomic.Int32
}

// NewStatus builds a Status in its static-initializer state.
func NewStatus() *Status {
	s := &Status{}
	s.isProcessed.Store(true)
	return s
}

// Post marks the slot as carrying a fresh request, for the peer-side client
// (simulated in tests, real on the application core in production).
func (s *Status) Post() {
	s.isProcessed.Store(false)
	s.isNew.Store(true)
}

// IsNew, IsProcessed, AwaitAsyncCompletion, and Retval expose the flags for
// the peer-side client and for tests.
func (s *Status) IsNew() bool { return s.isNew.Load() }

func (s *Status) IsProcessed() bool { return s.isProcessed.Load() }

func (s *Status) AwaitAsyncCompletion() bool { return s.awaitAsyncCompletion.Load() }

func (s *Status) Retval() status.Status { return status.Status(s.retval.Load()) }

// Ack marks the slot as processed, the peer-side acknowledgment that clears
// the server's retry condition for a still-unacknowledged completion.
func (s *Status) Ack() {
	s.isProcessed.Store(true)
}

// HandlerFunc runs a call's body. It returns the result code to post back
// and whether completion is deferred (the secure-WDG ticket-verification
// path): when async is true and st is status.OK, the caller must later call
// Server.CompleteAsync with the real result.
type HandlerFunc func() (st status.Status, async bool)

// Call is one entry of the RPC table.
type Call struct {
	Name        string
	Status      *Status
	Handler     HandlerFunc
	TriggerPeer bool
}

// EventSlot is one entry of the events block: the isProcessed flag for an
// event whose payload lives in the shared region. The server clears it on
// Emit and the peer sets it again (Ack) once it has consumed the payload.
type EventSlot struct {
	isProcessed atomic.Bool
}

// NewEventSlot builds an EventSlot in its static-initializer state
// (isProcessed=true, i.e. nothing pending).
func NewEventSlot() *EventSlot {
	e := &EventSlot{}
	e.isProcessed.Store(true)
	return e
}

// Emit marks the slot's already-written payload as unprocessed, requesting
// an inter-core IRQ on the next Dispatch/direct raise.
func (e *EventSlot) Emit() {
	e.isProcessed.Store(false)
}

// Pending reports whether the event is still awaiting peer acknowledgment.
func (e *EventSlot) Pending() bool {
	return !e.isProcessed.Load()
}

// Ack marks the event as consumed, the peer-side acknowledgment.
func (e *EventSlot) Ack() {
	e.isProcessed.Store(true)
}

// Server dispatches the RPC table on the inter-core interrupt.
type Server struct {
	Signal  Signal
	Gate    IRQGate
	Barrier Barrier

	Calls  []*Call
	Events []*EventSlot
}

// Dispatch runs the table's per-entry state machine once:
//
//	if awaitAsyncCompletion: skip
//	else if isNew:
//	    retval = handler(); if !async or retval != Ok: isNew=false, maybe trigger
//	                        else: awaitAsyncCompletion=true (no trigger)
//	else if !isProcessed: maybe trigger (retry until peer acks)
//
// If any entry requested a trigger, or an event is still unprocessed, the
// inter-core IRQ is re-raised at exit -- the retransmit strategy for events,
// relying on the peer eventually setting isProcessed (Ack).
func (s *Server) Dispatch() {
	trigger := false

	for _, c := range s.Calls {
		if c.Status.awaitAsyncCompletion.Load() {
			continue
		}

		switch {
		case c.Status.isNew.Load():
			st, async := c.Handler()
			c.Status.retval.Store(int32(st))

			if !async || st != status.OK {
				c.Status.isNew.Store(false)
				if c.TriggerPeer {
					trigger = true
				}
			} else {
				c.Status.awaitAsyncCompletion.Store(true)
			}

		case !c.Status.isProcessed.Load():
			if c.TriggerPeer {
				trigger = true
			}
		}
	}

	for _, e := range s.Events {
		if e.Pending() {
			trigger = true
		}
	}

	if trigger {
		s.raise()
	}
}

// CompleteAsync finishes a deferred call (the secure-WDG verification path):
// it briefly gates the inter-core IRQ, posts the real result, clears both
// awaitAsyncCompletion and isNew, and re-raises the IRQ so the peer observes
// the result exactly once.
func (s *Server) CompleteAsync(c *Call, st status.Status) {
	if s.Gate != nil {
		s.Gate.Enter()
	}

	c.Status.retval.Store(int32(st))
	c.Status.awaitAsyncCompletion.Store(false)
	c.Status.isNew.Store(false)

	s.raise()

	if s.Gate != nil {
		s.Gate.Exit()
	}
}

// EmitEvent writes the barrier pair around marking an event slot pending,
// then raises the IRQ. Not reentrant with another EmitEvent or Dispatch call
// on the same server -- the caller (the core orchestrator, running with
// interrupts disabled at these call sites) serializes this itself.
func (s *Server) EmitEvent(e *EventSlot) {
	if s.Barrier != nil {
		s.Barrier.DataMemoryBarrier()
	}

	e.Emit()
	s.raise()
}

func (s *Server) raise() {
	if s.Barrier != nil {
		s.Barrier.DataSynchronizationBarrier()
	}
	if s.Signal != nil {
		s.Signal.Raise()
	}
}
