package rpc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

type countingSignal struct {
	raises int
}

func (s *countingSignal) Raise() {
	s.raises++
}

type countingGate struct {
	depth   int
	entered int
}

func (g *countingGate) Enter() { g.depth++; g.entered++ }
func (g *countingGate) Exit()  { g.depth-- }

func newTestServer(calls ...*Call) (*Server, *countingSignal, *countingGate) {
	signal := &countingSignal{}
	gate := &countingGate{}
	return &Server{Signal: signal, Gate: gate, Calls: calls}, signal, gate
}

func TestDispatchRunsNewCallAndTriggersPeer(t *testing.T) {
	st := NewStatus()
	ran := 0
	call := &Call{
		Name: "test", Status: st, TriggerPeer: true,
		Handler: func() (status.Status, bool) {
			ran++
			return status.OK, false
		},
	}
	srv, signal, _ := newTestServer(call)

	st.Post()
	srv.Dispatch()

	require.Equal(t, 1, ran)
	require.False(t, st.IsNew(), "synchronous completion must clear isNew")
	require.Equal(t, status.OK, st.Retval())
	require.Equal(t, 1, signal.raises)
}

func TestDispatchSkipsSlotWithoutNewRequest(t *testing.T) {
	st := NewStatus()
	call := &Call{
		Name: "test", Status: st, TriggerPeer: true,
		Handler: func() (status.Status, bool) {
			t.Fatal("handler must not run without a posted request")
			return status.Internal, false
		},
	}
	srv, signal, _ := newTestServer(call)

	srv.Dispatch()

	require.Zero(t, signal.raises)
}

func TestDispatchRetriesUnacknowledgedCompletion(t *testing.T) {
	st := NewStatus()
	call := &Call{
		Name: "test", Status: st, TriggerPeer: true,
		Handler: func() (status.Status, bool) { return status.OK, false },
	}
	srv, signal, _ := newTestServer(call)

	st.Post()
	srv.Dispatch()
	require.Equal(t, 1, signal.raises)

	// The peer has not acknowledged (isProcessed still false): every further
	// dispatch re-raises until it does.
	srv.Dispatch()
	require.Equal(t, 2, signal.raises)

	st.Ack()
	srv.Dispatch()
	require.Equal(t, 2, signal.raises, "an acknowledged slot must stop re-triggering")
}

func TestDispatchDefersAsyncCompletion(t *testing.T) {
	st := NewStatus()
	call := &Call{
		Name: "test", Status: st, TriggerPeer: true,
		Handler: func() (status.Status, bool) { return status.OK, true },
	}
	srv, signal, gate := newTestServer(call)

	st.Post()
	srv.Dispatch()

	require.True(t, st.AwaitAsyncCompletion())
	require.True(t, st.IsNew(), "the deferred path owns the slot until completion")
	require.Zero(t, signal.raises, "a deferred call must not trigger yet")

	// While deferred, further dispatches leave the slot alone.
	srv.Dispatch()
	require.Zero(t, signal.raises)

	srv.CompleteAsync(call, status.SignatureInvalid)

	require.False(t, st.AwaitAsyncCompletion())
	require.False(t, st.IsNew())
	require.Equal(t, status.SignatureInvalid, st.Retval())
	require.Equal(t, 1, signal.raises)
	require.Equal(t, 1, gate.entered, "completion must run under the IRQ gate")
	require.Zero(t, gate.depth, "the IRQ gate must be released")
}

func TestDispatchTreatsFailedAsyncRequestAsSynchronous(t *testing.T) {
	st := NewStatus()
	call := &Call{
		Name: "test", Status: st, TriggerPeer: true,
		Handler: func() (status.Status, bool) { return status.InvalidArgument, true },
	}
	srv, signal, _ := newTestServer(call)

	st.Post()
	srv.Dispatch()

	require.False(t, st.AwaitAsyncCompletion(), "a failed request must not defer")
	require.False(t, st.IsNew())
	require.Equal(t, status.InvalidArgument, st.Retval())
	require.Equal(t, 1, signal.raises)
}

func TestEmitEventRetransmitsUntilAcknowledged(t *testing.T) {
	event := NewEventSlot()
	srv, signal, _ := newTestServer()
	srv.Events = []*EventSlot{event}

	srv.EmitEvent(event)
	require.True(t, event.Pending())
	require.Equal(t, 1, signal.raises)

	// The dispatch pass re-raises as long as the event is unconsumed.
	srv.Dispatch()
	require.Equal(t, 2, signal.raises)

	event.Ack()
	srv.Dispatch()
	require.Equal(t, 2, signal.raises)
}
