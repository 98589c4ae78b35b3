package gpiomon

import (
	"testing"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

func TestEdgeArmsAndTickLatchesAfterReload(t *testing.T) {
	d := New(4, 3)

	if st := d.Edge(1); !st.Ok() {
		t.Fatalf("edge: %v", st)
	}

	rawBank := uint32(1 << 1)

	for i := 0; i < 2; i++ {
		if changed, _ := d.Tick(rawBank); changed {
			t.Fatalf("tick %d: expected no change before reload expires", i)
		}
	}

	changed, bank := d.Tick(rawBank)
	if !changed {
		t.Fatal("expected a change event on the tick that drives the counter to zero")
	}
	if bank != rawBank {
		t.Fatalf("expected published bank %#x, got %#x", rawBank, bank)
	}
}

func TestNoChangeWithoutAnEdge(t *testing.T) {
	d := New(4, 3)

	for i := 0; i < 5; i++ {
		if changed, _ := d.Tick(0xF); changed {
			t.Fatalf("tick %d: expected no change without an armed edge", i)
		}
	}
}

func TestEdgeRejectsOutOfRangePin(t *testing.T) {
	d := New(4, 3)
	if st := d.Edge(4); st != status.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st)
	}
}

func TestReleaseIsAlsoDebounced(t *testing.T) {
	d := New(1, 1)

	d.Edge(0)
	changed, bank := d.Tick(1 << 0)
	if !changed || bank != 1 {
		t.Fatalf("expected the set edge to latch, got changed=%v bank=%#x", changed, bank)
	}

	// re-arm and release (raw bit now 0) before the next latch.
	d.Edge(0)
	changed, bank = d.Tick(0)
	if !changed || bank != 0 {
		t.Fatalf("expected the release to latch as a change, got changed=%v bank=%#x", changed, bank)
	}
}

func TestPublishedReflectsLastLatch(t *testing.T) {
	d := New(2, 1)

	d.Edge(0)
	d.Tick(1)

	if got := d.Published(); got != 1 {
		t.Fatalf("expected Published()=1, got %#x", got)
	}
}
