package arena

import "testing"

func TestAllocSplitsAndTracksSize(t *testing.T) {
	a := New(64)

	buf, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	if len(buf) != 16 {
		t.Fatalf("expected 16 bytes, got %d", len(buf))
	}

	for _, b := range buf {
		if b != 0 {
			t.Fatal("expected zeroed allocation")
		}
	}
}

func TestAllocFailsWhenExhausted(t *testing.T) {
	a := New(16)

	if _, err := a.Alloc(8); err != nil {
		t.Fatalf("first alloc: %v", err)
	}
	if _, err := a.Alloc(16); err != ErrOutOfMemory {
		t.Fatalf("expected ErrOutOfMemory, got %v", err)
	}
}

func TestFreeReclaimsAndCoalesces(t *testing.T) {
	a := New(32)

	b1, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("alloc 1: %v", err)
	}
	b2, err := a.Alloc(16)
	if err != nil {
		t.Fatalf("alloc 2: %v", err)
	}

	if err := a.Free(b1); err != nil {
		t.Fatalf("free 1: %v", err)
	}
	if err := a.Free(b2); err != nil {
		t.Fatalf("free 2: %v", err)
	}

	// Coalesced back to the full 32 bytes: one more allocation of the
	// full size must now succeed.
	if _, err := a.Alloc(32); err != nil {
		t.Fatalf("alloc after coalesce: %v", err)
	}
}

func TestFreeCoalescesAcrossThreeBlocks(t *testing.T) {
	a := New(48)

	b1, _ := a.Alloc(16)
	b2, _ := a.Alloc(16)
	b3, _ := a.Alloc(16)

	// Free out of order so the middle block is what joins the ends.
	a.Free(b3)
	a.Free(b1)
	a.Free(b2)

	if _, err := a.Alloc(48); err != nil {
		t.Fatalf("alloc after three-way coalesce: %v", err)
	}
}

func TestFreeRejectsUnownedSlice(t *testing.T) {
	a := New(16)

	other := make([]byte, 4)
	if err := a.Free(other); err != ErrNotOwned {
		t.Fatalf("expected ErrNotOwned, got %v", err)
	}
}

func TestZeroLengthAllocIsNoop(t *testing.T) {
	a := New(16)

	buf, err := a.Alloc(0)
	if err != nil || buf != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", buf, err)
	}
}
