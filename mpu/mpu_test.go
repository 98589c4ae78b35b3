package mpu

import "testing"

// A later Deny entry overrides an earlier Allow covering an overlapping
// sub-range, and vice versa depending on order.
func TestHighestIndexWins(t *testing.T) {
	m, err := New([]Region{
		{Base: 0x1000, Last: 0x1FFF, Policy: Allow},
		{Base: 0x1800, Last: 0x18FF, Policy: Deny},
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if !m.IsAccessAllowed(0x1000, 0x100) {
		t.Fatal("expected region outside the deny sub-range to be allowed")
	}

	if m.IsAccessAllowed(0x1800, 0x10) {
		t.Fatal("expected the later deny entry to override the allow")
	}

	// reversed order: a later Allow does not resurrect an address denied
	// by an earlier entry unless it also matches the later Allow.
	m2, _ := New([]Region{
		{Base: 0x1800, Last: 0x18FF, Policy: Deny},
		{Base: 0x1000, Last: 0x1FFF, Policy: Allow},
	})
	if !m2.IsAccessAllowed(0x1800, 0x10) {
		t.Fatal("expected the later (index 1) allow to win over the earlier deny")
	}
}

func TestDefaultDeny(t *testing.T) {
	m, _ := New(nil)
	if m.IsAccessAllowed(0, 0x10) {
		t.Fatal("expected default-deny with no regions")
	}
}

func TestZeroSizeAlwaysAllowed(t *testing.T) {
	m, _ := New(nil)
	if !m.IsAccessAllowed(0x1234, 0) {
		t.Fatal("expected zero-size access to be vacuously allowed")
	}
}

func TestAllowRequiresFullContainment(t *testing.T) {
	m, _ := New([]Region{{Base: 0x1000, Last: 0x10FF, Policy: Allow}})

	if m.IsAccessAllowed(0x1080, 0x100) {
		t.Fatal("expected partial overlap with an allow region to be denied")
	}
	if !m.IsAccessAllowed(0x1000, 0x100) {
		t.Fatal("expected an access fully inside the allow region to succeed")
	}
}

func TestDenyMatchesAnyOverlap(t *testing.T) {
	m, _ := New([]Region{
		{Base: 0x0, Last: 0xFFFF, Policy: Allow},
		{Base: 0x1080, Last: 0x10FF, Policy: Deny},
	})

	if m.IsAccessAllowed(0x1000, 0x100) {
		t.Fatal("expected partial overlap with a deny region to be denied")
	}
}

func TestOverflowingAccessDenied(t *testing.T) {
	m, _ := New([]Region{{Base: 0, Last: ^uint32(0), Policy: Allow}})

	if m.IsAccessAllowed(^uint32(0)-1, 4) {
		t.Fatal("expected an overflowing access range to be denied")
	}
}

func TestNewRejectsInvalidRegion(t *testing.T) {
	if _, err := New([]Region{{Base: 0x100, Last: 0x10, Policy: Allow}}); err == nil {
		t.Fatal("expected error for last < base")
	}
}

func TestRegionsReturnsCopy(t *testing.T) {
	m, _ := New([]Region{{Base: 1, Last: 2, Policy: Allow}})

	regions := m.Regions()
	regions[0].Base = 999

	if m.Regions()[0].Base != 1 {
		t.Fatal("expected Regions() to return an independent copy")
	}
}
