// Package mpu implements the software memory-protection unit guarding the
// cross-core memory-write service: a fixed, ordered table of address
// regions, each tagged Allow or Deny, checked before a write request coming
// from the peer core is allowed to land. The table is a small ordered array
// walked linearly, with no dynamic insert/remove at runtime; the region
// count is fixed at boot.
package mpu

import "errors"

// Policy is the access policy of a region.
type Policy int

const (
	Deny Policy = iota
	Allow
)

// Region is a single MPU entry: an inclusive [Base, Last] address range and
// its access policy.
type Region struct {
	Base   uint32
	Last   uint32
	Policy Policy
}

// ErrInvalidRegion is returned by New when a region's Last address is
// before its Base address.
var ErrInvalidRegion = errors.New("mpu: region last address precedes base address")

// MPU is an ordered table of regions. Regions are evaluated in index order;
// the highest-index matching entry decides the outcome.
type MPU struct {
	regions []Region
}

// New builds an MPU from an ordered slice of regions. The slice is copied;
// later mutation of the caller's slice does not affect the MPU.
func New(regions []Region) (*MPU, error) {
	for _, r := range regions {
		if r.Last < r.Base {
			return nil, ErrInvalidRegion
		}
	}

	table := make([]Region, len(regions))
	copy(table, regions)

	return &MPU{regions: table}, nil
}

// IsAccessAllowed reports whether an access of accessSize bytes starting at
// accessBase is allowed.
//
// Rules:
//   - By default (no matching entry) all accesses are denied.
//   - An access of size 0 does nothing and is always allowed.
//   - An access whose range overflows the address space is always denied.
//   - An Allow entry matches only if the whole access lies within it.
//   - A Deny entry matches if any part of the access overlaps it.
//   - The highest-index matching entry's policy wins.
func (m *MPU) IsAccessAllowed(accessBase uint32, accessSize uint32) bool {
	if accessSize == 0 {
		return true
	}

	accessLastOffset := accessSize - 1
	if accessBase > ^uint32(0)-accessLastOffset {
		return false
	}
	accessLast := accessBase + accessLastOffset

	allowed := false

	for _, r := range m.regions {
		switch r.Policy {
		case Allow:
			if accessBase >= r.Base && accessLast <= r.Last {
				allowed = true
			}
		case Deny:
			if accessLast >= r.Base && accessBase <= r.Last {
				allowed = false
			}
		}
	}

	return allowed
}

// Regions returns a copy of the region table, for inspection and tests.
func (m *MPU) Regions() []Region {
	out := make([]Region, len(m.regions))
	copy(out, m.regions)
	return out
}
