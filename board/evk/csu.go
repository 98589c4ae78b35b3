package evk

import (
	"errors"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/internal/reg"
)

// CSU register offsets and peripheral/master index bounds (p383, 11.2,
// IMX6ULLRM).
const (
	csuCSL0 = 0x00
	csuSA   = 0x218

	csuSAMin = 0
	csuSAMax = 15

	// saSecLevel0 grants every privilege level RW access; applied to the
	// masters this core's MemWrite path itself issues through. The software
	// MPU (mpu package) is the access-control authority for guarded writes;
	// CSU here only needs to not itself be the blocker.
	saSecLevel0 = 0b11
)

// CSU implements a hardware complement to the software MPU (mpu package):
// before the soft MPU's allow/deny table is consulted, this core's own bus
// master ID must already have CSU-level access to the target slave, or the
// guarded write would fault at the bus fabric regardless of what the soft
// MPU says. CSU.Permit is called once at boot (by evk.New, before core.New)
// to grant this core's master ID RW access to the clock-controller/analog
// address space the MemWrite RPC is allowed to touch.
type CSU struct {
	sa uint32
}

// NewCSU initializes the Central Security Unit's clock gate and returns the
// driver handle.
func NewCSU() *CSU {
	reg.SetN(ccmCCGR1, cg14, 0b11, 0b11)
	return &CSU{sa: csuBase + csuSA}
}

var errMasterIndexRange = errors.New("evk: csu master index out of range")

// Permit grants (or revokes) non-secure RW access for bus master id,
// optionally locking the setting until the next power cycle.
func (c *CSU) Permit(id int, secure bool, lock bool) error {
	if id < csuSAMin || id > csuSAMax {
		return errMasterIndexRange
	}

	reg.SetTo(c.sa, id*2, !secure)
	if lock {
		reg.Set(c.sa, id*2+1)
	}
	return nil
}

// Allowed reports whether bus master id currently has non-secure access.
func (c *CSU) Allowed(id int) (secure bool, locked bool, err error) {
	if id < csuSAMin || id > csuSAMax {
		return false, false, errMasterIndexRange
	}

	val := reg.Get(c.sa, id*2, 0b11)
	return val&0b01 == 0, val&0b10 != 0, nil
}
