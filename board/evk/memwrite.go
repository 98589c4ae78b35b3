package evk

import "unsafe"

// MemWrite implements hal.MemoryWriter: the raw byte-at-a-time poke the
// guarded memory-write RPC performs once the software MPU (mpu package) has
// already approved the access range. It trusts its caller completely -- it
// is only ever reached after core's MPU check, and all range checking lives
// in that layer.
type MemWrite struct{}

// Write implements hal.MemoryWriter.
func (MemWrite) Write(addr uint32, data []byte) error {
	for i, b := range data {
		p := (*byte)(unsafe.Pointer(uintptr(addr) + uintptr(i)))
		*p = b
	}
	return nil
}
