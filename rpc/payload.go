package rpc

import "github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/awdg/ticket"

// SecureWDGOp selects the secure-WDG call's sub-operation.
type SecureWDGOp uint8

const (
	SecureWDGGetNonce SecureWDGOp = iota
	SecureWDGSubmitTicket
)

// FWUpdateOp selects the FW-update call's sub-operation.
type FWUpdateOp uint8

const (
	FWUpdateReadStatus FWUpdateOp = iota
	FWUpdateSetCommit
	FWUpdateSetRevert
)

// The structs below are the per-call data payloads of the shared-memory
// region: one block per RPC, read and written only while the owning Status
// guarantees exclusivity (the handler body runs with isNew already observed
// true, before isNew is cleared).

// FunctionalKickRequest is the functional-WDG kick call's payload.
type FunctionalKickRequest struct {
	ID uint8
}

// SecureWDGRequest is the secure-WDG call's payload: either a get-nonce
// request (Op == SecureWDGGetNonce, Ticket ignored) or a ticket submission
// (Op == SecureWDGSubmitTicket).
type SecureWDGRequest struct {
	Op        SecureWDGOp
	Ticket    [ticket.MaxLength]byte
	TicketLen int
}

// SecureWDGReply carries the nonce back out for a get-nonce request.
type SecureWDGReply struct {
	Nonce [ticket.NonceLength]byte
}

// GPIOOutRequest is the GPIO-out call's payload: a bitmask of pins to
// change and the data bits to apply to them.
type GPIOOutRequest struct {
	Mask uint32
	Data uint32
}

// RTCRequest is the RTC get/set call's payload.
type RTCRequest struct {
	Set        bool
	SetSeconds uint64
	SetMillis  uint16
}

// RTCReply carries the result of an RTC get (or the post-set confirmation).
type RTCReply struct {
	Seconds uint64
	Millis  uint16
}

// FWUpdateRequest is the FW-update call's payload.
type FWUpdateRequest struct {
	Op FWUpdateOp
}

// FWUpdateReply carries the fwuStatus bits or reset cause for a
// read-status request.
type FWUpdateReply struct {
	FwuStatus  uint8
	ResetCause uint8
}

// ResetRequest is the reset call's payload: the requested cause, coerced to
// SecureWd by the reset policy if it is not one of the known values.
type ResetRequest struct {
	Cause uint8
}

// TempReply carries the measured MCU die temperature, in millidegrees C.
type TempReply struct {
	MilliC int32
}

// MemWriteRequest is the guarded memory-write call's payload: an address, a
// byte count, and up to 4 bytes of data.
type MemWriteRequest struct {
	Address uint32
	Size    uint8
	Data    [4]byte
}

// ResetPendingEvent is the events block's reset-cause slot: pushed whenever
// a watchdog crosses into its grace period, so the peer can flush logs.
type ResetPendingEvent struct {
	Cause uint8
}

// GPIOChangeEvent is the events block's GPIO snapshot slot: pushed whenever
// the debounced input bank changes.
type GPIOChangeEvent struct {
	Bank uint32
}
