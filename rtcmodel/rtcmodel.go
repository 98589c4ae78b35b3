// Package rtcmodel implements the real-time-clock offset model layered on
// top of the SNVS SRTC hardware counter: a monotonic 47-bit counter at
// 32768 Hz, plus a signed offset (persisted in snvsmirror.Mirror.SrtcOffset)
// added to form wall-clock time.
//
// Reading the counter is not atomic: its high and low halves live in two
// registers, and a rollover between the two reads tears the value. Get
// therefore re-reads until two consecutive raw reads agree, up to three
// attempts. That retry loop lives here rather than in hal because it is a
// correctness rule about the RTC model's Get operation, not a raw-register
// concern; hal only needs to expose a single-shot read.
package rtcmodel

import (
	"errors"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

// Frequency is the SRTC counter's tick rate in Hz.
const Frequency = 32768

// CounterBits is the width of the hardware counter.
const CounterBits = 47

// counterMask masks a raw register value down to the counter's 47 bits.
const counterMask = (uint64(1) << CounterBits) - 1

// maxReadAttempts bounds the stable-read retry loop.
const maxReadAttempts = 3

// Counter is the narrow HAL surface rtcmodel needs: a single-shot read of
// the current (possibly torn, across a high/low-half rollover) raw counter
// value.
type Counter interface {
	ReadRaw() uint64
}

// ErrUnstableRead is returned when no two consecutive reads agreed across the
// initial read and three re-reads.
var ErrUnstableRead = errors.New("rtcmodel: srtc read unstable after three attempts")

func readStable(c Counter) (uint64, error) {
	prev := c.ReadRaw() & counterMask

	for attempt := 0; attempt < maxReadAttempts; attempt++ {
		next := c.ReadRaw() & counterMask
		if next == prev {
			return next, nil
		}
		prev = next
	}

	return 0, ErrUnstableRead
}

// MsToCounterTicks converts a millisecond duration to counter ticks,
// rounding up.
func MsToCounterTicks(ms uint64) uint64 {
	return (ms*Frequency + 999) / 1000
}

// CounterTicksToMs converts a counter tick count to milliseconds,
// truncating. Ticks and milliseconds are both non-negative here, so
// truncation toward zero and toward -infinity coincide, and
// CounterTicksToMs(MsToCounterTicks(ms)) == ms.
func CounterTicksToMs(ticks uint64) uint64 {
	return (ticks * 1000) / Frequency
}

// Model is the RTC offset model: an SRTC counter reading plus a persisted
// signed offset.
type Model struct {
	// Offset is the value added to the hardware counter to form real
	// time, in counter ticks. Mirrors snvsmirror.Mirror.SrtcOffset, which
	// the caller is responsible for persisting after Set.
	Offset int64
}

// Get reads the live counter, adds the offset, and splits the result into
// (seconds, milliseconds) since the epoch the offset was established
// relative to.
func (m *Model) Get(c Counter) (seconds uint64, milliseconds uint16, st status.Status) {
	ticks, err := readStable(c)
	if err != nil {
		return 0, 0, status.Timeout
	}

	real, overflow := addOffset(ticks, m.Offset)
	if overflow {
		return 0, 0, status.OutOfRange
	}

	ms := CounterTicksToMs(real)
	return ms / 1000, uint16(ms % 1000), status.OK
}

// Set reprograms the offset so that the live counter, once offset, reads as
// (seconds, milliseconds). It returns the new offset; the caller persists
// it via snvsmirror.
func (m *Model) Set(c Counter, seconds uint64, milliseconds uint16) (int64, status.Status) {
	targetMs := seconds*1000 + uint64(milliseconds)
	targetTicks := MsToCounterTicks(targetMs)

	live, err := readStable(c)
	if err != nil {
		return 0, status.Timeout
	}

	offset := int64(targetTicks) - int64(live)
	m.Offset = offset

	return offset, status.OK
}

// addOffset adds a signed offset to an unsigned tick count, reporting
// overflow (including a negative result, which this monotonic-since-epoch
// model treats as out of range).
func addOffset(ticks uint64, offset int64) (uint64, bool) {
	result := int64(ticks) + offset

	// int64(ticks) itself may have silently wrapped if ticks exceeded
	// math.MaxInt64; reject that up front.
	if ticks > 1<<63-1 {
		return 0, true
	}

	if offset > 0 && result < int64(ticks) {
		return 0, true
	}
	if offset < 0 && result > int64(ticks) {
		return 0, true
	}
	if result < 0 {
		return 0, true
	}

	return uint64(result), false
}
