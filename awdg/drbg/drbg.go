// Package drbg implements a CTR-DRBG (counter-mode deterministic random bit
// generator), seeded once from external min-entropy and never reseeded
// thereafter.
//
// The construction is an AES-CTR fast-key-erasure generator in the NIST SP
// 800-90A CTR_DRBG shape: a block cipher key produces a keystream and is
// then replaced ("erased") by further keystream output before the
// caller-visible bytes are released, so that compromising the returned
// bytes does not reveal the state used to produce them. AES-256 with a
// 48-byte seed (32-byte key || 16-byte V), a reseed-interval counter,
// prediction resistance disabled -- and, as on the target MCU, no further
// entropy source after the initial seed.
package drbg

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
)

const (
	// SeedLength is the CTR_DRBG seed length for AES-256: a 32-byte key
	// concatenated with a 16-byte initial counter block.
	SeedLength = 48

	keyLength   = 32
	blockLength = aes.BlockSize

	// ReseedInterval is the maximum number of Generate calls allowed
	// before a reseed is required: INT32_MAX-1. Since no entropy source
	// is available after the initial seed, a reseed request always
	// fails, so this bound is never expected to be reached in practice.
	ReseedInterval = int64(1<<31) - 2
)

// ErrReseedRequired is returned by Generate when the reseed counter has been
// exhausted. Because the AWDG has no entropy source after its initial seed,
// this is unrecoverable and the caller must treat the DRBG as disabled.
var ErrReseedRequired = errors.New("drbg: reseed required but no entropy source is available")

// DRBG is a one-shot-seeded CTR-DRBG instance.
type DRBG struct {
	key           [keyLength]byte
	v             [blockLength]byte
	reseedCounter int64
	instantiated  bool
}

// Instantiate seeds the generator from exactly SeedLength bytes of external
// min-entropy. The seed is a one-shot input; the caller is responsible for
// zeroing the buffer afterwards.
func Instantiate(seed []byte) (*DRBG, error) {
	if len(seed) != SeedLength {
		return nil, errors.New("drbg: seed must be exactly 48 bytes")
	}

	d := &DRBG{reseedCounter: 1, instantiated: true}
	copy(d.key[:], seed[:keyLength])
	copy(d.v[:], seed[keyLength:])

	return d, nil
}

// Generate fills b with pseudo-random bytes and then updates the internal
// key/counter state from fresh keystream output (key erasure), so that the
// state used to produce b is never observable again.
func (d *DRBG) Generate(b []byte) error {
	if !d.instantiated {
		return errors.New("drbg: not instantiated")
	}

	if d.reseedCounter > ReseedInterval {
		return ErrReseedRequired
	}
	d.reseedCounter++

	block, err := aes.NewCipher(d.key[:])
	if err != nil {
		return err
	}
	stream := cipher.NewCTR(block, d.v[:])

	stream.XORKeyStream(b, zeroes(len(b)))

	// derive fresh key||V from further keystream output before returning,
	// so the bytes just handed out can never be used to recover future
	// output.
	var newState [keyLength + blockLength]byte
	stream.XORKeyStream(newState[:], zeroes(len(newState)))

	copy(d.key[:], newState[:keyLength])
	copy(d.v[:], newState[keyLength:])

	return nil
}

func zeroes(n int) []byte {
	return make([]byte, n)
}
