package awdg

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha512"
	"crypto/x509"
	"encoding/binary"
	"testing"

	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/lwdgu"
	"github.com/nxp-appcodehub/ap-qmc2g-industrial-sub002/status"
)

func testSeed() []byte {
	seed := make([]byte, 48)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return seed
}

func testKeyPair(t *testing.T) (*ecdsa.PrivateKey, []byte) {
	t.Helper()

	priv, err := ecdsa.GenerateKey(elliptic.P521(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}

	return priv, der
}

func signTicket(t *testing.T, priv *ecdsa.PrivateKey, timeoutMs uint32, nonce [32]byte) []byte {
	t.Helper()

	var msg [36]byte
	binary.LittleEndian.PutUint32(msg[:4], timeoutMs)
	copy(msg[4:], nonce[:])
	digest := sha512.Sum512(msg[:])

	sig, err := ecdsa.SignASN1(rand.Reader, priv, digest[:])
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	ticket := make([]byte, 4+len(sig))
	binary.LittleEndian.PutUint32(ticket[:4], timeoutMs)
	copy(ticket[4:], sig)

	return ticket
}

// A full ticket cycle (nonce, sign, validate, defer) extends the timer.
func TestTicketCycleDefersWatchdog(t *testing.T) {
	priv, pubDER := testKeyPair(t)

	a, result, st := Init(1000, 2000, 1, 0, false, testSeed(), pubDER)
	if !st.Ok() || result != InitializedNew {
		t.Fatalf("init: result=%v st=%v", result, st)
	}

	nonce, ok := a.Nonce()
	if !ok {
		t.Fatal("expected fresh nonce, rng disabled")
	}

	raw := signTicket(t, priv, 5000, nonce)

	if st := a.ValidateTicket(raw); !st.Ok() {
		t.Fatalf("validate: %v", st)
	}

	before := a.RemainingTicks()

	if st := a.DeferWatchdog(); !st.Ok() {
		t.Fatalf("defer: %v", st)
	}

	if a.RemainingTicks() <= before {
		t.Fatalf("expected deferral to extend countdown: before=%d after=%d", before, a.RemainingTicks())
	}
}

// A ticket cannot be replayed because the nonce rotates on every
// ValidateTicket call, successful or not.
func TestTicketReplayRejected(t *testing.T) {
	priv, pubDER := testKeyPair(t)

	a, _, st := Init(1000, 2000, 1, 0, false, testSeed(), pubDER)
	if !st.Ok() {
		t.Fatalf("init: %v", st)
	}

	nonce, _ := a.Nonce()
	raw := signTicket(t, priv, 5000, nonce)

	if st := a.ValidateTicket(raw); !st.Ok() {
		t.Fatalf("first validate: %v", st)
	}
	if st := a.DeferWatchdog(); !st.Ok() {
		t.Fatalf("first defer: %v", st)
	}

	// Replaying the same ticket against the now-rotated nonce must fail.
	if st := a.ValidateTicket(raw); st.Ok() {
		t.Fatal("expected replayed ticket to be rejected")
	}
	if st := a.DeferWatchdog(); st.Ok() {
		t.Fatal("expected defer to be rejected after a failed validation")
	}
}

func TestValidateTicketRejectsWrongKey(t *testing.T) {
	_, pubDER := testKeyPair(t)
	otherPriv, _ := testKeyPair(t)

	a, _, st := Init(1000, 2000, 1, 0, false, testSeed(), pubDER)
	if !st.Ok() {
		t.Fatalf("init: %v", st)
	}

	nonce, _ := a.Nonce()
	raw := signTicket(t, otherPriv, 5000, nonce)

	if st := a.ValidateTicket(raw); st != status.SignatureInvalid {
		t.Fatalf("expected SignatureInvalid, got %v", st)
	}
}

func TestValidateTicketRejectsBadLength(t *testing.T) {
	_, pubDER := testKeyPair(t)

	a, _, st := Init(1000, 2000, 1, 0, false, testSeed(), pubDER)
	if !st.Ok() {
		t.Fatalf("init: %v", st)
	}

	if st := a.ValidateTicket([]byte{1, 2, 3}); st != status.InvalidArgument {
		t.Fatalf("expected InvalidArgument, got %v", st)
	}
}

func TestDeferWithoutValidationFails(t *testing.T) {
	_, pubDER := testKeyPair(t)

	a, _, st := Init(1000, 2000, 1, 0, false, testSeed(), pubDER)
	if !st.Ok() {
		t.Fatalf("init: %v", st)
	}

	if st := a.DeferWatchdog(); st != status.SignatureInvalid {
		t.Fatalf("expected SignatureInvalid, got %v", st)
	}
}

func TestResumeRestoresSavedTicks(t *testing.T) {
	_, pubDER := testKeyPair(t)

	a, result, st := Init(1000, 2000, 1, 42, true, testSeed(), pubDER)
	if !st.Ok() || result != InitializedResumed {
		t.Fatalf("init: result=%v st=%v", result, st)
	}

	// ChangeTimeoutTicks then Kick reloads to savedTicksToTimeout+1.
	if got := a.RemainingTicks(); got != 43 {
		t.Fatalf("expected resumed countdown of 43, got %d", got)
	}
}

func TestExpiryTriggersGrace(t *testing.T) {
	_, pubDER := testKeyPair(t)

	a, _, st := Init(1, 1000, 1, 0, false, testSeed(), pubDER)
	if !st.Ok() {
		t.Fatalf("init: %v", st)
	}

	if tr := a.Tick(); tr != lwdgu.NotRunning {
		t.Fatalf("tick 1: expected NotRunning (member counting down, grace idle), got %v", tr)
	}
	if tr := a.Tick(); tr != lwdgu.Running {
		t.Fatalf("tick 2: expected grace Running (member just expired, grace kicked and ticked once), got %v", tr)
	}
	if !a.GraceTriggeredBy() {
		t.Fatal("expected the watchdog member to have triggered grace")
	}
}
