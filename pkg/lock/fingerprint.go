package lock

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/taurusgroup/recover-lock/pkg/ecdsa"
)

const (
	// FingerprintLen is the size of a committed public key fingerprint.
	FingerprintLen = 20

	// DigestLen is the size of a transaction digest.
	DigestLen = ecdsa.DigestLen
)

// Fingerprint identifies a public key: the first FingerprintLen bytes of
// SHA-256 over the 33 byte compressed key.
type Fingerprint [FingerprintLen]byte

// Digest is the transaction digest covered by the signature.
type Digest [DigestLen]byte

// DeriveFingerprint computes the value a script must commit to in order to be
// unlocked by pk.
func DeriveFingerprint(pk *ecdsa.PublicKey) Fingerprint {
	var fp Fingerprint
	sum := sha256.Sum256(pk.Compressed())
	copy(fp[:], sum[:FingerprintLen])
	return fp
}

// Matches compares fp with committed script arguments in constant time.
// A committed value of any other length never matches.
func (fp Fingerprint) Matches(committed []byte) bool {
	return subtle.ConstantTimeCompare(fp[:], committed) == 1
}

func (fp Fingerprint) String() string {
	return hex.EncodeToString(fp[:])
}

// ParseFingerprint decodes a hex encoded fingerprint.
func ParseFingerprint(s string) (Fingerprint, error) {
	var fp Fingerprint
	data, err := hex.DecodeString(s)
	if err != nil {
		return fp, fmt.Errorf("lock: invalid fingerprint: %w", err)
	}
	if len(data) != FingerprintLen {
		return fp, fmt.Errorf("lock: invalid fingerprint length: expected %d, got %d", FingerprintLen, len(data))
	}
	copy(fp[:], data)
	return fp, nil
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest decodes a hex encoded transaction digest.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	data, err := hex.DecodeString(s)
	if err != nil {
		return d, fmt.Errorf("lock: invalid digest: %w", err)
	}
	if len(data) != DigestLen {
		return d, fmt.Errorf("lock: invalid digest length: expected %d, got %d", DigestLen, len(data))
	}
	copy(d[:], data)
	return d, nil
}
