package ecdsa

import (
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	decred "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/taurusgroup/recover-lock/pkg/math/curve"
)

const (
	// DigestLen is the size of the message representative being signed.
	DigestLen = 32

	// SignatureLen is the size of a compact R ∥ S signature.
	SignatureLen = 2 * curve.ScalarBytes

	// WitnessLockLen is the size of an encoded witness lock: recovery id ∥ R ∥ S.
	WitnessLockLen = 1 + SignatureLen

	// MaxRecoveryID is the largest valid recovery id.
	//
	// Bit 0 selects the parity of the nonce point's y coordinate, bit 1 whether
	// its x coordinate overflowed the group order.
	MaxRecoveryID = 3
)

const (
	// compactSigMagicOffset and compactSigCompPubKey build the header byte of
	// the secp256k1 library's compact format: 27 + recovery id (+ 4 when the
	// key is meant to be serialized compressed).
	compactSigMagicOffset = 27
	compactSigCompPubKey  = 4
)

var (
	ErrWitnessLength     = errors.New("ecdsa: invalid witness lock length")
	ErrRecoveryID        = errors.New("ecdsa: invalid recovery id")
	ErrSignatureEncoding = errors.New("ecdsa: invalid compact signature encoding")
	ErrRecoveryFailed    = errors.New("ecdsa: public key recovery failed")
)

// RecoverableSignature is an ECDSA signature along with the recovery id
// needed to pick the signer's key among the candidates consistent with (R, S).
type RecoverableSignature struct {
	RecoveryID byte
	R, S       curve.Secp256k1Scalar
}

// ParseWitnessLock decodes recovery id ∥ R ∥ S.
//
// The lock must be exactly WitnessLockLen bytes long, the recovery id must be at
// most MaxRecoveryID, and both scalars must lie in [1, N-1].
func ParseWitnessLock(lock []byte) (*RecoverableSignature, error) {
	if len(lock) != WitnessLockLen {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWitnessLength, WitnessLockLen, len(lock))
	}
	sig := &RecoverableSignature{RecoveryID: lock[0]}
	if sig.RecoveryID > MaxRecoveryID {
		return nil, fmt.Errorf("%w: %d", ErrRecoveryID, sig.RecoveryID)
	}
	if err := sig.R.UnmarshalBinary(lock[1 : 1+curve.ScalarBytes]); err != nil {
		return nil, fmt.Errorf("%w: R: %v", ErrSignatureEncoding, err)
	}
	if sig.R.IsZero() {
		return nil, fmt.Errorf("%w: R is zero", ErrSignatureEncoding)
	}
	if err := sig.S.UnmarshalBinary(lock[1+curve.ScalarBytes:]); err != nil {
		return nil, fmt.Errorf("%w: S: %v", ErrSignatureEncoding, err)
	}
	if sig.S.IsZero() {
		return nil, fmt.Errorf("%w: S is zero", ErrSignatureEncoding)
	}
	return sig, nil
}

// WitnessLock serializes sig in the layout accepted by ParseWitnessLock.
func (sig *RecoverableSignature) WitnessLock() []byte {
	out := make([]byte, WitnessLockLen)
	out[0] = sig.RecoveryID
	copy(out[1:], sig.compactRS())
	return out
}

func (sig *RecoverableSignature) compactRS() []byte {
	out := make([]byte, SignatureLen)
	r := sig.R.ModNScalar().Bytes()
	s := sig.S.ModNScalar().Bytes()
	copy(out[:curve.ScalarBytes], r[:])
	copy(out[curve.ScalarBytes:], s[:])
	return out
}

// RecoverPublicKey runs SEC1 §4.1.6 public key recovery.
//
// digest is used as the message representative as is; it is not hashed again.
// An error means no valid point is consistent with (digest, R, S, RecoveryID).
func (sig *RecoverableSignature) RecoverPublicKey(digest [DigestLen]byte) (*PublicKey, error) {
	if sig.RecoveryID > MaxRecoveryID {
		return nil, fmt.Errorf("%w: %d", ErrRecoveryID, sig.RecoveryID)
	}
	compact := make([]byte, 0, WitnessLockLen)
	compact = append(compact, compactSigMagicOffset+compactSigCompPubKey+sig.RecoveryID)
	compact = append(compact, sig.compactRS()...)

	pub, _, err := decred.RecoverCompact(compact, digest[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRecoveryFailed, err)
	}
	return &PublicKey{point: curve.FromPublicKey(pub)}, nil
}

// SignRecoverable signs digest with sk, using RFC 6979 nonces.
//
// The resulting S is always in the lower half of the order, and the recovery id
// is the one that makes RecoverPublicKey return sk.Public().
func SignRecoverable(sk *PrivateKey, digest [DigestLen]byte) *RecoverableSignature {
	compact := decred.SignCompact(sk.key, digest[:], true)
	sig := &RecoverableSignature{
		RecoveryID: compact[0] - compactSigMagicOffset - compactSigCompPubKey,
	}
	// SignCompact only emits scalars in [1, N-1]
	_ = sig.R.UnmarshalBinary(compact[1 : 1+curve.ScalarBytes])
	_ = sig.S.UnmarshalBinary(compact[1+curve.ScalarBytes:])
	return sig
}

// Verify checks sig against a known public key, ignoring the recovery id.
func (sig *RecoverableSignature) Verify(pk *PublicKey, digest [DigestLen]byte) bool {
	var r, s secp256k1.ModNScalar
	r.Set(sig.R.ModNScalar())
	s.Set(sig.S.ModNScalar())
	return decred.NewSignature(&r, &s).Verify(digest[:], pk.point.PublicKey())
}
