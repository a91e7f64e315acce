package ecdsa

import (
	"errors"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/taurusgroup/recover-lock/internal/hash"
	"github.com/taurusgroup/recover-lock/pkg/math/curve"
	"github.com/taurusgroup/recover-lock/pkg/math/sample"
)

// PrivateKeyLength is the number of bytes in a serialized PrivateKey.
const PrivateKeyLength = curve.ScalarBytes

// keygenContext separates seeded key derivation from any other use of the hash.
const keygenContext = "recover-lock/keygen"

// PrivateKey is a secp256k1 signing key.
type PrivateKey struct {
	key    *secp256k1.PrivateKey
	public *secp256k1.PublicKey
}

// PublicKey is a secp256k1 point, identified on chain by its fingerprint.
type PublicKey struct {
	point *curve.Secp256k1Point
}

// GenerateKey samples a new private key from rand.
func GenerateKey(rand io.Reader) *PrivateKey {
	x, X := sample.ScalarPointPair(rand, curve.Secp256k1{})
	return newPrivateKey(x.(*curve.Secp256k1Scalar), X.(*curve.Secp256k1Point))
}

func newPrivateKey(x *curve.Secp256k1Scalar, X *curve.Secp256k1Point) *PrivateKey {
	return &PrivateKey{
		key:    secp256k1.NewPrivateKey(x.ModNScalar()),
		public: X.PublicKey(),
	}
}

// KeyFromSeed deterministically derives a private key from seed.
//
// The same seed always yields the same key, which makes it suitable for
// reproducible fixtures. It is not a substitute for a proper key store.
func KeyFromSeed(seed []byte) *PrivateKey {
	h := hash.New(keygenContext)
	if err := h.WriteAny(seed); err != nil {
		panic(fmt.Sprintf("ecdsa.KeyFromSeed: %v", err))
	}
	return GenerateKey(h.Digest())
}

// PrivateKeyFromBytes parses a 32 byte big-endian secret scalar.
func PrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	var x curve.Secp256k1Scalar
	if err := x.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("ecdsa: invalid private key: %w", err)
	}
	if x.IsZero() {
		return nil, errors.New("ecdsa: invalid private key: zero")
	}
	return newPrivateKey(&x, x.ActOnBase().(*curve.Secp256k1Point)), nil
}

// Bytes returns the 32 byte big-endian secret scalar.
func (sk *PrivateKey) Bytes() []byte {
	return sk.key.Serialize()
}

// Public returns the public key matching sk.
func (sk *PrivateKey) Public() *PublicKey {
	return &PublicKey{point: curve.FromPublicKey(sk.public)}
}

// ParsePublicKey decodes a 33 byte compressed public key.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	point := new(curve.Secp256k1Point)
	if err := point.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("ecdsa: invalid public key: %w", err)
	}
	return &PublicKey{point: point}, nil
}

// Compressed returns the 33 byte SEC1 compressed encoding, 0x02 or 0x03 ∥ X.
func (pk *PublicKey) Compressed() []byte {
	data, err := pk.point.MarshalBinary()
	if err != nil {
		// a PublicKey is never constructed from the identity
		panic(fmt.Sprintf("ecdsa.PublicKey.Compressed: %v", err))
	}
	return data
}

// Equal reports whether pk and other are the same point.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return pk.point.Equal(other.point)
}
