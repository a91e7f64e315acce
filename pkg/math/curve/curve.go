package curve

import (
	"encoding"

	"github.com/cronokirby/saferith"
)

// Curve represents the group a recoverable signature lives in.
//
// Only secp256k1 is implemented; the interface keeps callers from reaching
// into the backing library directly.
type Curve interface {
	NewPoint() Point
	NewBasePoint() Point
	NewScalar() Scalar
	Order() *saferith.Modulus
}

// Scalar is an element of ℤ/Nℤ, where N is the order of the curve.
type Scalar interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Equal(Scalar) bool
	IsZero() bool
	IsOverHalfOrder() bool
	SetNat(*saferith.Nat) Scalar
	ActOnBase() Point
}

// Point is an element of the curve group.
type Point interface {
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
	Equal(Point) bool
	IsIdentity() bool
}
