// Package curve wraps the two curves used for MPC keys behind one interface. Points cross
// the interface in their canonical encodings: 33-byte compressed SEC1 for secp256k1 and the
// 32-byte little-endian Edwards encoding for ed25519.
package curve

import (
	"math/big"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/pkg/errors"
)

var (
	ErrPointAtInfinity = errors.New("point at infinity")
	ErrInvalidPoint    = errors.New("invalid curve point")
)

type Curve interface {
	Algorithm() types.Algorithm
	// Order is the prime order of the base point.
	Order() *big.Int
	// PointLen is the length of an encoded point.
	PointLen() int
	// ScalarBaseMult returns the encoding of (k mod order)·G.
	ScalarBaseMult(k *big.Int) ([]byte, error)
	// Add returns the encoding of a+b.
	Add(a, b []byte) ([]byte, error)
	// ValidatePoint checks that p decodes to a point on the curve.
	ValidatePoint(p []byte) error
}

func ForAlgorithm(algo types.Algorithm) (Curve, error) {
	switch algo {
	case types.AlgorithmECDSA:
		return Secp256k1(), nil
	case types.AlgorithmEdDSA:
		return Ed25519(), nil
	default:
		return nil, errors.Wrapf(types.ErrInvalidAlgorithm, "no curve for %q", algo)
	}
}

// Mod reduces x into [0, order).
func Mod(c Curve, x *big.Int) *big.Int {
	return new(big.Int).Mod(x, c.Order())
}
