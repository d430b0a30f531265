package curve

import (
	"math/big"

	"filippo.io/edwards25519"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/decred/dcrd/dcrec/edwards/v2"
	"github.com/pkg/errors"
)

type ed25519Curve struct {
	order *big.Int
}

var ed = ed25519Curve{order: new(big.Int).Set(edwards.Edwards().N)}

// Ed25519 returns the ed25519 curve. A zero scalar maps to the identity point, which is
// a valid encoding here; callers that need a non-trivial key check for it themselves.
func Ed25519() Curve {
	return ed
}

func (e ed25519Curve) Algorithm() types.Algorithm { return types.AlgorithmEdDSA }

func (e ed25519Curve) Order() *big.Int { return e.order }

func (e ed25519Curve) PointLen() int { return 32 }

func (e ed25519Curve) ScalarBaseMult(k *big.Int) ([]byte, error) {
	s, err := e.Scalar(k)
	if err != nil {
		return nil, err
	}
	return new(edwards25519.Point).ScalarBaseMult(s).Bytes(), nil
}

func (e ed25519Curve) Add(a, b []byte) ([]byte, error) {
	pa, err := new(edwards25519.Point).SetBytes(a)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	pb, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	return new(edwards25519.Point).Add(pa, pb).Bytes(), nil
}

func (e ed25519Curve) ValidatePoint(p []byte) error {
	if len(p) != 32 {
		return errors.Wrapf(ErrInvalidPoint, "expected 32 bytes, got %d", len(p))
	}
	if _, err := new(edwards25519.Point).SetBytes(p); err != nil {
		return errors.Wrap(ErrInvalidPoint, err.Error())
	}
	return nil
}

// Scalar converts k mod l into an edwards25519 scalar.
func (e ed25519Curve) Scalar(k *big.Int) (*edwards25519.Scalar, error) {
	reduced := new(big.Int).Mod(k, e.order)
	s, err := edwards25519.NewScalar().SetCanonicalBytes(bytesutil.BigToLE(reduced, 32))
	if err != nil {
		return nil, errors.Wrap(err, "failed to build ed25519 scalar")
	}
	return s, nil
}

// Ed25519Scalar exposes the scalar conversion for signing code.
func Ed25519Scalar(k *big.Int) (*edwards25519.Scalar, error) {
	return ed.Scalar(k)
}
