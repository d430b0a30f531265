package curve

import (
	"math/big"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
)

type secp256k1Curve struct {
	c *btcec.KoblitzCurve
}

var secp = secp256k1Curve{c: btcec.S256()}

func Secp256k1() Curve {
	return secp
}

func (s secp256k1Curve) Algorithm() types.Algorithm { return types.AlgorithmECDSA }

func (s secp256k1Curve) Order() *big.Int { return s.c.N }

func (s secp256k1Curve) PointLen() int { return btcec.PubKeyBytesLenCompressed }

func (s secp256k1Curve) ScalarBaseMult(k *big.Int) ([]byte, error) {
	k = new(big.Int).Mod(k, s.c.N)
	if k.Sign() == 0 {
		return nil, errors.Wrap(ErrPointAtInfinity, "zero scalar")
	}
	x, y := s.c.ScalarBaseMult(bytesutil.BigToBytes(k, 32))
	return compress(x, y), nil
}

func (s secp256k1Curve) Add(a, b []byte) ([]byte, error) {
	pa, err := btcec.ParsePubKey(a)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	pb, err := btcec.ParsePubKey(b)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPoint, err.Error())
	}
	x, y := s.c.Add(pa.X(), pa.Y(), pb.X(), pb.Y())
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, ErrPointAtInfinity
	}
	return compress(x, y), nil
}

func (s secp256k1Curve) ValidatePoint(p []byte) error {
	if len(p) != btcec.PubKeyBytesLenCompressed {
		return errors.Wrapf(ErrInvalidPoint, "expected %d bytes, got %d", btcec.PubKeyBytesLenCompressed, len(p))
	}
	if _, err := btcec.ParsePubKey(p); err != nil {
		return errors.Wrap(ErrInvalidPoint, err.Error())
	}
	return nil
}

// compress serializes an affine point as 0x02/0x03 || X(32).
func compress(x, y *big.Int) []byte {
	out := make([]byte, 33)
	out[0] = 0x02
	if y.Bit(0) == 1 {
		out[0] = 0x03
	}
	x.FillBytes(out[1:])
	return out
}
