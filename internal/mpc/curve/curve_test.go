package curve_test

import (
	"crypto/ed25519"
	"crypto/sha512"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestSecp256k1Generator(t *testing.T) {
	c := curve.Secp256k1()
	g, err := c.ScalarBaseMult(big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798", hex.EncodeToString(g))

	_, err = c.ScalarBaseMult(new(big.Int).Set(c.Order()))
	assert.True(t, errors.Is(err, curve.ErrPointAtInfinity))
}

func TestSecp256k1AddMatchesScalarSum(t *testing.T) {
	c := curve.Secp256k1()
	rapid.Check(t, func(t *rapid.T) {
		a := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "a"))
		b := new(big.Int).SetBytes(rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "b"))
		sum := curve.Mod(c, new(big.Int).Add(a, b))
		if curve.Mod(c, a).Sign() == 0 || curve.Mod(c, b).Sign() == 0 || sum.Sign() == 0 {
			t.Skip("degenerate scalar")
		}

		pa, err := c.ScalarBaseMult(a)
		require.NoError(t, err)
		pb, err := c.ScalarBaseMult(b)
		require.NoError(t, err)
		added, err := c.Add(pa, pb)
		require.NoError(t, err)
		expected, err := c.ScalarBaseMult(sum)
		require.NoError(t, err)
		assert.Equal(t, expected, added)

		_, pub := btcec.PrivKeyFromBytes(curve.Mod(c, a).FillBytes(make([]byte, 32)))
		assert.Equal(t, pub.SerializeCompressed(), pa)
	})
}

func TestEd25519MatchesStdlib(t *testing.T) {
	c := curve.Ed25519()
	assert.Equal(t, types.AlgorithmEdDSA, c.Algorithm())

	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)

	// The stdlib public key is the clamped SHA-512 prefix of the seed times G.
	h := sha512.Sum512(seed)
	h[0] &= 248
	h[31] &= 127
	h[31] |= 64
	scalar := bytesutil.BigFromLE(h[:32])

	pub, err := c.ScalarBaseMult(scalar)
	require.NoError(t, err)
	assert.Equal(t, []byte(priv.Public().(ed25519.PublicKey)), pub)
}

func TestEd25519AddAndValidate(t *testing.T) {
	c := curve.Ed25519()
	p1, err := c.ScalarBaseMult(big.NewInt(5))
	require.NoError(t, err)
	p2, err := c.ScalarBaseMult(big.NewInt(7))
	require.NoError(t, err)
	sum, err := c.Add(p1, p2)
	require.NoError(t, err)
	expected, err := c.ScalarBaseMult(big.NewInt(12))
	require.NoError(t, err)
	assert.Equal(t, expected, sum)

	require.NoError(t, c.ValidatePoint(sum))
	assert.Error(t, c.ValidatePoint(sum[:31]))
}

func TestModIntInverse(t *testing.T) {
	order := curve.Secp256k1().Order()
	mi := curve.NewModInt(order)
	x := big.NewInt(123456789)
	inv := mi.InverseFermat(x)
	assert.Equal(t, int64(1), mi.Mul(x, inv).Int64())

	neg := mi.InverseFermat(big.NewInt(-3))
	assert.Equal(t, int64(1), mi.Mul(mi.Sub(big.NewInt(0), big.NewInt(3)), neg).Int64())
}

func TestForAlgorithm(t *testing.T) {
	c, err := curve.ForAlgorithm(types.AlgorithmECDSA)
	require.NoError(t, err)
	assert.Equal(t, 33, c.PointLen())

	_, err = curve.ForAlgorithm("RSA")
	assert.True(t, errors.Is(err, types.ErrInvalidAlgorithm))
}
