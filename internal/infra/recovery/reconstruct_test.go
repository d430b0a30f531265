package recovery

import (
	"context"
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestLagrangeInterpolation(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		order := curve.Secp256k1().Order()
		mi := curve.NewModInt(order)

		threshold := rapid.IntRange(1, 5).Draw(t, "threshold")
		coeffs := make([]*big.Int, threshold)
		for i := range coeffs {
			coeffs[i] = new(big.Int).SetUint64(rapid.Uint64().Draw(t, "coeff"))
		}

		seen := map[uint64]bool{}
		var ids []*big.Int
		for len(ids) < threshold {
			x := rapid.Uint64Range(1, 1<<48).Draw(t, "id")
			if seen[x] {
				continue
			}
			seen[x] = true
			ids = append(ids, new(big.Int).SetUint64(x))
		}

		shares := map[string]*big.Int{}
		for _, x := range ids {
			y := new(big.Int)
			for i := len(coeffs) - 1; i >= 0; i-- {
				y = mi.Add(mi.Mul(y, x), coeffs[i])
			}
			shares[x.String()] = y
		}

		secret, err := combineShares(shares, types.MPCECDSA, order)
		if err != nil {
			t.Fatal(err)
		}
		if secret.Cmp(new(big.Int).Mod(coeffs[0], order)) != 0 {
			t.Fatalf("got %s, want %s", secret, coeffs[0])
		}
	})
}

func TestCombineSharesAdditive(t *testing.T) {
	order := curve.Ed25519().Order()
	shares := map[string]*big.Int{
		"11": big.NewInt(5),
		"22": new(big.Int).Sub(order, big.NewInt(2)),
		"33": big.NewInt(10),
	}
	secret, err := combineShares(shares, types.MPCCMPEdDSA, order)
	require.NoError(t, err)
	assert.Equal(t, int64(13), secret.Int64())

	_, err = combineShares(map[string]*big.Int{"x": big.NewInt(1)}, types.MPCECDSA, order)
	assert.Error(t, err)
}

func TestReconstruct(t *testing.T) {
	ecdsaKey := decodeTestKey(t, ecdsaKeyID, testXPRV)
	eddsaKey := decodeTestKey(t, eddsaKeyID, testFPRV)
	chainCode, _ := hex.DecodeString(testChainCode)

	ids := []*big.Int{big.NewInt(101), big.NewInt(202), big.NewInt(303)}
	players := PlayerData{
		ecdsaKeyID: shamirShares(ecdsaKey.secret, ecdsaKey.order, ids),
		eddsaKeyID: shamirShares(eddsaKey.secret, eddsaKey.order, ids),
		"unknown":  {"1": big.NewInt(1)},
	}
	signingKeys := map[string]SigningKey{
		ecdsaKeyID: {PublicKey: ecdsaKey.publicKey, ChainCode: chainCode, Algorithm: types.MPCECDSA, KeysetID: 1},
		eddsaKeyID: {PublicKey: "0x" + eddsaKey.publicKey, ChainCode: chainCode, Algorithm: types.MPCEdDSA, KeysetID: 1},
	}

	keysets, err := Reconstruct(context.Background(), players, signingKeys)
	require.NoError(t, err)
	require.Contains(t, keysets, 1)

	assert.Equal(t, testXPRV, keysets[1][types.MPCECDSA].PrvKey)
	assert.Equal(t, testXPUB, keysets[1][types.MPCECDSA].PubKey)
	assert.Equal(t, testFPRV, keysets[1][types.MPCEdDSA].PrvKey)
	assert.Equal(t, testFPUB, keysets[1][types.MPCEdDSA].PubKey)
	assert.Equal(t, testChainCode, keysets[1][types.MPCEdDSA].ChainCode)
}

func TestReconstructMismatchDropsKey(t *testing.T) {
	ecdsaKey := decodeTestKey(t, ecdsaKeyID, testXPRV)
	eddsaKey := decodeTestKey(t, eddsaKeyID, testFPRV)
	chainCode, _ := hex.DecodeString(testChainCode)

	ids := []*big.Int{big.NewInt(1), big.NewInt(2)}
	players := PlayerData{
		ecdsaKeyID: shamirShares(ecdsaKey.secret, ecdsaKey.order, ids),
		eddsaKeyID: shamirShares(eddsaKey.secret, eddsaKey.order, ids),
	}
	// 第二个分片被篡改
	players[ecdsaKeyID]["2"] = new(big.Int).Add(players[ecdsaKeyID]["2"], big.NewInt(1))

	signingKeys := map[string]SigningKey{
		ecdsaKeyID: {PublicKey: ecdsaKey.publicKey, ChainCode: chainCode, Algorithm: types.MPCECDSA, KeysetID: 2},
		eddsaKeyID: {PublicKey: eddsaKey.publicKey, ChainCode: chainCode, Algorithm: types.MPCEdDSA, KeysetID: 2},
	}

	keysets, err := Reconstruct(context.Background(), players, signingKeys)
	require.NoError(t, err)
	require.Contains(t, keysets, 2)
	assert.NotContains(t, keysets[2], types.MPCECDSA)
	assert.Equal(t, testFPRV, keysets[2][types.MPCEdDSA].PrvKey)
}
