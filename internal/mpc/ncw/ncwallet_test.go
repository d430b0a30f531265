package ncw

import (
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/infra/recovery"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cosigner = "21926ecc-4a8a-4614-bbac-7c591aa7efdd"

func basicMaster() *recovery.WalletMaster {
	return &recovery.WalletMaster{
		WalletSeed: "3c590f865cdf272d9e0490f5918b1a5e4904b07e7c0beccf40ad33d82ba26102",
		AssetSeed:  "fb8b1b0c95c1247459616a23aa11c3a5aea26c4b0f2c53471e4e4b7f574929d1",
		MasterKeyForCosigner: map[string]string{
			cosigner: "0de5a6cf9a4b2f6ba69a7f8348b9fb54df48d5af176c2564d9349425a7efe31c",
		},
	}
}

func TestDerivePrivateKey(t *testing.T) {
	w := New(basicMaster())

	tests := []struct {
		walletID string
		share    string
	}{
		{"2d33e419-4c84-44b1-9d9a-3598f96642b0", "f357ec43a3aba03aeccd4727db2ab43afb472b12fe690c2266dbf8e9294ad25d"},
		{"69c4e0de-946f-45db-954d-4d890a5af0fe", "165270c168ae45c8980a44179622c521ffe5a5251191ace11ecdf52bf63d6fa0"},
	}
	for _, tt := range tests {
		t.Run(tt.walletID, func(t *testing.T) {
			res, err := w.DerivePrivateKey(tt.walletID, types.MPCECDSA)
			require.NoError(t, err)
			require.Len(t, res.Shares, 1)
			assert.Equal(t, cosigner, res.Shares[0].Cosigner)
			assert.Equal(t, tt.share, res.Shares[0].Value)
		})
	}
}

func TestDerivePrivateKeyOrdersCosigners(t *testing.T) {
	master := basicMaster()
	master.MasterKeyForCosigner["0000aaaa-0000-4000-8000-000000000000"] = "0x" + master.MasterKeyForCosigner[cosigner]
	res, err := New(master).DerivePrivateKey("2d33e419-4c84-44b1-9d9a-3598f96642b0", types.MPCECDSA)
	require.NoError(t, err)
	require.Len(t, res.Shares, 2)
	assert.Equal(t, "0000aaaa-0000-4000-8000-000000000000", res.Shares[0].Cosigner)
	// 相同主密钥得到相同分片
	assert.Equal(t, res.Shares[0].Value, res.Shares[1].Value)
}

func TestDerivePrivateKeyErrors(t *testing.T) {
	w := New(basicMaster())

	for _, id := range []string{"", "not-a-wallet-id", "{2d33e419-4c84-44b1-9d9a-3598f96642b0}"} {
		_, err := w.DerivePrivateKey(id, types.MPCECDSA)
		assert.True(t, errors.Is(err, ErrInvalidWalletID), id)
	}

	for _, algo := range []types.MPCAlgorithm{"", "not-an-algo", types.MPCEdDSA} {
		_, err := w.DerivePrivateKey("2d33e419-4c84-44b1-9d9a-3598f96642b0", algo)
		assert.True(t, errors.Is(err, ErrUnsupportedAlgorithm), algo)
	}

	master := basicMaster()
	master.MasterKeyForCosigner[cosigner] = "0de5"
	_, err := New(master).DerivePrivateKey("2d33e419-4c84-44b1-9d9a-3598f96642b0", types.MPCECDSA)
	assert.True(t, errors.Is(err, ErrInvalidMasterKeyShare))
}

func TestDeriveAssetChainCode(t *testing.T) {
	w := New(basicMaster())
	code, err := w.DeriveAssetChainCode("2d33e419-4c84-44b1-9d9a-3598f96642b0")
	require.NoError(t, err)
	assert.Equal(t, "43f48c974efdbbac14e5864fe2f0aec8a13e5f8b823df5052fddf0a9fa24367b", code)

	res, err := w.DerivePrivateKey("2d33e419-4c84-44b1-9d9a-3598f96642b0", types.MPCECDSA)
	require.NoError(t, err)
	assert.Equal(t, code, res.ChainCode)

	for _, id := range []string{"", "not-a-wallet-id"} {
		_, err := w.DeriveAssetChainCode(id)
		assert.True(t, errors.Is(err, ErrInvalidWalletID))
	}
}
