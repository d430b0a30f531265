package payloads_test

import (
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testXPUB = "xpub661MyMwAqRbcFUTqYcrDh3pBvXu1uQeJZR9rizkNCiWZnddTAgnz7UMejwX7u4xLmh2JMTtL7DdZmBWGUKa7v836UarassQ3DVFATMzRycV"

func compositeCount(t *testing.T, err error) int {
	t.Helper()
	var composite *errors.CompositeError
	require.ErrorAs(t, err, &composite)
	return len(composite.Errors)
}

func TestDeriveWalletPayloadValidate(t *testing.T) {
	p := payloads.DeriveWalletPayload{AssetID: "BTC", XPUB: testXPUB, AddressIndex: 7, CoinType: swag.Int64(1)}
	require.NoError(t, p.Validate(strfmt.Default))

	in := p.WalletInput()
	assert.Equal(t, "BTC", in.AssetID)
	assert.Equal(t, uint32(7), in.Path.AddressIndex)
	require.NotNil(t, in.Path.CoinType)
	assert.Equal(t, uint32(1), *in.Path.CoinType)

	bad := payloads.DeriveWalletPayload{AssetID: "DOGE", Account: -1, Change: 1 << 33}
	err := bad.Validate(strfmt.Default)
	require.Error(t, err)
	// asset enum, missing key, account, change
	assert.Equal(t, 4, compositeCount(t, err))
}

func TestDeriveRangePayloadValidate(t *testing.T) {
	base := payloads.DeriveWalletPayload{AssetID: "ETH", XPUB: testXPUB}

	p := payloads.DeriveRangePayload{DeriveWalletPayload: base, From: 0, To: 99, Workers: 4}
	require.NoError(t, p.Validate(strfmt.Default))

	p.To, p.From = 3, 5
	assert.Error(t, p.Validate(strfmt.Default))

	p.From, p.To = 0, payloads.MaxRangeSize
	assert.Error(t, p.Validate(strfmt.Default))

	p.To, p.Workers = 10, 0
	assert.Error(t, p.Validate(strfmt.Default))
}

func TestDeriveNCWPayloadValidate(t *testing.T) {
	p := payloads.DeriveNCWPayload{WalletID: "2d33e419-4c84-44b1-9d9a-3598f96642b0", Algorithm: "MPC_ECDSA_SECP256K1"}
	require.NoError(t, p.Validate(strfmt.Default))

	p = payloads.DeriveNCWPayload{WalletID: "not-a-wallet-id", Algorithm: "MPC_EDDSA_ED25519"}
	err := p.Validate(strfmt.Default)
	assert.Equal(t, 2, compositeCount(t, err))
}

func TestRecoverKitPayloadValidate(t *testing.T) {
	p := payloads.RecoverKitPayload{}
	assert.Equal(t, 2, compositeCount(t, p.Validate(strfmt.Default)))

	p = payloads.RecoverKitPayload{ZipPath: "backup.zip", RSAKeyPath: "priv.pem"}
	assert.NoError(t, p.Validate(strfmt.Default))
}

func TestSignEdDSAPayloadValidate(t *testing.T) {
	p := payloads.SignEdDSAPayload{FPRV: "fprv", Message: "0xdeadbeef"}
	require.NoError(t, p.Validate(strfmt.Default))

	p.Message = "abc"
	assert.Error(t, p.Validate(strfmt.Default))

	p.Message = ""
	p.FPRV = ""
	assert.Equal(t, 2, compositeCount(t, p.Validate(strfmt.Default)))
}

func TestSignatureResponseBinary(t *testing.T) {
	in := &payloads.SignatureResponse{Path: "m/44/501/0/0/0", PublicKey: "aa", Signature: "bb"}
	b, err := in.MarshalBinary()
	require.NoError(t, err)

	var out payloads.SignatureResponse
	require.NoError(t, out.UnmarshalBinary(b))
	assert.Equal(t, *in, out)
}
