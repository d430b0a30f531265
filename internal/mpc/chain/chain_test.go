package chain

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// secp256k1 generator, compressed
const generatorHex = "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestLookup(t *testing.T) {
	adapter, testnet, err := Lookup("BTC_TEST")
	require.NoError(t, err)
	assert.True(t, testnet)
	assert.Equal(t, uint32(0), adapter.CoinType())

	adapter, testnet, err = Lookup("XLM")
	require.NoError(t, err)
	assert.False(t, testnet)
	assert.Equal(t, uint32(146), adapter.CoinType())

	_, _, err = Lookup("btc")
	assert.ErrorIs(t, err, ErrUnsupportedAsset)
}

func TestBitcoinAdapter(t *testing.T) {
	pub := mustHex(t, generatorHex)
	a := NewBitcoinAdapter(nil)

	// 私钥 1 对应的知名地址
	legacy, err := a.GenerateAddress(pub, AddressOptions{IsLegacy: true})
	require.NoError(t, err)
	assert.Equal(t, "1BgGZ9tcN4rm9KBzDn7KprQz87SZ26SAMH", legacy)

	segwit, err := a.GenerateAddress(pub, AddressOptions{})
	require.NoError(t, err)
	assert.Equal(t, "bc1qw508d6qejxtdg4y5r3zarvary0c5xw7kv8f3t4", segwit)

	testnet, err := a.GenerateAddress(pub, AddressOptions{IsTestnet: true})
	require.NoError(t, err)
	assert.Equal(t, "tb"+segwit[2:], testnet)

	_, err = a.GenerateAddress(pub[:32], AddressOptions{})
	assert.Error(t, err)
}

func TestLitecoinAdapter(t *testing.T) {
	pub := mustHex(t, generatorHex)
	a := NewLitecoinAdapter()

	legacy, err := a.GenerateAddress(pub, AddressOptions{IsLegacy: true})
	require.NoError(t, err)
	decoded, version, err := base58.CheckDecode(legacy)
	require.NoError(t, err)
	assert.Equal(t, byte(0x30), version)
	assert.True(t, strings.HasPrefix(legacy, "L"))

	segwit, err := a.GenerateAddress(pub, AddressOptions{})
	require.NoError(t, err)
	hrp, data, err := bech32.Decode(segwit)
	require.NoError(t, err)
	assert.Equal(t, "ltc", hrp)
	assert.Equal(t, byte(0), data[0])
	program, err := bech32.ConvertBits(data[1:], 5, 8, false)
	require.NoError(t, err)
	assert.Equal(t, decoded, program)

	// 不应修改 btcd 的主网参数
	assert.Equal(t, "bc", chaincfg.MainNetParams.Bech32HRPSegwit)
}

func TestEthereumAdapter(t *testing.T) {
	a := NewEthereumAdapter()
	compressed := mustHex(t, generatorHex)

	address, err := a.GenerateAddress(compressed, AddressOptions{})
	require.NoError(t, err)
	assert.Equal(t, "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf", address)

	key, err := crypto.DecompressPubkey(compressed)
	require.NoError(t, err)
	fromUncompressed, err := a.GenerateAddress(crypto.FromECDSAPub(key), AddressOptions{})
	require.NoError(t, err)
	assert.Equal(t, address, fromUncompressed)

	_, err = a.GenerateAddress([]byte{0x05, 0x01}, AddressOptions{})
	assert.Error(t, err)
}

func TestTronAdapter(t *testing.T) {
	address, err := NewTronAdapter().GenerateAddress(mustHex(t, generatorHex), AddressOptions{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(address, "T"))

	payload, version, err := base58.CheckDecode(address)
	require.NoError(t, err)
	assert.Equal(t, byte(0x41), version)
	assert.Equal(t, "7e5f4552091a69125d5dfcb7b8c2659029395bdf", hex.EncodeToString(payload))
}

func TestCosmosAdapter(t *testing.T) {
	address, err := NewCosmosAdapter().GenerateAddress(mustHex(t, generatorHex), AddressOptions{})
	require.NoError(t, err)

	hrp, data, err := bech32.Decode(address)
	require.NoError(t, err)
	assert.Equal(t, "cosmos", hrp)
	program, err := bech32.ConvertBits(data, 5, 8, false)
	require.NoError(t, err)
	assert.Equal(t, "751e76e8199196d454941c45d1b3a323f1433bd6", hex.EncodeToString(program))
}

func TestEdDSAAdapters(t *testing.T) {
	zero := make([]byte, 32)

	tests := []struct {
		name    string
		adapter Adapter
		opts    AddressOptions
		want    string
	}{
		{"solana", NewSolanaAdapter(), AddressOptions{}, "11111111111111111111111111111111"},
		{"algorand", NewAlgorandAdapter(), AddressOptions{}, "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAY5HFKQ"},
		{"stellar", NewStellarAdapter(), AddressOptions{}, "GAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAWHF"},
		{"polkadot", NewPolkadotAdapter(), AddressOptions{}, "111111111111111111111111111111111HC1"},
		{"westend", NewPolkadotAdapter(), AddressOptions{IsTestnet: true}, "5C4hrfjw9DjXZTzV3MwzrrAr9P1MJhSrvWGWqi1eSuyUpnhM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			address, err := tt.adapter.GenerateAddress(zero, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, address)

			_, err = tt.adapter.GenerateAddress(zero[:31], tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestEdDSAAdaptersNonZeroKey(t *testing.T) {
	pubKey := make([]byte, 32)
	for i := range pubKey {
		pubKey[i] = byte(i)
	}

	address, err := NewAlgorandAdapter().GenerateAddress(pubKey, AddressOptions{})
	require.NoError(t, err)
	assert.Equal(t, "AAAQEAYEAUDAOCAJBIFQYDIOB4IBCEQTCQKRMFYYDENBWHA5DYP7MUPJQE", address)

	address, err = NewStellarAdapter().GenerateAddress(pubKey, AddressOptions{})
	require.NoError(t, err)
	assert.Equal(t, "GAAACAQDAQCQMBYIBEFAWDANBYHRAEISCMKBKFQXDAMRUGY4DUPB7JZX", address)
}
