package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/btcsuite/btcd/chaincfg"
	litecoinCfg "github.com/ltcsuite/ltcd/chaincfg"
)

// LitecoinAdapter 复用 btcutil 编码，网络参数取自 ltcd
type LitecoinAdapter struct {
	params *chaincfg.Params
}

func NewLitecoinAdapter() *LitecoinAdapter {
	return &LitecoinAdapter{params: litecoinParams(&litecoinCfg.MainNetParams)}
}

func (a *LitecoinAdapter) Algorithm() types.Algorithm { return types.AlgorithmECDSA }

func (a *LitecoinAdapter) CoinType() uint32 { return 2 }

// GenerateAddress 生成 bech32 "ltc" v0 见证地址，legacy 时为版本 0x30 的 base58 地址
// 见证地址按 BIP173 编码（含见证版本与 5 位重组），与旧版恢复工具输出的字符串刻意不同
func (a *LitecoinAdapter) GenerateAddress(pubKey []byte, opts AddressOptions) (string, error) {
	return encodePubKeyHash(pubKey, a.params, opts.IsLegacy)
}

// litecoinParams copies the address magics of a litecoin network onto btcsuite parameters
// so btcutil address types can encode for it.
func litecoinParams(ltc *litecoinCfg.Params) *chaincfg.Params {
	params := chaincfg.MainNetParams
	params.Name = ltc.Name

	params.PubKeyHashAddrID = ltc.PubKeyHashAddrID
	params.ScriptHashAddrID = ltc.ScriptHashAddrID
	params.PrivateKeyID = ltc.PrivateKeyID
	params.WitnessPubKeyHashAddrID = ltc.WitnessPubKeyHashAddrID
	params.WitnessScriptHashAddrID = ltc.WitnessScriptHashAddrID
	params.Bech32HRPSegwit = ltc.Bech32HRPSegwit

	copy(params.HDPrivateKeyID[:], ltc.HDPrivateKeyID[:])
	copy(params.HDPublicKeyID[:], ltc.HDPublicKeyID[:])
	params.HDCoinType = ltc.HDCoinType

	return &params
}
