package chain

import (
	"strings"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
)

// BitcoinAdapter 基于 btcsuite 的 Bitcoin 地址实现
type BitcoinAdapter struct {
	params   *chaincfg.Params
	coinType uint32
}

// NewBitcoinAdapter 创建一个 Bitcoin 适配器
func NewBitcoinAdapter(params *chaincfg.Params) *BitcoinAdapter {
	if params == nil {
		params = &chaincfg.MainNetParams
	}
	return &BitcoinAdapter{params: params, coinType: 0}
}

func (a *BitcoinAdapter) Algorithm() types.Algorithm { return types.AlgorithmECDSA }

func (a *BitcoinAdapter) CoinType() uint32 { return a.coinType }

// GenerateAddress 生成 P2WPKH（默认）或 P2PKH（legacy）地址。
// 测试网地址沿用主网编码后把开头的 "bc" 替换为 "tb"，legacy 地址保持不变。
func (a *BitcoinAdapter) GenerateAddress(pubKey []byte, opts AddressOptions) (string, error) {
	address, err := encodePubKeyHash(pubKey, a.params, opts.IsLegacy)
	if err != nil {
		return "", err
	}
	if opts.IsTestnet && strings.HasPrefix(address, "bc") {
		address = "tb" + address[2:]
	}
	return address, nil
}

// encodePubKeyHash 对压缩公钥做 hash160 后编码为 P2PKH 或 P2WPKH
func encodePubKeyHash(pubKey []byte, params *chaincfg.Params, legacy bool) (string, error) {
	if len(pubKey) != 33 {
		return "", errors.Errorf("invalid public key length: expected 33 bytes, got %d", len(pubKey))
	}

	hash160 := btcutil.Hash160(pubKey)
	if legacy {
		addr, err := btcutil.NewAddressPubKeyHash(hash160, params)
		if err != nil {
			return "", errors.Wrap(err, "failed to build P2PKH address")
		}
		return addr.EncodeAddress(), nil
	}

	addr, err := btcutil.NewAddressWitnessPubKeyHash(hash160, params)
	if err != nil {
		return "", errors.Wrap(err, "failed to build P2WPKH address")
	}
	return addr.EncodeAddress(), nil
}
