package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/crypto"
)

const tronAddressVersion = 0x41

// TronAdapter Tron 地址：0x41 || keccak(非压缩公钥)[12:]，base58check 编码
type TronAdapter struct{}

func NewTronAdapter() *TronAdapter {
	return &TronAdapter{}
}

func (a *TronAdapter) Algorithm() types.Algorithm { return types.AlgorithmECDSA }

func (a *TronAdapter) CoinType() uint32 { return 195 }

func (a *TronAdapter) GenerateAddress(pubKey []byte, _ AddressOptions) (string, error) {
	key, err := parseSecp256k1(pubKey)
	if err != nil {
		return "", err
	}
	return base58.CheckEncode(crypto.PubkeyToAddress(*key).Bytes(), tronAddressVersion), nil
}
