package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/pkg/errors"
)

const cosmosHRP = "cosmos"

// CosmosAdapter Cosmos Hub 地址：bech32("cosmos", hash160(压缩公钥))
type CosmosAdapter struct{}

func NewCosmosAdapter() *CosmosAdapter {
	return &CosmosAdapter{}
}

func (a *CosmosAdapter) Algorithm() types.Algorithm { return types.AlgorithmECDSA }

func (a *CosmosAdapter) CoinType() uint32 { return 118 }

func (a *CosmosAdapter) GenerateAddress(pubKey []byte, _ AddressOptions) (string, error) {
	if len(pubKey) != 33 {
		return "", errors.Errorf("invalid public key length: expected 33 bytes, got %d", len(pubKey))
	}
	words, err := bech32.ConvertBits(btcutil.Hash160(pubKey), 8, 5, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to convert address bits")
	}
	address, err := bech32.Encode(cosmosHRP, words)
	if err != nil {
		return "", errors.Wrap(err, "failed to bech32 encode address")
	}
	return address, nil
}
