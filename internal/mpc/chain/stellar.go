package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/pkg/errors"
	"github.com/stellar/go/strkey"
)

// StellarAdapter Stellar StrKey 账户地址
type StellarAdapter struct{}

func NewStellarAdapter() *StellarAdapter {
	return &StellarAdapter{}
}

func (a *StellarAdapter) Algorithm() types.Algorithm { return types.AlgorithmEdDSA }

// CoinType 146 并非 SLIP-44 中的 Stellar 编号，但与既有钱包一致
func (a *StellarAdapter) CoinType() uint32 { return 146 }

func (a *StellarAdapter) GenerateAddress(pubKey []byte, _ AddressOptions) (string, error) {
	if err := requireEd25519Key(pubKey); err != nil {
		return "", err
	}
	address, err := strkey.Encode(strkey.VersionByteAccountID, pubKey)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode stellar account id")
	}
	return address, nil
}
