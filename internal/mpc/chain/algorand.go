package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	algoTypes "github.com/algorand/go-algorand-sdk/v2/types"
)

// AlgorandAdapter Algorand 地址：base32(pub || sha512_256(pub)[28:])
type AlgorandAdapter struct{}

func NewAlgorandAdapter() *AlgorandAdapter {
	return &AlgorandAdapter{}
}

func (a *AlgorandAdapter) Algorithm() types.Algorithm { return types.AlgorithmEdDSA }

func (a *AlgorandAdapter) CoinType() uint32 { return 283 }

func (a *AlgorandAdapter) GenerateAddress(pubKey []byte, _ AddressOptions) (string, error) {
	if err := requireEd25519Key(pubKey); err != nil {
		return "", err
	}
	var addr algoTypes.Address
	copy(addr[:], pubKey)
	return addr.String(), nil
}
