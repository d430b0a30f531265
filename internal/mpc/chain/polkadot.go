package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"golang.org/x/crypto/blake2b"
)

const (
	ss58Polkadot byte = 0
	ss58Westend  byte = 42
)

var ss58Prefix = []byte("SS58PRE")

// PolkadotAdapter SS58 地址，测试网使用 westend 前缀
type PolkadotAdapter struct{}

func NewPolkadotAdapter() *PolkadotAdapter {
	return &PolkadotAdapter{}
}

func (a *PolkadotAdapter) Algorithm() types.Algorithm { return types.AlgorithmEdDSA }

func (a *PolkadotAdapter) CoinType() uint32 { return 354 }

func (a *PolkadotAdapter) GenerateAddress(pubKey []byte, opts AddressOptions) (string, error) {
	if err := requireEd25519Key(pubKey); err != nil {
		return "", err
	}
	format := ss58Polkadot
	if opts.IsTestnet {
		format = ss58Westend
	}

	body := bytesutil.Concat([]byte{format}, pubKey)
	checksum := blake2b.Sum512(bytesutil.Concat(ss58Prefix, body))
	return base58.Encode(bytesutil.Concat(body, checksum[:2])), nil
}
