package chain

import (
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/pkg/errors"
)

// SolanaAdapter 用于 Solana 链的适配器
type SolanaAdapter struct{}

// NewSolanaAdapter 创建一个 Solana 适配器
func NewSolanaAdapter() *SolanaAdapter {
	return &SolanaAdapter{}
}

func (a *SolanaAdapter) Algorithm() types.Algorithm { return types.AlgorithmEdDSA }

func (a *SolanaAdapter) CoinType() uint32 { return 501 }

// GenerateAddress 根据公钥生成 Solana 地址（Base58 编码）
// Solana 地址就是 Ed25519 公钥的 Base58 表示
func (a *SolanaAdapter) GenerateAddress(pubKey []byte, _ AddressOptions) (string, error) {
	if err := requireEd25519Key(pubKey); err != nil {
		return "", err
	}
	return base58.Encode(pubKey), nil
}

func requireEd25519Key(pubKey []byte) error {
	if len(pubKey) == 0 {
		return errors.New("public key is required")
	}
	if len(pubKey) != 32 {
		return errors.Errorf("invalid public key length: expected 32 bytes, got %d", len(pubKey))
	}
	return nil
}
