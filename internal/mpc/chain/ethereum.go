package chain

import (
	"crypto/ecdsa"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// EthereumAdapter 实现 EVM 链地址编码
type EthereumAdapter struct{}

// NewEthereumAdapter 创建以太坊适配器
func NewEthereumAdapter() *EthereumAdapter {
	return &EthereumAdapter{}
}

func (a *EthereumAdapter) Algorithm() types.Algorithm { return types.AlgorithmECDSA }

func (a *EthereumAdapter) CoinType() uint32 { return 60 }

// GenerateAddress 通过 Keccak256(pubKey[1:]) 生成 EIP-55 校验和地址
func (a *EthereumAdapter) GenerateAddress(pubKey []byte, _ AddressOptions) (string, error) {
	key, err := parseSecp256k1(pubKey)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(*key).Hex(), nil
}

// parseSecp256k1 接受压缩（33 字节）或非压缩（65 字节）公钥
func parseSecp256k1(pubKey []byte) (*ecdsa.PublicKey, error) {
	switch {
	case len(pubKey) == 65 && pubKey[0] == 0x04:
		key, err := crypto.UnmarshalPubkey(pubKey)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse uncompressed secp256k1 pubkey")
		}
		return key, nil
	case len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03):
		key, err := crypto.DecompressPubkey(pubKey)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse compressed secp256k1 pubkey")
		}
		return key, nil
	default:
		return nil, errors.Errorf("unsupported public key format: len=%d", len(pubKey))
	}
}
