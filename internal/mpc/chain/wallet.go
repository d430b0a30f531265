package chain

import (
	"fmt"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/protocol"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/pkg/errors"
)

const testnetCoinType uint32 = 1

const (
	AddressTypePermanent = "Permanent"
	AddressTypeDeposit   = "Deposit"
)

// PathParts 钱包路径参数，CoinType 为空时由适配器决定
type PathParts struct {
	CoinType     *uint32 `json:"coinType,omitempty"`
	Account      uint32  `json:"account"`
	Change       uint32  `json:"changeIndex"`
	AddressIndex uint32  `json:"addressIndex"`
}

// WalletInput 生成单个钱包所需的输入
type WalletInput struct {
	AssetID   string    `json:"assetId"`
	XPRV      string    `json:"xprv,omitempty"`
	XPUB      string    `json:"xpub,omitempty"`
	FPRV      string    `json:"fprv,omitempty"`
	FPUB      string    `json:"fpub,omitempty"`
	Path      PathParts `json:"path"`
	IsTestnet bool      `json:"isTestnet"`
	IsLegacy  bool      `json:"isLegacy"`
}

// Wallet 派生出的地址及密钥材料
type Wallet struct {
	AssetID    string          `json:"assetId"`
	Algorithm  types.Algorithm `json:"algorithm"`
	Path       protocol.Path   `json:"path"`
	PathParts  []uint32        `json:"pathParts"`
	Address    string          `json:"address"`
	Type       string          `json:"type"`
	PublicKey  string          `json:"publicKey"`
	PrivateKey string          `json:"privateKey,omitempty"`
	WIF        string          `json:"wif,omitempty"`
	IsTestnet  bool            `json:"isTestnet"`
	IsLegacy   bool            `json:"isLegacy"`
}

// MissingExtendedKeyError 缺少该算法所需的扩展密钥
type MissingExtendedKeyError struct {
	Algorithm types.Algorithm
	Private   string
	Public    string
}

func (e *MissingExtendedKeyError) Error() string {
	return fmt.Sprintf("%s extended key is required (%s or %s)", e.Algorithm, e.Private, e.Public)
}

// NewWallet 按 assetId 选择适配器，派生路径并编码地址
func NewWallet(input WalletInput) (*Wallet, error) {
	adapter, assetTestnet, err := Lookup(input.AssetID)
	if err != nil {
		return nil, err
	}
	isTestnet := input.IsTestnet || assetTestnet

	coinType := adapter.CoinType()
	switch {
	case input.Path.CoinType != nil:
		coinType = *input.Path.CoinType
	case isTestnet:
		coinType = testnetCoinType
	}
	path := protocol.NewPath(coinType, input.Path.Account, input.Path.Change, input.Path.AddressIndex)

	algo := adapter.Algorithm()
	extendedKey, err := selectExtendedKey(algo, input)
	if err != nil {
		return nil, err
	}

	derivation, err := protocol.Derive(algo, extendedKey, path.Indices())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to derive %s at %s", input.AssetID, path)
	}

	address, err := adapter.GenerateAddress(derivation.PublicKeyBytes(), AddressOptions{
		IsTestnet: isTestnet,
		IsLegacy:  input.IsLegacy,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to generate %s address", input.AssetID)
	}

	addressType := AddressTypePermanent
	if path.AddressIndex > 0 {
		addressType = AddressTypeDeposit
	}

	return &Wallet{
		AssetID:    input.AssetID,
		Algorithm:  algo,
		Path:       path,
		PathParts:  path.Indices(),
		Address:    address,
		Type:       addressType,
		PublicKey:  derivation.PublicKey,
		PrivateKey: derivation.PrivateKey,
		WIF:        derivation.WIF,
		IsTestnet:  isTestnet,
		IsLegacy:   input.IsLegacy,
	}, nil
}

// selectExtendedKey 优先使用私钥；只要给出任一私钥，就按私钥派生
func selectExtendedKey(algo types.Algorithm, input WalletInput) (string, error) {
	private, public := input.XPRV, input.XPUB
	privateName, publicName := "xprv", "xpub"
	if algo == types.AlgorithmEdDSA {
		private, public = input.FPRV, input.FPUB
		privateName, publicName = "fprv", "fpub"
	}

	privateDerivation := input.XPRV != "" || input.FPRV != ""
	key := public
	if privateDerivation {
		key = private
	}
	if key == "" {
		return "", &MissingExtendedKeyError{Algorithm: algo, Private: privateName, Public: publicName}
	}
	return key, nil
}
