package chain

import (
	"sort"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/pkg/errors"
)

var ErrUnsupportedAsset = errors.New("unsupported asset")

// AddressOptions 地址编码选项
type AddressOptions struct {
	IsTestnet bool
	IsLegacy  bool
}

// Adapter 链适配器：默认 coin type 与地址编码
type Adapter interface {
	Algorithm() types.Algorithm
	CoinType() uint32
	GenerateAddress(pubKey []byte, opts AddressOptions) (string, error)
}

type asset struct {
	adapter Adapter
	testnet bool
}

// assets 是 assetId 到适配器的唯一分发表
var assets = map[string]asset{
	"BTC":       {adapter: NewBitcoinAdapter(&chaincfg.MainNetParams)},
	"BTC_TEST":  {adapter: NewBitcoinAdapter(&chaincfg.MainNetParams), testnet: true},
	"ETH":       {adapter: NewEthereumAdapter()},
	"ETH_TEST":  {adapter: NewEthereumAdapter(), testnet: true},
	"ETH_TEST2": {adapter: NewEthereumAdapter(), testnet: true},
	"ETH_TEST3": {adapter: NewEthereumAdapter(), testnet: true},
	"ETH_TEST5": {adapter: NewEthereumAdapter(), testnet: true},
	"LTC":       {adapter: NewLitecoinAdapter()},
	"TRX":       {adapter: NewTronAdapter()},
	"ATOM":      {adapter: NewCosmosAdapter()},
	"SOL":       {adapter: NewSolanaAdapter()},
	"SOL_TEST":  {adapter: NewSolanaAdapter(), testnet: true},
	"ALGO":      {adapter: NewAlgorandAdapter()},
	"XLM":       {adapter: NewStellarAdapter()},
	"DOT":       {adapter: NewPolkadotAdapter()},
}

// Lookup 根据 assetId 返回适配器，以及该资产是否为测试网资产
func Lookup(assetID string) (Adapter, bool, error) {
	a, ok := assets[assetID]
	if !ok {
		return nil, false, errors.Wrapf(ErrUnsupportedAsset, "%q", assetID)
	}
	return a.adapter, a.testnet, nil
}

// SupportedAssets 返回排序后的 assetId 列表
func SupportedAssets() []string {
	ids := make([]string, 0, len(assets))
	for id := range assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
