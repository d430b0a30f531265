package recovery

import (
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/pkg/errors"
)

const (
	MasterKeyTypeNCW = "NON_CUSTODIAL_WALLET_MASTER"
	CosignerCloud    = "cloud"
	CosignerMobile   = "mobile"
)

// SigningKey 是 metadata.json 中一把签名密钥的描述
type SigningKey struct {
	PublicKey string
	ChainCode []byte
	Algorithm types.MPCAlgorithm
	KeysetID  int
}

// Cosigner 参与 NCW 主密钥的 cosigner
type Cosigner struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// MasterKey NCW 主密钥元数据
type MasterKey struct {
	Type       string
	WalletSeed []byte
	AssetSeed  []byte
	Cosigners  []Cosigner
}

// KeysetThresholds maps an algorithm to keysetId → minimum account index served by that keyset.
type KeysetThresholds map[types.MPCAlgorithm]map[int]uint32

// Metadata 解析后的恢复包元数据
type Metadata struct {
	SigningKeys      map[string]SigningKey
	MasterKeys       map[string]MasterKey
	KeysetThresholds KeysetThresholds
	MaxKeysetID      int
}

type rawMetadata struct {
	ChainCode     string                   `json:"chainCode"`
	TenantID      string                   `json:"tenantId"`
	Keys          map[string]rawSigningKey `json:"keys"`
	KeysetMapping []rawKeysetMapping       `json:"keysetMapping"`
	KeyID         string                   `json:"keyId"`
	PublicKey     string                   `json:"publicKey"`
	MasterKeys    map[string]rawMasterKey  `json:"masterKeys"`
}

type rawSigningKey struct {
	PublicKey string `json:"publicKey"`
	KeysetID  *int   `json:"keysetId"`
	ChainCode string `json:"chainCode"`
	Algo      string `json:"algo"`
}

type rawKeysetMapping struct {
	KeysetID   int    `json:"keysetId"`
	Algo       string `json:"algo"`
	MinAccount uint32 `json:"minAccount"`
}

type rawMasterKey struct {
	Type       string     `json:"type"`
	WalletSeed string     `json:"walletSeed"`
	AssetSeed  string     `json:"assetSeed"`
	Cosigners  []Cosigner `json:"cosigners"`
}

// ParseMetadata 解析 metadata.json，兼容只含 keyId/publicKey 的旧格式
func ParseMetadata(data []byte) (*Metadata, error) {
	var raw rawMetadata
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse metadata.json")
	}

	keys := raw.Keys
	if keys == nil {
		keysetID := 1
		keys = map[string]rawSigningKey{
			raw.KeyID: {PublicKey: raw.PublicKey, Algo: string(types.MPCECDSA), KeysetID: &keysetID},
		}
	}

	md := &Metadata{
		SigningKeys: make(map[string]SigningKey, len(keys)),
		MasterKeys:  make(map[string]MasterKey, len(raw.MasterKeys)),
		MaxKeysetID: 1,
	}

	for keyID, entry := range keys {
		algo, err := types.ParseMPCAlgorithm(entry.Algo)
		if err != nil {
			return nil, err
		}

		chainCodeHex := entry.ChainCode
		if chainCodeHex == "" {
			chainCodeHex = raw.ChainCode
		}
		chainCode, err := hex.DecodeString(chainCodeHex)
		if err != nil || len(chainCode) != 32 {
			return nil, errors.Wrapf(ErrUnknownChainCode, "key %s", keyID)
		}

		keysetID := 1
		if entry.KeysetID != nil {
			keysetID = *entry.KeysetID
		}
		if keysetID > md.MaxKeysetID {
			md.MaxKeysetID = keysetID
		}

		md.SigningKeys[keyID] = SigningKey{
			PublicKey: entry.PublicKey,
			ChainCode: chainCode,
			Algorithm: algo,
			KeysetID:  keysetID,
		}
	}

	thresholds, err := parseKeysetThresholds(raw.KeysetMapping)
	if err != nil {
		return nil, err
	}
	md.KeysetThresholds = thresholds

	for keyID, entry := range raw.MasterKeys {
		walletSeed, err := hex.DecodeString(entry.WalletSeed)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid wallet seed for master key %s", keyID)
		}
		assetSeed, err := hex.DecodeString(entry.AssetSeed)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid asset seed for master key %s", keyID)
		}
		md.MasterKeys[keyID] = MasterKey{
			Type:       entry.Type,
			WalletSeed: walletSeed,
			AssetSeed:  assetSeed,
			Cosigners:  entry.Cosigners,
		}
	}

	return md, nil
}

func parseKeysetThresholds(mapping []rawKeysetMapping) (KeysetThresholds, error) {
	if len(mapping) == 0 {
		return KeysetThresholds{
			types.MPCECDSA: {1: 0},
			types.MPCEdDSA: {1: 0},
		}, nil
	}

	thresholds := KeysetThresholds{}
	for _, m := range mapping {
		algo, err := types.ParseMPCAlgorithm(m.Algo)
		if err != nil {
			return nil, err
		}
		if thresholds[algo] == nil {
			thresholds[algo] = map[int]uint32{}
		}
		thresholds[algo][m.KeysetID] = m.MinAccount
	}
	return thresholds, nil
}

// MinAccount returns the minimum account served by keysetID, looking at both the Shamir and
// CMP tag of the curve family.
func (t KeysetThresholds) MinAccount(curve types.Algorithm, keysetID int) uint32 {
	for algo, keysets := range t {
		if algo.Curve() != curve {
			continue
		}
		if minAccount, ok := keysets[keysetID]; ok {
			return minAccount
		}
	}
	return 0
}

// KeysetForAccount picks the keyset with the greatest minAccount not above account.
func (t KeysetThresholds) KeysetForAccount(curve types.Algorithm, account uint32) int {
	best, bestMin := 1, uint32(0)
	found := false
	for algo, keysets := range t {
		if algo.Curve() != curve {
			continue
		}
		for keysetID, minAccount := range keysets {
			if minAccount > account {
				continue
			}
			if !found || minAccount > bestMin || (minAccount == bestMin && keysetID < best) {
				best, bestMin, found = keysetID, minAccount, true
			}
		}
	}
	return best
}

// SortedKeyIDs returns signing key ids in a stable order.
func (m *Metadata) SortedKeyIDs() []string {
	ids := make([]string, 0, len(m.SigningKeys))
	for id := range m.SigningKeys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
