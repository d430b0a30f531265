package recovery

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"
	"sort"
	"strings"

	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	metadataFile      = "metadata.json"
	rsaPassphraseFile = "RSA_PASSPHRASE"
	mobileFilePrefix  = "MOBILE"
	zipMIME           = "application/zip"
)

// Entry 恢复包中的一个文件
type Entry struct {
	Name string
	Data []byte
}

// KitConfig 恢复包解析参数
type KitConfig struct {
	Zip           []byte
	RSAKey        []byte
	RSAPassphrase string

	// MobilePassphrase 为空时使用恢复包中的 RSA_PASSPHRASE，并用移动端 RSA 私钥解密
	MobilePassphrase    *string
	MobileRSAKey        []byte
	MobileRSAPassphrase string

	RecoverPrivate bool
	OnlyNCW        bool
}

// RecoveredKey 单个 keyset 的恢复结果
type RecoveredKey struct {
	XPUB            string `json:"xpub,omitempty"`
	FPUB            string `json:"fpub,omitempty"`
	XPRV            string `json:"xprv,omitempty"`
	FPRV            string `json:"fprv,omitempty"`
	ChainCodeECDSA  string `json:"chainCodeEcdsa,omitempty"`
	ChainCodeEdDSA  string `json:"chainCodeEddsa,omitempty"`
	ECDSAExists     bool   `json:"ecdsaExists"`
	EdDSAExists     bool   `json:"eddsaExists"`
	ECDSAMinAccount uint32 `json:"ecdsaMinAccount"`
	EdDSAMinAccount uint32 `json:"eddsaMinAccount"`
}

// RecoveredKeys 整个恢复包的结果
type RecoveredKeys struct {
	Keysets         map[int]RecoveredKey `json:"keysets"`
	NCWWalletMaster *WalletMaster        `json:"ncwWalletMaster,omitempty"`
}

// Keyset returns the keyset that serves account for the given curve family.
func (r *RecoveredKeys) Keyset(thresholds KeysetThresholds, curve types.Algorithm, account uint32) (RecoveredKey, bool) {
	k, ok := r.Keysets[thresholds.KeysetForAccount(curve, account)]
	return k, ok
}

// ReadEntries 读取 zip 中的全部文件，保留条目顺序与重名条目
func ReadEntries(data []byte) ([]Entry, error) {
	if !isZip(data) {
		return nil, errors.Wrap(ErrInvalidRecoveryKit, "not a zip archive")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRecoveryKit, err.Error())
	}

	entries := make([]Entry, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRecoveryKit, "open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidRecoveryKit, "read %s: %v", f.Name, err)
		}
		entries = append(entries, Entry{Name: f.Name, Data: content})
	}
	return entries, nil
}

// isZip accepts zip and any format mimetype detects as a zip descendant.
func isZip(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if m.Is(zipMIME) {
			return true
		}
	}
	return false
}

// RecoverKeys 解析恢复包：解密全部分片、重建扩展密钥，并在存在主密钥时恢复 NCW 主密钥
func RecoverKeys(ctx context.Context, cfg KitConfig) (*RecoveredKeys, error) {
	entries, err := ReadEntries(cfg.Zip)
	if err != nil {
		return nil, err
	}

	var metadataEntry, passphraseEntry *Entry
	for i := range entries {
		switch entries[i].Name {
		case metadataFile:
			if metadataEntry == nil {
				metadataEntry = &entries[i]
			}
		case rsaPassphraseFile:
			if passphraseEntry == nil {
				passphraseEntry = &entries[i]
			}
		}
	}
	if metadataEntry == nil {
		return nil, ErrNoMetadata
	}
	if !cfg.OnlyNCW && cfg.MobilePassphrase == nil && passphraseEntry == nil {
		return nil, ErrNoRSAPassphrase
	}

	md, err := ParseMetadata(metadataEntry.Data)
	if err != nil {
		return nil, err
	}

	rsaKey, err := ParseRSAPrivateKey(cfg.RSAKey, cfg.RSAPassphrase)
	if err != nil {
		return nil, err
	}

	result := &RecoveredKeys{Keysets: map[int]RecoveredKey{}}

	if !cfg.OnlyNCW {
		mobilePassphrase, err := resolveMobilePassphrase(cfg, passphraseEntry)
		if err != nil {
			return nil, err
		}

		players, err := collectShares(entries, md, rsaKey, mobilePassphrase)
		if err != nil {
			return nil, err
		}

		keysets, err := Reconstruct(ctx, players, md.SigningKeys)
		if err != nil {
			return nil, err
		}
		result.Keysets = summarize(keysets, md)

		log.Info().
			Int("signing_keys", len(md.SigningKeys)).
			Int("keysets", len(result.Keysets)).
			Msg("Reconstructed signing keys")
	}

	if len(md.MasterKeys) > 0 || cfg.OnlyNCW {
		master, err := RecoverMaster(entries, rsaKey, md.MasterKeys)
		if err != nil {
			return nil, err
		}
		result.NCWWalletMaster = master
		log.Info().Int("cosigners", len(master.MasterKeyForCosigner)).Msg("Recovered NCW wallet master")
	}

	if !cfg.RecoverPrivate {
		for id, k := range result.Keysets {
			k.XPRV, k.FPRV = "", ""
			result.Keysets[id] = k
		}
	}
	return result, nil
}

// resolveMobilePassphrase 返回用户提供的口令，或解密恢复包中自动生成的口令（明文的十六进制）
func resolveMobilePassphrase(cfg KitConfig, passphraseEntry *Entry) (string, error) {
	if cfg.MobilePassphrase != nil {
		return *cfg.MobilePassphrase, nil
	}
	if len(cfg.MobileRSAKey) == 0 {
		return "", errors.New("auto-generated passphrase requires the mobile RSA key")
	}

	var share MobileKeyShare
	if err := json.Unmarshal(passphraseEntry.Data, &share); err != nil {
		return "", errors.Wrap(ErrInvalidRecoveryKit, "malformed RSA_PASSPHRASE")
	}
	encrypted, err := hex.DecodeString(share.EncryptedKey)
	if err != nil {
		return "", errors.Wrap(ErrInvalidRecoveryKit, "RSA_PASSPHRASE is not hex")
	}

	mobileKey, err := ParseRSAPrivateKey(cfg.MobileRSAKey, cfg.MobileRSAPassphrase)
	if err != nil {
		return "", err
	}
	plain, err := DecryptRSAOAEP(mobileKey, encrypted)
	if err != nil {
		return "", errors.Wrap(ErrDecryptRSAPrivateKey, err.Error())
	}
	log.Debug().Msg("Recovered auto-generated mobile passphrase")
	return hex.EncodeToString(plain), nil
}

func collectShares(entries []Entry, md *Metadata, rsaKey *rsa.PrivateKey, mobilePassphrase string) (PlayerData, error) {
	players := PlayerData{}
	for _, e := range entries {
		switch {
		case strings.HasPrefix(e.Name, mobileFilePrefix):
			share, err := RecoverMobileKeyShare(md.SigningKeys, e.Data, mobilePassphrase)
			if err != nil {
				return nil, err
			}
			players.Add(share)

		case e.Name == metadataFile || e.Name == rsaPassphraseFile:
			continue

		default:
			share, err := recoverCloudShare(e, md, rsaKey)
			if err != nil {
				return nil, err
			}
			if share != nil {
				players.Add(share)
			}
		}
	}

	for _, keyID := range md.SortedKeyIDs() {
		if _, ok := players[keyID]; !ok {
			return nil, &KeyIDMissingError{KeyID: keyID}
		}
	}
	return players, nil
}

// recoverCloudShare 解密 {cosigner}_{keyId} 文件；不属于签名密钥的文件（如 NCW 主密钥）返回 nil
func recoverCloudShare(e Entry, md *Metadata, rsaKey *rsa.PrivateKey) (*PlayerShare, error) {
	var cosigner, keyID string
	if i := strings.Index(e.Name, "_"); i >= 0 {
		cosigner, keyID = e.Name[:i], e.Name[i+1:]
	} else {
		// 旧格式只有一把 ECDSA 密钥，文件名即 cosigner
		if len(md.SigningKeys) != 1 {
			return nil, nil
		}
		cosigner, keyID = e.Name, md.SortedKeyIDs()[0]
	}
	if _, ok := md.SigningKeys[keyID]; !ok {
		log.Debug().Str("entry", e.Name).Msg("Skipping kit entry without signing key")
		return nil, nil
	}

	plain, err := DecryptRSAOAEP(rsaKey, e.Data)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRecoveryKit, "entry %s: %v", e.Name, err)
	}
	playerID, err := CloudPlayerID(keyID, cosigner)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidRecoveryKit, "entry %s: %v", e.Name, err)
	}

	return &PlayerShare{
		KeyID:    keyID,
		PlayerID: playerID,
		Value:    new(big.Int).SetBytes(plain),
	}, nil
}

// summarize 每个 keyset 中 Shamir 版本优先于 CMP 版本
func summarize(keysets CalculatedPrivateKeysets, md *Metadata) map[int]RecoveredKey {
	ids := make([]int, 0, len(keysets))
	for id := range keysets {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make(map[int]RecoveredKey, len(ids))
	for _, id := range ids {
		algos := keysets[id]
		var rk RecoveredKey

		if k, ok := pick(algos, types.MPCECDSA, types.MPCCMPECDSA); ok {
			rk.XPUB, rk.XPRV, rk.ChainCodeECDSA = k.PubKey, k.PrvKey, k.ChainCode
			rk.ECDSAExists = true
			rk.ECDSAMinAccount = md.KeysetThresholds.MinAccount(types.AlgorithmECDSA, id)
		}
		if k, ok := pick(algos, types.MPCEdDSA, types.MPCCMPEdDSA); ok {
			rk.FPUB, rk.FPRV, rk.ChainCodeEdDSA = k.PubKey, k.PrvKey, k.ChainCode
			rk.EdDSAExists = true
			rk.EdDSAMinAccount = md.KeysetThresholds.MinAccount(types.AlgorithmEdDSA, id)
		}
		out[id] = rk
	}
	return out
}

func pick(algos map[types.MPCAlgorithm]CalculatedKey, preferred ...types.MPCAlgorithm) (CalculatedKey, bool) {
	for _, algo := range preferred {
		if k, ok := algos[algo]; ok {
			return k, true
		}
	}
	return CalculatedKey{}, false
}
