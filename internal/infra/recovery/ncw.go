package recovery

import (
	"crypto/rsa"
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/pkg/errors"
)

// WalletMaster is the recovered non-custodial wallet master: the seeds from metadata.json and
// the decrypted master key of every cloud cosigner.
type WalletMaster struct {
	WalletSeed           string            `json:"walletSeed"`
	AssetSeed            string            `json:"assetSeed"`
	MasterKeyForCosigner map[string]string `json:"masterKeyForCosigner"`
}

// RecoverMaster 解密唯一一个 NON_CUSTODIAL_WALLET_MASTER 的各云端 cosigner 主密钥
func RecoverMaster(entries []Entry, key *rsa.PrivateKey, masterKeys map[string]MasterKey) (*WalletMaster, error) {
	var ids []string
	for id, mk := range masterKeys {
		if mk.Type == MasterKeyTypeNCW {
			ids = append(ids, id)
		}
	}
	switch len(ids) {
	case 0:
		return nil, ErrMissingWalletMasterKeyID
	case 1:
	default:
		sort.Strings(ids)
		return nil, errors.Wrapf(ErrAmbiguousWalletMasterKeyID, "%v", ids)
	}

	keyID := ids[0]
	master := masterKeys[keyID]
	cosignerKeys := make(map[string]string, len(master.Cosigners))

	for _, cosigner := range master.Cosigners {
		if cosigner.Type != CosignerCloud {
			continue
		}

		prefix, err := cloudPrefix(cosigner.ID)
		if err != nil {
			return nil, errors.Wrapf(err, "cosigner %s", cosigner.ID)
		}
		data, err := findMasterKeyFile(entries, strconv.FormatUint(uint64(prefix), 10)+"_"+keyID)
		if err != nil {
			return nil, err
		}

		masterKey, err := DecryptMasterKeyShare(key, data)
		if err != nil {
			return nil, errors.Wrapf(err, "cosigner %s", cosigner.ID)
		}
		cosignerKeys[cosigner.ID] = hex.EncodeToString(masterKey)
	}

	return &WalletMaster{
		WalletSeed:           hex.EncodeToString(master.WalletSeed),
		AssetSeed:            hex.EncodeToString(master.AssetSeed),
		MasterKeyForCosigner: cosignerKeys,
	}, nil
}

func findMasterKeyFile(entries []Entry, name string) ([]byte, error) {
	var found []Entry
	for _, e := range entries {
		if e.Name == name {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return nil, errors.Wrapf(ErrMissingMasterKeyFile, "%s", name)
	case 1:
		return found[0].Data, nil
	default:
		return nil, errors.Wrapf(ErrDuplicateMasterKeyFile, "%s", name)
	}
}
