package ncw

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"sort"

	"github.com/SafeMPC/mpc-recovery/internal/infra/recovery"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	walletIDLen      = 36
	masterKeyLen     = 32
	derivationChild  = 1 << 31
	shareScalarBytes = 32
)

var (
	ErrInvalidWalletID       = errors.New("invalid wallet ID, must be a UUID")
	ErrUnsupportedAlgorithm  = errors.New("unsupported algorithm")
	ErrInvalidMasterKeyShare = errors.New("invalid cosigner master key")
)

// Share 单个 cosigner 的钱包分片
type Share struct {
	Cosigner string `json:"cosigner"`
	Value    string `json:"MPC_CMP_ECDSA_SECP256K1"`
}

// WalletShares 一个 NCW 钱包的派生结果
type WalletShares struct {
	ChainCode string  `json:"chainCode"`
	Shares    []Share `json:"shares"`
}

// Wallet derives per-wallet cosigner shares from a recovered wallet master.
type Wallet struct {
	master *recovery.WalletMaster
}

func New(master *recovery.WalletMaster) *Wallet {
	return &Wallet{master: master}
}

// DerivePrivateKey 为 walletID 派生每个云端 cosigner 的 ECDSA 分片，按 cosigner 排序
func (w *Wallet) DerivePrivateKey(walletID string, algorithm types.MPCAlgorithm) (*WalletShares, error) {
	if err := validateWalletID(walletID); err != nil {
		return nil, err
	}
	if algorithm != types.MPCECDSA {
		return nil, errors.Wrapf(ErrUnsupportedAlgorithm, "%q", algorithm)
	}

	walletSeed, err := hex.DecodeString(w.master.WalletSeed)
	if err != nil {
		return nil, errors.Wrap(err, "wallet seed is not hex")
	}
	chainCode := seededHash(walletID, walletSeed)

	cosigners := make([]string, 0, len(w.master.MasterKeyForCosigner))
	for id := range w.master.MasterKeyForCosigner {
		cosigners = append(cosigners, id)
	}
	sort.Strings(cosigners)

	order := curve.Secp256k1().Order()
	mi := curve.NewModInt(order)

	shares := make([]Share, 0, len(cosigners))
	for _, cosigner := range cosigners {
		masterKey, err := hex.DecodeString(trim0x(w.master.MasterKeyForCosigner[cosigner]))
		if err != nil || len(masterKey) != masterKeyLen {
			return nil, errors.Wrapf(ErrInvalidMasterKeyShare, "cosigner %s: master key must be %d bytes", cosigner, masterKeyLen)
		}

		data := make([]byte, 0, 1+masterKeyLen+4)
		data = append(data, 0x00)
		data = append(data, masterKey...)
		data = binary.BigEndian.AppendUint32(data, derivationChild)

		mac := hmac.New(sha512.New, chainCode)
		mac.Write(data)
		offset := new(big.Int).SetBytes(mac.Sum(nil)[:32])

		derived := mi.Add(new(big.Int).SetBytes(masterKey), offset)
		expansion := sha512.Sum512(derived.FillBytes(make([]byte, shareScalarBytes)))
		share := new(big.Int).Mod(new(big.Int).SetBytes(expansion[:]), order)

		shares = append(shares, Share{
			Cosigner: cosigner,
			Value:    hex.EncodeToString(share.FillBytes(make([]byte, shareScalarBytes))),
		})
	}

	assetChainCode, err := w.DeriveAssetChainCode(walletID)
	if err != nil {
		return nil, err
	}
	return &WalletShares{ChainCode: assetChainCode, Shares: shares}, nil
}

// DeriveAssetChainCode returns hex(SHA256(walletID || assetSeed)).
func (w *Wallet) DeriveAssetChainCode(walletID string) (string, error) {
	if err := validateWalletID(walletID); err != nil {
		return "", err
	}
	assetSeed, err := hex.DecodeString(w.master.AssetSeed)
	if err != nil {
		return "", errors.Wrap(err, "asset seed is not hex")
	}
	return hex.EncodeToString(seededHash(walletID, assetSeed)), nil
}

func seededHash(walletID string, seed []byte) []byte {
	h := sha256.New()
	h.Write([]byte(walletID))
	h.Write(seed)
	return h.Sum(nil)
}

// 只接受 8-4-4-4-12 形式
func validateWalletID(walletID string) error {
	if len(walletID) != walletIDLen {
		return errors.Wrapf(ErrInvalidWalletID, "%q", walletID)
	}
	if _, err := uuid.Parse(walletID); err != nil {
		return errors.Wrapf(ErrInvalidWalletID, "%q", walletID)
	}
	return nil
}

func trim0x(s string) string {
	if len(s) >= 2 && (s[:2] == "0x" || s[:2] == "0X") {
		return s[2:]
	}
	return s
}
