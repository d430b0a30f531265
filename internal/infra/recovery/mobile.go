package recovery

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const taggedShareLen = 36

// MobileKeyShare 是恢复包中 MOBILE* 文件的内容
type MobileKeyShare struct {
	EncryptedKey        string `json:"encryptedKey"`
	KeyID               string `json:"keyId"`
	DeviceID            string `json:"deviceId"`
	UserID              string `json:"userId"`
	EncryptionAlgorithm string `json:"encryptionAlgorithm"`
}

// PlayerShare 一个参与方对某把密钥的解密分片
type PlayerShare struct {
	KeyID    string
	PlayerID *big.Int
	Value    *big.Int
}

// RecoverMobileKeyShare 解密移动端分片并计算其 playerId
func RecoverMobileKeyShare(signingKeys map[string]SigningKey, shareJSON []byte, passphrase string) (*PlayerShare, error) {
	var share MobileKeyShare
	if err := json.Unmarshal(shareJSON, &share); err != nil {
		return nil, errors.Wrap(ErrInvalidRecoveryKit, "malformed mobile key share")
	}

	signingKey, ok := signingKeys[share.KeyID]
	if !ok {
		return nil, errors.Wrapf(ErrKeyIDNotInMetadata, "key %s", share.KeyID)
	}

	encrypted, err := hex.DecodeString(share.EncryptedKey)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptMobileKey, "encrypted key is not hex")
	}
	decrypted, err := DecryptMobileShare(passphrase, share.UserID, encrypted)
	if err != nil {
		if errors.Is(err, ErrDecryptMobileKey) {
			return nil, err
		}
		// 保留原始错误，调用方可区分填充损坏与口令错误
		return nil, fmt.Errorf("%w: %w", ErrDecryptMobileKey, err)
	}

	decrypted = unwrapKeyJSON(decrypted)

	if len(decrypted) == taggedShareLen {
		tag := int32(binary.LittleEndian.Uint32(decrypted[:4]))
		if tag != signingKey.Algorithm.MobileTag() {
			return nil, errors.Wrapf(ErrUnknownAlgorithm, "mobile share tag %d for %s", tag, signingKey.Algorithm)
		}
		decrypted = decrypted[4:]
	}

	playerID, err := MobilePlayerID(share.DeviceID)
	if err != nil {
		return nil, err
	}

	return &PlayerShare{
		KeyID:    share.KeyID,
		PlayerID: playerID,
		Value:    new(big.Int).SetBytes(decrypted),
	}, nil
}

// unwrapKeyJSON 部分客户端把分片包装成 {"key": "<hex>"}，能解析时取出其中的值
func unwrapKeyJSON(decrypted []byte) []byte {
	var wrapped struct {
		Key *string `json:"key"`
	}
	if err := json.Unmarshal(decrypted, &wrapped); err != nil || wrapped.Key == nil {
		return decrypted
	}
	key, err := hex.DecodeString(*wrapped.Key)
	if err != nil {
		log.Debug().Err(err).Msg("Mobile share JSON wrapper holds non-hex key, using raw bytes")
		return decrypted
	}
	log.Debug().Int("key_len", len(key)).Msg("Unwrapped JSON encoded mobile share")
	return key
}
