package recovery

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/pem"

	"github.com/pkg/errors"
	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/pbkdf2"
)

const (
	mobileKDFIterations = 10000
	mobileKeyLen        = 32
	paddedShareLen      = 48
	masterKeyLen        = 32
)

// DecryptMobileShare 解密移动端密钥分片：PBKDF2-HMAC-SHA1 派生 AES-256 密钥，零 IV 的 CBC 模式
func DecryptMobileShare(passphrase, userID string, encrypted []byte) ([]byte, error) {
	if len(encrypted) == 0 || len(encrypted)%aes.BlockSize != 0 {
		return nil, errors.Wrapf(ErrDecryptMobileKey, "ciphertext length %d", len(encrypted))
	}

	key := pbkdf2.Key([]byte(passphrase), []byte(userID), mobileKDFIterations, mobileKeyLen, sha1.New)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create AES cipher")
	}

	plain := make([]byte, len(encrypted))
	cipher.NewCBCDecrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(plain, encrypted)

	if len(plain) == paddedShareLen {
		return unpad(plain, aes.BlockSize)
	}
	return plain, nil
}

func unpad(data []byte, blockSize int) ([]byte, error) {
	n := len(data)
	if n == 0 {
		return nil, ErrPadding
	}
	padLen := int(data[n-1])
	if padLen == 0 || padLen > blockSize || padLen > n {
		return nil, ErrPadding
	}
	for _, b := range data[n-padLen:] {
		if int(b) != padLen {
			return nil, ErrPadding
		}
	}
	return data[:n-padLen], nil
}

// ParseRSAPrivateKey 解析 PEM 格式的 RSA 私钥，支持 PKCS#1、PKCS#8、加密 PKCS#8 与旧式加密 PEM
func ParseRSAPrivateKey(pemBytes []byte, passphrase string) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return nil, errors.Wrap(ErrInvalidRSAPrivateKey, "no PEM block found")
	}

	if block.Type == "ENCRYPTED PRIVATE KEY" {
		key, err := pkcs8.ParsePKCS8PrivateKeyRSA(block.Bytes, []byte(passphrase))
		if err != nil {
			return nil, errors.Wrap(ErrDecryptRSAPrivateKey, err.Error())
		}
		return key, nil
	}

	der := block.Bytes
	// Proc-Type: 4,ENCRYPTED
	//nolint:staticcheck
	if x509.IsEncryptedPEMBlock(block) {
		decrypted, err := x509.DecryptPEMBlock(block, []byte(passphrase)) //nolint:staticcheck
		if err != nil {
			return nil, errors.Wrap(ErrDecryptRSAPrivateKey, err.Error())
		}
		der = decrypted
	}

	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidRSAPrivateKey, err.Error())
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidRSAPrivateKey, "unexpected key type %T", parsed)
	}
	return key, nil
}

// DecryptRSAOAEP decrypts with OAEP using SHA-1 for both the label hash and MGF1.
func DecryptRSAOAEP(key *rsa.PrivateKey, ciphertext []byte) ([]byte, error) {
	plain, err := rsa.DecryptOAEP(sha1.New(), nil, key, ciphertext, nil)
	if err != nil {
		return nil, errors.Wrap(err, "RSA-OAEP decryption failed")
	}
	return plain, nil
}

// DecryptMasterKeyShare 解密 NCW 主密钥文件，结果必须恰好 32 字节
func DecryptMasterKeyShare(key *rsa.PrivateKey, data []byte) ([]byte, error) {
	masterKey, err := DecryptRSAOAEP(key, data)
	if err != nil {
		return nil, errors.Wrap(ErrDecryptRSAPrivateKey, err.Error())
	}
	if len(masterKey) != masterKeyLen {
		return nil, errors.Wrapf(ErrInvalidMasterKey, "got %d bytes", len(masterKey))
	}
	return masterKey, nil
}
