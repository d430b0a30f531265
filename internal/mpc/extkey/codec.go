// Package extkey encodes and decodes xprv/xpub (BIP32 secp256k1) and fprv/fpub
// (ed25519) extended keys.
//
// Layout of the 78-byte payload, base58check encoded:
//
//	version(4) || depth(1) || parentFP(4) || childIndex(4) || chainCode(32) || key(33)
//
// Keys produced here always carry zero depth, fingerprint and child index. Private key
// material and ed25519 points are stored as 0x00 || 32 bytes, secp256k1 points as the
// 33-byte compressed encoding.
package extkey

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math/big"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/pkg/errors"
)

const (
	serializedKeyLen = 78
	checksumLen      = 4
	chainCodeLen     = 32
	keyDataLen       = 33
)

var ErrInvalidExtendedKey = errors.New("invalid extended key")

type Prefix string

const (
	XPRV Prefix = "xprv"
	XPUB Prefix = "xpub"
	FPRV Prefix = "fprv"
	FPUB Prefix = "fpub"
)

var versions = map[Prefix][]byte{
	XPUB: {0x04, 0x88, 0xb2, 0x1e},
	XPRV: {0x04, 0x88, 0xad, 0xe4},
	FPUB: {0x03, 0x27, 0x3e, 0x4b},
	FPRV: {0x03, 0x27, 0x3a, 0x10},
}

// PrefixFor returns the prefix for an algorithm and visibility.
func PrefixFor(algo types.Algorithm, isPublic bool) (Prefix, error) {
	switch {
	case algo == types.AlgorithmECDSA && isPublic:
		return XPUB, nil
	case algo == types.AlgorithmECDSA:
		return XPRV, nil
	case algo == types.AlgorithmEdDSA && isPublic:
		return FPUB, nil
	case algo == types.AlgorithmEdDSA:
		return FPRV, nil
	default:
		return "", errors.Wrapf(types.ErrInvalidAlgorithm, "no extended key prefix for %q", algo)
	}
}

func (p Prefix) Algorithm() types.Algorithm {
	if p == FPRV || p == FPUB {
		return types.AlgorithmEdDSA
	}
	return types.AlgorithmECDSA
}

func (p Prefix) IsPrivate() bool {
	return p == XPRV || p == FPRV
}

// ExtendedKey is a decoded extended key. KeyMaterial holds the 32-byte private scalar or the
// encoded public point (33 bytes secp256k1, 32 bytes ed25519).
type ExtendedKey struct {
	Prefix      Prefix
	Depth       byte
	ParentFP    [4]byte
	ChildIndex  uint32
	ChainCode   []byte
	KeyMaterial []byte
}

func (k *ExtendedKey) Algorithm() types.Algorithm { return k.Prefix.Algorithm() }

func (k *ExtendedKey) IsPrivate() bool { return k.Prefix.IsPrivate() }

// Scalar returns the private scalar as an integer. It is only meaningful for private keys.
func (k *ExtendedKey) Scalar() *big.Int {
	return bytesutil.BigFromBytes(k.KeyMaterial)
}

// PublicPoint returns the encoded public point, computing it from the scalar for private keys.
func (k *ExtendedKey) PublicPoint() ([]byte, error) {
	if !k.IsPrivate() {
		return k.KeyMaterial, nil
	}
	c, err := curve.ForAlgorithm(k.Algorithm())
	if err != nil {
		return nil, err
	}
	return c.ScalarBaseMult(k.Scalar())
}

// String serializes the key, including its reserved header fields.
func (k *ExtendedKey) String() string {
	payload := make([]byte, 0, serializedKeyLen+checksumLen)
	payload = append(payload, versions[k.Prefix]...)
	payload = append(payload, k.Depth)
	payload = append(payload, k.ParentFP[:]...)
	payload = binary.BigEndian.AppendUint32(payload, k.ChildIndex)
	payload = append(payload, k.ChainCode...)
	if k.IsPrivate() || k.Algorithm() == types.AlgorithmEdDSA {
		payload = append(payload, 0x00)
	}
	payload = append(payload, k.KeyMaterial...)

	payload = append(payload, chainhash.DoubleHashB(payload)[:checksumLen]...)
	return base58.Encode(payload)
}

// Decode parses an xprv, xpub, fprv or fpub string.
func Decode(s string) (*ExtendedKey, error) {
	if len(s) < 4 {
		return nil, errors.Wrap(ErrInvalidExtendedKey, "too short")
	}
	prefix := Prefix(s[:4])
	version, ok := versions[prefix]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidExtendedKey, "unknown prefix %q", prefix)
	}

	decoded := base58.Decode(s)
	if len(decoded) != serializedKeyLen+checksumLen {
		return nil, errors.Wrapf(ErrInvalidExtendedKey, "decoded length %d, expected %d", len(decoded), serializedKeyLen)
	}
	payload := decoded[:serializedKeyLen]
	if !bytes.Equal(decoded[serializedKeyLen:], chainhash.DoubleHashB(payload)[:checksumLen]) {
		return nil, errors.Wrap(ErrInvalidExtendedKey, "checksum mismatch")
	}
	if !bytes.Equal(payload[:4], version) {
		return nil, errors.Wrapf(ErrInvalidExtendedKey, "version bytes %x do not match prefix %q", payload[:4], prefix)
	}

	k := &ExtendedKey{
		Prefix:     prefix,
		Depth:      payload[4],
		ChildIndex: binary.BigEndian.Uint32(payload[9:13]),
		ChainCode:  append([]byte(nil), payload[13:45]...),
	}
	copy(k.ParentFP[:], payload[5:9])

	keyData := payload[45:78]
	switch {
	case prefix.IsPrivate() || prefix.Algorithm() == types.AlgorithmEdDSA:
		if keyData[0] != 0x00 {
			return nil, errors.Wrap(ErrInvalidExtendedKey, "missing key padding byte")
		}
		k.KeyMaterial = append([]byte(nil), keyData[1:]...)
	default:
		k.KeyMaterial = append([]byte(nil), keyData...)
	}

	if !prefix.IsPrivate() {
		c, err := curve.ForAlgorithm(prefix.Algorithm())
		if err != nil {
			return nil, err
		}
		if err := c.ValidatePoint(k.KeyMaterial); err != nil {
			return nil, errors.Wrap(ErrInvalidExtendedKey, err.Error())
		}
	}
	return k, nil
}

// Encode builds an extended key from raw key material. Private material is a big-endian
// scalar of at most 32 bytes; public material is the encoded point, left-padded to the
// curve's point width.
func Encode(algo types.Algorithm, isPublic bool, keyMaterial []byte, chainCode []byte) (string, error) {
	prefix, err := PrefixFor(algo, isPublic)
	if err != nil {
		return "", err
	}
	if len(chainCode) != chainCodeLen {
		return "", errors.Wrapf(ErrInvalidExtendedKey, "chain code must be %d bytes, got %d", chainCodeLen, len(chainCode))
	}

	width := 32
	if isPublic && algo == types.AlgorithmECDSA {
		width = keyDataLen
	}
	// EdDSA 公钥也接受序列化形式 0x00 || point
	if isPublic && algo == types.AlgorithmEdDSA && len(keyMaterial) == keyDataLen && keyMaterial[0] == 0 {
		keyMaterial = keyMaterial[1:]
	}
	material := bytesutil.PadLeft(keyMaterial, width)
	if len(material) != width {
		return "", errors.Wrapf(ErrInvalidExtendedKey, "key material is %d bytes, expected at most %d", len(keyMaterial), width)
	}

	k := &ExtendedKey{
		Prefix:      prefix,
		ChainCode:   append([]byte(nil), chainCode...),
		KeyMaterial: append([]byte(nil), material...),
	}
	return k.String(), nil
}

// EncodeHex is Encode for hex-encoded inputs, as produced by share reconstruction.
func EncodeHex(algo types.Algorithm, isPublic bool, keyHex string, chainCode []byte) (string, error) {
	material, err := bytesutil.HexToBytes(keyHex)
	if err != nil {
		return "", errors.Wrap(ErrInvalidExtendedKey, err.Error())
	}
	return Encode(algo, isPublic, material, chainCode)
}

// PublicFromPrivate returns the xpub for an xprv, or the fpub for an fprv.
func PublicFromPrivate(s string) (string, error) {
	k, err := Decode(s)
	if err != nil {
		return "", err
	}
	if !k.IsPrivate() {
		return "", errors.Wrapf(ErrInvalidExtendedKey, "%s is not a private extended key", k.Prefix)
	}
	pub, err := k.PublicPoint()
	if err != nil {
		return "", errors.Wrap(err, "failed to compute public key")
	}
	return Encode(k.Algorithm(), true, pub, k.ChainCode)
}

// ChainCodeHex is a convenience for display.
func (k *ExtendedKey) ChainCodeHex() string {
	return hex.EncodeToString(k.ChainCode)
}
