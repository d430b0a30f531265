package protocol

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"math/big"
	"strconv"
	"strings"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/extkey"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const hardenedOffset uint32 = 0x80000000

var (
	ErrInvalidChildKey   = errors.New("invalid derived key")
	ErrAlgorithmMismatch = errors.New("extended key does not match algorithm")
)

// ParseDerivationPath parses a derivation path string into indices.
// Example: "m/44'/60'/0'/0/0" -> [44+H, 60+H, 0+H, 0, 0]
// Hardened markers only set the high bit: every index goes through the same public
// derivation step.
func ParseDerivationPath(path string) ([]uint32, error) {
	parts := strings.Split(strings.TrimSpace(path), "/")
	if len(parts) > 0 && parts[0] == "m" {
		parts = parts[1:]
	}

	indices := make([]uint32, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		isHardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			isHardened = true
			part = part[:len(part)-1]
		}

		val, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid path component: %s", part)
		}
		index := uint32(val)

		if isHardened {
			index |= hardenedOffset
		}
		indices = append(indices, index)
	}
	return indices, nil
}

// Derivation is the leaf of a derivation walk. Private fields are empty unless the walk
// started from an xprv or fprv.
type Derivation struct {
	Algorithm  types.Algorithm
	PublicKey  string
	PrivateKey string
	WIF        string
	EVMAddress string
	ChainCode  []byte

	publicKey  []byte
	privateKey []byte
}

func (d *Derivation) HasPrivateKey() bool {
	return len(d.privateKey) > 0
}

// PublicKeyBytes returns the encoded leaf public point.
func (d *Derivation) PublicKeyBytes() []byte {
	return append([]byte(nil), d.publicKey...)
}

// PrivateKeyBytes returns the 32-byte big-endian leaf scalar, or nil after a public walk.
func (d *Derivation) PrivateKeyBytes() []byte {
	if d.privateKey == nil {
		return nil
	}
	return append([]byte(nil), d.privateKey...)
}

// computeIL calculates the tweak IL and child chain code for a secp256k1 step.
func computeIL(pubKey []byte, chainCode []byte, index uint32) (*big.Int, []byte, error) {
	if len(chainCode) != 32 {
		return nil, nil, errors.New("invalid chain code length: must be 32 bytes")
	}

	hmac512 := hmac.New(sha512.New, chainCode)
	hmac512.Write(pubKey)

	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)
	hmac512.Write(indexBytes)

	I := hmac512.Sum(nil)
	IL := I[:32]
	IR := I[32:]

	ilNum := new(big.Int).SetBytes(IL)
	if ilNum.Cmp(btcec.S256().N) >= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidChildKey, "IL >= n at index %d", index)
	}

	return ilNum, IR, nil
}

// computeILEd25519 is the Fireblocks EdDSA step: the point is followed by a zero byte
// before the index, and the tweak is reduced mod l rather than rejected.
func computeILEd25519(pubKey []byte, chainCode []byte, index uint32) (*big.Int, []byte, error) {
	if len(chainCode) != 32 {
		return nil, nil, errors.New("invalid chain code length: must be 32 bytes")
	}

	hmac512 := hmac.New(sha512.New, chainCode)
	hmac512.Write(pubKey)
	hmac512.Write([]byte{0x00})

	indexBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(indexBytes, index)
	hmac512.Write(indexBytes)

	I := hmac512.Sum(nil)
	return new(big.Int).SetBytes(I[:32]), I[32:], nil
}

// Derive walks path from an extended key. The key's prefix must belong to algo.
func Derive(algo types.Algorithm, extendedKey string, path []uint32) (*Derivation, error) {
	key, err := extkey.Decode(extendedKey)
	if err != nil {
		return nil, err
	}
	if key.Algorithm() != algo {
		return nil, errors.Wrapf(ErrAlgorithmMismatch, "%s key for %s derivation", key.Prefix, algo)
	}

	c, err := curve.ForAlgorithm(algo)
	if err != nil {
		return nil, err
	}

	step := computeIL
	if algo == types.AlgorithmEdDSA {
		step = computeILEd25519
	}

	var scalar *big.Int
	point := key.KeyMaterial
	if key.IsPrivate() {
		scalar = curve.Mod(c, key.Scalar())
		if point, err = c.ScalarBaseMult(scalar); err != nil {
			return nil, errors.Wrap(err, "invalid private key")
		}
	}
	chainCode := key.ChainCode

	for _, index := range path {
		tweak, nextChainCode, err := step(point, chainCode, index)
		if err != nil {
			return nil, err
		}

		delta, err := c.ScalarBaseMult(tweak)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidChildKey, "tweak at index %d: %v", index, err)
		}
		if point, err = c.Add(point, delta); err != nil {
			return nil, errors.Wrapf(ErrInvalidChildKey, "child point at index %d: %v", index, err)
		}
		if scalar != nil {
			scalar = curve.Mod(c, scalar.Add(scalar, tweak))
		}
		chainCode = nextChainCode
	}

	log.Debug().
		Str("algorithm", string(algo)).
		Int("depth", len(path)).
		Bool("private", scalar != nil).
		Msg("Derived child key")

	d := &Derivation{
		Algorithm: algo,
		PublicKey: bytesutil.BytesToHex0x(point),
		ChainCode: chainCode,
		publicKey: point,
	}

	if algo == types.AlgorithmECDSA {
		pub, err := crypto.DecompressPubkey(point)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse derived public key")
		}
		d.EVMAddress = crypto.PubkeyToAddress(*pub).Hex()
	}

	if scalar != nil {
		d.privateKey = bytesutil.BigToBytes(scalar, 32)
		d.PrivateKey = bytesutil.BytesToHex0x(d.privateKey)
		if algo == types.AlgorithmECDSA {
			if d.WIF, err = EncodeWIF(d.privateKey); err != nil {
				return nil, err
			}
		}
	}

	return d, nil
}

// DerivePath is Derive for a textual path.
func DerivePath(algo types.Algorithm, extendedKey string, path string) (*Derivation, error) {
	indices, err := ParseDerivationPath(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse derivation path")
	}
	return Derive(algo, extendedKey, indices)
}

// EncodeWIF returns the compressed mainnet WIF of a 32-byte secp256k1 key.
func EncodeWIF(privateKey []byte) (string, error) {
	priv, _ := btcec.PrivKeyFromBytes(privateKey)
	wif, err := btcutil.NewWIF(priv, &chaincfg.MainNetParams, true)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode WIF")
	}
	return wif.String(), nil
}
