package protocol

import (
	"crypto/sha512"
	"math/big"

	"filippo.io/edwards25519"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/util/bytesutil"
	"github.com/pkg/errors"
)

// SignEdDSA signs message with a raw ed25519 scalar, as held by a derived fprv leaf. There
// is no seed to hash, so the nonce is drawn from SHA-512(random || key || message) instead
// of the RFC 8032 prefix. The signature verifies with crypto/ed25519 against scalar·G.
func SignEdDSA(privateKey []byte, message []byte) ([]byte, error) {
	if len(privateKey) != 32 {
		return nil, errors.Errorf("invalid private key length: expected 32 bytes, got %d", len(privateKey))
	}
	seed, err := bytesutil.RandomBytes(32)
	if err != nil {
		return nil, err
	}
	return signEdDSA(privateKey, message, seed)
}

func signEdDSA(privateKey []byte, message []byte, seed []byte) ([]byte, error) {
	c := curve.Ed25519()
	k := curve.Mod(c, bytesutil.BigFromBytes(privateKey))
	if k.Sign() == 0 {
		return nil, errors.New("private key is zero")
	}

	a, err := curve.Ed25519Scalar(k)
	if err != nil {
		return nil, err
	}

	nonceDigest := sha512.Sum512(bytesutil.Concat(seed, bytesutil.BigToLE(k, 32), message))
	r, err := scalarFromDigest(nonceDigest[:])
	if err != nil {
		return nil, err
	}

	R := new(edwards25519.Point).ScalarBaseMult(r).Bytes()
	A := new(edwards25519.Point).ScalarBaseMult(a).Bytes()

	hramDigest := sha512.Sum512(bytesutil.Concat(R, A, message))
	h, err := scalarFromDigest(hramDigest[:])
	if err != nil {
		return nil, err
	}

	s := edwards25519.NewScalar().MultiplyAdd(h, a, r)
	return bytesutil.Concat(R, s.Bytes()), nil
}

// scalarFromDigest reduces a 64-byte little-endian digest mod l.
func scalarFromDigest(digest []byte) (*edwards25519.Scalar, error) {
	s, err := edwards25519.NewScalar().SetUniformBytes(digest)
	if err != nil {
		return nil, errors.Wrap(err, "failed to reduce digest")
	}
	return s, nil
}

// EdDSAPublicKey returns the 32-byte public key of a raw scalar.
func EdDSAPublicKey(privateKey []byte) ([]byte, error) {
	return curve.Ed25519().ScalarBaseMult(new(big.Int).SetBytes(privateKey))
}
