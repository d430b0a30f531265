package types

import (
	"github.com/pkg/errors"
)

// Algorithm is the curve family used for HD derivation.
type Algorithm string

const (
	AlgorithmECDSA Algorithm = "ECDSA_SECP256K1"
	AlgorithmEdDSA Algorithm = "EDDSA_ED25519"
)

// MPCAlgorithm is the signing-key algorithm tag recorded in a recovery kit.
type MPCAlgorithm string

const (
	MPCECDSA    MPCAlgorithm = "MPC_ECDSA_SECP256K1"
	MPCEdDSA    MPCAlgorithm = "MPC_EDDSA_ED25519"
	MPCCMPECDSA MPCAlgorithm = "MPC_CMP_ECDSA_SECP256K1"
	MPCCMPEdDSA MPCAlgorithm = "MPC_CMP_EDDSA_ED25519"
)

var ErrInvalidAlgorithm = errors.New("unknown algorithm")

func ParseMPCAlgorithm(s string) (MPCAlgorithm, error) {
	switch a := MPCAlgorithm(s); a {
	case MPCECDSA, MPCEdDSA, MPCCMPECDSA, MPCCMPEdDSA:
		return a, nil
	default:
		return "", errors.Wrapf(ErrInvalidAlgorithm, "%q", s)
	}
}

// Curve returns the derivation family of the tag.
func (a MPCAlgorithm) Curve() Algorithm {
	if a == MPCEdDSA || a == MPCCMPEdDSA {
		return AlgorithmEdDSA
	}
	return AlgorithmECDSA
}

// IsAdditive reports whether shares combine by plain summation (CMP) instead of Lagrange
// interpolation.
func (a MPCAlgorithm) IsAdditive() bool {
	return a == MPCCMPECDSA || a == MPCCMPEdDSA
}

// MobileTag is the little-endian algorithm id prefixed to 36-byte mobile shares.
func (a MPCAlgorithm) MobileTag() int32 {
	if a.Curve() == AlgorithmEdDSA {
		return 1
	}
	return 0
}
