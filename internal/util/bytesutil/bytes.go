// Package bytesutil holds the fixed-width conversions used at every boundary where key
// material moves between hex strings, byte slices and big integers.
package bytesutil

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// PadLeft returns b left-padded with zeros to size bytes. Input that is already longer is
// returned as-is so callers can detect overflow with a length check.
func PadLeft(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	padded := make([]byte, size)
	copy(padded[size-len(b):], b)
	return padded
}

// BigToBytes serializes x as a size-byte big-endian integer.
func BigToBytes(x *big.Int, size int) []byte {
	out := make([]byte, size)
	return x.FillBytes(out)
}

func BigFromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// ReverseBytes returns a reversed copy of b.
func ReverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i := range b {
		out[len(b)-1-i] = b[i]
	}
	return out
}

// BigToLE serializes x as a size-byte little-endian integer.
func BigToLE(x *big.Int, size int) []byte {
	return ReverseBytes(BigToBytes(x, size))
}

func BigFromLE(b []byte) *big.Int {
	return new(big.Int).SetBytes(ReverseBytes(b))
}

func Concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// RandomBytes reads n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, errors.Wrap(err, "failed to read random bytes")
	}
	return b, nil
}

// HexToBytes decodes hex key material. A 0x prefix is optional and odd-length input gets a
// leading zero nibble, matching how big integers are printed.
func HexToBytes(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid hex %q", s)
	}
	return b, nil
}

// BytesToHex0x encodes b as lowercase hex with a 0x prefix.
func BytesToHex0x(b []byte) string {
	return "0x" + hex.EncodeToString(b)
}
