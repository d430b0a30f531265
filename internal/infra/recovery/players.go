package recovery

import (
	"encoding/binary"
	"encoding/hex"
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// uuidBytes decodes a UUID string into raw bytes, tolerating uuid:/urn: prefixes.
func uuidBytes(id string) ([]byte, error) {
	s := strings.Replace(id, "uuid:", "", 1)
	s = strings.Replace(s, "urn:", "", 1)
	s = strings.ReplaceAll(s, "-", "")
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid uuid %q", id)
	}
	if len(b) < 6 {
		return nil, errors.Errorf("invalid uuid %q", id)
	}
	return b, nil
}

// MobilePlayerID is the big-endian uint48 of the first six bytes of the device UUID.
func MobilePlayerID(deviceID string) (*big.Int, error) {
	b, err := uuidBytes(deviceID)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b[:6]), nil
}

// CloudPlayerID = (deviceId << 32) | LE uint32(first four key UUID bytes).
func CloudPlayerID(keyID, deviceID string) (*big.Int, error) {
	prefix, err := cloudPrefix(keyID)
	if err != nil {
		return nil, err
	}
	device, ok := new(big.Int).SetString(deviceID, 10)
	if !ok {
		return nil, errors.Errorf("invalid cloud device id %q", deviceID)
	}
	id := new(big.Int).Lsh(device, 32)
	return id.Or(id, new(big.Int).SetUint64(uint64(prefix))), nil
}

func cloudPrefix(id string) (uint32, error) {
	b, err := uuidBytes(id)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:4]), nil
}
