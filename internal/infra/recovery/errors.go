package recovery

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNoMetadata                 = errors.New("no metadata.json file found in key share zip")
	ErrNoRSAPassphrase            = errors.New("auto-generated passphrase requested but no RSA_PASSPHRASE file found in key share zip")
	ErrUnknownChainCode           = errors.New("chain code in metadata.json is missing or invalid")
	ErrKeyIDNotInMetadata         = errors.New("key id found in zip file but does not exist in metadata.json")
	ErrDecryptMobileKey           = errors.New("mobile key decryption error - make sure mobile key passphrase is correct")
	ErrDecryptRSAPrivateKey       = errors.New("RSA private key decryption error - make sure the RSA passphrase is correct")
	ErrInvalidRSAPrivateKey       = errors.New("failed getting RSA private key - make sure the RSA passphrase is correct")
	ErrInvalidRecoveryKit         = errors.New("failed obtaining data from the recovery kit - make sure you use the correct (and uncorrupted) recovery kit and RSA key")
	ErrUnknownAlgorithm           = errors.New("metadata.json contains unsupported signature algorithm")
	ErrMissingWalletMasterKeyID   = errors.New("metadata.json does not contain any non custodial wallet master keys")
	ErrAmbiguousWalletMasterKeyID = errors.New("metadata.json contains more than one non custodial wallet master keys")
	ErrDuplicateMasterKeyFile     = errors.New("duplicate master key file found in kit")
	ErrMissingMasterKeyFile       = errors.New("missing master key file in kit")
	ErrInvalidMasterKey           = errors.New("invalid master key")
	ErrPadding                    = errors.New("input is not padded or padding is corrupt")
)

// KeyIDMissingError is returned when a signing key listed in metadata.json has no shares in the kit.
type KeyIDMissingError struct {
	KeyID string
}

func (e *KeyIDMissingError) Error() string {
	return fmt.Sprintf("metadata.json contains key id %s, which wasn't found in zip file", e.KeyID)
}
