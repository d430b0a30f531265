package recovery

import (
	"archive/zip"
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"encoding/json"
	"encoding/pem"
	"math/big"
	"sync"
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/extkey"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/pbkdf2"
)

const (
	testXPRV = "xprv9s21ZrQH143K2zPNSbKDKusTNW4XVwvTCCEFvcLkeNyauqJJd9UjZg3AtfZbmXa22TFph2NdACUPoWR4sCqMCKQM1j7jRvLuBCF3YoapsX6"
	testXPUB = "xpub661MyMwAqRbcFUTqYcrDh3pBvXu1uQeJZR9rizkNCiWZnddTAgnz7UMejwX7u4xLmh2JMTtL7DdZmBWGUKa7v836UarassQ3DVFATMzRycV"
	testFPRV = "fprv4LsXPWzhTTp9ax8NGVwbnRFuT3avVQ4ydHNWcu8hCGZd18TRKxgAzbrpY9bLJRe4Y2AyX9TfQdDPbmqEYoDCTju9QFZbUgdsxsmUgfvuEDK"
	testFPUB = "fpub8sZZXw2wbqVpURAAA9cCBpv2256rejFtCayHuRAzcYN1qciBxMVmB6UgiDAQTUZh5EP9JZciPQPjKAHyqPYHELqEHWkvo1sxreEJgLyfCJj"

	testChainCode = "5d90bd21d2273a25d0aea082716bdc4529e007823260ad3479182f6672c25cc4"

	ecdsaKeyID = "01020304-0a0b-4c0d-8e0f-101112131415"
	eddsaKeyID = "21222324-2a2b-4c2d-8e2f-303132333435"

	mobileDeviceID = "7f3c2a10-5b6d-4e8f-9a1b-2c3d4e5f6a7b"
	mobileUserID   = "user-7f3c2a10"
	mobilePass     = "Thefireblocks1!"
	rsaPass        = "kit-rsa-pass"
)

var (
	rsaKeyOnce sync.Once
	rsaKey     *rsa.PrivateKey
)

func testRSAKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	rsaKeyOnce.Do(func() {
		k, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			panic(err)
		}
		rsaKey = k
	})
	return rsaKey
}

func pkcs1PEM(key *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})
}

func oaepEncrypt(t *testing.T, key *rsa.PrivateKey, plain []byte) []byte {
	t.Helper()
	ct, err := rsa.EncryptOAEP(sha1.New(), rand.Reader, &key.PublicKey, plain, nil)
	require.NoError(t, err)
	return ct
}

// encryptMobile mirrors DecryptMobileShare; plain must be block aligned.
func encryptMobile(t *testing.T, passphrase, userID string, plain []byte) []byte {
	t.Helper()
	require.Zero(t, len(plain)%aes.BlockSize)
	key := pbkdf2.Key([]byte(passphrase), []byte(userID), mobileKDFIterations, mobileKeyLen, sha1.New)
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	out := make([]byte, len(plain))
	cipher.NewCBCEncrypter(block, make([]byte, aes.BlockSize)).CryptBlocks(out, plain)
	return out
}

func mobileShareJSON(t *testing.T, keyID, passphrase string, plain []byte) []byte {
	t.Helper()
	data, err := json.Marshal(MobileKeyShare{
		EncryptedKey:        hex.EncodeToString(encryptMobile(t, passphrase, mobileUserID, plain)),
		KeyID:               keyID,
		DeviceID:            mobileDeviceID,
		UserID:              mobileUserID,
		EncryptionAlgorithm: "AES-CBC",
	})
	require.NoError(t, err)
	return data
}

// shamirShares evaluates the line secret + a·x at every id.
func shamirShares(secret, order *big.Int, ids []*big.Int) map[string]*big.Int {
	mi := curve.NewModInt(order)
	a := new(big.Int).Lsh(big.NewInt(0x1d2c3b4a), 140)
	shares := make(map[string]*big.Int, len(ids))
	for _, x := range ids {
		shares[x.String()] = mi.Add(secret, mi.Mul(a, x))
	}
	return shares
}

type testKey struct {
	keyID     string
	secret    *big.Int
	publicKey string
	order     *big.Int
}

func decodeTestKey(t *testing.T, keyID, xprv string) testKey {
	t.Helper()
	k, err := extkey.Decode(xprv)
	require.NoError(t, err)
	pub, err := k.PublicPoint()
	require.NoError(t, err)
	c, err := curve.ForAlgorithm(k.Algorithm())
	require.NoError(t, err)
	return testKey{keyID: keyID, secret: k.Scalar(), publicKey: hex.EncodeToString(pub), order: c.Order()}
}

type kitBuilder struct {
	t       *testing.T
	entries []Entry
}

func (b *kitBuilder) add(name string, data []byte) *kitBuilder {
	b.entries = append(b.entries, Entry{Name: name, Data: data})
	return b
}

func (b *kitBuilder) addJSON(name string, v interface{}) *kitBuilder {
	data, err := json.Marshal(v)
	require.NoError(b.t, err)
	return b.add(name, data)
}

// addShares splits key between the mobile device and cloud devices "1" and "2".
func (b *kitBuilder) addShares(key testKey, passphrase string, withMobile bool) *kitBuilder {
	t := b.t
	ids := make([]*big.Int, 0, 3)
	cloudIDs := map[string]*big.Int{}
	for _, device := range []string{"1", "2"} {
		id, err := CloudPlayerID(key.keyID, device)
		require.NoError(t, err)
		cloudIDs[device] = id
		ids = append(ids, id)
	}
	mobileID, err := MobilePlayerID(mobileDeviceID)
	require.NoError(t, err)
	if withMobile {
		ids = append(ids, mobileID)
	}

	shares := shamirShares(key.secret, key.order, ids)
	for device, id := range cloudIDs {
		b.add(device+"_"+key.keyID, oaepEncrypt(t, testRSAKey(t), shares[id.String()].FillBytes(make([]byte, 32))))
	}
	if withMobile {
		b.add("MOBILE_"+key.keyID, mobileShareJSON(t, key.keyID, passphrase, shares[mobileID.String()].FillBytes(make([]byte, 32))))
	}
	return b
}

func (b *kitBuilder) zip() []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, e := range b.entries {
		f, err := w.Create(e.Name)
		require.NoError(b.t, err)
		_, err = f.Write(e.Data)
		require.NoError(b.t, err)
	}
	require.NoError(b.t, w.Close())
	return buf.Bytes()
}

func newKit(t *testing.T) *kitBuilder {
	return &kitBuilder{t: t}
}
