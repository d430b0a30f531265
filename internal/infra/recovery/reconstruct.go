package recovery

import (
	"context"
	"encoding/hex"
	"math/big"
	"sort"
	"strings"

	"github.com/SafeMPC/mpc-recovery/internal/mpc/curve"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/extkey"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// PlayerData 是 keyId → playerId（十进制字符串）→ 分片值
type PlayerData map[string]map[string]*big.Int

// Add 记录一个参与方分片，同一 playerId 重复出现时后者覆盖前者
func (p PlayerData) Add(share *PlayerShare) {
	if p[share.KeyID] == nil {
		p[share.KeyID] = map[string]*big.Int{}
	}
	p[share.KeyID][share.PlayerID.String()] = share.Value
}

// CalculatedKey 重建出的扩展密钥对
type CalculatedKey struct {
	PrvKey    string
	PubKey    string
	ChainCode string
}

// CalculatedPrivateKeysets 按 keyset、算法归类的重建结果
type CalculatedPrivateKeysets map[int]map[types.MPCAlgorithm]CalculatedKey

// LagrangeCoefficient computes Π_{j≠i} j·(j−i)⁻¹ mod order, the weight of player i at x = 0.
func LagrangeCoefficient(id *big.Int, ids []*big.Int, order *big.Int) *big.Int {
	mi := curve.NewModInt(order)
	coef := big.NewInt(1)
	for _, j := range ids {
		if j.Cmp(id) == 0 {
			continue
		}
		inv := mi.InverseFermat(mi.Sub(j, id))
		coef = mi.Mul(coef, mi.Mul(inv, j))
	}
	return coef
}

// combineShares 按算法合并分片：CMP 为直接求和，其余为拉格朗日插值
func combineShares(shares map[string]*big.Int, algo types.MPCAlgorithm, order *big.Int) (*big.Int, error) {
	ids := make([]*big.Int, 0, len(shares))
	for raw := range shares {
		id, ok := new(big.Int).SetString(raw, 10)
		if !ok {
			return nil, errors.Errorf("invalid player id %q", raw)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a].Cmp(ids[b]) < 0 })

	mi := curve.NewModInt(order)
	secret := new(big.Int)
	for _, id := range ids {
		share := shares[id.String()]
		if algo.IsAdditive() {
			secret = mi.Add(secret, share)
			continue
		}
		secret = mi.Add(secret, mi.Mul(share, LagrangeCoefficient(id, ids, order)))
	}
	return secret, nil
}

type reconstructed struct {
	keyID string
	key   SigningKey
	prv   []byte
	pub   []byte
	ok    bool
}

// Reconstruct rebuilds every signing key that has shares. A key whose public key does not match
// metadata.json is logged and left out of the result.
func Reconstruct(ctx context.Context, players PlayerData, signingKeys map[string]SigningKey) (CalculatedPrivateKeysets, error) {
	keyIDs := make([]string, 0, len(players))
	for keyID := range players {
		if _, ok := signingKeys[keyID]; ok {
			keyIDs = append(keyIDs, keyID)
		}
	}
	sort.Strings(keyIDs)

	results := make([]reconstructed, len(keyIDs))
	g, ctx := errgroup.WithContext(ctx)
	for i, keyID := range keyIDs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := reconstructKey(keyID, signingKeys[keyID], players[keyID])
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	keysets := CalculatedPrivateKeysets{}
	for _, r := range results {
		if !r.ok {
			continue
		}
		algo := r.key.Algorithm
		if _, exists := keysets[r.key.KeysetID][algo]; exists {
			continue
		}

		prv, err := extkey.Encode(algo.Curve(), false, r.prv, r.key.ChainCode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode private key %s", r.keyID)
		}
		pub, err := extkey.Encode(algo.Curve(), true, r.pub, r.key.ChainCode)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode public key %s", r.keyID)
		}

		if keysets[r.key.KeysetID] == nil {
			keysets[r.key.KeysetID] = map[types.MPCAlgorithm]CalculatedKey{}
		}
		keysets[r.key.KeysetID][algo] = CalculatedKey{
			PrvKey:    prv,
			PubKey:    pub,
			ChainCode: hex.EncodeToString(r.key.ChainCode),
		}
	}
	return keysets, nil
}

func reconstructKey(keyID string, key SigningKey, shares map[string]*big.Int) (reconstructed, error) {
	c, err := curve.ForAlgorithm(key.Algorithm.Curve())
	if err != nil {
		return reconstructed{}, err
	}

	secret, err := combineShares(shares, key.Algorithm, c.Order())
	if err != nil {
		return reconstructed{}, errors.Wrapf(err, "key %s", keyID)
	}

	r := reconstructed{keyID: keyID, key: key}
	pub, err := c.ScalarBaseMult(secret)
	if err != nil {
		log.Error().Err(err).Str("key_id", keyID).Str("algorithm", string(key.Algorithm)).Msg("Failed to recover key")
		return r, nil
	}

	expected := strings.ToLower(strings.TrimPrefix(key.PublicKey, "0x"))
	got := hex.EncodeToString(pub)
	if expected != got {
		log.Error().
			Str("key_id", keyID).
			Str("algorithm", string(key.Algorithm)).
			Str("expected", expected).
			Str("got", got).
			Msg("Failed to recover key, public key mismatch")
		return r, nil
	}

	r.prv = secret.FillBytes(make([]byte, 32))
	r.pub = pub
	r.ok = true
	return r, nil
}
