package chain

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DeriveRange 并发派生 [from, to] 区间内的地址索引，结果按索引排序
func DeriveRange(ctx context.Context, input WalletInput, from, to uint32, workers int) ([]*Wallet, error) {
	if to < from {
		return nil, errors.Errorf("invalid address index range: %d > %d", from, to)
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	wallets := make([]*Wallet, int(to-from)+1)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range wallets {
		idx := from + uint32(i)
		slot := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			in := input
			in.Path.AddressIndex = idx
			w, err := NewWallet(in)
			if err != nil {
				return errors.Wrapf(err, "address index %d", idx)
			}
			wallets[slot] = w
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("asset_id", input.AssetID).
		Uint32("from", from).
		Uint32("to", to).
		Int("workers", workers).
		Msg("Derived wallet range")
	return wallets, nil
}
