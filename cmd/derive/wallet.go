package derive

import (
	"context"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/chain"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newWallet() *cobra.Command {
	var flags walletFlags

	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Derive one address and its keys from extended keys",
		Example: `  mpc-recovery derive wallet --asset BTC --xpub xpub661My... --account 0 --index 3
  mpc-recovery derive wallet --asset SOL --fprv - --json`,
		Args: cobra.NoArgs,
		RunE: command.RunE(func(_ context.Context, cfg config.Config, cmd *cobra.Command, _ []string) error {
			p, err := flags.build(cmd, cfg)
			if err != nil {
				return err
			}
			if err := p.Validate(strfmt.Default); err != nil {
				return validationError(err)
			}

			w, err := chain.NewWallet(p.WalletInput())
			if err != nil {
				return err
			}
			log.Debug().Str("asset_id", w.AssetID).Str("path", w.Path.String()).Msg("Derived wallet")
			return printWallets(cmd, []*chain.Wallet{w}, flags.json)
		}),
	}
	flags.register(cmd)

	return cmd
}
