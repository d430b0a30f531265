package derive

import (
	"context"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/chain"
	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/go-openapi/strfmt"
	"github.com/spf13/cobra"
)

const (
	fromFlag    = "from"
	toFlag      = "to"
	workersFlag = "workers"
)

func newRange() *cobra.Command {
	var (
		flags             walletFlags
		from, to, workers int64
	)

	cmd := &cobra.Command{
		Use:     "range",
		Short:   "Derive every address index in [from, to] in parallel",
		Example: `  mpc-recovery derive range --asset ETH --xpub xpub661My... --from 0 --to 99`,
		Args:    cobra.NoArgs,
		RunE: command.RunE(func(ctx context.Context, cfg config.Config, cmd *cobra.Command, _ []string) error {
			base, err := flags.build(cmd, cfg)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed(workersFlag) {
				workers = int64(cfg.Derive.Workers)
			}

			p := payloads.DeriveRangePayload{DeriveWalletPayload: base, From: from, To: to, Workers: workers}
			if err := p.Validate(strfmt.Default); err != nil {
				return validationError(err)
			}

			wallets, err := chain.DeriveRange(ctx, p.WalletInput(), uint32(p.From), uint32(p.To), int(p.Workers))
			if err != nil {
				return err
			}
			return printWallets(cmd, wallets, flags.json)
		}),
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&from, fromFlag, 0, "first address index")
	cmd.Flags().Int64Var(&to, toFlag, 0, "last address index (inclusive)")
	cmd.Flags().Int64Var(&workers, workersFlag, 0, "parallel workers (default from config)")

	return cmd
}
