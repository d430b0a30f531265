package derive

import (
	"context"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/extkey"
	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newPubs() *cobra.Command {
	var (
		xprv, fprv string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "pubs",
		Short: "Compute xpub/fpub from xprv/fprv",
		Args:  cobra.NoArgs,
		RunE: command.RunE(func(_ context.Context, _ config.Config, cmd *cobra.Command, _ []string) error {
			var err error
			if xprv, err = promptSecret(xprv, "xprv: "); err != nil {
				return err
			}
			if fprv, err = promptSecret(fprv, "fprv: "); err != nil {
				return err
			}
			if xprv == "" && fprv == "" {
				return errors.New("at least one of --xprv or --fprv is required")
			}

			var res payloads.PublicKeysResponse
			if xprv != "" {
				if res.XPUB, err = extkey.PublicFromPrivate(xprv); err != nil {
					return errors.Wrap(err, "xprv")
				}
			}
			if fprv != "" {
				if res.FPUB, err = extkey.PublicFromPrivate(fprv); err != nil {
					return errors.Wrap(err, "fprv")
				}
			}

			if asJSON {
				return command.PrintJSON(cmd.OutOrStdout(), &res)
			}
			rows := []table.Row{}
			if res.XPUB != "" {
				rows = append(rows, table.Row{"xpub", res.XPUB})
			}
			if res.FPUB != "" {
				rows = append(rows, table.Row{"fpub", res.FPUB})
			}
			command.PrintTable(cmd.OutOrStdout(), table.Row{"Key", "Value"}, rows)
			return nil
		}),
	}
	cmd.Flags().StringVar(&xprv, xprvFlag, "", "ECDSA extended private key, - to prompt")
	cmd.Flags().StringVar(&fprv, fprvFlag, "", "EdDSA extended private key, - to prompt")
	cmd.Flags().BoolVar(&asJSON, command.JSONFlag, false, "print JSON instead of a table")

	return cmd
}
