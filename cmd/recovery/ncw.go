package recovery

import (
	"context"
	"os"
	"sort"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/ncw"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/go-openapi/strfmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newNCW() *cobra.Command {
	var (
		resultPath string
		walletIDs  []string
		algorithm  string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:     "ncw",
		Short:   "Derive non-custodial wallet cosigner shares from a recovered kit",
		Example: `  mpc-recovery recover ncw --result keys.json --wallet-id 2d33e419-4c84-44b1-9d9a-3598f96642b0`,
		Args:    cobra.NoArgs,
		RunE: command.RunE(func(_ context.Context, _ config.Config, cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(resultPath)
			if err != nil {
				return errors.Wrap(err, "failed to read recovery result")
			}
			var recovered payloads.RecoverKitResponse
			if err := recovered.UnmarshalBinary(data); err != nil {
				return errors.Wrap(err, "failed to parse recovery result")
			}
			if recovered.NCWWalletMaster == nil {
				return errors.New("recovery result has no NCW wallet master")
			}

			wallet := ncw.New(recovered.NCWWalletMaster)
			responses := make([]*payloads.DeriveNCWResponse, 0, len(walletIDs))
			for _, id := range walletIDs {
				p := payloads.DeriveNCWPayload{WalletID: id, Algorithm: algorithm}
				if err := p.Validate(strfmt.Default); err != nil {
					return errors.Wrap(err, "invalid arguments")
				}
				shares, err := wallet.DerivePrivateKey(p.WalletID, types.MPCAlgorithm(p.Algorithm))
				if err != nil {
					return err
				}
				responses = append(responses, &payloads.DeriveNCWResponse{WalletID: id, WalletShares: *shares})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				for _, r := range responses {
					if err := command.PrintJSON(out, r); err != nil {
						return err
					}
				}
				return nil
			}

			rows := []table.Row{}
			for _, r := range responses {
				for _, s := range r.Shares {
					rows = append(rows, table.Row{r.WalletID, r.ChainCode, s.Cosigner, s.Value})
				}
			}
			command.PrintTable(out, table.Row{"Wallet", "Chain Code", "Cosigner", "Share"}, rows)
			return nil
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&resultPath, resultFlag, "", "JSON written by recover kit --out")
	fs.StringSliceVar(&walletIDs, walletIDFlag, nil, "wallet id (repeatable)")
	fs.StringVar(&algorithm, algorithmFlag, string(types.MPCECDSA), "signing algorithm")
	fs.BoolVar(&asJSON, command.JSONFlag, false, "print JSON lines instead of a table")
	_ = cmd.MarkFlagRequired(resultFlag)
	_ = cmd.MarkFlagRequired(walletIDFlag)

	return cmd
}

func sortedKeysets[V any](m map[int]V) []int {
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func sortedStrings(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
