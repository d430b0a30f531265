package recovery

import (
	"context"
	"fmt"
	"os"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	recoverykit "github.com/SafeMPC/mpc-recovery/internal/infra/recovery"
	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/go-openapi/strfmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newKit() *cobra.Command {
	var (
		p          payloads.RecoverKitPayload
		askRSAPass bool
		out        string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "kit",
		Short: "Reconstruct extended keys from a backup kit zip",
		Long: `Reconstruct the vault extended keys from a backup kit zip and the recovery RSA key.

The mobile passphrase is prompted for unless --mobile-rsa-key is given, in which case the
auto-generated passphrase stored in the kit is decrypted instead.`,
		Example: `  mpc-recovery recover kit --zip backup.zip --rsa-key priv.pem --recover-private --out keys.json`,
		Args:    cobra.NoArgs,
		RunE: command.RunE(func(ctx context.Context, cfg config.Config, cmd *cobra.Command, _ []string) error {
			fs := cmd.Flags()
			if !fs.Changed(rsaKeyFlag) {
				p.RSAKeyPath = cfg.Recovery.RSAKeyPath
			}
			if !fs.Changed(mobileRSAKeyFlag) {
				p.MobileRSAKeyPath = cfg.Recovery.MobileRSAKeyPath
			}
			if !fs.Changed(recoverPrivateFlag) {
				p.RecoverPrivate = cfg.Recovery.RecoverPrivate
			}
			if err := p.Validate(strfmt.Default); err != nil {
				return errors.Wrap(err, "invalid arguments")
			}

			kitCfg, err := buildKitConfig(p, askRSAPass)
			if err != nil {
				return err
			}

			recovered, err := recoverykit.RecoverKeys(ctx, kitCfg)
			if err != nil {
				return err
			}
			res := &payloads.RecoverKitResponse{RecoveredKeys: *recovered}

			if out != "" {
				if err := command.WriteSecretFile(out, res); err != nil {
					return err
				}
				log.Info().Str("file", out).Msg("Wrote recovered keys")
			}
			if asJSON {
				return command.PrintJSON(cmd.OutOrStdout(), res)
			}
			printRecovered(cmd, recovered)
			return nil
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&p.ZipPath, zipFlag, "", "backup kit zip")
	fs.StringVar(&p.RSAKeyPath, rsaKeyFlag, "", "recovery RSA private key (PEM)")
	fs.BoolVar(&askRSAPass, askRSAPassFlag, false, "prompt for the RSA private key passphrase")
	fs.StringVar(&p.MobileRSAKeyPath, mobileRSAKeyFlag, "", "mobile RSA private key for auto-generated passphrases")
	fs.BoolVar(&p.RecoverPrivate, recoverPrivateFlag, false, "include xprv/fprv in the result")
	fs.BoolVar(&p.OnlyNCW, onlyNCWFlag, false, "only recover the non-custodial wallet master")
	fs.StringVar(&out, outFlag, "", "write the JSON result to this file (mode 0600)")
	fs.BoolVar(&asJSON, command.JSONFlag, false, "print JSON instead of a table")

	return cmd
}

func buildKitConfig(p payloads.RecoverKitPayload, askRSAPass bool) (recoverykit.KitConfig, error) {
	zipData, err := os.ReadFile(p.ZipPath)
	if err != nil {
		return recoverykit.KitConfig{}, errors.Wrap(err, "failed to read backup kit")
	}
	rsaKey, err := os.ReadFile(p.RSAKeyPath)
	if err != nil {
		return recoverykit.KitConfig{}, errors.Wrap(err, "failed to read RSA key")
	}

	kitCfg := recoverykit.KitConfig{
		Zip:            zipData,
		RSAKey:         rsaKey,
		RecoverPrivate: p.RecoverPrivate,
		OnlyNCW:        p.OnlyNCW,
	}

	if askRSAPass {
		if kitCfg.RSAPassphrase, err = command.ReadPassphrase("RSA key passphrase: ", os.Stdin, os.Stderr); err != nil {
			return kitCfg, err
		}
	}

	switch {
	case p.OnlyNCW:
	case p.MobileRSAKeyPath != "":
		if kitCfg.MobileRSAKey, err = os.ReadFile(p.MobileRSAKeyPath); err != nil {
			return kitCfg, errors.Wrap(err, "failed to read mobile RSA key")
		}
		if askRSAPass {
			if kitCfg.MobileRSAPassphrase, err = command.ReadPassphrase("Mobile RSA key passphrase: ", os.Stdin, os.Stderr); err != nil {
				return kitCfg, err
			}
		}
	default:
		pass, err := command.ReadPassphrase("Mobile passphrase: ", os.Stdin, os.Stderr)
		if err != nil {
			return kitCfg, err
		}
		kitCfg.MobilePassphrase = &pass
	}
	return kitCfg, nil
}

func printRecovered(cmd *cobra.Command, r *recoverykit.RecoveredKeys) {
	out := cmd.OutOrStdout()

	if len(r.Keysets) > 0 {
		rows := make([]table.Row, 0, 4*len(r.Keysets))
		for _, id := range sortedKeysets(r.Keysets) {
			k := r.Keysets[id]
			if k.ECDSAExists {
				rows = append(rows, table.Row{id, "xpub", k.ECDSAMinAccount, k.XPUB})
				if k.XPRV != "" {
					rows = append(rows, table.Row{id, "xprv", k.ECDSAMinAccount, k.XPRV})
				}
			}
			if k.EdDSAExists {
				rows = append(rows, table.Row{id, "fpub", k.EdDSAMinAccount, k.FPUB})
				if k.FPRV != "" {
					rows = append(rows, table.Row{id, "fprv", k.EdDSAMinAccount, k.FPRV})
				}
			}
		}
		command.PrintTable(out, table.Row{"Keyset", "Key", "Min Account", "Value"}, rows)
	}

	if m := r.NCWWalletMaster; m != nil {
		rows := []table.Row{
			{"wallet seed", m.WalletSeed},
			{"asset seed", m.AssetSeed},
		}
		for _, id := range sortedStrings(m.MasterKeyForCosigner) {
			rows = append(rows, table.Row{fmt.Sprintf("master key %s", id), m.MasterKeyForCosigner[id]})
		}
		command.PrintTable(out, table.Row{"NCW", "Value"}, rows)
	}
}
