package sign

import (
	"context"
	"encoding/hex"
	"os"
	"strings"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/protocol"
	"github.com/SafeMPC/mpc-recovery/internal/types"
	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/go-openapi/strfmt"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const solanaCoinType = 501

// SignMessage derives the fprv leaf at the payload's path and signs the message with it.
func SignMessage(p payloads.SignEdDSAPayload) (*payloads.SignatureResponse, error) {
	if err := p.Validate(strfmt.Default); err != nil {
		return nil, errors.Wrap(err, "invalid arguments")
	}
	message, err := hex.DecodeString(strings.TrimPrefix(p.Message, "0x"))
	if err != nil {
		return nil, errors.Wrap(err, "message is not hex")
	}

	path := protocol.NewPath(uint32(p.CoinType), uint32(p.Account), uint32(p.Change), uint32(p.AddressIndex))
	d, err := protocol.Derive(types.AlgorithmEdDSA, p.FPRV, path.Indices())
	if err != nil {
		return nil, err
	}
	if !d.HasPrivateKey() {
		return nil, errors.New("signing requires an fprv")
	}

	sig, err := protocol.SignEdDSA(d.PrivateKeyBytes(), message)
	if err != nil {
		return nil, err
	}
	return &payloads.SignatureResponse{
		Path:      path.String(),
		PublicKey: d.PublicKey,
		Signature: hex.EncodeToString(sig),
	}, nil
}

func newEdDSA() *cobra.Command {
	var (
		p      payloads.SignEdDSAPayload
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "eddsa",
		Short:   "Sign a raw message with a key derived from an fprv",
		Example: `  mpc-recovery sign eddsa --fprv - --account 0 --message 0xdeadbeef`,
		Args:    cobra.NoArgs,
		RunE: command.RunE(func(_ context.Context, _ config.Config, cmd *cobra.Command, _ []string) error {
			if p.FPRV == "-" {
				var err error
				if p.FPRV, err = command.ReadPassphrase("fprv: ", os.Stdin, os.Stderr); err != nil {
					return err
				}
			}

			res, err := SignMessage(p)
			if err != nil {
				return err
			}
			log.Debug().Str("path", res.Path).Msg("Signed message")

			if asJSON {
				return command.PrintJSON(cmd.OutOrStdout(), res)
			}
			command.PrintTable(cmd.OutOrStdout(), table.Row{"Path", "Public Key", "Signature"},
				[]table.Row{{res.Path, res.PublicKey, res.Signature}})
			return nil
		}),
	}

	fs := cmd.Flags()
	fs.StringVar(&p.FPRV, "fprv", "", "EdDSA extended private key, - to prompt")
	fs.Int64Var(&p.CoinType, "coin-type", solanaCoinType, "BIP44 coin type")
	fs.Int64Var(&p.Account, "account", 0, "vault account")
	fs.Int64Var(&p.Change, "change", 0, "change index")
	fs.Int64Var(&p.AddressIndex, "index", 0, "address index")
	fs.StringVar(&p.Message, "message", "", "hex encoded message")
	fs.BoolVar(&asJSON, command.JSONFlag, false, "print JSON instead of a table")

	return cmd
}
