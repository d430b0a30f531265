package derive

import (
	"os"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/mpc/chain"
	"github.com/SafeMPC/mpc-recovery/internal/types/payloads"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/go-openapi/swag"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	assetFlag    = "asset"
	xprvFlag     = "xprv"
	xpubFlag     = "xpub"
	fprvFlag     = "fprv"
	fpubFlag     = "fpub"
	coinTypeFlag = "coin-type"
	accountFlag  = "account"
	changeFlag   = "change"
	indexFlag    = "index"
	testnetFlag  = "testnet"
	legacyFlag   = "legacy"

	// 私钥参数为 "-" 时从终端读取
	promptValue = "-"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("derive",
		newWallet(),
		newRange(),
		newPubs(),
	)
}

type walletFlags struct {
	payload  payloads.DeriveWalletPayload
	coinType int64
	json     bool
}

func (f *walletFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.payload.AssetID, assetFlag, "", "asset id, e.g. BTC, ETH_TEST5, SOL")
	fs.StringVar(&f.payload.XPRV, xprvFlag, "", "ECDSA extended private key, - to prompt")
	fs.StringVar(&f.payload.XPUB, xpubFlag, "", "ECDSA extended public key")
	fs.StringVar(&f.payload.FPRV, fprvFlag, "", "EdDSA extended private key, - to prompt")
	fs.StringVar(&f.payload.FPUB, fpubFlag, "", "EdDSA extended public key")
	fs.Int64Var(&f.coinType, coinTypeFlag, 0, "override the BIP44 coin type")
	fs.Int64Var(&f.payload.Account, accountFlag, 0, "vault account")
	fs.Int64Var(&f.payload.Change, changeFlag, 0, "change index")
	fs.Int64Var(&f.payload.AddressIndex, indexFlag, 0, "address index")
	fs.BoolVar(&f.payload.IsTestnet, testnetFlag, false, "use testnet encoding and coin type 1")
	fs.BoolVar(&f.payload.IsLegacy, legacyFlag, false, "use legacy (P2PKH) addresses where supported")
	fs.BoolVar(&f.json, command.JSONFlag, false, "print JSON instead of a table")
}

func (f *walletFlags) build(cmd *cobra.Command, cfg config.Config) (payloads.DeriveWalletPayload, error) {
	p := f.payload
	fs := cmd.Flags()
	if fs.Changed(coinTypeFlag) {
		p.CoinType = swag.Int64(f.coinType)
	}
	if !fs.Changed(testnetFlag) {
		p.IsTestnet = cfg.Derive.IsTestnet
	}
	if !fs.Changed(legacyFlag) {
		p.IsLegacy = cfg.Derive.IsLegacy
	}

	var err error
	if p.XPRV, err = promptSecret(p.XPRV, "xprv: "); err != nil {
		return p, err
	}
	if p.FPRV, err = promptSecret(p.FPRV, "fprv: "); err != nil {
		return p, err
	}
	return p, nil
}

func promptSecret(value, prompt string) (string, error) {
	if value != promptValue {
		return value, nil
	}
	return command.ReadPassphrase(prompt, os.Stdin, os.Stderr)
}

func printWallets(cmd *cobra.Command, wallets []*chain.Wallet, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		return command.PrintJSON(out, &payloads.WalletResponse{Wallets: wallets})
	}

	withPrivate := false
	for _, w := range wallets {
		if w.PrivateKey != "" {
			withPrivate = true
			break
		}
	}

	header := table.Row{"Asset", "Path", "Address", "Type", "Public Key"}
	if withPrivate {
		header = append(header, "Private Key", "WIF")
	}
	rows := make([]table.Row, 0, len(wallets))
	for _, w := range wallets {
		row := table.Row{w.AssetID, w.Path.String(), w.Address, w.Type, w.PublicKey}
		if withPrivate {
			row = append(row, w.PrivateKey, w.WIF)
		}
		rows = append(rows, row)
	}
	command.PrintTable(out, header, rows)
	return nil
}

func validationError(err error) error {
	return errors.Wrap(err, "invalid arguments")
}
