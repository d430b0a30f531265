package recovery

import (
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	zipFlag            = "zip"
	rsaKeyFlag         = "rsa-key"
	askRSAPassFlag     = "ask-rsa-passphrase"
	mobileRSAKeyFlag   = "mobile-rsa-key"
	recoverPrivateFlag = "recover-private"
	onlyNCWFlag        = "only-ncw"
	outFlag            = "out"
	resultFlag         = "result"
	walletIDFlag       = "wallet-id"
	algorithmFlag      = "algorithm"
)

func New() *cobra.Command {
	cmd := command.NewSubcommandGroup("recover",
		newKit(),
		newNCW(),
	)
	cmd.Aliases = []string{"recovery"}
	return cmd
}
