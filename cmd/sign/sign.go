package sign

import (
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("sign",
		newEdDSA(),
	)
}
