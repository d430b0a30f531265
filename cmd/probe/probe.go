package probe

import (
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/spf13/cobra"
)

const (
	verboseFlag string = "verbose"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newVectors(),
	)
}
