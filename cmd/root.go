package cmd

import (
	"fmt"
	"os"

	"github.com/SafeMPC/mpc-recovery/cmd/derive"
	"github.com/SafeMPC/mpc-recovery/cmd/probe"
	"github.com/SafeMPC/mpc-recovery/cmd/recovery"
	"github.com/SafeMPC/mpc-recovery/cmd/sign"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mpc-recovery",
	Short: "Offline MPC vault key recovery and HD wallet derivation",
	Long: `Offline MPC vault key recovery and HD wallet derivation.

Reconstructs xprv/fprv from a backup kit, recovers the non-custodial wallet master and
derives per-chain addresses and keys without any network access.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	command.AddRootFlags(rootCmd)
	rootCmd.AddCommand(
		derive.New(),
		recovery.New(),
		sign.New(),
		probe.New(),
	)
}
