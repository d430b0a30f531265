package command

import (
	"context"
	"os"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	ConfigFlag   = "config"
	LogLevelFlag = "log-level"
	PrettyFlag   = "pretty"
	JSONFlag     = "json"

	dotEnvFile = ".env"
)

// AddRootFlags 注册所有子命令共享的 persistent flags
func AddRootFlags(root *cobra.Command) {
	root.PersistentFlags().String(ConfigFlag, "", "config file (yaml, toml or json)")
	root.PersistentFlags().String(LogLevelFlag, "", "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().Bool(PrettyFlag, false, "human readable console logs")
}

// LoadConfig merges defaults, .env, MPC_RECOVERY_* env, the --config file and root flags.
func LoadConfig(cmd *cobra.Command) (config.Config, error) {
	config.DotEnvTryLoad(dotEnvFile, os.Setenv)

	v := config.NewViper()
	for key, name := range map[string]string{"logger.level": LogLevelFlag, "logger.pretty": PrettyFlag} {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return config.Config{}, errors.Wrapf(err, "failed to bind --%s", name)
			}
		}
	}

	var configFile string
	if f := cmd.Flags().Lookup(ConfigFlag); f != nil {
		configFile = f.Value.String()
	}
	return config.Load(v, configFile)
}

// RunE adapts f into a cobra RunE that loads the config and sets up logging first.
func RunE(f func(ctx context.Context, cfg config.Config, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		return WithConfig(ctx, cfg, func(ctx context.Context, cfg config.Config) error {
			return f(ctx, cfg, cmd, args)
		})
	}
}
