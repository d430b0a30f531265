package config

import (
	"os"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

const EnvPrefix = "MPC_RECOVERY"

type LoggerConfig struct {
	Level              zerolog.Level
	PrettyPrintConsole bool
}

type DeriveConfig struct {
	Workers   int  `mapstructure:"workers"`
	IsTestnet bool `mapstructure:"testnet"`
	IsLegacy  bool `mapstructure:"legacy"`
}

type RecoveryConfig struct {
	RSAKeyPath       string `mapstructure:"rsa_key"`
	MobileRSAKeyPath string `mapstructure:"mobile_rsa_key"`
	RecoverPrivate   bool   `mapstructure:"recover_private"`
}

// Config 命令行工具的全部配置
type Config struct {
	Logger   LoggerConfig
	Derive   DeriveConfig
	Recovery RecoveryConfig
}

type rawConfig struct {
	Logger struct {
		Level  string `mapstructure:"level"`
		Pretty bool   `mapstructure:"pretty"`
	} `mapstructure:"logger"`
	Derive   DeriveConfig   `mapstructure:"derive"`
	Recovery RecoveryConfig `mapstructure:"recovery"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logger.level", zerolog.InfoLevel.String())
	v.SetDefault("logger.pretty", isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()))
	v.SetDefault("derive.workers", runtime.NumCPU())
	v.SetDefault("derive.testnet", false)
	v.SetDefault("derive.legacy", false)
	v.SetDefault("recovery.rsa_key", "")
	v.SetDefault("recovery.mobile_rsa_key", "")
	v.SetDefault("recovery.recover_private", false)
}

// NewViper returns a viper instance with defaults and MPC_RECOVERY_* env binding.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load 读取可选的配置文件，环境变量优先于文件
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrapf(err, "failed to read config file %s", configFile)
		}
	}

	var raw rawConfig
	if err := v.Unmarshal(&raw); err != nil {
		return Config{}, errors.Wrap(err, "failed to decode config")
	}

	level, err := zerolog.ParseLevel(raw.Logger.Level)
	if err != nil {
		return Config{}, errors.Wrapf(err, "invalid log level %q", raw.Logger.Level)
	}
	if raw.Derive.Workers < 1 {
		raw.Derive.Workers = 1
	}

	return Config{
		Logger: LoggerConfig{
			Level:              level,
			PrettyPrintConsole: raw.Logger.Pretty,
		},
		Derive:   raw.Derive,
		Recovery: raw.Recovery,
	}, nil
}

// DefaultConfigFromEnv 只使用默认值和环境变量
func DefaultConfigFromEnv() Config {
	cfg, err := Load(NewViper(), "")
	if err != nil {
		panic(err)
	}
	return cfg
}
