package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, cfg.Logger.Level)
	assert.GreaterOrEqual(t, cfg.Derive.Workers, 1)
	assert.False(t, cfg.Recovery.RecoverPrivate)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "recovery.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
logger:
  level: debug
derive:
  workers: 3
  testnet: true
recovery:
  rsa_key: /keys/priv.pem
`), 0o600))

	t.Setenv("MPC_RECOVERY_RECOVERY_RECOVER_PRIVATE", "true")
	t.Setenv("MPC_RECOVERY_DERIVE_WORKERS", "5")

	cfg, err := config.Load(config.NewViper(), file)
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, cfg.Logger.Level)
	assert.Equal(t, 5, cfg.Derive.Workers)
	assert.True(t, cfg.Derive.IsTestnet)
	assert.Equal(t, "/keys/priv.pem", cfg.Recovery.RSAKeyPath)
	assert.True(t, cfg.Recovery.RecoverPrivate)
}

func TestLoadErrors(t *testing.T) {
	_, err := config.Load(config.NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	t.Setenv("MPC_RECOVERY_LOGGER_LEVEL", "loud")
	_, err = config.Load(config.NewViper(), "")
	assert.Error(t, err)
}

func TestDotEnvLoad(t *testing.T) {
	file := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(file, []byte("MPC_RECOVERY_LOGGER_LEVEL=warn\nOTHER=\"quoted value\"\n"), 0o600))

	got := map[string]string{}
	require.NoError(t, config.DotEnvLoad(file, func(k, v string) error {
		got[k] = v
		return nil
	}))
	assert.Equal(t, map[string]string{"MPC_RECOVERY_LOGGER_LEVEL": "warn", "OTHER": "quoted value"}, got)

	assert.Error(t, config.DotEnvLoad(filepath.Join(t.TempDir(), "none"), os.Setenv))

	// 文件不存在时静默跳过
	config.DotEnvTryLoad(filepath.Join(t.TempDir(), "none"), func(string, string) error {
		t.Fatal("unexpected set")
		return nil
	})
}
