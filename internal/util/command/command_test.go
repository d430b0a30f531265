package command_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/SafeMPC/mpc-recovery/internal/util/command"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithConfig(t *testing.T) {
	cfg := config.DefaultConfigFromEnv()
	cfg.Logger.Level = zerolog.WarnLevel
	cfg.Logger.PrettyPrintConsole = false

	var testError = errors.New("test error")

	resultErr := command.WithConfig(t.Context(), cfg, func(ctx context.Context, c config.Config) error {
		assert.NoError(t, ctx.Err())
		assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
		assert.Equal(t, cfg.Derive.Workers, c.Derive.Workers)
		return testError
	})

	assert.Equal(t, testError, resultErr)
}

func TestNewSubcommandGroup(t *testing.T) {
	var ran bool
	child := &cobra.Command{Use: "child", Run: func(*cobra.Command, []string) { ran = true }}
	group := command.NewSubcommandGroup("group", child)

	assert.Equal(t, "group <subcommand>", group.Use)
	group.SetArgs([]string{"child"})
	require.NoError(t, group.Execute())
	assert.True(t, ran)
}

func TestReadPassphraseFromPipe(t *testing.T) {
	file := filepath.Join(t.TempDir(), "pass")
	require.NoError(t, os.WriteFile(file, []byte("Thefireblocks1!\r\nignored\n"), 0o600))
	f, err := os.Open(file)
	require.NoError(t, err)
	defer f.Close()

	var out strings.Builder
	pass, err := command.ReadPassphrase("Passphrase: ", f, &out)
	require.NoError(t, err)
	assert.Equal(t, "Thefireblocks1!", pass)
	assert.Empty(t, out.String())
}

func TestReadLine(t *testing.T) {
	line, err := command.ReadLine(strings.NewReader("no newline"))
	require.NoError(t, err)
	assert.Equal(t, "no newline", line)

	_, err = command.ReadLine(strings.NewReader(""))
	assert.Error(t, err)
}

func TestReadPassphraseSequentialFromPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	defer r.Close()

	_, err = w.Write([]byte("rsa-pass\nmobile-pass\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	var out strings.Builder
	first, err := command.ReadPassphrase("RSA key passphrase: ", r, &out)
	require.NoError(t, err)
	assert.Equal(t, "rsa-pass", first)

	second, err := command.ReadPassphrase("Mobile passphrase: ", r, &out)
	require.NoError(t, err)
	assert.Equal(t, "mobile-pass", second)

	_, err = command.ReadPassphrase("Extra: ", r, &out)
	assert.Error(t, err)
}
