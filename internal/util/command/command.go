package command

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/SafeMPC/mpc-recovery/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func NewSubcommandGroup(name string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <subcommand>", name),
		Short: fmt.Sprintf("%s related subcommands", name),
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}

// SetupLogger 按配置设置全局 zerolog
func SetupLogger(cfg config.LoggerConfig) {
	zerolog.SetGlobalLevel(cfg.Level)
	log.Logger = log.Logger.Level(cfg.Level)
	if cfg.PrettyPrintConsole {
		log.Logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.Out = os.Stderr
			w.TimeFormat = "15:04:05"
		})).Level(cfg.Level)
	}
}

// WithConfig runs f with a logger configured from cfg and a context cancelled on SIGINT/SIGTERM.
func WithConfig(ctx context.Context, cfg config.Config, f func(ctx context.Context, cfg config.Config) error) error {
	SetupLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return f(ctx, cfg)
}

// ReadPassphrase 终端下不回显读取口令，否则从 in 读取一行
func ReadPassphrase(prompt string, in *os.File, out io.Writer) (string, error) {
	fd := in.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		fmt.Fprint(out, prompt)
		defer fmt.Fprintln(out)
		pass, err := term.ReadPassword(int(fd)) //nolint:gosec
		if err != nil {
			return "", errors.Wrap(err, "failed to read passphrase")
		}
		return string(pass), nil
	}
	return ReadLine(in)
}

// ReadLine reads one line and strips the trailing newline.
// 逐字节读取，不越过换行符，同一个 stdin 可以连续读取多个口令
func ReadLine(r io.Reader) (string, error) {
	var line []byte
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n == 1 {
			if buf[0] == '\n' {
				break
			}
			line = append(line, buf[0])
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(line) > 0 {
				break
			}
			return "", errors.Wrap(err, "failed to read passphrase")
		}
	}
	return strings.TrimRight(string(line), "\r"), nil
}
