// Command wordpipe scores vocabulary difficulty, assigns words to calendar
// dates and runs the daily assignment scheduler.
//
// Configuration is read from CONFIG_PATH (default ./config.yaml) and the
// environment. An optional .env file is loaded first.
//
// Exit codes: 0 = success, 1 = error, 2 = invalid arguments.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/heartmarshall/wordpipe/internal/app"
	"github.com/heartmarshall/wordpipe/internal/config"
	"github.com/heartmarshall/wordpipe/internal/domain"
	"github.com/heartmarshall/wordpipe/pkg/ctxutil"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(exitCode(err))
	}
}

// cli carries the state shared by every subcommand.
type cli struct {
	envFile string
	cfg     *config.Config
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "wordpipe",
		Short:         "Word difficulty scoring and daily assignment pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := ctxutil.WithRunID(cmd.Context(), uuid.New())
			cmd.SetContext(ctxutil.WithCommand(ctx, cmd.Name()))
			return loadEnv(c.envFile)
		},
	}
	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before the configuration")

	root.AddCommand(
		newImportCmd(c),
		newScoreCmd(c),
		newAssignCmd(c),
		newAnsweredCmd(c),
		newInspectCmd(c),
		newStateCmd(c),
		newScheduleCmd(c),
		newMigrateCmd(c),
		newVersionCmd(),
	)
	return root
}

// loadEnv loads a dotenv file. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c *cli) config() (*config.Config, *slog.Logger, error) {
	if c.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, nil, err
		}
		c.cfg = cfg
		c.log = app.NewLogger(cfg.Log)
	}
	return c.cfg, c.log, nil
}

// app loads the configuration and wires the application. Callers must Close it.
func (c *cli) app(ctx context.Context) (*app.App, error) {
	cfg, logger, err := c.config()
	if err != nil {
		return nil, err
	}
	return app.New(ctx, cfg, logger)
}

// usageError marks an invalid flag combination.
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func exitCode(err error) int {
	var ue usageError
	if errors.As(err, &ue) || errors.Is(err, domain.ErrValidation) {
		return 2
	}
	return 1
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
