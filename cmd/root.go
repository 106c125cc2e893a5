package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/bnema/bbscapade/internal/adapters/config"
	"github.com/bnema/bbscapade/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// skipConfig marks commands that run without loading config.toml.
const skipConfig = "bbscapade/skip-config"

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(defaultDeps())
}

// cli is the state shared by the root command and its subcommands.
type cli struct {
	deps      deps
	configDir string
	cfg       config.Config
	logger    *zap.Logger
}

func newRootCmdWith(d deps) *cobra.Command {
	c := &cli{deps: d, logger: zap.NewNop()}

	rootCmd := &cobra.Command{
		Use:           "bbs",
		Short:         "BBScapade: dial into a freshly generated 1990s bulletin board",
		Long:          "bbs connects you to a randomly generated dial-up bulletin board system with message boards, file archives, door games and a chat with the resident SysOp. Content is generated with Gemini and falls back to a local archive when the line is noisy.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return c.load()
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			_ = c.logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConnect(cmd, c)
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.configDir, "config-dir", "", "Directory holding config.toml and the log file (default ~/.bbscapade)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(c),
		newProfileCmd(c),
	)

	return rootCmd
}

// load reads .env, config.toml and the environment, then opens the log file.
func (c *cli) load() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	cfg, err := config.Load(viper.New(), c.configDir)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return err
	}

	c.cfg = cfg
	c.logger = logger
	c.logger.Debug("configuration loaded",
		zap.String("file", cfg.File),
		zap.String("model", cfg.Model),
		zap.Int("max_retries", cfg.Fetch.MaxRetries))
	return nil
}
