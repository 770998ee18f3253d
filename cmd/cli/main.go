package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/portledger/internal/app"
	"github.com/iho/portledger/internal/infrastructure/config"
	"github.com/iho/portledger/internal/infrastructure/logger"
)

// appLoader opens the ledger the commands run against.
type appLoader func(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app.App, error)

func connectApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app.App, error) {
	return app.Connect(ctx, cfg, nil, log)
}

// cli carries the state shared by every command of one invocation.
type cli struct {
	load   appLoader
	cfg    *config.Config
	log    zerolog.Logger
	app    *app.App
	asJSON bool

	databaseURL string
	redisURL    string
	logLevel    string
}

func main() {
	if err := newRootCmd(connectApp).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(load appLoader) *cobra.Command {
	c := &cli{load: load}

	rootCmd := &cobra.Command{
		Use:           "portledger",
		Short:         "Portfolio transaction ledger",
		Long:          `Import brokerage transactions into the portfolio ledger and inspect what was recorded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.app != nil {
				c.app.Close()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&c.databaseURL, "database-url", "", "Postgres URL (overrides DATABASE_URL)")
	rootCmd.PersistentFlags().StringVar(&c.redisURL, "redis-url", "", "Redis URL (overrides REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print results as JSON")

	rootCmd.AddCommand(
		c.migrateCmd(),
		c.importCmd(),
		c.addCmd(),
		c.portfolioCmd(),
		c.txnCmd(),
		c.batchCmd(),
	)

	return rootCmd
}

func (c *cli) setup(stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	if c.databaseURL != "" {
		cfg.DatabaseURL = c.databaseURL
	}
	if c.redisURL != "" {
		cfg.RedisURL = c.redisURL
	}
	if c.logLevel != "" {
		cfg.LogLevel = c.logLevel
	}

	c.cfg = cfg
	c.log = logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: "console",
		Output: stderr,
	})

	return nil
}

// services opens the ledger on first use.
func (c *cli) services(ctx context.Context) (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}

	a, err := c.load(ctx, c.cfg, c.log)
	if err != nil {
		return nil, err
	}
	c.app = a

	return a, nil
}
