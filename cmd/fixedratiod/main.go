package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fixedratio/internal/config"
	"fixedratio/internal/engine"
	"fixedratio/internal/ledger"
	"fixedratio/internal/server"
	"fixedratio/internal/storage"
	"fixedratio/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "fixedratiod",
		Short:        "Fixed-ratio exchange settlement daemon",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the settlement engine with the query API",
		RunE:  runServe,
	}

	serveCmd.Flags().String("listen", ":8080", "query API listen address")
	serveCmd.Flags().String("authority", "", "system authority key (hex)")
	serveCmd.Flags().String("journal", "./data/journal.jsonl", "operation journal JSONL path")
	serveCmd.Flags().Bool("journal-enabled", true, "enable the operation journal")
	serveCmd.Flags().String("pg-dsn", "", "Postgres DSN for snapshot mirroring")
	serveCmd.Flags().Duration("snapshot-interval", 30*time.Second, "snapshot mirroring interval")
	serveCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(serveCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var journal engine.Journal
	if cfg.JournalEnabled {
		journal = storage.NewJsonlJournal(cfg.JournalPath)
	}

	eng := engine.New(engine.Config{
		Authority: common.HexToHash(cfg.Authority),
		Journal:   journal,
	}, ledger.NewMemory(), logger)

	if cfg.PostgresDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer store.Close()
		go mirrorSnapshots(ctx, eng, store, cfg.SnapshotInterval, logger)
	}

	logger.Info("engine start",
		zap.String("listen", cfg.ListenAddr),
		zap.Bool("journal_enabled", cfg.JournalEnabled),
		zap.Bool("pg_mirroring", cfg.PostgresDSN != ""),
	)

	return server.New(eng, logger).Run(ctx, cfg.ListenAddr)
}

// mirrorSnapshots periodically copies engine state into Postgres. Failures
// are logged and retried on the next tick; the engine never waits on it.
func mirrorSnapshots(ctx context.Context, eng *engine.Engine, store *postgres.Store, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := store.UpsertPools(ctx, eng.SnapshotPools()); err != nil {
			logger.Warn("mirror pools", zap.Error(err))
			continue
		}
		if err := store.UpsertActions(ctx, eng.SnapshotActions()); err != nil {
			logger.Warn("mirror actions", zap.Error(err))
			continue
		}
		if err := store.UpsertTreasury(ctx, eng.SnapshotTreasury()); err != nil {
			logger.Warn("mirror treasury", zap.Error(err))
			continue
		}
		if err := store.UpsertSystemState(ctx, eng.SnapshotSystem()); err != nil {
			logger.Warn("mirror system state", zap.Error(err))
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
