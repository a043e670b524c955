package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/stakedlearn/stakedlearn/api"
	"github.com/stakedlearn/stakedlearn/app"
	"github.com/stakedlearn/stakedlearn/app/health"
	"github.com/stakedlearn/stakedlearn/app/telemetry"
	"github.com/stakedlearn/stakedlearn/indexer"
)

// StartCmd returns the command that runs the node: block producer, HTTP API
// and health endpoints.
func StartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the node",
		Long: `Run the node. The genesis file is applied on first start; afterwards the node
resumes from the last committed height.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			home, err := homeDir(cmd)
			if err != nil {
				return err
			}
			cfg, err := LoadConfig(home, cmd.Flags())
			if err != nil {
				return err
			}
			logger, err := NewLogger(cmd.OutOrStdout(), cfg.LogLevel, cfg.LogFormat)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runNode(ctx, logger, home, cfg)
		},
	}

	cmd.Flags().String(flagChainID, "", "override the configured chain-id")
	cmd.Flags().String(flagAdmin, "", "override the configured platform admin")
	cmd.Flags().String(flagLogLevel, "", "log level (debug|info|warn|error)")
	cmd.Flags().String(flagLogFormat, "", "log format (json|plain)")
	cmd.Flags().String(flagAPIPort, "", "override the configured API port")

	return cmd
}

// runNode serves until ctx is done.
func runNode(ctx context.Context, logger log.Logger, home string, cfg Config) error {
	cfg.Telemetry.ChainID = cfg.Node.ChainID
	cfg.Telemetry.Version = Version
	provider, err := telemetry.NewProvider(cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	runtime, err := openApp(ctx, logger, home, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := runtime.Close(); err != nil {
			logger.Error("failed to close runtime", "error", err)
		}
	}()

	if !runtime.Initialized() {
		genesis, err := app.LoadGenesisFile(genesisFilePath(home))
		if err != nil {
			return err
		}
		if err := runtime.InitChain(ctx, genesis); err != nil {
			return err
		}
		logger.Info("genesis applied", "chain_id", genesis.ChainID, "accounts", len(genesis.Balances))
	}

	cfg.Health.Version = Version
	checker, err := health.NewChecker(logger, cfg.Health, runtime)
	if err != nil {
		return err
	}
	server, err := api.NewServer(logger, runtime, &cfg.API, checker.Handler())
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return runtime.Run(gctx) })
	g.Go(func() error { return server.Start(gctx) })

	logger.Info("node started", "chain_id", runtime.ChainID(), "height", runtime.Height(), "home", home)
	return g.Wait()
}

// openApp opens the database and indexer of home and builds the runtime on them.
func openApp(ctx context.Context, logger log.Logger, home string, cfg Config) (*app.App, error) {
	sink, err := openSink(ctx, logger, cfg.Indexer)
	if err != nil {
		return nil, err
	}

	db, err := openDB(home, cfg.DBBackend)
	if err != nil {
		if sink != nil {
			_ = sink.Close()
		}
		return nil, err
	}

	runtime, err := app.New(logger, db, cfg.Node, sink)
	if err != nil {
		_ = db.Close()
		if sink != nil {
			_ = sink.Close()
		}
		return nil, err
	}
	return runtime, nil
}

func openDB(home, backend string) (dbm.DB, error) {
	dir := filepath.Join(home, dataDir)
	if backend != string(dbm.MemDBBackend) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	db, err := dbm.NewDB("application", dbm.BackendType(backend), dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	return db, nil
}

func openSink(ctx context.Context, logger log.Logger, cfg IndexerConfig) (indexer.Sink, error) {
	switch cfg.Backend {
	case IndexerNone, "":
		return nil, nil
	case IndexerMemory:
		return indexer.NewMemorySink(cfg.MemoryLimit), nil
	case IndexerPostgres:
		pg, err := indexer.NewPostgresSink(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		logger.Info("indexing receipts to postgres")
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown indexer backend %q", cfg.Backend)
	}
}
