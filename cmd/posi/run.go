package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/ngothanh/posi/pkg/config"
	"github.com/ngothanh/posi/pkg/ratelimit"
	"github.com/ngothanh/posi/pkg/ratelimit/logstore"
	"github.com/ngothanh/posi/pkg/server"
	"github.com/ngothanh/posi/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Posi server",
	Long: `Start the Posi server with the specified configuration.

The server registers the configured limiter algorithms, starts the permit-log
janitor, and serves admission decisions over HTTP.

Examples:
  # Start with default config
  posi run

  # Start with custom config
  posi run --config /etc/posi/config.yaml

  # Override listen address
  posi run --listen 0.0.0.0:8080

  # Validate config without starting the server
  posi run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "watch the config file and reload on change")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	// A .env file is optional; absent is not an error.
	_ = godotenv.Load()

	cfg, err := config.LoadWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Setup(cfg.Telemetry.Logging)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	rate, err := ratelimit.NewRate(cfg.Limiter.PermitNum, cfg.Limiter.Window)
	if err != nil {
		return fmt.Errorf("invalid limiter configuration: %w", err)
	}

	capacity := cfg.Limiter.LogCapacity
	if capacity == 0 {
		capacity = rate.PermitNum()
	}

	var store logstore.Store
	switch cfg.Limiter.Store.Backend {
	case "sqlite":
		sqliteStore, err := logstore.NewSQLiteStore(logstore.SQLiteConfig{
			Path:     cfg.Limiter.Store.SQLitePath,
			Capacity: capacity,
			Window:   rate.Window(),
		})
		if err != nil {
			return fmt.Errorf("failed to open permit store: %w", err)
		}
		defer func() {
			if err := sqliteStore.Close(); err != nil {
				slog.Error("failed to close permit store", "error", err)
			}
		}()
		store = sqliteStore
	default:
		store = logstore.NewMemoryStore(capacity)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	janitor := logstore.NewJanitor(store, rate.Window(), cfg.Limiter.Store.PruneSchedule)
	if err := janitor.Start(ctx); err != nil {
		return fmt.Errorf("failed to start janitor: %w", err)
	}
	defer janitor.Stop()

	registry := prometheus.NewRegistry()
	metrics := ratelimit.NewMetrics(registry)

	factory, err := buildFactory(cfg, rate, store, metrics, logger)
	if err != nil {
		return err
	}

	gate, err := factory.Get(ratelimit.Algorithm(cfg.Limiter.Algorithms[0]))
	if err != nil {
		return fmt.Errorf("failed to resolve gate limiter: %w", err)
	}

	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, 0)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx, func() error { return reloadConfig(cfgFile) }); err != nil {
				slog.Error("config watcher stopped", "error", err)
			}
		}()
	}

	printBanner(cfg, rate)

	srv := server.New(cfg, factory, gate, rate, registry)
	return srv.Start(ctx)
}

// buildFactory registers one limiter per configured algorithm, each wrapped
// with metrics and logging decorators.
func buildFactory(cfg *config.Config, rate ratelimit.Rate, store logstore.Store, metrics *ratelimit.Metrics, logger *slog.Logger) (*ratelimit.Factory, error) {
	limiters := make([]ratelimit.RateLimiter, 0, len(cfg.Limiter.Algorithms))

	for _, name := range cfg.Limiter.Algorithms {
		var limiter ratelimit.RateLimiter
		switch ratelimit.Algorithm(name) {
		case ratelimit.AlgorithmSlidingWindowLog:
			limiter = ratelimit.NewSlidingWindowLog(rate, store)
		case ratelimit.AlgorithmFixedWindow:
			limiter = ratelimit.NewFixedWindow(rate)
		case ratelimit.AlgorithmTokenBucket:
			limiter = ratelimit.NewTokenBucket(rate)
		default:
			return nil, fmt.Errorf("unknown algorithm %q", name)
		}

		limiter = ratelimit.WithMetrics(limiter, metrics)
		limiter = ratelimit.WithLogging(limiter, logger)
		limiters = append(limiters, limiter)
	}

	return ratelimit.NewFactory(limiters...), nil
}

// reloadConfig re-reads and validates the config file after a change.
// Logging settings take effect immediately; limiter and server settings need
// a restart, which is logged rather than silently ignored.
func reloadConfig(path string) error {
	cfg, err := config.LoadWithEnvOverrides(path)
	if err != nil {
		return err
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging); err != nil {
		return err
	}

	slog.Info("configuration reloaded",
		"note", "limiter and server changes take effect on restart",
	)
	return nil
}

func printBanner(cfg *config.Config, rate ratelimit.Rate) {
	fmt.Printf("Posi v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")
	fmt.Printf("✓ Rate: %s across %d algorithm(s)\n", rate.String(), len(cfg.Limiter.Algorithms))
	fmt.Printf("✓ Permit store: %s\n", cfg.Limiter.Store.Backend)
	fmt.Printf("✓ Listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")
}
