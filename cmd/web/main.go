package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/myrjola/fitrec/internal/advisor"
	"github.com/myrjola/fitrec/internal/catalog"
	"github.com/myrjola/fitrec/internal/envstruct"
	"github.com/myrjola/fitrec/internal/errors"
	"github.com/myrjola/fitrec/internal/logging"
	"github.com/myrjola/fitrec/internal/pattern"
)

type application struct {
	logger         *slog.Logger
	advisor        *advisor.Service
	requestTimeout time.Duration
}

type config struct {
	// Addr is the address to listen on. It's possible to choose the address dynamically with localhost:0.
	Addr string `env:"FITREC_ADDR" envDefault:"localhost:8080"`
	// HistoryPath is the CSV dataset or SQLite history store recommendations are mined from.
	HistoryPath string `env:"FITREC_HISTORY_PATH" envDefault:"data_workout_final.csv"`
	// CatalogPath is the YAML workout catalog. The built-in catalog is used when it cannot be loaded.
	CatalogPath string `env:"FITREC_CATALOG_PATH" envDefault:"workouts.yaml"`
	// RequestTimeout bounds the time spent on a single request.
	RequestTimeout time.Duration `env:"FITREC_REQUEST_TIMEOUT" envDefault:"2s"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "populate config")
	}

	svc, err := loadAdvisor(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "load advisor")
	}

	app := application{
		logger:         logger,
		advisor:        svc,
		requestTimeout: cfg.RequestTimeout,
	}

	if err = app.configureAndStartServer(ctx, cfg.Addr); err != nil {
		return errors.Wrap(err, "start server")
	}
	return nil
}

// loadAdvisor reads the catalog and the history concurrently. Both fall back instead of failing, so only an
// interrupted startup is an error.
func loadAdvisor(ctx context.Context, cfg config, logger *slog.Logger) (*advisor.Service, error) {
	var (
		c        *catalog.Catalog
		patterns pattern.Patterns
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c = catalog.LoadOrDefault(gctx, cfg.CatalogPath, logger)
		return gctx.Err()
	})
	g.Go(func() error {
		patterns = advisor.LoadPatterns(gctx, cfg.HistoryPath, logger)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "wait for startup loaders")
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "loaded advisor",
		slog.Int("workouts", c.Len()), slog.Bool("data_available", patterns != nil))
	return advisor.New(c, patterns, logger), nil
}

func main() {
	ctx := context.Background()
	bootLogger := logging.NewLogger(os.Stdout, slog.LevelInfo, nil)

	envFile, ok := os.LookupEnv("FITREC_ENV_FILE")
	if !ok {
		envFile = ".env"
	}
	lookupEnv, err := envstruct.WithDotenv(os.LookupEnv, envFile)
	if err != nil {
		bootLogger.LogAttrs(ctx, slog.LevelError, "failure reading environment", errors.SlogError(err))
		os.Exit(1)
	}

	level, _ := lookupEnv("FITREC_LOG_LEVEL")
	logger := logging.NewLogger(os.Stdout, logging.ParseLevel(level), nil)
	if err = run(ctx, logger, lookupEnv); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "failure starting application", errors.SlogError(err))
		os.Exit(1)
	}
}
