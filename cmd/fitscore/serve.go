package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/db"
	"github.com/jonathan/recruiting-platform/internal/observability"
	"github.com/jonathan/recruiting-platform/internal/parsing"
	"github.com/jonathan/recruiting-platform/internal/ranking"
	"github.com/jonathan/recruiting-platform/internal/server"
)

var (
	servePort    int
	serveMigrate bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes organizations, jobs, candidates, fit scoring and ranking over REST.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Apply the database schema on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := appConfig
	logger := appLogger

	if servePort > 0 {
		cfg.Server.Port = servePort
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database URL is required (set FITSCORE_DATABASE_URL or database.url)")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database.URL, db.PoolOptions{
		MaxConns:        cfg.Database.MaxConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if serveMigrate {
		if err := database.ApplySchema(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	client, err := newLLMClient(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	rdb := pingRedis(ctx, newRedisClient(cfg), logger)
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
	}

	metrics := observability.NewMetrics()
	scorer, err := newScorer(cfg, newCultureJudge(cfg, client, rdb, logger), metrics, logger)
	if err != nil {
		return err
	}
	ranker := ranking.NewRanker(scorer,
		ranking.WithWorkers(cfg.Ranking.Workers),
		ranking.WithLogger(logger),
		ranking.WithObserver(metrics),
	)

	srv, err := server.New(server.Config{
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		RateLimit:    cfg.RateLimitSettings(),
	}, database, scorer,
		server.WithLogger(logger),
		server.WithMetrics(metrics),
		server.WithRanker(ranker),
		server.WithJobParser(parsing.NewJobParser(client, logger)),
	)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info("starting fitscore API",
		zap.String("addr", cfg.Addr()),
		zap.Bool("culture_judge", client != nil),
		zap.Bool("culture_cache", rdb != nil),
	)
	return srv.Start(ctx)
}
