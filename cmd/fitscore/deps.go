package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/recruiting-platform/internal/config"
	"github.com/jonathan/recruiting-platform/internal/culture"
	"github.com/jonathan/recruiting-platform/internal/fetch"
	"github.com/jonathan/recruiting-platform/internal/fitscore"
	"github.com/jonathan/recruiting-platform/internal/llm"
	"github.com/jonathan/recruiting-platform/internal/observability"
	"github.com/jonathan/recruiting-platform/internal/schemas"
)

// newLLMClient returns nil when the model is disabled or no API key is configured,
// in which case culture fit stays neutral and job parsing uses the regex fallback.
func newLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger, disabled bool) (llm.Client, error) {
	if disabled {
		return nil, nil
	}
	if cfg.LLM.APIKey == "" {
		logger.Info("no LLM API key configured, culture fit will be neutral",
			zap.String("provider", cfg.LLM.Provider),
		)
		return nil, nil
	}

	client, err := llm.NewClient(ctx, cfg.LLMSettings(), cfg.LLM.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	if !cfg.Breaker.Enabled {
		return client, nil
	}
	return llm.NewBreakerClient(client, cfg.BreakerSettings(), logger), nil
}

// newRedisClient returns nil when no cache address is configured.
func newRedisClient(cfg *config.Config) redis.UniversalClient {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// newCultureJudge layers caching over the model judge.
func newCultureJudge(cfg *config.Config, client llm.Client, rdb redis.UniversalClient, logger *zap.Logger) fitscore.CultureJudge {
	if client == nil {
		return nil
	}

	var judge fitscore.CultureJudge = culture.NewLLMJudge(client)
	if rdb != nil && cfg.Scoring.CultureCacheTTL > 0 {
		judge = culture.NewCachedJudge(judge, culture.NewRedisCache(rdb), cfg.Scoring.CultureCacheTTL, logger)
	}
	return judge
}

// newPostingFetcher caches fetched postings in Redis when a client is available.
func newPostingFetcher(cfg *config.Config, rdb redis.UniversalClient, logger *zap.Logger) fetch.Fetcher {
	opts := fetch.DefaultOptions()
	if cfg.Fetch.Timeout > 0 {
		opts.Timeout = cfg.Fetch.Timeout
	}
	if cfg.Fetch.UserAgent != "" {
		opts.UserAgent = cfg.Fetch.UserAgent
	}

	var fetcher fetch.Fetcher = fetch.NewHTTPFetcher(opts)
	if rdb != nil && cfg.Fetch.CacheTTL > 0 {
		fetcher = fetch.NewCachedFetcher(fetcher, culture.NewRedisCache(rdb), cfg.Fetch.CacheTTL, logger)
	}
	return fetcher
}

// newScorer builds the scorer from configuration. metrics may be nil.
func newScorer(cfg *config.Config, judge fitscore.CultureJudge, metrics *observability.Metrics, logger *zap.Logger) (*fitscore.Scorer, error) {
	opts := []fitscore.Option{
		fitscore.WithCultureTimeout(cfg.Scoring.CultureTimeout),
		fitscore.WithJudgmentLimit(cfg.Scoring.MaxConcurrentJudgments),
		fitscore.WithLogger(logger),
	}
	if metrics != nil {
		opts = append(opts, fitscore.WithMetrics(metrics))
	}

	scorer, err := fitscore.NewScorer(judge, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create scorer: %w", err)
	}
	return scorer, nil
}

// pingRedis drops the cache when Redis is unreachable at startup.
func pingRedis(ctx context.Context, rdb redis.UniversalClient, logger *zap.Logger) redis.UniversalClient {
	if rdb == nil {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		_ = rdb.Close()
		return nil
	}
	return rdb
}

// readJSONFile reads path, validates it against the named schema and decodes it into dst.
func readJSONFile(path, schemaName string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := schemas.Validate(schemaName, data); err != nil {
		return fmt.Errorf("invalid %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeOutput validates v against the named schema and writes it as indented JSON,
// to path when set and to the command's stdout otherwise.
func writeOutput(cmd *cobra.Command, path, schemaName string, v any) error {
	if err := schemas.ValidateValue(schemaName, v); err != nil {
		return fmt.Errorf("generated JSON does not validate against schema: %w", err)
	}

	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if path == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(jsonBytes))
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Output: %s\n", path)
	return nil
}
