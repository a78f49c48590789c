// Package bootstrap assembles the runtime dependencies shared by the CLI and
// the API server from a shared.Config.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"feedback_analyzer/internal/adapters/observability"
	redisad "feedback_analyzer/internal/adapters/redis"
	"feedback_analyzer/internal/adapters/remote"
	"feedback_analyzer/internal/app"
	"feedback_analyzer/internal/domain"
	"feedback_analyzer/internal/lexicon"
	"feedback_analyzer/internal/shared"
)

// Logger installs the global logger writing to w, with the level from cfg.
func Logger(w io.Writer, cfg shared.Config) {
	log.Logger = observability.NewLoggerTo(w, cfg.AppEnv)
	observability.SetLevel(cfg.LogLevel)
}

// Oracle returns the configured sentiment oracle, wrapped in the Redis score
// cache when REDIS_ADDR is set and reachable. The returned func releases
// any connection it opened.
func Oracle(ctx context.Context, cfg shared.Config) (domain.SentimentOracle, func(), error) {
	var (
		o   domain.SentimentOracle
		id  string
		err error
	)
	switch cfg.Oracle {
	case shared.OracleRemote:
		o, err = remote.New(cfg.OracleURL, cfg.OracleRPS)
		if err != nil {
			return nil, nil, fmt.Errorf("remote oracle: %w", err)
		}
		id = "remote:" + cfg.OracleURL
	default:
		o = lexicon.New()
		id = shared.OracleLexicon
	}
	log.Info().Str("oracle", cfg.Oracle).Msg("sentiment oracle ready")

	if cfg.RedisAddr == "" {
		return o, func() {}, nil
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := cache.Ping(pctx); err != nil {
		// the cache is an optimisation; run without it
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable; score cache disabled")
		_ = cache.Close()
		return o, func() {}, nil
	}
	log.Info().Str("addr", cfg.RedisAddr).Dur("ttl", cfg.CacheTTL()).Msg("score cache enabled")
	return app.NewCachedOracle(o, id, cache, cfg.CacheTTL()), func() { _ = cache.Close() }, nil
}
