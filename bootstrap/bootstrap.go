package bootstrap

import (
	"context"
	"io"
	"os"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-currency-converter/catalog"
	"go-currency-converter/config"
	"go-currency-converter/currconv"
)

// Logger logfmt to stderr, debug lines filtered out unless debug is set
func Logger(debug bool) log.Logger {
	w := log.NewSyncWriter(os.Stderr)
	logger := log.NewLogfmtLogger(w)
	logger = log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
	if debug {
		return level.NewFilter(logger, level.AllowDebug())
	}
	return level.NewFilter(logger, level.AllowInfo())
}

// Catalog loads the configured dataset, or the bundled one
func Catalog(cfg *config.Config, logger log.Logger) (*catalog.Catalog, error) {
	var (
		c   *catalog.Catalog
		err error
	)
	if cfg.CurrenciesFile != "" {
		c, err = catalog.LoadFile(cfg.CurrenciesFile)
	} else {
		c, err = catalog.LoadBundled()
	}
	if err != nil {
		return nil, err
	}
	level.Info(logger).Log("msg", "loaded currencies", "count", c.Len(), "skipped", len(c.Skipped()))
	return c, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Rates composes the rate lookup chain: REST client, logging, optional redis and in-memory caches.
// The returned Closer releases the redis connection, if any.
func Rates(ctx context.Context, cfg *config.Config, logger log.Logger) (currconv.Service, io.Closer, error) {
	client, err := currconv.NewClient(cfg.Client())
	if err != nil {
		return nil, nil, err
	}

	var rates currconv.Service = client
	rates = currconv.NewLoggingService(log.With(logger, "component", "currconv_rest"), rates)

	var closer io.Closer = nopCloser{}
	if cfg.RedisURL != "" && cfg.RateCacheTTL > 0 {
		redisClient, err := currconv.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		closer = redisClient
		rates = currconv.NewRedisCachingService(redisClient, cfg.RateCacheTTL, log.With(logger, "component", "currconv_redis"), rates)
	}

	if cfg.RateCacheTTL > 0 {
		rates = currconv.NewCachingService(cfg.RateCacheTTL, cfg.RateCacheSize, log.With(logger, "component", "currconv_cache"), rates)
		rates = currconv.NewLoggingService(log.With(logger, "component", "currconv_cache"), rates)
	}

	return rates, closer, nil
}
