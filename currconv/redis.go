package currconv

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go-currency-converter/domain"
)

// DialRedis connects to redis and checks the connection
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redis url: %v", domain.ErrConfig, err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// redisCachingService decorates a currconv.Service with a cache shared through redis,
// so several converter processes reuse each other's quotes.
// Redis failures are logged and never fail a lookup.
type redisCachingService struct {
	next   Service
	client *redis.Client
	ttl    time.Duration
	logger log.Logger
}

// NewRedisCachingService returns a new Service caching quotes in redis for ttl
func NewRedisCachingService(client *redis.Client, ttl time.Duration, logger log.Logger, s Service) Service {
	return &redisCachingService{
		next:   s,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// cacheKey e.g. rate:usd_eur
func cacheKey(pair domain.Pair) string {
	return "rate:" + strings.ToLower(pair.String())
}

func (s *redisCachingService) Rate(ctx context.Context, from domain.Currency, to domain.Currency) (domain.Quote, error) {
	pair := domain.Pair{From: from, To: to}
	key := cacheKey(pair)

	cached, err := s.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		rate, err := decimal.NewFromString(cached)
		if err == nil && rate.IsPositive() {
			s.logger.Log("msg", "cache hit", "key", key)
			return domain.Quote{From: from, To: to, Rate: rate}, nil
		}
		s.logger.Log("msg", "discarding bad cached rate", "key", key, "value", cached)
	case errors.Is(err, redis.Nil):
	default:
		s.logger.Log("msg", "redis get failed", "key", key, "err", err)
	}

	quote, err := s.next.Rate(ctx, from, to)
	if err != nil {
		return domain.Quote{}, err
	}

	if err := s.client.Set(ctx, key, quote.Rate.String(), s.ttl).Err(); err != nil {
		s.logger.Log("msg", "redis set failed", "key", key, "err", err)
	}
	return quote, nil
}
