package currconv

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go-currency-converter/domain"
)

// cachingService decorates a currconv.Service with a short-lived cache of quotes keyed by pair.
// Failed lookups are not cached. The cachingService is concurrency safe.
type cachingService struct {
	// next the service being decorated with a cache
	next Service

	// cache of quotes, entries expire after the configured ttl
	cache *expirable.LRU[domain.Pair, domain.Quote]

	logger log.Logger
}

// NewCachingService returns a new caching Service holding at most size pairs for ttl each.
func NewCachingService(ttl time.Duration, size int, logger log.Logger, s Service) Service {
	return &cachingService{
		next:   s,
		cache:  expirable.NewLRU[domain.Pair, domain.Quote](size, nil, ttl),
		logger: logger,
	}
}

// Rate returns a cached quote for the pair or looks it up and caches the result
func (s *cachingService) Rate(ctx context.Context, from domain.Currency, to domain.Currency) (domain.Quote, error) {
	pair := domain.Pair{From: from, To: to}

	if quote, ok := s.cache.Get(pair); ok {
		s.logger.Log("msg", "cache hit", "pair", pair)
		return quote, nil
	}

	quote, err := s.next.Rate(ctx, from, to)
	if err != nil {
		return domain.Quote{}, err
	}

	s.cache.Add(pair, quote)
	return quote, nil
}
