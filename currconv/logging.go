package currconv

import (
	"context"
	"time"

	"github.com/go-kit/log"
	"go-currency-converter/domain"
)

// loggingService decorates a currconv.Service with logging
type loggingService struct {
	next   Service
	logger log.Logger
}

// NewLoggingService return a new logging service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Rate(ctx context.Context, from domain.Currency, to domain.Currency) (quote domain.Quote, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "rate",
			"from", from,
			"to", to,
			"rate", quote.Rate,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Rate(ctx, from, to)
}
