package exchange

import (
	"context"
	"math/big"
	"time"

	"github.com/go-kit/log"
	"go-currency-converter/domain"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Convert(ctx context.Context, amount *big.Int, from domain.Currency, to domain.Currency) (ex domain.Conversion, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount,
			"from", from,
			"to", to,
			"rate", ex.Rate,
			"converted_amount", ex.Converted,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(ctx, amount, from, to)
}
