package exchange

import (
	"context"
	"fmt"
	"math/big"

	"go-currency-converter/currconv"
	"go-currency-converter/domain"
)

// Service interface for converting from one currency to another
type Service interface {
	Convert(ctx context.Context, amount *big.Int, from domain.Currency, to domain.Currency) (domain.Conversion, error)
}

// service converts with freshly looked up rates
type service struct {
	// rates to look up exchange rates
	rates currconv.Service
}

// NewService constructs a valid Service
func NewService(s currconv.Service) Service {
	return &service{
		rates: s,
	}
}

// Convert computes a conversion from one currency to another with the current exchange rate.
// A rate that cannot be determined is reported as domain.ErrUnavailable.
func (s *service) Convert(ctx context.Context, amount *big.Int, from domain.Currency, to domain.Currency) (domain.Conversion, error) {
	if err := checkAmount(amount); err != nil {
		return domain.Conversion{}, err
	}

	quote, err := s.rates.Rate(ctx, from, to)
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("convert [%v -> %v]: %w", from, to, err)
	}

	return conversion(amount, quote), nil
}

func checkAmount(amount *big.Int) error {
	if amount == nil {
		return fmt.Errorf("%w: missing", domain.ErrInvalidAmount)
	}
	if amount.Sign() < 0 {
		return fmt.Errorf("%w: negative amount %v", domain.ErrInvalidAmount, amount)
	}
	return nil
}

func conversion(amount *big.Int, quote domain.Quote) domain.Conversion {
	return domain.Conversion{
		From:      quote.From,
		To:        quote.To,
		Amount:    new(big.Int).Set(amount),
		Rate:      quote.Rate,
		Converted: Convert(amount, quote.Rate),
	}
}
