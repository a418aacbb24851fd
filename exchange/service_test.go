package exchange

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go-currency-converter/domain"
)

type mock struct {
	rates map[domain.Pair]string
	calls int
}

func (m *mock) Rate(_ context.Context, from domain.Currency, to domain.Currency) (domain.Quote, error) {
	m.calls++
	pair := domain.Pair{From: from, To: to}
	rate, ok := m.rates[pair]
	if !ok {
		return domain.Quote{}, domain.ErrUnavailable
	}
	return domain.Quote{From: from, To: to, Rate: decimal.RequireFromString(rate)}, nil
}

func newMock() *mock {
	return &mock{
		rates: map[domain.Pair]string{
			{From: "USD", To: "EUR"}: "0.92",
			{From: "EUR", To: "USD"}: "1.087",
			{From: "GBP", To: "JPY"}: "191.3456",
		},
	}
}

func TestService_Convert(t *testing.T) {
	service := NewService(newMock())

	type args struct {
		amount int64
		from   domain.Currency
		to     domain.Currency
	}
	tests := []struct {
		name      string
		args      args
		rate      string
		converted string
		wantErr   error
	}{
		{"usd -> eur", args{100, "USD", "EUR"}, "0.92", "92", nil},
		{"eur -> usd", args{10, "EUR", "USD"}, "1.087", "10.87", nil},
		{"gbp -> jpy", args{3, "GBP", "JPY"}, "191.3456", "574.037", nil},
		{"zero amount", args{0, "USD", "EUR"}, "0.92", "0", nil},
		{"unknown pair", args{10, "USD", "XYZ"}, "", "", domain.ErrUnavailable},
		{"negative amount", args{-1, "USD", "EUR"}, "", "", domain.ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := service.Convert(context.Background(), big.NewInt(tt.args.amount), tt.args.from, tt.args.to)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "err = %v", err)
				assert.Equal(t, domain.Conversion{}, got)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.args.from, got.From)
			assert.Equal(t, tt.args.to, got.To)
			assert.Equal(t, tt.rate, got.Rate.String())
			assert.Equal(t, tt.converted, got.Converted.String())
			assert.Equal(t, big.NewInt(tt.args.amount), got.Amount)
		})
	}
}

func TestService_ConvertNilAmount(t *testing.T) {
	m := newMock()
	_, err := NewService(m).Convert(context.Background(), nil, "USD", "EUR")

	assert.True(t, errors.Is(err, domain.ErrInvalidAmount))
	assert.Equal(t, 0, m.calls)
}
