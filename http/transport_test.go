package http

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-currency-converter/catalog"
	"go-currency-converter/domain"
	"go-currency-converter/exchange"
)

type mock struct {
	t      *testing.T
	amount *big.Int
	from   domain.Currency
	to     domain.Currency
	err    error
}

func (m *mock) Convert(_ context.Context, amount *big.Int, from domain.Currency, to domain.Currency) (domain.Conversion, error) {
	assert.Equal(m.t, m.amount, amount, "amount")
	assert.Equal(m.t, m.from, from, "from")
	assert.Equal(m.t, m.to, to, "to")
	if m.err != nil {
		return domain.Conversion{}, m.err
	}
	rate := decimal.RequireFromString("0.92")
	return domain.Conversion{
		From:      from,
		To:        to,
		Amount:    amount,
		Rate:      rate,
		Converted: exchange.Convert(amount, rate),
	}, nil
}

func testCatalog(t *testing.T) *catalog.Catalog {
	c, err := catalog.Load([]byte(`{
		"USD": {"id": "USD", "currencyName": "US Dollar"},
		"EUR": {"id": "EUR", "currencyName": "Euro"}
	}`), catalog.StaticRegistry{"USD", "EUR"})
	require.NoError(t, err)
	return c
}

func post(server http.Handler, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/convert", strings.NewReader(body))
	server.ServeHTTP(w, r)
	return w
}

func TestServer_Convert(t *testing.T) {
	es := mock{
		t:      t,
		amount: big.NewInt(100),
		from:   "USD",
		to:     "EUR",
	}

	server := NewServer(&es, testCatalog(t), log.NewNopLogger())

	for _, msg := range []string{
		`{"from":"US Dollar", "to":"Euro", "amount":"100"}`,
		`{"from":"USD", "to":"EUR", "amount":100}`,
	} {
		w := post(server, msg)

		assert.Equal(t, 200, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Equal(t, `{"from":"USD","to":"EUR","rate":"0.92","amount":"100","converted":"92.00"}`, strings.TrimSpace(w.Body.String()))
	}
}

func TestServer_ConvertBadRequest(t *testing.T) {
	server := NewServer(&mock{t: t}, testCatalog(t), log.NewNopLogger())

	tests := []struct {
		name string
		body string
		want string
	}{
		{"invalid json", `{"from":`, `{"error":"invalid json"}`},
		{"unknown from", `{"from":"Bitcoin","to":"EUR","amount":"1"}`, `{"error":"unknown 'from' currency"}`},
		{"unknown to", `{"from":"USD","to":"XYZ","amount":"1"}`, `{"error":"unknown 'to' currency"}`},
		{"missing amount", `{"from":"USD","to":"EUR"}`, `{"error":"amount must be a whole, non-negative number"}`},
		{"fractional amount", `{"from":"USD","to":"EUR","amount":1.5}`, `{"error":"amount must be a whole, non-negative number"}`},
		{"negative amount", `{"from":"USD","to":"EUR","amount":"-1"}`, `{"error":"amount must be a whole, non-negative number"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := post(server, tt.body)

			assert.Equal(t, 400, w.Code)
			assert.Equal(t, tt.want, strings.TrimSpace(w.Body.String()))
		})
	}
}

func TestServer_ConvertOversizedBody(t *testing.T) {
	server := NewServer(&mock{t: t}, testCatalog(t), log.NewNopLogger())

	body := `{"from":"USD","to":"EUR","amount":"` + strings.Repeat("9", 1<<17) + `"}`
	w := post(server, body)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, `{"error":"invalid json"}`, strings.TrimSpace(w.Body.String()))
}

func TestServer_ConvertUnavailable(t *testing.T) {
	es := mock{
		t:      t,
		amount: big.NewInt(5),
		from:   "USD",
		to:     "EUR",
		err:    fmt.Errorf("convert: %w", domain.ErrUnavailable),
	}
	server := NewServer(&es, testCatalog(t), log.NewNopLogger())

	w := post(server, `{"from":"USD","to":"EUR","amount":"5"}`)

	assert.Equal(t, 503, w.Code)
	assert.Equal(t, `{"error":"exchange rate unavailable, check your connection"}`, strings.TrimSpace(w.Body.String()))
}

func TestServer_ConvertFailure(t *testing.T) {
	es := mock{
		t:      t,
		amount: big.NewInt(5),
		from:   "USD",
		to:     "EUR",
		err:    fmt.Errorf("boom"),
	}
	server := NewServer(&es, testCatalog(t), log.NewNopLogger())

	w := post(server, `{"from":"USD","to":"EUR","amount":"5"}`)

	assert.Equal(t, 500, w.Code)
}

func TestServer_Currencies(t *testing.T) {
	server := NewServer(&mock{t: t}, testCatalog(t), log.NewNopLogger())

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/api/currencies", nil))

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, `{"currencies":[{"code":"EUR","name":"Euro"},{"code":"USD","name":"US Dollar"}]}`, strings.TrimSpace(w.Body.String()))
}

func TestServer_MethodNotAllowed(t *testing.T) {
	server := NewServer(&mock{t: t}, testCatalog(t), log.NewNopLogger())

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest("GET", "/api/convert", nil))

	assert.Equal(t, 405, w.Code)
}
