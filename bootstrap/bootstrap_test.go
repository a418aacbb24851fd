package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-currency-converter/config"
	"go-currency-converter/domain"
)

func provider(t *testing.T, count *int32) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, req *http.Request) {
		atomic.AddInt32(count, 1)
		assert.Equal(t, "USD_EUR", req.URL.Query().Get("q"))
		_, _ = rw.Write([]byte(`{"USD_EUR": 0.92}`))
	}))
	t.Cleanup(server.Close)
	return server
}

func testConfig(url string, ttl time.Duration) *config.Config {
	return &config.Config{
		APIKey:        "secret",
		BaseURL:       url,
		HTTPTimeout:   time.Second,
		RateCacheTTL:  ttl,
		RateCacheSize: 16,
	}
}

func TestRates_CacheTTL(t *testing.T) {
	tests := []struct {
		name  string
		ttl   time.Duration
		calls int32
	}{
		{"caching disabled", 0, 2},
		{"caching enabled", time.Minute, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var count int32
			server := provider(t, &count)

			rates, closer, err := Rates(context.Background(), testConfig(server.URL, tt.ttl), log.NewNopLogger())
			require.NoError(t, err)
			defer closer.Close()

			for i := 0; i < 2; i++ {
				quote, err := rates.Rate(context.Background(), "USD", "EUR")
				require.NoError(t, err)
				assert.Equal(t, "0.92", quote.Rate.String())
			}
			assert.Equal(t, tt.calls, atomic.LoadInt32(&count))
		})
	}
}

func TestRates_Redis(t *testing.T) {
	var count int32
	server := provider(t, &count)

	// an unparseable url only fails when the redis layer is dialled
	cfg := testConfig(server.URL, 0)
	cfg.RedisURL = "not a redis url"

	rates, closer, err := Rates(context.Background(), cfg, log.NewNopLogger())
	require.NoError(t, err)
	assert.NotNil(t, rates)
	assert.NoError(t, closer.Close())

	cfg.RateCacheTTL = time.Minute
	_, _, err = Rates(context.Background(), cfg, log.NewNopLogger())
	assert.True(t, errors.Is(err, domain.ErrConfig))
	assert.Equal(t, int32(0), atomic.LoadInt32(&count))
}

func TestRates_MissingKey(t *testing.T) {
	cfg := testConfig("http://localhost", time.Minute)
	cfg.APIKey = ""

	_, _, err := Rates(context.Background(), cfg, log.NewNopLogger())
	assert.True(t, errors.Is(err, domain.ErrConfig))
}
