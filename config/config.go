package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"go-currency-converter/currconv"
	"go-currency-converter/domain"
)

// Config holds application configuration.
type Config struct {
	// APIKey for the rate provider, from CURRCONV_API_KEY or the file named by CURRCONV_API_KEY_FILE
	APIKey  string
	BaseURL string

	HTTPTimeout  time.Duration
	FetchRetries int

	// RateCacheTTL how long fetched rates are reused; zero disables caching
	RateCacheTTL  time.Duration
	RateCacheSize int

	// RedisURL optional shared rate cache
	RedisURL string

	ListenAddr string

	// CurrenciesFile dataset on disk; empty means the bundled dataset
	CurrenciesFile string
}

// Load loads configuration from environment variables and a .env file if present.
// A missing API key is a domain.ErrConfig.
func Load() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("CURRCONV_API_KEY", "")
	v.SetDefault("CURRCONV_API_KEY_FILE", "")
	v.SetDefault("CURRCONV_BASE_URL", currconv.DefaultBaseURL)
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("FETCH_RETRIES", 2)
	v.SetDefault("RATE_CACHE_TTL", "1m")
	v.SetDefault("RATE_CACHE_SIZE", 256)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("CURRENCIES_FILE", "")
	v.AutomaticEnv()

	cfg := &Config{
		APIKey:         v.GetString("CURRCONV_API_KEY"),
		BaseURL:        v.GetString("CURRCONV_BASE_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		ListenAddr:     v.GetString("LISTEN_ADDR"),
		CurrenciesFile: v.GetString("CURRENCIES_FILE"),
	}

	var err error
	if cfg.HTTPTimeout, err = duration(v, "HTTP_TIMEOUT"); err != nil {
		return nil, err
	}
	if cfg.RateCacheTTL, err = duration(v, "RATE_CACHE_TTL"); err != nil {
		return nil, err
	}
	if cfg.FetchRetries, err = integer(v, "FETCH_RETRIES"); err != nil {
		return nil, err
	}
	if cfg.RateCacheSize, err = integer(v, "RATE_CACHE_SIZE"); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		if path := v.GetString("CURRCONV_API_KEY_FILE"); path != "" {
			if cfg.APIKey, err = ReadKeyFile(path); err != nil {
				return nil, err
			}
		}
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: CURRCONV_API_KEY or CURRCONV_API_KEY_FILE must be set", domain.ErrConfig)
	}

	return cfg, nil
}

func duration(v *viper.Viper, key string) (time.Duration, error) {
	d, err := time.ParseDuration(v.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %v", domain.ErrConfig, key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", domain.ErrConfig, key)
	}
	return d, nil
}

func integer(v *viper.Viper, key string) (int, error) {
	n, err := cast.ToIntE(v.Get(key))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %v", domain.ErrConfig, key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s must not be negative", domain.ErrConfig, key)
	}
	return n, nil
}

// ReadKeyFile reads an API key from a JSON file of the form {"API_Key": "..."}
func ReadKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: reading key file: %v", domain.ErrConfig, err)
	}

	var file struct {
		Key string `json:"API_Key"`
	}
	if err := json.Unmarshal(data, &file); err != nil {
		return "", fmt.Errorf("%w: decoding key file %s: %v", domain.ErrConfig, path, err)
	}
	if file.Key == "" {
		return "", fmt.Errorf("%w: key file %s has no API_Key", domain.ErrConfig, path)
	}
	return file.Key, nil
}

// Client the rate provider client configuration
func (c *Config) Client() currconv.Config {
	return currconv.Config{
		BaseURL: c.BaseURL,
		APIKey:  c.APIKey,
		Timeout: c.HTTPTimeout,
		Retries: c.FetchRetries,
	}
}
