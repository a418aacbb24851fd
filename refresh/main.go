// Command refresh rebuilds the currency dataset from the rate provider's currency list.
// Run it when the provider adds or drops currencies, then rebuild the binaries to bundle it.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/go-kit/log/level"
	"go-currency-converter/bootstrap"
	"go-currency-converter/catalog"
	"go-currency-converter/config"
	"go-currency-converter/currconv"
)

func main() {
	out := flag.String("out", "catalog/data/currencies.json", "dataset to write")
	flag.Parse()

	logger := bootstrap.Logger(false)

	cfg, err := config.Load()
	if err != nil {
		level.Error(logger).Log("msg", "loading config", "err", err)
		os.Exit(1)
	}

	client, err := currconv.NewClient(cfg.Client())
	if err != nil {
		level.Error(logger).Log("msg", "building rate client", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	listings, err := client.Currencies(ctx)
	if err != nil {
		level.Error(logger).Log("msg", "listing currencies", "err", err)
		os.Exit(1)
	}

	c, err := catalog.WriteFile(*out, listings, catalog.ISORegistry{})
	if err != nil {
		level.Error(logger).Log("msg", "writing dataset", "path", *out, "err", err)
		os.Exit(1)
	}

	level.Info(logger).Log("msg", "dataset written", "path", *out, "listed", len(listings), "usable", c.Len(), "skipped", len(c.Skipped()))
}
