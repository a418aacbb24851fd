package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-currency-converter/bootstrap"
	"go-currency-converter/config"
	"go-currency-converter/console"
	"go-currency-converter/exchange"
)

func main() {
	debug := flag.Bool("debug", false, "log debug lines")
	flag.Parse()

	logger := bootstrap.Logger(*debug)

	cfg, err := config.Load()
	if err != nil {
		level.Error(logger).Log("msg", "loading config", "err", err)
		os.Exit(1)
	}

	currencies, err := bootstrap.Catalog(cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "loading currencies", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rates, closer, err := bootstrap.Rates(ctx, cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "building rate client", "err", err)
		os.Exit(1)
	}
	defer closer.Close()

	session := exchange.NewSession(rates, log.With(logger, "component", "session"))
	if err := console.New(currencies, session, logger).Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		level.Error(logger).Log("msg", "reading input", "err", err)
		os.Exit(1)
	}
}
