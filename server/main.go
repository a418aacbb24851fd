package main

import (
	"context"
	"errors"
	"flag"
	nhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go-currency-converter/bootstrap"
	"go-currency-converter/config"
	"go-currency-converter/exchange"
	"go-currency-converter/http"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rates, closer, err := bootstrap.Rates(ctx, cfg, logger)
	if err != nil {
		level.Error(logger).Log("msg", "building rate client", "err", err)
		os.Exit(1)
	}
	defer closer.Close()

	convertService := exchange.NewService(rates)
	convertService = exchange.NewLoggingService(log.With(logger, "component", "convert"), convertService)

	handler := http.NewServer(convertService, currencies, log.With(logger, "component", "http"))
	server := &nhttp.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	level.Info(logger).Log("msg", "listening", "addr", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nhttp.ErrServerClosed) {
		level.Error(logger).Log("msg", "serving", "err", err)
		os.Exit(1)
	}
}
