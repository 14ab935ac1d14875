package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alejandrodnm/polyreward/config"
	"github.com/alejandrodnm/polyreward/internal/adapters/httpapi"
	"github.com/alejandrodnm/polyreward/internal/adapters/notify"
	"github.com/alejandrodnm/polyreward/internal/adapters/polymarket"
	"github.com/alejandrodnm/polyreward/internal/application/rewards"
	"github.com/alejandrodnm/polyreward/internal/domain"
	"github.com/alejandrodnm/polyreward/internal/instrumentation"
)

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", opts.configPath)
		os.Exit(1)
	}

	opts.apply(cfg)
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "err", err)
		os.Exit(1)
	}
	if opts.output != notify.FormatText && opts.output != notify.FormatJSON {
		slog.Error("invalid output format", "output", opts.output)
		os.Exit(1)
	}

	slog.Info("polyreward starting",
		"config", opts.configPath,
		"event", cfg.Event.Slug,
		"market_index", cfg.Event.MarketIndex,
		"interval", cfg.WatchInterval(),
		"serve", cfg.Server.Addr,
	)

	estimator, err := domain.NewEstimator(cfg.Estimator.CapitalUSD, cfg.Estimator.Bands)
	if err != nil {
		slog.Error("failed to build estimator", "err", err)
		os.Exit(1)
	}

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase,
		polymarket.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}))
	notifier := notify.NewConsole(opts.output)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := instrumentation.NewMetrics(registry)

	svc := rewards.New(
		rewards.Config{
			EventSlug:   cfg.Event.Slug,
			MarketIndex: cfg.Event.MarketIndex,
			Interval:    cfg.WatchInterval(),
			Workers:     cfg.Estimator.Workers,
		},
		client, client, estimator, notifier,
		rewards.WithMetrics(metrics),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var srv *http.Server
	if cfg.Server.Addr != "" {
		srv = httpapi.NewServer(cfg.Server.Addr, httpapi.NewRouter(svc, registry, cfg.Server.AllowedOrigins))
		go func() {
			slog.Info("http server listening", "addr", cfg.Server.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("http server failed", "err", err)
				cancel()
			}
		}()
	}

	runErr := svc.Run(ctx)

	// con servidor y sin watch, mantener /api/v1/report vivo hasta la señal
	if srv != nil && cfg.WatchInterval() == 0 && runErr == nil {
		<-ctx.Done()
	}
	if srv != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("http server shutdown", "err", err)
		}
	}

	if runErr != nil {
		slog.Error("estimator exited with error", "err", runErr)
		os.Exit(1)
	}

	slog.Info("polyreward stopped cleanly")
}

// setupLogger escribe a stderr para no mezclar logs con el reporte en stdout.
func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
