package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tharanics/kiranakart-backend/internal/arrivals"
	"github.com/tharanics/kiranakart-backend/pkg/config"
	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "orderwatch"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "orderwatch",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	counter, err := newAPICounter(cfg.Arrivals.APIBaseURL, cfg.Arrivals.APIToken)
	if err != nil {
		logg.Error(context.Background(), "failed to configure arrivals counter", err)
		os.Exit(1)
	}

	arrivalMetrics := metrics.NewArrivalMetrics(prometheus.DefaultRegisterer)
	tracker, err := arrivals.NewTracker(counter, terminalNotifier{}, arrivalMetrics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create arrivals tracker", err)
		os.Exit(1)
	}
	tracker.SetSound(cfg.Arrivals.SoundEnabled)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":           cfg.App.Env,
		"poll_interval": cfg.Arrivals.PollInterval.String(),
	})

	if cfg.Arrivals.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.Arrivals.MetricsAddr, logg)
	}

	if err := tracker.Init(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "initial pending count unavailable, will prime on first poll")
	}

	logg.Info(ctx, "starting order watch")

	ticker := time.NewTicker(cfg.Arrivals.PollInterval)
	defer ticker.Stop()
	tracker.Run(ctx, ticker.C)

	logg.Info(ctx, "order watch shutting down gracefully")
}

func serveMetrics(ctx context.Context, addr string, logg *logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "metrics server stopped unexpectedly", err)
	}
}
