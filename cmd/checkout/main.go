package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/noah-isme/checkout-pricing/internal/checkout"
	"github.com/noah-isme/checkout-pricing/internal/config"
	"github.com/noah-isme/checkout-pricing/internal/coupon"
	"github.com/noah-isme/checkout-pricing/internal/obs"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "checkout:", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inPath := fs.String("in", "-", "batch file (YAML or JSON); - reads stdin")
	date := fs.String("date", "", "reference date YYYY-MM-DD for requests without one (default: today in CHECKOUT_TIMEZONE; built-in DESC20 expires 2025-12-31)")
	metricsFile := fs.String("metrics-file", "", "write Prometheus text metrics to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := obs.NewLogger(stderr, cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if cfg.TracingEnabled {
		shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
			ServiceName:   "checkout-pricing",
			Endpoint:      cfg.OTLPEndpoint,
			Exporter:      cfg.TracingExporter,
			SamplingRatio: cfg.SamplingRatio,
			Environment:   cfg.AppEnv,
		})
		if err != nil {
			logger.Error().Err(err).Msg("initialise tracing")
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Error().Err(err).Msg("shutdown tracer")
				}
			}()
		}
	}

	registry := coupon.Default()
	if cfg.CouponsFile != "" {
		registry, err = coupon.LoadFile(cfg.CouponsFile, registry)
		if err != nil {
			return err
		}
		logger.Info().Str("file", cfg.CouponsFile).Int("coupons", registry.Len()).Msg("coupon registry loaded")
	}

	today := cfg.Today(time.Now())
	if *date != "" {
		today, err = time.Parse("2006-01-02", *date)
		if err != nil {
			return fmt.Errorf("-date: %w", err)
		}
	}

	batch, err := readBatch(*inPath, stdin)
	if err != nil {
		return err
	}

	promReg := prometheus.NewRegistry()
	svc := checkout.NewService(checkout.ServiceConfig{
		Coupons: registry,
		Logger:  &logger,
		Metrics: obs.NewCheckoutMetrics(cfg.MetricsNamespace, promReg),
	})

	start := time.Now()
	results, err := svc.PriceBatch(ctx, batch.Requests, today, cfg.Workers)
	if err != nil {
		return err
	}
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	logger.Info().
		Int("requests", len(results)).
		Int("failed", failed).
		Dur("elapsed", time.Since(start)).
		Msg("batch priced")

	if *metricsFile != "" {
		if err := obs.WriteTextfile(*metricsFile, promReg); err != nil {
			return err
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"data": results})
}

func readBatch(path string, stdin io.Reader) (checkout.BatchInput, error) {
	if path == "-" || path == "" {
		return checkout.DecodeBatch(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return checkout.BatchInput{}, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()
	return checkout.DecodeBatch(f)
}
