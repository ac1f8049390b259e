package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"bookingagg/internal/analyzer"
	"bookingagg/internal/config"
	"bookingagg/internal/events"
	"bookingagg/internal/ics"
	"bookingagg/internal/input"
	"bookingagg/internal/metrics"
	"bookingagg/internal/models"
	"bookingagg/internal/report"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("BOOKINGAGG_CONFIG_PATH"))
	if err != nil {
		fallback := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		fallback.Fatal().Err(err).Msg("failed to load config")
	}

	runID := uuid.NewString()
	logger := newLogger(cfg, os.Stderr).With().Str("run_id", runID).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bus := events.NewEventBus()
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics("bookingagg", reg)
	m.Subscribe(bus)

	if cfg.Monitoring.PrometheusEnabled {
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, reg, &logger)
	}

	bookings, err := collect(ctx, cfg, bus, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("collect bookings")
	}

	rep := analyzer.Analyze(bookings, cfg.ReportMonth(), cfg.Report.Year)
	m.ObserveReport(rep)
	logger.Info().
		Int("bookings", rep.Bookings).
		Int("merged", len(rep.Merged)).
		Int("booked_days", analyzer.BookedDays(rep.Merged)).
		Msg("analysis completed")

	if err := report.Render(os.Stdout, rep); err != nil {
		logger.Fatal().Err(err).Msg("render report")
	}

	if cfg.Export.Dir != "" && rep.Bookings > 0 {
		path, err := export(cfg.Export.Dir, rep, report.Meta{RunID: runID, GeneratedAt: time.Now()})
		if err != nil {
			logger.Fatal().Err(err).Msg("export report")
		}
		logger.Info().Str("path", path).Msg("report exported")
	}
}

func newLogger(cfg *config.Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.Logging.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// collect reads bookings from the configured ICS file, or interactively from stdin.
func collect(ctx context.Context, cfg *config.Config, bus *events.EventBus, logger *zerolog.Logger) ([]models.Booking, error) {
	if cfg.Input.ICSPath == "" {
		c := input.NewCollector(cfg.Report.Year, cfg.Input.Sentinel, os.Stdout, bus, logger)
		return c.Collect(ctx, os.Stdin)
	}

	f, err := os.Open(cfg.Input.ICSPath)
	if err != nil {
		return nil, fmt.Errorf("open ics: %w", err)
	}
	defer f.Close()

	from, to := cfg.ReportWindow()
	bookings, err := ics.NewImporter(cfg.Input.MaxOccurrences, logger).Import(f, from, to)
	if err != nil {
		return nil, err
	}
	for _, b := range bookings {
		if err := bus.Publish(events.Event{Type: events.BookingAccepted, Source: "ics", Booking: b}); err != nil {
			logger.Warn().Err(err).Msg("event handler failed")
		}
	}
	return bookings, nil
}

func export(dir string, rep analyzer.Report, meta report.Meta) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	wb, err := report.Export(rep, meta)
	if err != nil {
		return "", err
	}
	defer wb.Close()

	path := filepath.Join(dir, report.GenerateFilename(rep.Month, rep.Year))
	if err := wb.SaveToFile(path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

func startMetricsServer(ctx context.Context, port int, reg *prometheus.Registry, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
