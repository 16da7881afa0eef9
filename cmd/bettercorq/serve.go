package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"bettercorq/config"
	"bettercorq/internal/adapters/eventsource"
	"bettercorq/internal/adapters/extraction"
	delivery "bettercorq/internal/delivery/http"
	"bettercorq/internal/delivery/http/controllers"
	"bettercorq/internal/delivery/http/middleware"
	"bettercorq/internal/domain"
	"bettercorq/internal/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
}

// app holds the wired services of one process.
type app struct {
	cfg          *config.Config
	logger       *slog.Logger
	stores       *stores
	sources      []domain.EventSource
	availability domain.AvailabilityService
	events       domain.EventService
}

// newApp loads the stores and wires the services shared by every subcommand.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, sourceSpecs []string) (*app, error) {
	gridCfg, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.ExtractionTimeout}
	var extractor domain.Extractor
	if cfg.ExtractionAPIKey != "" || cfg.ExtractionURL != "" {
		extractor = extraction.NewHTTPExtractor(httpClient, extraction.Config{
			URL:         cfg.ExtractionURL,
			APIKey:      cfg.ExtractionAPIKey,
			Model:       cfg.ExtractionModel,
			Timeout:     cfg.ExtractionTimeout,
			Granularity: gridCfg.Granularity,
			DayStart:    gridCfg.DayStart,
			DayEnd:      gridCfg.DayEnd,
		}, logger)
	} else {
		logger.Warn("no extraction service configured; uploads will fail")
	}

	sources, err := buildSources(sourceSpecs, gridCfg.Location)
	if err != nil {
		_ = st.close()
		return nil, err
	}

	avail := services.NewAvailabilityService(st.records, extractor, gridCfg, logger, cfg.ContextTimeout)
	events := services.NewEventService(st.events, sources, st.records, avail, gridCfg, cfg.MatchTolerance, logger, cfg.ContextTimeout)
	return &app{cfg: cfg, logger: logger, stores: st, sources: sources, availability: avail, events: events}, nil
}

func buildSources(specs []string, loc *time.Location) ([]domain.EventSource, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	sources := make([]domain.EventSource, 0, len(specs))
	for _, spec := range specs {
		src, err := eventsource.New(spec, client, loc)
		if err != nil {
			return nil, fmt.Errorf("event source %q: %w", spec, err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, config.NewLogger(cfg.Environment, cfg.LogLevel, os.Stdout), nil
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, cfg.EventSources)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.stores.close(); err != nil {
			logger.Error("failed to close store", "err", err)
		}
	}()

	scheduler, err := a.startRefresh(ctx)
	if err != nil {
		return err
	}
	if scheduler != nil {
		defer func() { <-scheduler.Stop().Done() }()
	}

	router := delivery.NewRouter(
		controllers.NewAvailabilityController(logger, a.availability),
		controllers.NewEventController(logger, a.events),
	)
	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSAllowedOrigins, router))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// startRefresh loads the catalog once and schedules reloads on EVENT_REFRESH_CRON. It
// returns nil when no sources are configured.
func (a *app) startRefresh(ctx context.Context) (*cron.Cron, error) {
	if len(a.cfg.EventSources) == 0 {
		a.logger.Warn("no event sources configured; the catalog stays as stored")
		return nil, nil
	}
	refresh := func() {
		if _, err := a.events.RefreshCatalog(ctx); err != nil {
			a.logger.Error("catalog refresh failed", "err", err)
		}
	}
	refresh()

	if a.cfg.EventRefreshCron == "" {
		return nil, nil
	}
	cl := cronLogger{logger: a.logger}
	scheduler := cron.New(
		cron.WithLocation(a.location()),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	if _, err := scheduler.AddFunc(a.cfg.EventRefreshCron, refresh); err != nil {
		return nil, fmt.Errorf("EVENT_REFRESH_CRON: %w", err)
	}
	scheduler.Start()
	a.logger.Info("catalog refresh scheduled", "spec", a.cfg.EventRefreshCron)
	return scheduler, nil
}

func (a *app) location() *time.Location {
	loc, err := a.cfg.Location()
	if err != nil {
		return time.Local
	}
	return loc
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
