// Package app wires configuration, services, transport and the HTTP
// server together.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/zengjun200211-svg/douyindata/internal/chart"
	"github.com/zengjun200211-svg/douyindata/internal/config"
	"github.com/zengjun200211-svg/douyindata/internal/dataset"
	custommiddleware "github.com/zengjun200211-svg/douyindata/internal/middleware"
	"github.com/zengjun200211-svg/douyindata/internal/report"
	"github.com/zengjun200211-svg/douyindata/internal/services"
	handlers "github.com/zengjun200211-svg/douyindata/internal/transport/http"
	ws "github.com/zengjun200211-svg/douyindata/internal/websocket"
)

// Application is the assembled server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router *chi.Mux
	Server *http.Server
	Hub    *ws.Hub
}

// New loads configuration and builds the full dependency graph.
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := NewLogger(cfg.Logging)
	slog.SetDefault(logger)

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	// Document serialization needs the unioffice key registered up front;
	// failing here beats failing at the end of a generation run.
	if err := report.InitLicense(cfg.License.UnidocKey); err != nil {
		return nil, err
	}

	renderer, err := chart.NewRenderer(chart.Style{
		FontFile:              cfg.Chart.FontFile,
		Palette:               cfg.Chart.Palette,
		DPI:                   cfg.Chart.DPI,
		TransparentBackground: cfg.Chart.TransparentBackground,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build chart renderer: %w", err)
	}

	dataService := services.NewDataService(logger)
	reportService := services.NewReportService(
		dataService,
		renderer,
		report.NewDeckBuilder(logger),
		report.NewDocBuilder(logger),
		paths,
		logger,
	)

	hub := ws.NewHub(logger)
	progress := func(stage string, percent int) {
		hub.Broadcast(ws.ProgressEvent{Stage: stage, Percent: percent})
	}

	sampleOpts := dataset.SampleOptions{
		Accounts: cfg.Sample.Accounts,
		Days:     cfg.Sample.Days,
		Seed:     cfg.Sample.Seed,
	}
	dataHandler := handlers.NewDataHandler(dataService, sampleOpts, cfg.Server.MaxUploadBytes, logger)
	reportHandler := handlers.NewReportHandler(reportService, progress, logger)

	router := chi.NewRouter()
	router.Use(custommiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(custommiddleware.StructuredLogger(logger))
	router.Use(custommiddleware.Recoverer(logger))
	if cfg.Limits.Enabled {
		router.Use(custommiddleware.RateLimit(cfg.Limits.RPS, cfg.Limits.Burst))
	}

	router.Route("/api", func(r chi.Router) {
		r.Mount("/data", dataHandler.Routes())
		r.Mount("/reports", reportHandler.Routes())
	})
	router.Get("/ws", hub.ServeHTTP)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config: cfg,
		Logger: logger,
		Router: router,
		Server: server,
		Hub:    hub,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then shuts down gracefully.
func (a *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", slog.String("addr", a.Server.Addr))
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		a.Logger.Info("shutting down", slog.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	a.Hub.Close()
	if err := a.Server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// NewLogger builds the application slog logger from config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
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
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
