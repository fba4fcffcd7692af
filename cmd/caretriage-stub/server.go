package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/config"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/logger"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/observability"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/privacy"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/engine"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/store"
)

// Application holds the main application components.
type Application struct {
	httpServer *stubserver.HTTPServer
	log        zerolog.Logger
}

// NewApplication creates a new application instance.
func NewApplication(httpServer *stubserver.HTTPServer, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		log:        log,
	}
}

// Start runs the application.
func (a *Application) Start(ctx context.Context) error {
	return a.httpServer.Run(ctx)
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(fmt.Sprintf("failed to configure logging: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Setup observability
	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	// Initialize the in-memory store (sessions, reports, knowledge index)
	memStore := store.NewMemoryStore(cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopKResults, log)

	// Initialize the deterministic triage engine
	triageEngine := engine.New(cfg.RiskThreshold, memStore, log)

	// Patient text in logs goes through the redactor
	redact := privacy.NewRedactor(privacy.ParseMode(cfg.RedactionMode), cfg.ServiceName)

	// Initialize HTTP server
	httpServer := stubserver.New(cfg, log, triageEngine, memStore, redact)

	// Create and start application
	app := NewApplication(httpServer, log)

	log.Info().
		Str("service", cfg.ServiceName).
		Int("port", cfg.HTTPPort).
		Str("environment", cfg.Environment).
		Msg("starting application")

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

// loadEnvFiles runs before configuration is parsed, so failures are reported
// through the bootstrap logger.
func loadEnvFiles() {
	log := logger.GetLogger()
	paths := []string{".env", "../.env", "../../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				log.Warn().Str("path", path).Err(err).Msg("failed to load env file")
			}
		}
	}
}
