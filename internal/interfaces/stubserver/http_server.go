package stubserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/config"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/privacy"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver/handlers"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver/middlewares"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver/routes"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/engine"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/store"
)

// HTTPServer is the HTTP server for the triage stub service.
type HTTPServer struct {
	cfg         *config.Config
	engine      *gin.Engine
	log         zerolog.Logger
	handlerProv *handlers.Provider
	routeProv   *routes.Provider
}

// New creates a new HTTP server.
func New(
	cfg *config.Config,
	log zerolog.Logger,
	triageEngine *engine.Engine,
	memStore *store.MemoryStore,
	redact *privacy.Redactor,
) *HTTPServer {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginEngine := gin.New()
	ginEngine.Use(gin.Recovery())

	// Apply middlewares in order
	ginEngine.Use(middlewares.RequestID())
	ginEngine.Use(middlewares.Tracing(cfg.ServiceName))
	ginEngine.Use(middlewares.Metrics())
	ginEngine.Use(middlewares.CORS())
	ginEngine.Use(middlewares.RequestLoggerWithLogger(log))

	registerCoreRoutes(ginEngine, cfg, memStore)

	handlerProvider := handlers.NewProvider(triageEngine, memStore, redact, log)
	routeProvider := routes.NewProvider(handlerProvider)

	routeProvider.Register(ginEngine)

	return &HTTPServer{
		cfg:         cfg,
		engine:      ginEngine,
		log:         log,
		handlerProv: handlerProvider,
		routeProv:   routeProvider,
	}
}

// Engine exposes the underlying gin engine, mainly for tests.
func (s *HTTPServer) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until context is cancelled.
func (s *HTTPServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.cfg.Addr(),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr()).Msg("HTTP server listening")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("HTTP server error")
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.log.Info().Msg("context cancelled, shutting down HTTP server")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return nil
}

func registerCoreRoutes(engine *gin.Engine, cfg *config.Config, memStore *store.MemoryStore) {
	engine.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, triage.ServiceInfo{
			Name:    cfg.ServiceName,
			Version: "1.0.0",
			Status:  "running",
			Endpoints: map[string]string{
				"analyze": "/api/analyze",
				"chat":    "/api/chat",
				"reports": "/api/reports/{report_id}",
				"health":  "/health",
			},
		})
	})

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, triage.HealthStatus{
			Status:    "healthy",
			Timestamp: time.Now().Format(time.RFC3339),
			Components: map[string]any{
				"symptom_agent":   "ready",
				"retrieval_agent": memStore.Stats(c.Request.Context()),
				"triage_agent":    "ready",
				"risk_engine":     "ready",
			},
		})
	})

	// Prometheus metrics endpoint
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
