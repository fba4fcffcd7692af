package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration shared by the CLI and the
// stub service.
type Config struct {
	ServiceName     string        `env:"CARETRIAGE_SERVICE_NAME" envDefault:"caretriage"`
	Environment     string        `env:"CARETRIAGE_ENVIRONMENT" envDefault:"development"`
	BackendURL      string        `env:"CARETRIAGE_BACKEND_URL" envDefault:"http://localhost:8000"`
	RequestTimeout  time.Duration `env:"CARETRIAGE_REQUEST_TIMEOUT" envDefault:"30s"`
	HTTPPort        int           `env:"CARETRIAGE_HTTP_PORT" envDefault:"8000"`
	LogLevel        string        `env:"CARETRIAGE_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"CARETRIAGE_LOG_FORMAT" envDefault:"console"`
	RedactionMode   string        `env:"CARETRIAGE_REDACTION_MODE" envDefault:"mask"`
	EnableTracing   bool          `env:"CARETRIAGE_ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"CARETRIAGE_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Triage engine and knowledge index tuning.
	RiskThreshold float64 `env:"CARETRIAGE_RISK_THRESHOLD" envDefault:"0.6"`
	ChunkSize     int     `env:"CARETRIAGE_CHUNK_SIZE" envDefault:"500"`
	ChunkOverlap  int     `env:"CARETRIAGE_CHUNK_OVERLAP" envDefault:"50"`
	TopKResults   int     `env:"CARETRIAGE_TOP_K_RESULTS" envDefault:"5"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	if strings.TrimSpace(cfg.BackendURL) == "" {
		return nil, fmt.Errorf("CARETRIAGE_BACKEND_URL must not be empty")
	}

	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	if cfg.RiskThreshold <= 0 || cfg.RiskThreshold > 1 {
		cfg.RiskThreshold = 0.6
	}

	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 500
	}
	if cfg.ChunkOverlap < 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		cfg.ChunkOverlap = 50
	}
	if cfg.TopKResults <= 0 {
		cfg.TopKResults = 5
	}

	return cfg, nil
}

// Addr returns the stub service HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
