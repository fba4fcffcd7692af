//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/config"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/privacy"
	"github.com/VINAY-SANDA/CareTriage/internal/interfaces/stubserver"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/engine"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/store"
)

// ProviderSet is the wire provider set for the application.
var ProviderSet = wire.NewSet(
	// Infrastructure providers
	ProvideMemoryStore,
	ProvideEngine,
	ProvideRedactor,

	// Interface providers
	stubserver.New,

	// Application
	NewApplication,
)

// ProvideMemoryStore provides the in-memory session, report and knowledge store.
func ProvideMemoryStore(cfg *config.Config, log zerolog.Logger) *store.MemoryStore {
	return store.NewMemoryStore(cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopKResults, log)
}

// ProvideEngine provides the deterministic triage engine backed by the
// knowledge store.
func ProvideEngine(cfg *config.Config, memStore *store.MemoryStore, log zerolog.Logger) *engine.Engine {
	return engine.New(cfg.RiskThreshold, memStore, log)
}

// ProvideRedactor provides the patient-text log redactor.
func ProvideRedactor(cfg *config.Config) *privacy.Redactor {
	return privacy.NewRedactor(privacy.ParseMode(cfg.RedactionMode), cfg.ServiceName)
}

// CreateApplication creates the application with all dependencies wired.
func CreateApplication(cfg *config.Config, log zerolog.Logger) *Application {
	wire.Build(ProviderSet)
	return nil
}
