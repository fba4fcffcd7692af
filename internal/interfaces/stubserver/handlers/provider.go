package handlers

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/privacy"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/engine"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/store"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Triage    *TriageHandler
	Knowledge *KnowledgeHandler
}

// NewProvider creates a new handler provider.
func NewProvider(eng *engine.Engine, st *store.MemoryStore, redact *privacy.Redactor, log zerolog.Logger) *Provider {
	return &Provider{
		Triage:    NewTriageHandler(eng, st, redact, log),
		Knowledge: NewKnowledgeHandler(st, redact, log),
	}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	NewTriageHandler,
	NewKnowledgeHandler,
	NewProvider,
)
