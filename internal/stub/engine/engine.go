package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GuidelineIndex provides treatment-workflow sources for clinical context.
// The in-memory knowledge store implements it.
type GuidelineIndex interface {
	GuidelineSources(terms []string) []string
}

// Engine is the deterministic assessment core behind the stub service. It is
// safe for concurrent use: persistent state lives in its immutable tables,
// mutable state in the per-session ChatState callers pass in.
type Engine struct {
	threshold  float64
	guidelines GuidelineIndex
	log        zerolog.Logger

	now   func() time.Time
	newID func() string
}

// New builds an Engine with the given escalation threshold. guidelines may be
// nil when no knowledge index is wired.
func New(threshold float64, guidelines GuidelineIndex, log zerolog.Logger) *Engine {
	if threshold <= 0 {
		threshold = 0.6
	}
	return &Engine{
		threshold:  threshold,
		guidelines: guidelines,
		log:        log.With().Str("component", "triage_engine").Logger(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}
