package engine

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

func newTestEngine() *Engine {
	return New(0.6, nil, zerolog.Nop())
}

func TestExtractFindsCatalogSymptoms(t *testing.T) {
	e := newTestEngine()

	symptoms := e.Extract("I have a headache and fever for 2 days")
	require.Len(t, symptoms, 2)

	assert.Equal(t, "headache", symptoms[0].ClinicalTerm)
	assert.Equal(t, "R51", symptoms[0].ICD10Code)
	assert.Equal(t, "neurological", symptoms[0].BodySystem)
	assert.Equal(t, triage.SeverityModerate, symptoms[0].Severity)
	assert.Equal(t, "2 days", symptoms[0].Duration)

	assert.Equal(t, "fever", symptoms[1].ClinicalTerm)
	assert.Equal(t, "R50.9", symptoms[1].ICD10Code)
	assert.Equal(t, "systemic", symptoms[1].BodySystem)
}

func TestExtractMatchesSynonyms(t *testing.T) {
	e := newTestEngine()

	symptoms := e.Extract("I'm dizzy and completely drained")
	require.Len(t, symptoms, 2)

	byTerm := make(map[string]triage.StructuredSymptom, len(symptoms))
	for _, s := range symptoms {
		byTerm[s.ClinicalTerm] = s
	}
	require.Contains(t, byTerm, "dizziness")
	require.Contains(t, byTerm, "fatigue")
	assert.Equal(t, "dizzy", byTerm["dizziness"].OriginalText)
	assert.Equal(t, "drained", byTerm["fatigue"].OriginalText)
}

func TestExtractSeverityFirstMatchWins(t *testing.T) {
	e := newTestEngine()

	// "mild" sits earlier in the ladder than "unbearable", so it decides.
	symptoms := e.Extract("mild but unbearable chest pain")
	require.Len(t, symptoms, 1)
	assert.Equal(t, triage.SeverityMild, symptoms[0].Severity)
}

func TestExtractDeduplicatesAcrossSynonyms(t *testing.T) {
	e := newTestEngine()

	symptoms := e.Extract("headache, my head hurts so much")
	require.Len(t, symptoms, 1)
	assert.Equal(t, "headache", symptoms[0].ClinicalTerm)
}

func TestExtractDuration(t *testing.T) {
	cases := []struct {
		text string
		want string
	}{
		{"a cough for 2 days", "2 days"},
		{"back pain since 3 weeks", "3 weeks"},
		{"fever for the past 6 hours", "6 hours"},
		{"just a headache", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, extractDuration(tc.text), tc.text)
	}
}

func TestDisambiguateConfidentWhenMatched(t *testing.T) {
	e := newTestEngine()

	result := e.Disambiguate("terrible sore throat")
	require.Len(t, result.Symptoms, 1)
	assert.Equal(t, "sore throat", result.Symptoms[0].ClinicalTerm)
	assert.Equal(t, triage.SeveritySevere, result.Symptoms[0].Severity)
	assert.False(t, result.ClarificationNeeded)
	assert.InDelta(t, 0.8, result.Confidence, 1e-9)
}

func TestDisambiguateFallsBackToGenericComplaint(t *testing.T) {
	e := newTestEngine()

	result := e.Disambiguate("I just feel off today")
	require.Len(t, result.Symptoms, 1)

	generic := result.Symptoms[0]
	assert.Equal(t, "general discomfort", generic.ClinicalTerm)
	assert.Equal(t, "systemic", generic.BodySystem)
	assert.Equal(t, triage.SeverityModerate, generic.Severity)
	assert.Empty(t, generic.ICD10Code)

	assert.True(t, result.ClarificationNeeded)
	assert.Len(t, result.ClarificationQuestions, 3)
	assert.InDelta(t, 0.5, result.Confidence, 1e-9)
}

func TestSymptomKey(t *testing.T) {
	assert.Equal(t, "chest_pain", SymptomKey("Chest Pain"))
	assert.Equal(t, "shortness_of_breath", SymptomKey("shortness-of-breath"))
}

func TestIsRedFlag(t *testing.T) {
	assert.True(t, IsRedFlag("chest pain"))
	assert.True(t, IsRedFlag("difficulty breathing"))
	assert.False(t, IsRedFlag("runny nose"))
}

func TestClassifySeverityDefaultsToModerate(t *testing.T) {
	assert.Equal(t, triage.SeverityModerate, classifySeverity("a cough"))
	assert.Equal(t, triage.SeverityCritical, classifySeverity("crushing pressure in my chest"))
}
