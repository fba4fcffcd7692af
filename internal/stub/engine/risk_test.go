package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

func symptom(term string, severity triage.Severity) triage.StructuredSymptom {
	key := SymptomKey(term)
	return triage.StructuredSymptom{
		OriginalText: term,
		ClinicalTerm: term,
		ICD10Code:    symptomIndex[key].ICD10,
		BodySystem:   bodySystemFor(key),
		Severity:     severity,
	}
}

func TestAssessRiskSingleModerateSymptomIsLow(t *testing.T) {
	e := newTestEngine()

	risk := e.AssessRisk([]triage.StructuredSymptom{symptom("joint pain", triage.SeverityModerate)}, nil, nil)

	assert.InDelta(t, 0.1, risk.RiskScore, 1e-9)
	assert.Equal(t, triage.RiskLevelLow, risk.RiskLevel)
	assert.False(t, risk.EscalationRequired)
	assert.Empty(t, risk.RedFlags)
	assert.Equal(t, lowRecommendations, risk.Recommendations)

	require.Len(t, risk.ContributingFactors, 1)
	assert.Equal(t, "Symptom: joint pain", risk.ContributingFactors[0].Factor)
	assert.InDelta(t, 0.2, risk.ContributingFactors[0].Contribution, 1e-9)
}

func TestAssessRiskRedFlagSymptomEscalates(t *testing.T) {
	e := newTestEngine()

	risk := e.AssessRisk([]triage.StructuredSymptom{symptom("chest pain", triage.SeverityModerate)}, nil, nil)

	assert.InDelta(t, 0.35, risk.RiskScore, 1e-9)
	assert.Equal(t, triage.RiskLevelMedium, risk.RiskLevel)
	assert.True(t, risk.EscalationRequired)
	require.Len(t, risk.RedFlags, 1)
	assert.Equal(t, "Red flag symptom: chest pain", risk.RedFlags[0])
	assert.Contains(t, risk.Recommendations, "Call emergency services (112) or go to nearest emergency room")
}

func TestAssessRiskCriticalSeverityFlagged(t *testing.T) {
	e := newTestEngine()

	risk := e.AssessRisk([]triage.StructuredSymptom{symptom("chest pain", triage.SeverityCritical)}, nil, nil)

	assert.True(t, risk.EscalationRequired)
	assert.Equal(t, []string{
		"Red flag symptom: chest pain",
		"Critical severity: chest pain",
	}, risk.RedFlags)
}

func TestAssessRiskVitalExcursions(t *testing.T) {
	e := newTestEngine()
	vitals := &triage.VitalSigns{
		HeartRate:              135,
		BloodPressureSystolic:  185,
		BloodPressureDiastolic: 95,
		Temperature:            40.5,
		OxygenSaturation:       91,
	}

	risk := e.AssessRisk(nil, vitals, nil)

	// 0.15 each for heart rate, blood pressure, temperature, plus 0.15 for
	// saturation in the 90-94 band.
	assert.InDelta(t, 0.6, risk.RiskScore, 1e-9)
	assert.Equal(t, triage.RiskLevelHigh, risk.RiskLevel)
	assert.True(t, risk.EscalationRequired)

	assert.Equal(t, []string{
		"Low oxygen saturation: 91%",
		"Rapid heart rate: 135 bpm",
		"High fever: 40.5°C",
		"Dangerously high blood pressure: 185/95",
	}, risk.RedFlags)
}

func TestAssessRiskSevereHypoxiaScoresHigher(t *testing.T) {
	e := newTestEngine()

	risk := e.AssessRisk(nil, &triage.VitalSigns{OxygenSaturation: 88}, nil)

	assert.InDelta(t, 0.3, risk.RiskScore, 1e-9)
	assert.Contains(t, risk.RedFlags, "Low oxygen saturation: 88%")
}

func TestAssessRiskZeroVitalsAreNotMeasured(t *testing.T) {
	e := newTestEngine()

	risk := e.AssessRisk([]triage.StructuredSymptom{symptom("cough", triage.SeverityMild)}, &triage.VitalSigns{}, nil)

	assert.InDelta(t, 0.05, risk.RiskScore, 1e-9)
	assert.Empty(t, risk.RedFlags)
}

func TestAssessRiskMultipleSystemsAndAge(t *testing.T) {
	e := newTestEngine()
	symptoms := []triage.StructuredSymptom{
		symptom("headache", triage.SeverityMild),
		symptom("cough", triage.SeverityMild),
		symptom("rash", triage.SeverityMild),
	}

	risk := e.AssessRisk(symptoms, nil, nil)
	assert.InDelta(t, 0.25, risk.RiskScore, 1e-9)

	age := 72
	elderly := e.AssessRisk(symptoms, nil, &age)
	assert.InDelta(t, 0.35, elderly.RiskScore, 1e-9)
}

func TestAssessRiskScoreCapsAtOne(t *testing.T) {
	e := newTestEngine()
	symptoms := []triage.StructuredSymptom{
		symptom("chest pain", triage.SeverityCritical),
		symptom("difficulty breathing", triage.SeverityCritical),
		symptom("seizure", triage.SeverityCritical),
	}

	risk := e.AssessRisk(symptoms, nil, nil)

	assert.InDelta(t, 1.0, risk.RiskScore, 1e-9)
	assert.Equal(t, triage.RiskLevelCritical, risk.RiskLevel)
	assert.Equal(t, criticalRecommendations, risk.Recommendations)
}

func TestRiskLevelBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  triage.RiskLevel
	}{
		{0.0, triage.RiskLevelLow},
		{0.29, triage.RiskLevelLow},
		{0.3, triage.RiskLevelMedium},
		{0.59, triage.RiskLevelMedium},
		{0.6, triage.RiskLevelHigh},
		{0.79, triage.RiskLevelHigh},
		{0.8, triage.RiskLevelCritical},
		{1.0, triage.RiskLevelCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, riskLevelFor(tc.score), "score %v", tc.score)
	}
}

func TestContributingFactorsIncludeVitals(t *testing.T) {
	vitals := &triage.VitalSigns{Temperature: 38.5, OxygenSaturation: 94}

	factors := contributingFactors([]triage.StructuredSymptom{symptom("fever", triage.SeveritySevere)}, vitals)

	require.Len(t, factors, 3)
	assert.Equal(t, "Symptom: fever", factors[0].Factor)
	assert.InDelta(t, 0.3, factors[0].Contribution, 1e-9)
	assert.Equal(t, "Low oxygen saturation", factors[1].Factor)
	assert.Equal(t, "Elevated temperature", factors[2].Factor)
}
