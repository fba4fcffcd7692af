package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// Recommendation lists keyed by risk level. The critical list also serves any
// assessment carrying red flags, whatever its score.
var (
	criticalRecommendations = []string{
		"⚠️ SEEK IMMEDIATE MEDICAL ATTENTION",
		"Call emergency services (112) or go to nearest emergency room",
		"Do not drive yourself - have someone take you or call ambulance",
		"If possible, bring a list of current medications",
	}
	highRecommendations = []string{
		"Consult a doctor within the next few hours",
		"Consider visiting an urgent care center",
		"Monitor symptoms closely for any worsening",
		"Avoid strenuous activities",
	}
	mediumRecommendations = []string{
		"Schedule an appointment with your doctor",
		"Monitor symptoms and note any changes",
		"Rest and stay hydrated",
		"Return if symptoms worsen",
	}
	lowRecommendations = []string{
		"Continue monitoring your symptoms",
		"Try home remedies and rest",
		"Consult a doctor if symptoms persist beyond 3-5 days",
		"Stay hydrated and get adequate rest",
	}
)

// AssessRisk scores symptoms, vitals and age into an urgency classification.
// Escalation fires when the raw score clears the engine threshold or any red
// flag is present.
func (e *Engine) AssessRisk(symptoms []triage.StructuredSymptom, vitals *triage.VitalSigns, patientAge *int) triage.RiskAssessment {
	score := ruleScore(symptoms, vitals, patientAge)
	level := riskLevelFor(score)
	redFlags := identifyRedFlags(symptoms, vitals)

	return triage.RiskAssessment{
		RiskScore:           round3(score),
		RiskLevel:           level,
		EscalationRequired:  score > e.threshold || len(redFlags) > 0,
		RedFlags:            redFlags,
		ContributingFactors: contributingFactors(symptoms, vitals),
		Recommendations:     recommendationsFor(level, redFlags),
	}
}

// ruleScore aggregates symptom severity, red flags, vital-sign excursions,
// body-system spread and age into a score capped at 1.0. Zero-valued vitals
// count as not measured.
func ruleScore(symptoms []triage.StructuredSymptom, vitals *triage.VitalSigns, patientAge *int) float64 {
	var score float64

	for _, s := range symptoms {
		switch s.Severity {
		case triage.SeverityCritical:
			score += 0.3
		case triage.SeveritySevere:
			score += 0.2
		case triage.SeverityModerate:
			score += 0.1
		default:
			score += 0.05
		}
	}

	for _, s := range symptoms {
		if IsRedFlag(s.ClinicalTerm) {
			score += 0.25
		}
	}

	if vitals != nil {
		if hr := vitals.HeartRate; hr > 0 {
			if hr > 120 || hr < 50 {
				score += 0.15
			} else if hr > 100 || hr < 60 {
				score += 0.05
			}
		}
		if sys := vitals.BloodPressureSystolic; sys > 0 {
			if sys > 180 || sys < 90 {
				score += 0.15
			}
		}
		if temp := vitals.Temperature; temp > 0 {
			if temp > 39.5 || temp < 35.5 {
				score += 0.15
			} else if temp > 38.5 {
				score += 0.08
			}
		}
		if o2 := vitals.OxygenSaturation; o2 > 0 {
			if o2 < 90 {
				score += 0.3
			} else if o2 < 95 {
				score += 0.15
			}
		}
	}

	systems := make(map[string]bool, len(symptoms))
	for _, s := range symptoms {
		systems[s.BodySystem] = true
	}
	if len(systems) >= 3 {
		score += 0.1
	}

	if patientAge != nil && (*patientAge < 5 || *patientAge > 70) {
		score += 0.1
	}

	return math.Min(score, 1.0)
}

func riskLevelFor(score float64) triage.RiskLevel {
	switch {
	case score >= 0.8:
		return triage.RiskLevelCritical
	case score >= 0.6:
		return triage.RiskLevelHigh
	case score >= 0.3:
		return triage.RiskLevelMedium
	default:
		return triage.RiskLevelLow
	}
}

func identifyRedFlags(symptoms []triage.StructuredSymptom, vitals *triage.VitalSigns) []string {
	var flags []string

	for _, s := range symptoms {
		if IsRedFlag(s.ClinicalTerm) {
			flags = append(flags, fmt.Sprintf("Red flag symptom: %s", s.ClinicalTerm))
		}
		if s.Severity == triage.SeverityCritical {
			flags = append(flags, fmt.Sprintf("Critical severity: %s", s.ClinicalTerm))
		}
	}

	if vitals == nil {
		return flags
	}

	if o2 := vitals.OxygenSaturation; o2 > 0 && o2 < 92 {
		flags = append(flags, fmt.Sprintf("Low oxygen saturation: %d%%", o2))
	}
	if hr := vitals.HeartRate; hr > 130 {
		flags = append(flags, fmt.Sprintf("Rapid heart rate: %d bpm", hr))
	}
	if temp := vitals.Temperature; temp > 40 {
		flags = append(flags, fmt.Sprintf("High fever: %.1f°C", temp))
	}
	if sys := vitals.BloodPressureSystolic; sys > 0 {
		switch {
		case sys > 180:
			flags = append(flags, fmt.Sprintf("Dangerously high blood pressure: %s", formatBloodPressure(vitals)))
		case sys < 90:
			flags = append(flags, fmt.Sprintf("Low blood pressure: %s", formatBloodPressure(vitals)))
		}
	}

	return flags
}

func contributingFactors(symptoms []triage.StructuredSymptom, vitals *triage.VitalSigns) []triage.ContributingFactor {
	var factors []triage.ContributingFactor

	for _, s := range symptoms {
		weight := 0.1
		switch s.Severity {
		case triage.SeverityModerate:
			weight = 0.2
		case triage.SeveritySevere:
			weight = 0.3
		case triage.SeverityCritical:
			weight = 0.4
		}
		factors = append(factors, triage.ContributingFactor{
			Factor:       fmt.Sprintf("Symptom: %s", s.ClinicalTerm),
			Contribution: weight,
		})
	}

	if vitals != nil {
		if o2 := vitals.OxygenSaturation; o2 > 0 && o2 < 95 {
			factors = append(factors, triage.ContributingFactor{Factor: "Low oxygen saturation", Contribution: 0.2})
		}
		if vitals.Temperature > 38 {
			factors = append(factors, triage.ContributingFactor{Factor: "Elevated temperature", Contribution: 0.1})
		}
	}

	return factors
}

func recommendationsFor(level triage.RiskLevel, redFlags []string) []string {
	switch {
	case level == triage.RiskLevelCritical || len(redFlags) > 0:
		return criticalRecommendations
	case level == triage.RiskLevelHigh:
		return highRecommendations
	case level == triage.RiskLevelMedium:
		return mediumRecommendations
	default:
		return lowRecommendations
	}
}

func formatBloodPressure(v *triage.VitalSigns) string {
	if v.BloodPressureDiastolic > 0 {
		return fmt.Sprintf("%d/%d", v.BloodPressureSystolic, v.BloodPressureDiastolic)
	}
	return strconv.Itoa(v.BloodPressureSystolic)
}

func round3(score float64) float64 {
	return math.Round(score*1000) / 1000
}
