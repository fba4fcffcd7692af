package engine

import (
	"fmt"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// QuickAssess builds the clinical assessment for an intake without an
// interactive interview. Urgency tracks the risk level; guideline references
// come from the knowledge index when one is wired.
func (e *Engine) QuickAssess(symptoms []triage.StructuredSymptom, medicalHistory string, risk triage.RiskAssessment) triage.ClinicalAssessment {
	chief := "Unspecified complaint"
	if len(symptoms) > 0 {
		chief = symptoms[0].ClinicalTerm
	}

	history := "No symptoms reported."
	if len(symptoms) > 0 {
		history = fmt.Sprintf("Patient reports %s.", summarizeSymptoms(symptoms))
	}

	return triage.ClinicalAssessment{
		ChiefComplaint:          chief,
		HistoryOfPresentIllness: history,
		RelevantMedicalHistory:  medicalHistory,
		DifferentialDiagnoses:   []triage.DifferentialDiagnosis{},
		RecommendedActions:      []string{"Consult a healthcare provider for proper evaluation"},
		UrgencyLevel:            urgencyFor(risk.RiskLevel),
		STWReferences:           e.guidelineSources(symptoms),
	}
}

// urgencyFor maps a risk level onto the clinical urgency scale.
func urgencyFor(level triage.RiskLevel) string {
	switch level {
	case triage.RiskLevelCritical:
		return "emergency"
	case triage.RiskLevelHigh:
		return "urgent"
	case triage.RiskLevelMedium:
		return "routine"
	default:
		return "self-care"
	}
}

func (e *Engine) guidelineSources(symptoms []triage.StructuredSymptom) []string {
	if e.guidelines == nil || len(symptoms) == 0 {
		return nil
	}
	terms := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		terms = append(terms, s.ClinicalTerm)
	}
	return e.guidelines.GuidelineSources(terms)
}
