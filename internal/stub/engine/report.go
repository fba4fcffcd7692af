package engine

import (
	"fmt"
	"strings"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// reportIDStamp is the compact timestamp embedded in report identifiers.
const reportIDStamp = "20060102150405"

// baseWarningSigns apply to every patient report. Symptom-specific signs are
// pushed in front of them and the list is trimmed to seven entries.
var baseWarningSigns = []string{
	"Sudden worsening of any symptom",
	"New symptoms appearing",
	"Difficulty breathing or shortness of breath",
	"Chest pain or pressure",
	"Confusion or difficulty staying awake",
	"High fever (above 103°F/39.5°C)",
	"Inability to keep fluids down",
}

// BuildClinicianReport assembles the technical report for professionals.
// Recommendations from the assessment and the risk engine are merged with
// first-seen order preserved.
func (e *Engine) BuildClinicianReport(symptoms []triage.StructuredSymptom, assessment triage.ClinicalAssessment, risk triage.RiskAssessment) *triage.ClinicianReport {
	var codes []string
	for _, s := range symptoms {
		if s.ICD10Code != "" {
			codes = append(codes, s.ICD10Code)
		}
	}

	merged := make([]string, 0, len(assessment.RecommendedActions)+len(risk.Recommendations))
	merged = append(merged, assessment.RecommendedActions...)
	merged = append(merged, risk.Recommendations...)

	report := &triage.ClinicianReport{
		ReportID:           e.newReportID("CLN"),
		GeneratedAt:        e.now(),
		Symptoms:           symptoms,
		ClinicalAssessment: assessment,
		RiskAssessment:     risk,
		STWGuidelines:      assessment.STWReferences,
		ICD10Codes:         uniqueStrings(codes),
		Recommendations:    uniqueStrings(merged),
	}

	e.log.Info().Str("report_id", report.ReportID).Msg("generated clinician report")
	return report
}

// BuildPatientReport assembles the simplified patient-facing report. When
// personalized recommendations are supplied their adapted wording replaces
// the risk engine's defaults.
func (e *Engine) BuildPatientReport(symptoms []triage.StructuredSymptom, assessment triage.ClinicalAssessment, risk triage.RiskAssessment, personalized []triage.PersonalizedRecommendation) *triage.PatientReport {
	names := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		names = append(names, s.ClinicalTerm)
	}
	joined := strings.Join(names, ", ")

	recommendations := risk.Recommendations
	if len(personalized) > 0 {
		recommendations = make([]string, 0, len(personalized))
		for _, p := range personalized {
			recommendations = append(recommendations, p.AdaptedRecommendation)
		}
	}
	if len(recommendations) > 5 {
		recommendations = recommendations[:5]
	}

	ourAssessment := assessment.ChiefComplaint
	if ourAssessment == "" {
		ourAssessment = "Please consult with a healthcare provider for a complete assessment."
	}

	report := &triage.PatientReport{
		ReportID:        e.newReportID("PAT"),
		GeneratedAt:     e.now(),
		Summary:         fmt.Sprintf("You came to us with concerns about %s. Based on our assessment, we recommend following the guidance provided below.", joined),
		WhatYouToldUs:   fmt.Sprintf("You described experiencing: %s.", joined),
		OurAssessment:   ourAssessment,
		Recommendations: recommendations,
		WarningSigns:    warningSigns(symptoms),
		WhenToSeekHelp:  seekHelpGuidance(risk.RiskLevel),
	}

	e.log.Info().Str("report_id", report.ReportID).Msg("generated patient report")
	return report
}

func (e *Engine) newReportID(prefix string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, e.now().Format(reportIDStamp), e.newID()[:8])
}

// summarizeSymptoms renders "term (for duration) - severity" entries joined
// with semicolons.
func summarizeSymptoms(symptoms []triage.StructuredSymptom) string {
	parts := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		part := s.ClinicalTerm
		if s.Duration != "" {
			part += fmt.Sprintf(" (for %s)", s.Duration)
		}
		if s.Severity != "" {
			part += fmt.Sprintf(" - %s", s.Severity)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

func warningSigns(symptoms []triage.StructuredSymptom) []string {
	signs := append([]string(nil), baseWarningSigns...)

	for _, s := range symptoms {
		term := strings.ToLower(s.ClinicalTerm)
		if strings.Contains(term, "headache") {
			signs = append([]string{"Sudden, severe headache unlike any before"}, signs...)
		}
		if strings.Contains(term, "chest") {
			signs = append([]string{"Pain spreading to arm, jaw, or back"}, signs...)
		}
		if strings.Contains(term, "abdominal") {
			signs = append([]string{"Severe abdominal pain with inability to move"}, signs...)
		}
	}

	if len(signs) > 7 {
		signs = signs[:7]
	}
	return signs
}

func seekHelpGuidance(level triage.RiskLevel) string {
	switch level {
	case triage.RiskLevelCritical:
		return "⚠️ SEEK IMMEDIATE MEDICAL ATTENTION. Call 112 or go to the nearest emergency room NOW."
	case triage.RiskLevelHigh:
		return "Please consult a doctor within the next few hours. If you notice any warning signs, seek emergency care immediately."
	case triage.RiskLevelMedium:
		return "Schedule an appointment with your doctor within 24-48 hours. Seek emergency care if warning signs develop."
	default:
		return "Monitor your symptoms. If they persist beyond 3-5 days or worsen, consult a healthcare provider."
	}
}

// FormatPatientReportText lays a patient report out as a framed plain-text
// document for chat delivery.
func FormatPatientReportText(report *triage.PatientReport) string {
	rule := strings.Repeat("━", 58)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("╔" + strings.Repeat("═", 58) + "╗\n")
	b.WriteString("                    HEALTH ASSESSMENT REPORT\n")
	b.WriteString("╚" + strings.Repeat("═", 58) + "╝\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Report ID: %s\n", report.ReportID)
	fmt.Fprintf(&b, "Date: %s\n", report.GeneratedAt.Format("January 02, 2006 at 03:04 PM"))
	b.WriteString("\n" + rule + "\n\n")
	fmt.Fprintf(&b, "📋 SUMMARY\n%s\n", report.Summary)
	b.WriteString("\n" + rule + "\n\n")
	fmt.Fprintf(&b, "📝 WHAT YOU TOLD US\n%s\n", report.WhatYouToldUs)
	b.WriteString("\n" + rule + "\n\n")
	fmt.Fprintf(&b, "🔍 OUR ASSESSMENT\n%s\n", report.OurAssessment)
	b.WriteString("\n" + rule + "\n\n")
	b.WriteString("✅ RECOMMENDATIONS\n")
	for i, rec := range report.Recommendations {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
	}
	b.WriteString("\n" + rule + "\n\n")
	b.WriteString("⚠️ WARNING SIGNS - Seek immediate help if you experience:\n")
	for _, sign := range report.WarningSigns {
		fmt.Fprintf(&b, "  • %s\n", sign)
	}
	b.WriteString("\n" + rule + "\n\n")
	fmt.Fprintf(&b, "🏥 WHEN TO SEEK HELP\n%s\n", report.WhenToSeekHelp)
	b.WriteString("\n" + rule + "\n\n")
	b.WriteString("DISCLAIMER: This report is for informational purposes only and\n")
	b.WriteString("does not constitute medical advice. Please consult a qualified\n")
	b.WriteString("healthcare professional for proper diagnosis and treatment.\n")
	return b.String()
}

// uniqueStrings drops duplicates while preserving first-seen order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
