package console

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// Disclaimer closes every patient-facing rendering and cannot be suppressed.
const Disclaimer = "This report is for informational purposes only and does not constitute medical advice. Please consult a qualified healthcare professional for proper diagnosis and treatment."

// Section is one named block of a rendered patient report. Text and Items
// are mutually exclusive: paragraph sections fill Text, list sections Items.
type Section struct {
	Icon  string
	Title string
	Text  string
	Items []string
}

// PresentPatientReport renders the patient-facing record into its named
// sections. A section appears only when its field is present and, for list
// fields, non-empty; the order is fixed regardless of which sections appear.
func PresentPatientReport(report triage.PatientReport) []Section {
	var sections []Section

	if text := strings.TrimSpace(report.Summary); text != "" {
		sections = append(sections, Section{Icon: "📋", Title: "SUMMARY", Text: text})
	}
	if text := strings.TrimSpace(report.WhatYouToldUs); text != "" {
		sections = append(sections, Section{Icon: "📝", Title: "WHAT YOU TOLD US", Text: text})
	}
	if text := strings.TrimSpace(report.OurAssessment); text != "" {
		sections = append(sections, Section{Icon: "🔍", Title: "OUR ASSESSMENT", Text: text})
	}
	if len(report.Recommendations) > 0 {
		sections = append(sections, Section{Icon: "✅", Title: "RECOMMENDATIONS", Items: report.Recommendations})
	}
	if len(report.WarningSigns) > 0 {
		sections = append(sections, Section{Icon: "⚠️", Title: "WARNING SIGNS", Items: report.WarningSigns})
	}
	if text := strings.TrimSpace(report.WhenToSeekHelp); text != "" {
		sections = append(sections, Section{Icon: "🏥", Title: "WHEN TO SEEK HELP", Text: text})
	}

	return sections
}

// PresentClinicianReport renders the clinician-facing record as a structured
// dump. Nothing is filtered or reinterpreted; clinicians get the record as
// the service produced it.
func PresentClinicianReport(report *triage.ClinicianReport) (string, error) {
	return yamlDump(report)
}

func yamlDump(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
