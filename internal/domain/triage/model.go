package triage

import (
	"strings"
	"time"
)

// ===============================================
// Severity / Risk Levels
// ===============================================

// Severity grades a single symptom.
type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
	SeverityCritical Severity = "critical"
)

// RiskLevel classifies the urgency of an overall assessment.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// ReportType distinguishes the two report audiences.
type ReportType string

const (
	ReportTypeClinician ReportType = "clinician"
	ReportTypePatient   ReportType = "patient"
)

// ===============================================
// Symptoms & Clinical Assessment
// ===============================================

// StructuredSymptom is one normalized symptom with its ontology codes.
type StructuredSymptom struct {
	OriginalText     string   `json:"original_text"`
	ClinicalTerm     string   `json:"clinical_term"`
	ICD10Code        string   `json:"icd10_code,omitempty"`
	SnomedCode       string   `json:"snomed_code,omitempty"`
	BodySystem       string   `json:"body_system"`
	Severity         Severity `json:"severity"`
	Duration         string   `json:"duration,omitempty"`
	Location         string   `json:"location,omitempty"`
	ModifyingFactors []string `json:"modifying_factors,omitempty"`
}

// DisambiguationResult is the normalized view of a free-text symptom description.
type DisambiguationResult struct {
	Symptoms               []StructuredSymptom `json:"symptoms"`
	ClarificationNeeded    bool                `json:"clarification_needed"`
	ClarificationQuestions []string            `json:"clarification_questions,omitempty"`
	Confidence             float64             `json:"confidence"`
}

// DifferentialDiagnosis is one candidate condition with its likelihood.
type DifferentialDiagnosis struct {
	Condition       string `json:"condition"`
	Likelihood      string `json:"likelihood"`
	Reasoning       string `json:"reasoning,omitempty"`
	RedFlagsPresent bool   `json:"red_flags_present,omitempty"`
}

// ClinicalAssessment is the service's clinical reasoning output.
// UrgencyLevel is one of emergency, urgent, routine, self-care.
type ClinicalAssessment struct {
	ChiefComplaint          string                  `json:"chief_complaint"`
	HistoryOfPresentIllness string                  `json:"history_of_present_illness"`
	RelevantMedicalHistory  string                  `json:"relevant_medical_history,omitempty"`
	DifferentialDiagnoses   []DifferentialDiagnosis `json:"differential_diagnoses"`
	RecommendedActions      []string                `json:"recommended_actions"`
	UrgencyLevel            string                  `json:"urgency_level"`
	STWReferences           []string                `json:"stw_references,omitempty"`
}

// ===============================================
// Risk Assessment
// ===============================================

// ContributingFactor explains one component of a risk score.
type ContributingFactor struct {
	Factor       string  `json:"factor"`
	Contribution float64 `json:"contribution"`
}

// RiskAssessment is the service's urgency classification. The service is the
// sole authority on current risk: a newer assessment always replaces an older
// one wholesale, the two are never merged field by field.
type RiskAssessment struct {
	RiskScore           float64              `json:"risk_score"`
	RiskLevel           RiskLevel            `json:"risk_level"`
	EscalationRequired  bool                 `json:"escalation_required"`
	RedFlags            []string             `json:"red_flags"`
	ContributingFactors []ContributingFactor `json:"contributing_factors"`
	Recommendations     []string             `json:"recommendations"`
}

// ===============================================
// Patient Context
// ===============================================

// VitalSigns carries optional measured vitals. Zero-valued fields are
// omitted on the wire; the service substitutes population defaults.
type VitalSigns struct {
	HeartRate              int     `json:"heart_rate,omitempty"`
	BloodPressureSystolic  int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic int     `json:"blood_pressure_diastolic,omitempty"`
	Temperature            float64 `json:"temperature,omitempty"`
	RespiratoryRate        int     `json:"respiratory_rate,omitempty"`
	OxygenSaturation       int     `json:"oxygen_saturation,omitempty"`
}

// UserPreferences personalizes recommendation wording.
type UserPreferences struct {
	Language               string   `json:"language"`
	Region                 string   `json:"region"`
	DietaryPreferences     []string `json:"dietary_preferences,omitempty"`
	CulturalConsiderations []string `json:"cultural_considerations,omitempty"`
	CommunicationStyle     string   `json:"communication_style"`
}

// DefaultUserPreferences returns the service-side defaults.
func DefaultUserPreferences() UserPreferences {
	return UserPreferences{
		Language:           "en",
		Region:             "India",
		CommunicationStyle: "formal",
	}
}

// PersonalizedRecommendation is one recommendation with culturally adapted
// wording.
type PersonalizedRecommendation struct {
	OriginalRecommendation string `json:"original_recommendation"`
	AdaptedRecommendation  string `json:"adapted_recommendation"`
	CulturalNotes          string `json:"cultural_notes,omitempty"`
}

// ===============================================
// Reports
// ===============================================

// PatientReport is the simplified, patient-facing report. Reports are
// immutable once received; a new analysis replaces them wholesale.
type PatientReport struct {
	ReportID        string    `json:"report_id"`
	GeneratedAt     time.Time `json:"generated_at"`
	Summary         string    `json:"summary"`
	WhatYouToldUs   string    `json:"what_you_told_us"`
	OurAssessment   string    `json:"our_assessment"`
	Recommendations []string  `json:"recommendations"`
	WarningSigns    []string  `json:"warning_signs"`
	WhenToSeekHelp  string    `json:"when_to_seek_help"`
}

// ClinicianReport is the technical, clinician-facing report.
type ClinicianReport struct {
	ReportID           string              `json:"report_id"`
	GeneratedAt        time.Time           `json:"generated_at"`
	PatientID          string              `json:"patient_id,omitempty"`
	Symptoms           []StructuredSymptom `json:"symptoms"`
	ClinicalAssessment ClinicalAssessment  `json:"clinical_assessment"`
	RiskAssessment     RiskAssessment      `json:"risk_assessment"`
	STWGuidelines      []string            `json:"stw_guidelines"`
	ICD10Codes         []string            `json:"icd10_codes"`
	Recommendations    []string            `json:"recommendations"`
}

// ===============================================
// Chat Contract
// ===============================================

// ChatRequest is one conversational turn sent to the service. SessionID is
// empty on the very first turn; the service issues one in its reply and the
// caller attaches it to every turn after that.
type ChatRequest struct {
	Message         string           `json:"message"`
	SessionID       string           `json:"session_id,omitempty"`
	UserPreferences *UserPreferences `json:"user_preferences,omitempty"`
}

// ChatResponse is the service's reply to one chat turn.
type ChatResponse struct {
	Message               string          `json:"message"`
	SessionID             string          `json:"session_id"`
	RequiresClarification bool            `json:"requires_clarification"`
	ClarificationOptions  []string        `json:"clarification_options,omitempty"`
	RiskAlert             *RiskAssessment `json:"risk_alert,omitempty"`
	ReportReady           bool            `json:"report_ready"`
}

// ===============================================
// Full Analysis Contract
// ===============================================

// AnalysisRequest is the structured-intake submission. Symptoms is the only
// required field; everything else is attached when known.
type AnalysisRequest struct {
	Symptoms        string           `json:"symptoms"`
	PatientAge      *int             `json:"patient_age,omitempty"`
	PatientGender   string           `json:"patient_gender,omitempty"`
	VitalSigns      *VitalSigns      `json:"vital_signs,omitempty"`
	MedicalHistory  string           `json:"medical_history,omitempty"`
	UserPreferences *UserPreferences `json:"user_preferences,omitempty"`
}

// AnalysisResponse is the full pipeline output for one intake submission.
type AnalysisResponse struct {
	SessionID            string               `json:"session_id"`
	DisambiguationResult DisambiguationResult `json:"disambiguation_result"`
	ClinicalAssessment   ClinicalAssessment   `json:"clinical_assessment"`
	RiskAssessment       RiskAssessment       `json:"risk_assessment"`
	ClinicianReport      *ClinicianReport     `json:"clinician_report,omitempty"`
	PatientReport        *PatientReport       `json:"patient_report,omitempty"`
}

// RiskAssessRequest is the quick, chat-free risk scoring call.
type RiskAssessRequest struct {
	Symptoms   []string    `json:"symptoms"`
	VitalSigns *VitalSigns `json:"vital_signs,omitempty"`
	PatientAge *int        `json:"patient_age,omitempty"`
}

// ===============================================
// Knowledge Base & Documents
// ===============================================

// DocumentUploadResponse acknowledges a guideline document upload.
type DocumentUploadResponse struct {
	Success            bool   `json:"success"`
	DocumentsProcessed int    `json:"documents_processed"`
	ChunksCreated      int    `json:"chunks_created"`
	Message            string `json:"message"`
}

// KnowledgeResult is one retrieved guideline excerpt.
type KnowledgeResult struct {
	Text       string         `json:"text"`
	Source     string         `json:"source"`
	PageNumber int            `json:"page_number"`
	Score      float64        `json:"score"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// KnowledgeSearchResponse wraps a guideline search.
type KnowledgeSearchResponse struct {
	Query   string            `json:"query"`
	Results []KnowledgeResult `json:"results"`
}

// ===============================================
// Service Status
// ===============================================

// HealthStatus is the liveness probe payload. Connectivity is decided by the
// HTTP status alone; the body is informational.
type HealthStatus struct {
	Status     string         `json:"status"`
	Timestamp  string         `json:"timestamp"`
	Components map[string]any `json:"components,omitempty"`
}

// ServiceInfo describes the service and its endpoint map.
type ServiceInfo struct {
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints,omitempty"`
}

// NormalizeSymptoms trims the free-text symptom description. Callers reject
// the input before any network traffic when the trimmed form is empty.
func NormalizeSymptoms(text string) string {
	return strings.TrimSpace(text)
}
