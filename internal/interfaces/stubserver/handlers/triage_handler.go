package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/metrics"
	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/privacy"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/engine"
	"github.com/VINAY-SANDA/CareTriage/internal/stub/store"
)

// TriageHandler serves the assessment endpoints: full analysis, chat,
// quick risk scoring and report retrieval.
type TriageHandler struct {
	engine *engine.Engine
	store  *store.MemoryStore
	redact *privacy.Redactor
	log    zerolog.Logger
}

// NewTriageHandler creates a new triage handler.
func NewTriageHandler(eng *engine.Engine, st *store.MemoryStore, redact *privacy.Redactor, log zerolog.Logger) *TriageHandler {
	return &TriageHandler{
		engine: eng,
		store:  st,
		redact: redact,
		log:    log.With().Str("component", "triage_handler").Logger(),
	}
}

// Analyze runs the full pipeline: disambiguation, risk scoring, clinical
// assessment, personalization, and report generation. Both reports are
// stored for later retrieval.
func (h *TriageHandler) Analyze(c *gin.Context) {
	var req triage.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if triage.NormalizeSymptoms(req.Symptoms) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "symptoms must not be blank"})
		return
	}

	sessionID := uuid.NewString()
	h.log.Info().Str("session_id", sessionID).Msg("starting analysis session")
	h.log.Debug().
		Str("session_id", sessionID).
		Str("symptom_text", h.redact.Text(req.Symptoms)).
		Msg("analysis input")

	disambiguation := h.engine.Disambiguate(req.Symptoms)
	h.log.Info().Int("symptoms", len(disambiguation.Symptoms)).Msg("identified symptoms")

	risk := h.engine.AssessRisk(disambiguation.Symptoms, req.VitalSigns, req.PatientAge)
	assessment := h.engine.QuickAssess(disambiguation.Symptoms, req.MedicalHistory, risk)

	var personalized []triage.PersonalizedRecommendation
	if req.UserPreferences != nil {
		personalized = engine.Personalize(risk.Recommendations, req.UserPreferences)
	}

	clinician := h.engine.BuildClinicianReport(disambiguation.Symptoms, assessment, risk)
	patient := h.engine.BuildPatientReport(disambiguation.Symptoms, assessment, risk, personalized)

	ctx := c.Request.Context()
	h.store.SaveReport(ctx, clinician.ReportID, clinician)
	h.store.SaveReport(ctx, patient.ReportID, patient)

	metrics.RecordRiskAssessment(string(risk.RiskLevel), risk.EscalationRequired)
	metrics.RecordReport("clinician")
	metrics.RecordReport("patient")

	c.JSON(http.StatusOK, triage.AnalysisResponse{
		SessionID:            sessionID,
		DisambiguationResult: disambiguation,
		ClinicalAssessment:   assessment,
		RiskAssessment:       risk,
		ClinicianReport:      clinician,
		PatientReport:        patient,
	})
}

// Chat advances one REST chat turn. A blank session id starts a new session.
func (h *TriageHandler) Chat(c *gin.Context) {
	var req triage.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}

	resp := h.chatTurn(c, req.SessionID, req.Message)
	metrics.RecordChatTurn("rest")
	c.JSON(http.StatusOK, resp)
}

// chatTurn runs one turn against the session registry and persists any
// report generated on the way. Shared by the REST and websocket transports.
func (h *TriageHandler) chatTurn(c *gin.Context, sessionID, message string) *triage.ChatResponse {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	h.log.Debug().
		Str("session_id", sessionID).
		Str("message", h.redact.Text(message)).
		Msg("chat turn")

	ctx := c.Request.Context()
	sess := h.store.GetOrCreateSession(ctx, sessionID)

	var (
		resp   *triage.ChatResponse
		report *triage.PatientReport
	)
	sess.WithState(func(state *engine.ChatState) {
		resp, report = h.engine.ChatTurn(state, sessionID, message)
	})

	if report != nil {
		h.store.SaveReport(ctx, report.ReportID, report)
		metrics.RecordReport("patient")
	}
	return resp
}

// RiskAssess scores a plain symptom list without a chat session.
func (h *TriageHandler) RiskAssess(c *gin.Context) {
	var req triage.RiskAssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body"})
		return
	}
	if len(req.Symptoms) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "symptoms must not be empty"})
		return
	}

	result := h.engine.Disambiguate(strings.Join(req.Symptoms, ", "))
	risk := h.engine.AssessRisk(result.Symptoms, req.VitalSigns, req.PatientAge)

	metrics.RecordRiskAssessment(string(risk.RiskLevel), risk.EscalationRequired)

	c.JSON(http.StatusOK, risk)
}

// GetReport retrieves a stored report by id.
func (h *TriageHandler) GetReport(c *gin.Context) {
	report, err := h.store.GetReport(c.Request.Context(), c.Param("report_id"))
	if err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "Report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
