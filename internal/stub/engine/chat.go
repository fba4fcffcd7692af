package engine

import (
	"fmt"
	"strings"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// ChatPhase is the conversation stage of a chat session.
type ChatPhase string

const (
	PhaseCollecting     ChatPhase = "collecting"
	PhaseReadyForReport ChatPhase = "ready_for_report"
	PhaseDone           ChatPhase = "done"
)

// ChatState is the per-session memory the chat machine advances. Symptoms
// accumulate across turns until a report is generated.
type ChatState struct {
	Phase              ChatPhase
	Symptoms           []triage.StructuredSymptom
	ClarificationCount int
}

// affirmativeWords accept the report offer.
var affirmativeWords = []string{"yes", "sure", "ok", "generate", "report", "please", "yeah"}

const (
	clarificationPrompt = "I'd like to help you better. Could you describe your symptoms in more detail? For example: 'I have a headache and fever for 2 days'"

	clarificationFallback = "I'm having trouble understanding your symptoms. Could you try describing:\n" +
		"- What specific part of your body is affected?\n" +
		"- How severe is the discomfort (mild/moderate/severe)?\n" +
		"- How long have you had these symptoms?"

	declineReply  = "No problem. Is there anything else you'd like to share about your symptoms?"
	restartReply  = "Starting a new assessment. Please describe your symptoms."
	fallbackReply = "I'm here to help. Please describe your symptoms."
)

// ChatTurn advances one conversational turn. The returned report is non-nil
// only on the turn that generates one; the caller persists it so the report
// endpoint can serve it later.
func (e *Engine) ChatTurn(state *ChatState, sessionID, message string) (*triage.ChatResponse, *triage.PatientReport) {
	switch state.Phase {
	case PhaseCollecting, "":
		return e.collectTurn(state, sessionID, message), nil

	case PhaseReadyForReport:
		if isAffirmative(message) {
			return e.reportTurn(state, sessionID)
		}
		state.Phase = PhaseCollecting
		return &triage.ChatResponse{Message: declineReply, SessionID: sessionID}, nil

	case PhaseDone:
		state.Symptoms = nil
		state.Phase = PhaseCollecting
		state.ClarificationCount = 0
		return &triage.ChatResponse{Message: restartReply, SessionID: sessionID}, nil
	}

	return &triage.ChatResponse{Message: fallbackReply, SessionID: sessionID}, nil
}

// collectTurn gathers symptoms from the message. Once any symptoms are on
// record the session moves straight to the report offer instead of asking
// for more detail.
func (e *Engine) collectTurn(state *ChatState, sessionID, message string) *triage.ChatResponse {
	found := e.Extract(message)
	if len(found) > 0 {
		state.Symptoms = append(state.Symptoms, found...)
		e.log.Info().
			Int("found", len(found)).
			Int("total", len(state.Symptoms)).
			Str("session_id", sessionID).
			Msg("symptoms collected")
	}

	if len(state.Symptoms) > 0 {
		risk := e.AssessRisk(state.Symptoms, nil, nil)

		names := make([]string, 0, len(state.Symptoms))
		for _, s := range state.Symptoms {
			names = append(names, s.ClinicalTerm)
		}

		var b strings.Builder
		fmt.Fprintf(&b, "Thank you for sharing. I've identified the following symptoms: **%s**.\n\n", strings.Join(names, ", "))
		if risk.EscalationRequired {
			fmt.Fprintf(&b, "⚠️ **Alert**: Risk score is %s - some symptoms require attention.\n\n", formatPercent(risk.RiskScore))
		} else {
			fmt.Fprintf(&b, "Risk assessment: %s (%s)\n\n", risk.RiskLevel, formatPercent(risk.RiskScore))
		}
		b.WriteString("Would you like me to generate a detailed assessment report?")

		state.Phase = PhaseReadyForReport

		resp := &triage.ChatResponse{
			Message:     b.String(),
			SessionID:   sessionID,
			ReportReady: true,
		}
		if risk.EscalationRequired {
			alert := risk
			resp.RiskAlert = &alert
		}
		return resp
	}

	state.ClarificationCount++
	message = clarificationPrompt
	if state.ClarificationCount >= 3 {
		message = clarificationFallback
	}
	return &triage.ChatResponse{
		Message:               message,
		SessionID:             sessionID,
		RequiresClarification: true,
	}
}

// reportTurn generates the patient report and delivers it inline. The
// session is left in the done phase so the next message starts over.
func (e *Engine) reportTurn(state *ChatState, sessionID string) (*triage.ChatResponse, *triage.PatientReport) {
	e.log.Info().
		Int("symptom_count", len(state.Symptoms)).
		Str("session_id", sessionID).
		Msg("generating chat report")

	risk := e.AssessRisk(state.Symptoms, nil, nil)
	assessment := e.QuickAssess(state.Symptoms, "", risk)
	report := e.BuildPatientReport(state.Symptoms, assessment, risk, nil)

	state.Phase = PhaseDone

	return &triage.ChatResponse{
		Message:     FormatPatientReportText(report),
		SessionID:   sessionID,
		ReportReady: true,
	}, report
}

func isAffirmative(message string) bool {
	lowered := strings.ToLower(message)
	for _, word := range affirmativeWords {
		if strings.Contains(lowered, word) {
			return true
		}
	}
	return false
}

// formatPercent renders a score the way the chat summary quotes it, e.g.
// 0.45 as "45.0%".
func formatPercent(score float64) string {
	return fmt.Sprintf("%.1f%%", score*100)
}
