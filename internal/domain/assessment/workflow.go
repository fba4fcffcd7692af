package assessment

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// View selects which interaction surface is active.
type View string

const (
	ViewConversation     View = "conversation"
	ViewStructuredIntake View = "structured_intake"
	ViewReport           View = "report"
)

// Connectivity reports whether the triage service answered its liveness
// probe. It is resolved once per workflow and is purely informational: no
// operation is blocked by a disconnected state.
type Connectivity string

const (
	ConnectivityChecking     Connectivity = "checking"
	ConnectivityConnected    Connectivity = "connected"
	ConnectivityDisconnected Connectivity = "disconnected"
)

// ErrNoResult is returned when the report view is requested before any
// analysis has produced a result.
var ErrNoResult = errors.New("no analysis result to display")

// ErrAnalysisInFlight rejects a new intake submission while a previous one is
// still awaiting its result.
var ErrAnalysisInFlight = errors.New("an analysis is already awaiting its result")

// IntakeForm carries the structured-intake fields exactly as entered. The
// derivation into the wire request happens at submission time. Vitals are
// optional; the interactive intake leaves them nil.
type IntakeForm struct {
	Symptoms string
	Age      string
	Gender   string
	History  string
	Vitals   *triage.VitalSigns
}

// request derives the wire request from the raw form. Age is parsed to an
// integer and dropped when blank or unparseable; blank gender and history are
// dropped rather than sent as empty strings.
func (f IntakeForm) request(prefs *triage.UserPreferences) triage.AnalysisRequest {
	return triage.AnalysisRequest{
		Symptoms:        triage.NormalizeSymptoms(f.Symptoms),
		PatientAge:      parseAge(f.Age),
		PatientGender:   strings.TrimSpace(f.Gender),
		VitalSigns:      f.Vitals,
		MedicalHistory:  strings.TrimSpace(f.History),
		UserPreferences: prefs,
	}
}

func parseAge(raw string) *int {
	age, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || age < 0 {
		return nil
	}
	return &age
}

// AnalysisService is the slice of the API client the workflow needs for the
// structured-intake path.
type AnalysisService interface {
	Analyze(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error)
}

// LivenessProbe answers whether the triage service is reachable.
type LivenessProbe interface {
	Health(ctx context.Context) (*triage.HealthStatus, error)
}

// Workflow is the top-level controller: it owns the active view, the most
// recent analysis result and the connectivity latch. It composes a
// conversation session but never reaches into its log; all chat interaction
// goes through the session's own operations.
type Workflow struct {
	analyze AnalysisService
	probe   LivenessProbe
	log     zerolog.Logger

	mu           sync.Mutex
	view         View
	connectivity Connectivity
	result       *triage.AnalysisResponse
	prefs        *triage.UserPreferences
	pending      bool
	lastErr      error
}

// NewWorkflow starts in the conversation view with connectivity unresolved.
func NewWorkflow(analyze AnalysisService, probe LivenessProbe, log zerolog.Logger) *Workflow {
	return &Workflow{
		analyze:      analyze,
		probe:        probe,
		log:          log.With().Str("component", "assessment_workflow").Logger(),
		view:         ViewConversation,
		connectivity: ConnectivityChecking,
	}
}

// SetPreferences attaches personalization hints to every following analysis.
func (w *Workflow) SetPreferences(prefs *triage.UserPreferences) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.prefs = prefs
}

// CheckConnectivity resolves the connectivity latch by probing the service's
// liveness endpoint. The probe runs only while the latch is unresolved;
// afterwards the settled state is returned without another network call.
func (w *Workflow) CheckConnectivity(ctx context.Context) Connectivity {
	w.mu.Lock()
	if w.connectivity != ConnectivityChecking {
		state := w.connectivity
		w.mu.Unlock()
		return state
	}
	w.mu.Unlock()

	_, err := w.probe.Health(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if err != nil {
		w.connectivity = ConnectivityDisconnected
		w.log.Warn().Err(err).Msg("triage service unreachable")
	} else {
		w.connectivity = ConnectivityConnected
		w.log.Debug().Msg("triage service reachable")
	}
	return w.connectivity
}

// SubmitIntake runs the full analysis for one structured-intake form. On
// success the result is stored and the workflow moves to the report view; on
// failure the view is left untouched and the error is surfaced, requiring a
// new explicit submission to try again.
func (w *Workflow) SubmitIntake(ctx context.Context, form IntakeForm) (*triage.AnalysisResponse, error) {
	if triage.NormalizeSymptoms(form.Symptoms) == "" {
		return nil, triage.NewError(triage.KindEmptyInput, "analyze", "symptoms must not be blank", nil)
	}

	w.mu.Lock()
	if w.pending {
		w.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	w.pending = true
	w.lastErr = nil
	req := form.request(w.prefs)
	w.mu.Unlock()

	result, err := w.analyze.Analyze(ctx, req)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = false

	if err != nil {
		w.lastErr = err
		w.log.Warn().Err(err).Msg("structured intake analysis failed")
		return nil, err
	}

	w.result = result
	w.view = ViewReport
	w.log.Info().
		Str("session_id", result.SessionID).
		Str("risk_level", string(result.RiskAssessment.RiskLevel)).
		Msg("analysis complete")
	return result, nil
}

// ShowConversation switches to the conversation view. The stored result, if
// any, survives so the report can be reopened.
func (w *Workflow) ShowConversation() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = ViewConversation
}

// ShowIntake switches to the structured-intake view.
func (w *Workflow) ShowIntake() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.view = ViewStructuredIntake
}

// ShowReport switches to the report view, which is only reachable while an
// analysis result is held.
func (w *Workflow) ShowReport() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.result == nil {
		return ErrNoResult
	}
	w.view = ViewReport
	return nil
}

// ResetToConversation discards the stored analysis result and returns to the
// conversation view. The conversation session is untouched: prior chat
// history survives unless the session is reinitialized separately.
func (w *Workflow) ResetToConversation() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.result = nil
	w.view = ViewConversation
}

// View returns the active view.
func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.view
}

// Connectivity returns the current state of the connectivity latch.
func (w *Workflow) Connectivity() Connectivity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connectivity
}

// Result returns the most recent analysis result, or nil when none is held.
// The result is immutable once received; callers must treat it as read-only.
func (w *Workflow) Result() *triage.AnalysisResponse {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.result
}

// Pending reports whether an intake submission is awaiting its result.
func (w *Workflow) Pending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.pending
}

// LastError returns the failure of the most recent submission, or nil. It is
// cleared when a new submission starts.
func (w *Workflow) LastError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}
