package assessment_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/assessment"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

type analyzeFunc func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error)

func (f analyzeFunc) Analyze(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
	return f(ctx, req)
}

type probeFunc func(ctx context.Context) (*triage.HealthStatus, error)

func (f probeFunc) Health(ctx context.Context) (*triage.HealthStatus, error) {
	return f(ctx)
}

func highRiskResponse() *triage.AnalysisResponse {
	return &triage.AnalysisResponse{
		SessionID: "sess-1",
		RiskAssessment: triage.RiskAssessment{
			RiskLevel: triage.RiskLevelHigh,
			RiskScore: 0.7,
		},
	}
}

func TestNewWorkflowStartsInConversation(t *testing.T) {
	w := assessment.NewWorkflow(nil, nil, zerolog.Nop())

	assert.Equal(t, assessment.ViewConversation, w.View())
	assert.Equal(t, assessment.ConnectivityChecking, w.Connectivity())
	assert.Nil(t, w.Result())
}

func TestSubmitIntakeDerivesWireFields(t *testing.T) {
	var got triage.AnalysisRequest
	svc := analyzeFunc(func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
		got = req
		return highRiskResponse(), nil
	})
	w := assessment.NewWorkflow(svc, nil, zerolog.Nop())
	w.ShowIntake()

	result, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{
		Symptoms: "headache and fever for 2 days",
		Age:      "34",
		Gender:   "male",
		History:  "",
		Vitals:   &triage.VitalSigns{HeartRate: 96, Temperature: 38.4},
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "headache and fever for 2 days", got.Symptoms)
	require.NotNil(t, got.PatientAge)
	assert.Equal(t, 34, *got.PatientAge)
	assert.Equal(t, "male", got.PatientGender)
	assert.Empty(t, got.MedicalHistory)
	require.NotNil(t, got.VitalSigns)
	assert.Equal(t, 96, got.VitalSigns.HeartRate)
	assert.InDelta(t, 38.4, got.VitalSigns.Temperature, 0.001)

	assert.Equal(t, assessment.ViewReport, w.View())
	require.NotNil(t, w.Result())
	assert.Equal(t, triage.RiskLevelHigh, w.Result().RiskAssessment.RiskLevel)
}

func TestSubmitIntakeAgeParsing(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{name: "plain digits", raw: "34", want: intPtr(34)},
		{name: "padded digits", raw: " 40 ", want: intPtr(40)},
		{name: "blank", raw: "", want: nil},
		{name: "words", raw: "forty", want: nil},
		{name: "decimal", raw: "12.5", want: nil},
		{name: "negative", raw: "-3", want: nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got *int
			svc := analyzeFunc(func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
				got = req.PatientAge
				return highRiskResponse(), nil
			})
			w := assessment.NewWorkflow(svc, nil, zerolog.Nop())

			_, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{Symptoms: "cough", Age: tc.raw})
			require.NoError(t, err)

			if tc.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.want, *got)
			}
		})
	}
}

func TestSubmitIntakeBlankSymptomsRejected(t *testing.T) {
	var calls int
	svc := analyzeFunc(func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
		calls++
		return highRiskResponse(), nil
	})
	w := assessment.NewWorkflow(svc, nil, zerolog.Nop())

	_, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{Symptoms: "   "})
	require.Error(t, err)
	assert.True(t, triage.IsKind(err, triage.KindEmptyInput))
	assert.Zero(t, calls)
	assert.Equal(t, assessment.ViewConversation, w.View())
}

func TestSubmitIntakeFailureStaysOnIntakeView(t *testing.T) {
	boom := triage.NewError(triage.KindConnectionFailed, "analyze", "service unavailable", nil)
	svc := analyzeFunc(func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
		return nil, boom
	})
	w := assessment.NewWorkflow(svc, nil, zerolog.Nop())
	w.ShowIntake()

	_, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{Symptoms: "chest pain"})
	require.Error(t, err)

	assert.Equal(t, assessment.ViewStructuredIntake, w.View())
	assert.Nil(t, w.Result())
	assert.ErrorIs(t, w.LastError(), boom)
	assert.False(t, w.Pending())
}

func TestSecondIntakeWhileInFlightIsRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	svc := analyzeFunc(func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
		close(entered)
		<-release
		return highRiskResponse(), nil
	})
	w := assessment.NewWorkflow(svc, nil, zerolog.Nop())

	done := make(chan error, 1)
	go func() {
		_, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{Symptoms: "first"})
		done <- err
	}()

	<-entered
	require.True(t, w.Pending())

	_, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{Symptoms: "second"})
	require.ErrorIs(t, err, assessment.ErrAnalysisInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, w.Pending())
}

func TestShowReportGuardedByResultPresence(t *testing.T) {
	svc := analyzeFunc(func(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
		return highRiskResponse(), nil
	})
	w := assessment.NewWorkflow(svc, nil, zerolog.Nop())

	require.ErrorIs(t, w.ShowReport(), assessment.ErrNoResult)

	_, err := w.SubmitIntake(context.Background(), assessment.IntakeForm{Symptoms: "fever"})
	require.NoError(t, err)

	w.ShowConversation()
	assert.Equal(t, assessment.ViewConversation, w.View())
	require.NotNil(t, w.Result(), "plain view switches keep the result")

	require.NoError(t, w.ShowReport())
	assert.Equal(t, assessment.ViewReport, w.View())

	w.ResetToConversation()
	assert.Equal(t, assessment.ViewConversation, w.View())
	assert.Nil(t, w.Result())
	require.ErrorIs(t, w.ShowReport(), assessment.ErrNoResult)
}

func TestCheckConnectivityResolvesOnce(t *testing.T) {
	var probes int
	probe := probeFunc(func(ctx context.Context) (*triage.HealthStatus, error) {
		probes++
		return nil, triage.NewError(triage.KindConnectionFailed, "health", "connection refused", nil)
	})
	w := assessment.NewWorkflow(nil, probe, zerolog.Nop())

	assert.Equal(t, assessment.ConnectivityDisconnected, w.CheckConnectivity(context.Background()))
	assert.Equal(t, assessment.ConnectivityDisconnected, w.CheckConnectivity(context.Background()))
	assert.Equal(t, 1, probes, "the latch must not re-probe once resolved")
}

func TestCheckConnectivityConnected(t *testing.T) {
	probe := probeFunc(func(ctx context.Context) (*triage.HealthStatus, error) {
		return &triage.HealthStatus{Status: "healthy"}, nil
	})
	w := assessment.NewWorkflow(nil, probe, zerolog.Nop())

	assert.Equal(t, assessment.ConnectivityConnected, w.CheckConnectivity(context.Background()))
	assert.Equal(t, assessment.ConnectivityConnected, w.Connectivity())
}

func intPtr(v int) *int { return &v }
