package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/assessment"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/conversation"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

const banner = `┌─────────────────────────────────────────────────────────┐
│ CareTriage · symptom assessment console                 │
└─────────────────────────────────────────────────────────┘`

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"

// ReportFetcher retrieves a stored report by its identifier.
type ReportFetcher interface {
	FetchReport(ctx context.Context, id string) (map[string]any, error)
}

// App wires the conversation session and the assessment workflow to an
// interactive terminal loop. All diagnostics go to the logger; a.out carries
// only what the user should read.
type App struct {
	session  *conversation.Session
	workflow *assessment.Workflow
	reports  ReportFetcher
	in       *bufio.Scanner
	out      io.Writer
	log      zerolog.Logger
}

func NewApp(session *conversation.Session, workflow *assessment.Workflow, reports ReportFetcher, in io.Reader, out io.Writer, log zerolog.Logger) *App {
	return &App{
		session:  session,
		workflow: workflow,
		reports:  reports,
		in:       bufio.NewScanner(in),
		out:      out,
		log:      log.With().Str("component", "console").Logger(),
	}
}

// Run drives the loop until /quit or EOF. The connectivity check runs once at
// startup and is informational only; a disconnected service never blocks
// input.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintln(a.out, banner)
	a.printConnectivity(ctx)

	a.session.Initialize()
	a.printAssistant(conversation.Greeting)
	fmt.Fprintln(a.out, "\nDescribe your symptoms, or type /help for commands.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(a.out, "\nYou: ")
		if !a.in.Scan() {
			return a.in.Err()
		}
		line := strings.TrimSpace(a.in.Text())

		switch {
		case line == "/quit" || line == "/exit":
			fmt.Fprintln(a.out, "Take care! 👋")
			return nil
		case line == "/help":
			a.printHelp()
		case line == "/new":
			a.workflow.ResetToConversation()
			a.session.Initialize()
			a.printAssistant(conversation.Greeting)
		case line == "/risk":
			a.printCurrentRisk()
		case line == "/intake":
			a.runIntake(ctx)
		case line == "/report":
			a.printStoredReport()
		case strings.HasPrefix(line, "/fetch"):
			a.fetchReport(ctx, strings.TrimSpace(strings.TrimPrefix(line, "/fetch")))
		default:
			a.sendChat(ctx, line)
		}
	}
}

func (a *App) printConnectivity(ctx context.Context) {
	switch a.workflow.CheckConnectivity(ctx) {
	case assessment.ConnectivityConnected:
		fmt.Fprintln(a.out, "● Connected to the assessment service.")
	case assessment.ConnectivityDisconnected:
		fmt.Fprintln(a.out, "○ The assessment service did not answer its health check. You can still try your requests.")
	}
}

func (a *App) sendChat(ctx context.Context, text string) {
	reply, err := a.session.SendUserMessage(ctx, text)
	if err != nil {
		switch {
		case errors.Is(err, conversation.ErrTurnInFlight):
			fmt.Fprintln(a.out, "Hold on, your previous message is still being processed.")
		case triage.IsKind(err, triage.KindEmptyInput):
			fmt.Fprintln(a.out, triage.UserMessage(err))
		default:
			// The session already appended the scripted apology to its log.
			a.printAssistant(conversation.ConnectionApology)
			fmt.Fprintf(a.out, "   (%s)\n", triage.UserMessage(err))
		}
		return
	}

	a.printAssistant(reply.Content)
	for _, opt := range reply.ClarificationOptions {
		fmt.Fprintf(a.out, "   • %s\n", opt)
	}
	if reply.RiskAlert != nil {
		a.printBadge(*reply.RiskAlert)
	}
	if reply.ReportReady {
		fmt.Fprintln(a.out, "📄 Your report is ready. Use /fetch with the report ID above to view it.")
	}
}

func (a *App) runIntake(ctx context.Context) {
	fmt.Fprintln(a.out, "\n📋 Structured intake. Leave a field blank to skip it.")
	form := assessment.IntakeForm{
		Symptoms: a.prompt("Symptoms: "),
		Age:      a.prompt("Age: "),
		Gender:   a.prompt("Gender: "),
		History:  a.prompt("Medical history: "),
	}

	a.workflow.ShowIntake()
	result, err := a.workflow.SubmitIntake(ctx, form)
	if err != nil {
		switch {
		case errors.Is(err, assessment.ErrAnalysisInFlight):
			fmt.Fprintln(a.out, "An analysis is already running, give it a moment.")
		default:
			fmt.Fprintf(a.out, "❌ %s\n", triage.UserMessage(err))
		}
		return
	}

	a.renderResult(result)
}

func (a *App) prompt(label string) string {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return ""
	}
	return a.in.Text()
}

func (a *App) printStoredReport() {
	if err := a.workflow.ShowReport(); err != nil {
		fmt.Fprintln(a.out, "No analysis report yet. Run /intake first.")
		return
	}
	a.renderResult(a.workflow.Result())
}

func (a *App) fetchReport(ctx context.Context, id string) {
	record, err := a.reports.FetchReport(ctx, id)
	if err != nil {
		if triage.IsKind(err, triage.KindEmptyInput) {
			fmt.Fprintln(a.out, "Usage: /fetch <report-id>")
			return
		}
		fmt.Fprintf(a.out, "❌ %s\n", triage.UserMessage(err))
		return
	}

	dump, err := yamlDump(record)
	if err != nil {
		a.log.Error().Err(err).Msg("report dump failed")
		fmt.Fprintln(a.out, "❌ The report could not be rendered.")
		return
	}
	fmt.Fprintln(a.out, rule)
	fmt.Fprint(a.out, dump)
	fmt.Fprintln(a.out, rule)
}

func (a *App) printCurrentRisk() {
	risk := a.session.CurrentRisk()
	if risk == nil {
		fmt.Fprintln(a.out, "No risk assessment yet. Tell me about your symptoms first.")
		return
	}
	a.printBadge(*risk)
}

func (a *App) printBadge(risk triage.RiskAssessment) {
	badge := PresentRisk(risk)
	fmt.Fprintf(a.out, "\n%s %s\n", badge.Icon, badge.Title)
	fmt.Fprintf(a.out, "   [%s] %d%%\n", badge.ScoreBar(30), badge.Percent)
	for _, flag := range risk.RedFlags {
		fmt.Fprintf(a.out, "   ⚑ %s\n", flag)
	}
	for _, rec := range risk.Recommendations {
		fmt.Fprintf(a.out, "   • %s\n", rec)
	}
	if risk.EscalationRequired {
		fmt.Fprintln(a.out, "   🚨 Please seek medical attention promptly.")
	}
}

func (a *App) renderResult(result *triage.AnalysisResponse) {
	fmt.Fprintln(a.out, "\n"+rule)
	a.printBadge(result.RiskAssessment)

	if result.PatientReport != nil {
		for _, s := range PresentPatientReport(*result.PatientReport) {
			fmt.Fprintf(a.out, "\n%s %s\n", s.Icon, s.Title)
			if s.Text != "" {
				fmt.Fprintf(a.out, "   %s\n", s.Text)
			}
			for _, item := range s.Items {
				fmt.Fprintf(a.out, "   • %s\n", item)
			}
		}
		fmt.Fprintf(a.out, "\n%s\n", Disclaimer)
	}

	if result.ClinicianReport != nil {
		dump, err := PresentClinicianReport(result.ClinicianReport)
		if err != nil {
			a.log.Error().Err(err).Msg("clinician report dump failed")
		} else {
			fmt.Fprintln(a.out, "\n🩺 Clinician record")
			fmt.Fprint(a.out, dump)
		}
	}

	fmt.Fprintln(a.out, rule)
	fmt.Fprintln(a.out, "Type /new to start a fresh assessment.")
}

func (a *App) printAssistant(text string) {
	fmt.Fprintf(a.out, "\nAssistant: %s\n", text)
}

func (a *App) printHelp() {
	fmt.Fprintln(a.out, `
Commands:
  /intake     fill the structured intake form for a full analysis
  /report     show the most recent analysis report
  /fetch ID   retrieve a stored report by its identifier
  /risk       show the current risk assessment
  /new        start a new assessment
  /quit       leave`)
}
