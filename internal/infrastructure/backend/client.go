package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/assessment"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/conversation"
	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// Operation names carried on every client error.
const (
	opAnalyze    = "analyze"
	opChat       = "chat"
	opReport     = "fetch_report"
	opUpload     = "upload_documents"
	opSearch     = "knowledge_search"
	opStats      = "knowledge_stats"
	opRiskAssess = "risk_assess"
	opHealth     = "health"
	opInfo       = "info"
)

// Document is one file handed to the upload endpoint.
type Document struct {
	Filename string
	Content  io.Reader
}

// Client is the typed HTTP client for the triage service. It owns request
// construction and error translation only; it keeps no conversational state.
type Client struct {
	httpClient *resty.Client
	baseURL    string
	log        zerolog.Logger
}

// NewClient creates a Resty-backed client against the service root.
func NewClient(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	base := normalizeBaseURL(baseURL)
	clientLog := log.With().Str("component", "backend_client").Logger()

	httpClient := resty.New().
		SetBaseURL(base).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	httpClient.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		clientLog.Debug().
			Int("status", resp.StatusCode()).
			Str("method", resp.Request.Method).
			Str("url", resp.Request.URL).
			Dur("latency", resp.Time()).
			Msg("HTTP client request")
		return nil
	})

	return &Client{
		httpClient: httpClient,
		baseURL:    base,
		log:        clientLog,
	}
}

// BaseURL returns the normalized service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Analyze runs the full analysis pipeline for a structured intake submission.
func (c *Client) Analyze(ctx context.Context, req triage.AnalysisRequest) (*triage.AnalysisResponse, error) {
	if triage.NormalizeSymptoms(req.Symptoms) == "" {
		return nil, triage.NewError(triage.KindEmptyInput, opAnalyze, "symptoms must not be blank", nil)
	}

	var result triage.AnalysisResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/analyze")
	if err != nil {
		return nil, c.transportError(opAnalyze, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opAnalyze, resp.StatusCode(), resp.String())
	}
	return &result, nil
}

// Chat sends one conversational turn. The request carries the session
// identifier only once the service has issued one.
func (c *Client) Chat(ctx context.Context, req triage.ChatRequest) (*triage.ChatResponse, error) {
	if triage.NormalizeSymptoms(req.Message) == "" {
		return nil, triage.NewError(triage.KindEmptyInput, opChat, "message must not be blank", nil)
	}

	var reply triage.ChatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&reply).
		Post("/api/chat")
	if err != nil {
		return nil, c.transportError(opChat, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opChat, resp.StatusCode(), resp.String())
	}
	return &reply, nil
}

// FetchReport retrieves a stored report by identifier. The record shape
// depends on the report audience, so it is returned undecoded.
func (c *Client) FetchReport(ctx context.Context, reportID string) (map[string]any, error) {
	if strings.TrimSpace(reportID) == "" {
		return nil, triage.NewError(triage.KindEmptyInput, opReport, "report id must not be blank", nil)
	}

	var report map[string]any
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&report).
		Get("/api/reports/" + reportID)
	if err != nil {
		return nil, c.transportError(opReport, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opReport, resp.StatusCode(), resp.String())
	}
	return report, nil
}

// UploadDocuments sends guideline documents for indexing.
func (c *Client) UploadDocuments(ctx context.Context, docs []Document) (*triage.DocumentUploadResponse, error) {
	if len(docs) == 0 {
		return nil, triage.NewError(triage.KindEmptyInput, opUpload, "no documents to upload", nil)
	}

	request := c.httpClient.R().SetContext(ctx)
	for _, doc := range docs {
		request.SetFileReader("files", doc.Filename, doc.Content)
	}

	var ack triage.DocumentUploadResponse
	resp, err := request.
		SetResult(&ack).
		Post("/api/upload-documents")
	if err != nil {
		return nil, c.transportError(opUpload, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opUpload, resp.StatusCode(), resp.String())
	}
	return &ack, nil
}

// SearchKnowledge queries the guideline knowledge base. A non-positive topK
// falls back to the service default of five results.
func (c *Client) SearchKnowledge(ctx context.Context, query string, topK int) (*triage.KnowledgeSearchResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, triage.NewError(triage.KindEmptyInput, opSearch, "query must not be blank", nil)
	}
	if topK <= 0 {
		topK = 5
	}

	var result triage.KnowledgeSearchResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("top_k", strconv.Itoa(topK)).
		SetResult(&result).
		Get("/api/knowledge/search")
	if err != nil {
		return nil, c.transportError(opSearch, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opSearch, resp.StatusCode(), resp.String())
	}
	return &result, nil
}

// KnowledgeStats fetches index statistics. The payload is service-defined.
func (c *Client) KnowledgeStats(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&stats).
		Get("/api/knowledge/stats")
	if err != nil {
		return nil, c.transportError(opStats, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opStats, resp.StatusCode(), resp.String())
	}
	return stats, nil
}

// RiskAssess runs the quick risk scoring over a plain symptom list.
func (c *Client) RiskAssess(ctx context.Context, req triage.RiskAssessRequest) (*triage.RiskAssessment, error) {
	if len(req.Symptoms) == 0 {
		return nil, triage.NewError(triage.KindEmptyInput, opRiskAssess, "symptom list must not be empty", nil)
	}

	var result triage.RiskAssessment
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/api/risk-assess")
	if err != nil {
		return nil, c.transportError(opRiskAssess, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opRiskAssess, resp.StatusCode(), resp.String())
	}
	return &result, nil
}

// Health probes service liveness. A decoded body is informational; reachability
// is decided by the HTTP status alone.
func (c *Client) Health(ctx context.Context) (*triage.HealthStatus, error) {
	var status triage.HealthStatus
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&status).
		Get("/health")
	if err != nil {
		return nil, c.transportError(opHealth, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opHealth, resp.StatusCode(), resp.String())
	}
	return &status, nil
}

// Info fetches the service identity record from the root endpoint.
func (c *Client) Info(ctx context.Context) (*triage.ServiceInfo, error) {
	var info triage.ServiceInfo
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&info).
		Get("/")
	if err != nil {
		return nil, c.transportError(opInfo, err)
	}
	if resp.IsError() {
		return nil, triage.NewHTTPError(opInfo, resp.StatusCode(), resp.String())
	}
	return &info, nil
}

// transportError folds transport failures into the client taxonomy. Timeouts
// get their own kind; everything else is a connection failure.
func (c *Client) transportError(op string, err error) *triage.Error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return triage.NewError(triage.KindRequestTimedOut, op, "request timed out", err)
	}
	return triage.NewError(triage.KindConnectionFailed, op, "request failed", err)
}

func normalizeBaseURL(baseURL string) string {
	trimmed := strings.TrimSpace(baseURL)
	trimmed = strings.TrimRight(trimmed, "/")
	if trimmed == "" {
		return trimmed
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = fmt.Sprintf("http://%s", trimmed)
	}
	return trimmed
}

// Ensure interface compliance.
var (
	_ conversation.ChatService   = (*Client)(nil)
	_ assessment.AnalysisService = (*Client)(nil)
	_ assessment.LivenessProbe   = (*Client)(nil)
)
