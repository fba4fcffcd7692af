package conversation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

// Greeting opens every fresh session as the sole log entry.
const Greeting = "Hello! I'm your CareTriage assistant. Describe the symptoms you're experiencing and I'll help you work out how urgent they are."

// ConnectionApology is appended as a scripted assistant turn when a chat call
// fails. The user's own message stays in the log: history reflects what was
// attempted, not only what succeeded.
const ConnectionApology = "I'm sorry, I couldn't reach the assessment service just now. Your message has been kept; please try again in a moment."

// ErrTurnInFlight rejects a new submission while a previous one is still
// awaiting its reply. At most one chat request is outstanding per session;
// queueing or interleaving would break the causal order of the log.
var ErrTurnInFlight = errors.New("a chat turn is already awaiting its reply")

// Role identifies the author of a log entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in the conversation log. Entries are append-only and
// never mutated after creation; their order is the display order and the
// causal order of the conversation.
type Message struct {
	Role                  Role
	Content               string
	RiskAlert             *triage.RiskAssessment
	ReportReady           bool
	RequiresClarification bool
	ClarificationOptions  []string
	CreatedAt             time.Time
}

// ChatService is the slice of the API client the session needs.
type ChatService interface {
	Chat(ctx context.Context, req triage.ChatRequest) (*triage.ChatResponse, error)
}

// Session drives one ongoing chat exchange with the triage service. It owns
// the message log, the service-issued session identity and the most recent
// risk assessment; nothing else writes to them.
type Session struct {
	chat ChatService
	log  zerolog.Logger
	now  func() time.Time

	mu        sync.Mutex
	epoch     uint64
	messages  []Message
	sessionID string
	risk      *triage.RiskAssessment
	prefs     *triage.UserPreferences
	pending   bool
	lastErr   error
}

// NewSession constructs an uninitialized session. Call Initialize before the
// first turn.
func NewSession(chat ChatService, log zerolog.Logger) *Session {
	return &Session{
		chat: chat,
		log:  log.With().Str("component", "conversation_session").Logger(),
		now:  time.Now,
	}
}

// Initialize resets the session to a fresh start: a greeting-only log, no
// session identity, no risk assessment. Calling it again discards prior
// history, which is exactly what "start a new assessment" means.
func (s *Session) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.epoch++
	s.messages = []Message{{
		Role:      RoleAssistant,
		Content:   Greeting,
		CreatedAt: s.now(),
	}}
	s.sessionID = ""
	s.risk = nil
	s.pending = false
	s.lastErr = nil
}

// SetPreferences attaches personalization hints to every following turn.
func (s *Session) SetPreferences(prefs *triage.UserPreferences) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = prefs
}

// SendUserMessage submits one chat turn. The user message is appended to the
// log immediately, before the network round-trip; on success the assistant
// reply is appended directly after it, on failure a scripted apology is. The
// optimistic user message is never rolled back.
func (s *Session) SendUserMessage(ctx context.Context, text string) (*Message, error) {
	trimmed := triage.NormalizeSymptoms(text)
	if trimmed == "" {
		return nil, triage.NewError(triage.KindEmptyInput, "chat", "message must not be blank", nil)
	}

	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return nil, ErrTurnInFlight
	}
	s.pending = true
	s.lastErr = nil
	epoch := s.epoch
	s.messages = append(s.messages, Message{
		Role:      RoleUser,
		Content:   trimmed,
		CreatedAt: s.now(),
	})
	req := triage.ChatRequest{
		Message:         trimmed,
		SessionID:       s.sessionID,
		UserPreferences: s.prefs,
	}
	s.mu.Unlock()

	reply, err := s.chat.Chat(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		// The session was reinitialized while this turn was in flight; its
		// outcome must not leak into the fresh log.
		s.log.Debug().Msg("discarding reply from a superseded session")
		return nil, err
	}

	s.pending = false

	if err != nil {
		s.lastErr = err
		s.messages = append(s.messages, Message{
			Role:      RoleAssistant,
			Content:   ConnectionApology,
			CreatedAt: s.now(),
		})
		s.log.Warn().Err(err).Msg("chat turn failed")
		return nil, err
	}

	if s.sessionID == "" && reply.SessionID != "" {
		s.sessionID = reply.SessionID
		s.log.Debug().Str("session_id", reply.SessionID).Msg("adopted session identity")
	}
	if reply.RiskAlert != nil {
		alert := *reply.RiskAlert
		s.risk = &alert
	}

	assistant := Message{
		Role:                  RoleAssistant,
		Content:               reply.Message,
		RiskAlert:             reply.RiskAlert,
		ReportReady:           reply.ReportReady,
		RequiresClarification: reply.RequiresClarification,
		ClarificationOptions:  reply.ClarificationOptions,
		CreatedAt:             s.now(),
	}
	s.messages = append(s.messages, assistant)

	return &assistant, nil
}

// Messages returns the ordered log as a copy.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// SessionID returns the service-issued identity, or "" before the first
// successful turn. Once set it never changes for the session's lifetime.
func (s *Session) SessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionID
}

// CurrentRisk returns the latest risk assessment, or nil when none has been
// received. A new assessment always replaces the previous one wholesale.
func (s *Session) CurrentRisk() *triage.RiskAssessment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.risk == nil {
		return nil
	}
	risk := *s.risk
	return &risk
}

// Pending reports whether a turn is awaiting its reply.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// LastError returns the failure of the most recent turn, or nil. It is
// cleared when a new turn is submitted.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
