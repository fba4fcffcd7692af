package backend

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

const opStream = "chat_stream"

// FrameHandler receives one decoded inbound frame. Frames are delivered in
// arrival order, one invocation per frame, from a single goroutine.
type FrameHandler func(triage.ChatResponse)

// StreamErrorHandler receives channel failures. Stream errors are handed to
// the handler, never returned from the read loop.
type StreamErrorHandler func(error)

// chatFrame is the outbound frame shape; the session identity travels in the
// channel path, not in the frame.
type chatFrame struct {
	Message string `json:"message"`
}

// ChatStream is the persistent channel for one chat session. It is an
// optional faster path for chat turns; it carries no acknowledgement or
// correlation protocol of its own.
type ChatStream struct {
	conn      *websocket.Conn
	log       zerolog.Logger
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}
}

// DialChatStream opens the streaming channel for a session and starts its
// read loop. onFrame gets every decoded inbound frame; onError gets channel
// failures. The caller owns correlation of requests to frames, if it needs
// any.
func (c *Client) DialChatStream(ctx context.Context, sessionID string, onFrame FrameHandler, onError StreamErrorHandler) (*ChatStream, error) {
	if sessionID == "" {
		return nil, triage.NewError(triage.KindEmptyInput, opStream, "session id must not be blank", nil)
	}

	streamURL, err := websocketURL(c.baseURL, sessionID)
	if err != nil {
		return nil, triage.NewError(triage.KindConnectionFailed, opStream, "invalid service URL", err)
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return nil, triage.NewError(triage.KindConnectionFailed, opStream, "dial stream", err)
	}

	stream := &ChatStream{
		conn: conn,
		log:  c.log.With().Str("component", "chat_stream").Str("session_id", sessionID).Logger(),
		done: make(chan struct{}),
	}

	go stream.readLoop(onFrame, onError)

	return stream, nil
}

// Send writes one chat turn onto the channel.
func (s *ChatStream) Send(message string) error {
	if triage.NormalizeSymptoms(message) == "" {
		return triage.NewError(triage.KindEmptyInput, opStream, "message must not be blank", nil)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := s.conn.WriteJSON(chatFrame{Message: message}); err != nil {
		return triage.NewError(triage.KindStream, opStream, "write frame", err)
	}
	return nil
}

// Close shuts the channel down. Safe to call more than once.
func (s *ChatStream) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)

		s.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		_ = s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		s.writeMu.Unlock()

		err = s.conn.Close()
	})

	<-s.done
	return err
}

// Done is closed once the read loop has ended.
func (s *ChatStream) Done() <-chan struct{} {
	return s.done
}

func (s *ChatStream) readLoop(onFrame FrameHandler, onError StreamErrorHandler) {
	defer close(s.done)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug().Msg("stream closed")
				return
			}
			onError(triage.NewError(triage.KindStream, opStream, "read frame", err))
			return
		}

		var frame triage.ChatResponse
		if err := json.Unmarshal(data, &frame); err != nil {
			// Skip malformed frames
			s.log.Warn().Err(err).Msg("dropping undecodable frame")
			continue
		}

		onFrame(frame)
	}
}

// websocketURL swaps the HTTP scheme for the websocket one and appends the
// per-session channel path.
func websocketURL(baseURL, sessionID string) (string, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	switch parsed.Scheme {
	case "https":
		parsed.Scheme = "wss"
	default:
		parsed.Scheme = "ws"
	}
	parsed.Path = "/ws/chat/" + sessionID

	return parsed.String(), nil
}
