package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VINAY-SANDA/CareTriage/internal/domain/triage"
)

var testUpgrader = websocket.Upgrader{}

// newEchoStreamServer upgrades /ws/chat/{session_id} and answers every frame
// with a canned reply so frame ordering is observable.
func newEchoStreamServer(t *testing.T, wantPath string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)

		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}

			var body map[string]any
			if err := json.Unmarshal(data, &body); err != nil {
				t.Errorf("undecodable outbound frame: %v", err)
				return
			}
			assert.Len(t, body, 1, "outbound frames carry the message only")

			message, _ := body["message"].(string)
			reply := triage.ChatResponse{
				Message:   fmt.Sprintf("echo: %s", message),
				SessionID: "stream-session",
			}
			if err := conn.WriteJSON(reply); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	return server
}

func waitFrame(t *testing.T, frames <-chan triage.ChatResponse) triage.ChatResponse {
	t.Helper()

	select {
	case frame := <-frames:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a stream frame")
		return triage.ChatResponse{}
	}
}

func TestChatStreamDeliversFramesInOrder(t *testing.T) {
	server := newEchoStreamServer(t, "/ws/chat/stream-session")
	client := NewClient(server.URL, 5*time.Second, zerolog.Nop())

	frames := make(chan triage.ChatResponse, 8)
	stream, err := client.DialChatStream(context.Background(), "stream-session",
		func(frame triage.ChatResponse) { frames <- frame },
		func(err error) { t.Errorf("unexpected stream error: %v", err) })
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	for _, message := range []string{"first", "second", "third"} {
		require.NoError(t, stream.Send(message))
	}

	for _, want := range []string{"echo: first", "echo: second", "echo: third"} {
		frame := waitFrame(t, frames)
		assert.Equal(t, want, frame.Message)
		assert.Equal(t, "stream-session", frame.SessionID)
	}
}

func TestChatStreamDialRequiresSessionID(t *testing.T) {
	client := NewClient("http://localhost:1", time.Second, zerolog.Nop())

	_, err := client.DialChatStream(context.Background(), "",
		func(triage.ChatResponse) {}, func(error) {})
	require.Error(t, err)
	assert.True(t, triage.IsKind(err, triage.KindEmptyInput))
}

func TestChatStreamDialReportsUnreachableService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, time.Second, zerolog.Nop())

	_, err := client.DialChatStream(context.Background(), "session-1",
		func(triage.ChatResponse) {}, func(error) {})
	require.Error(t, err)
	assert.True(t, triage.IsKind(err, triage.KindConnectionFailed))
}

func TestChatStreamSendRejectsBlankMessage(t *testing.T) {
	server := newEchoStreamServer(t, "/ws/chat/blank-session")
	client := NewClient(server.URL, 5*time.Second, zerolog.Nop())

	stream, err := client.DialChatStream(context.Background(), "blank-session",
		func(triage.ChatResponse) {}, func(error) {})
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	err = stream.Send("   ")
	require.Error(t, err)
	assert.True(t, triage.IsKind(err, triage.KindEmptyInput))
}

func TestChatStreamCloseIsQuietAndIdempotent(t *testing.T) {
	server := newEchoStreamServer(t, "/ws/chat/close-session")
	client := NewClient(server.URL, 5*time.Second, zerolog.Nop())

	errs := make(chan error, 1)
	stream, err := client.DialChatStream(context.Background(), "close-session",
		func(triage.ChatResponse) {}, func(err error) { errs <- err })
	require.NoError(t, err)

	select {
	case <-stream.Done():
		t.Fatal("stream reported done before close")
	default:
	}

	_ = stream.Close()
	_ = stream.Close()

	select {
	case <-stream.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not stop after close")
	}

	select {
	case err := <-errs:
		t.Fatalf("clean shutdown must not surface an error, got %v", err)
	default:
	}
}

func TestChatStreamReportsServerDrop(t *testing.T) {
	dropped := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}

		<-dropped
		// Tear the TCP connection down without a close handshake.
		conn.UnderlyingConn().Close()
	}))
	t.Cleanup(server.Close)

	client := NewClient(server.URL, 5*time.Second, zerolog.Nop())

	errs := make(chan error, 1)
	stream, err := client.DialChatStream(context.Background(), "drop-session",
		func(triage.ChatResponse) {}, func(err error) { errs <- err })
	require.NoError(t, err)
	t.Cleanup(func() { _ = stream.Close() })

	close(dropped)

	select {
	case err := <-errs:
		assert.True(t, triage.IsKind(err, triage.KindStream))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the stream error")
	}

	select {
	case <-stream.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("read loop did not stop after the drop")
	}
}

func TestWebsocketURLSwapsScheme(t *testing.T) {
	streamURL, err := websocketURL("http://localhost:8000", "s1")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8000/ws/chat/s1", streamURL)

	streamURL, err = websocketURL("https://triage.example.com", "s2")
	require.NoError(t, err)
	assert.Equal(t, "wss://triage.example.com/ws/chat/s2", streamURL)
}
