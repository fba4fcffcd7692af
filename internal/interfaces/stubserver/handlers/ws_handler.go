package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/VINAY-SANDA/CareTriage/internal/infrastructure/metrics"
)

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// chatStreamFrame is one inbound streaming chat turn. The session identity
// travels in the channel path, not in the frame.
type chatStreamFrame struct {
	Message string `json:"message"`
}

// ChatStream upgrades the connection and serves chat turns over it: one
// JSON frame in, one ChatResponse frame out, until the peer disconnects.
func (h *TriageHandler) ChatStream(c *gin.Context) {
	sessionID := c.Param("session_id")

	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	metrics.WebsocketConnections.Inc()
	defer metrics.WebsocketConnections.Dec()

	log := h.log.With().Str("session_id", sessionID).Logger()
	log.Info().Msg("websocket chat connected")

	for {
		var frame chatStreamFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Error().Err(err).Msg("websocket chat failed")
			} else {
				log.Info().Msg("websocket chat disconnected")
			}
			return
		}

		resp := h.chatTurn(c, sessionID, frame.Message)
		metrics.RecordChatTurn("websocket")

		if err := conn.WriteJSON(resp); err != nil {
			log.Error().Err(err).Msg("websocket write failed")
			return
		}
	}
}
