// ABOUTME: WebSocket frontend: a JSON request/reply protocol over one endpoint
// ABOUTME: Each message carries a session id; the connection itself is stateless

package frontend

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// clientMessage is the inbound envelope. SessionID is optional; when
// empty the connection's assigned session is used.
type clientMessage struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

// serverMessage is the outbound envelope.
type serverMessage struct {
	SessionID  string   `json:"session_id"`
	Text       string   `json:"text"`
	Options    []string `json:"options,omitempty"`
	EndSession bool     `json:"end_session,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// WebSocket is the websocket frontend. It implements http.Handler: each
// request is upgraded to a connection that speaks the JSON protocol
// described in the package documentation.
type WebSocket struct {
	bot      Bot
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWebSocket creates a websocket frontend.
func NewWebSocket(bot Bot, logger *slog.Logger) *WebSocket {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebSocket{
		bot: bot,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger.With("component", "websocket"),
	}
}

// ServeHTTP upgrades the request and serves the connection until the
// peer disconnects.
func (ws *WebSocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := ws.upgrader.Upgrade(w, r, nil)
	if err != nil {
		ws.logger.Error("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	ws.logger.Info("client connected", "remote", r.RemoteAddr)
	ws.serve(r.Context(), conn)
	ws.logger.Info("client disconnected", "remote", r.RemoteAddr)
}

// serve runs the read loop for one connection. Writes are serialized by
// a mutex because the keepalive pinger shares the connection.
func (ws *WebSocket) serve(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// The connection's fallback session, for clients that don't manage
	// their own session ids.
	connSession := uuid.New().String()

	var writeMu sync.Mutex
	writeJSON := func(msg serverMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Keepalive pinger.
	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				ws.logger.Warn("read failed", "error", err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if werr := writeJSON(serverMessage{Error: "invalid message: expected JSON with a \"text\" field"}); werr != nil {
				return
			}
			continue
		}

		sessionID := msg.SessionID
		if sessionID == "" {
			sessionID = connSession
		}

		reply, err := ws.bot.HandleInput(ctx, sessionID, msg.Text)
		if err != nil {
			ws.logger.Error("failed to handle input", "error", err, "session_id", sessionID)
			if werr := writeJSON(serverMessage{SessionID: sessionID, Error: "internal error"}); werr != nil {
				return
			}
			continue
		}

		out := serverMessage{
			SessionID:  sessionID,
			Text:       reply.Text,
			Options:    reply.Options,
			EndSession: reply.EndSession,
		}
		if err := writeJSON(out); err != nil {
			ws.logger.Warn("write failed", "error", err, "session_id", sessionID)
			return
		}
	}
}
