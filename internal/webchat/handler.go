package webchat

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/websocket"

	"github.com/Marser321/punta-360-sub001/internal/leadchat"
	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

//go:embed widget.js
var widgetJS []byte

// ChatEngine is the synchronous chat core: every visitor action maps to one
// call that returns the bot's reply.
type ChatEngine interface {
	StartSession(ctx context.Context, propertyID string) (*leadchat.Session, leadchat.Reply, error)
	HandleTurn(ctx context.Context, sessionID, text string) (*leadchat.Session, leadchat.Reply, error)
	Session(ctx context.Context, sessionID string) (*leadchat.Session, error)
}

// Handler serves the chat widget over WebSocket with an HTTP fallback.
type Handler struct {
	engine ChatEngine
	logger *logging.Logger
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type string `json:"type"` // "message", "ping"
	Text string `json:"text"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "message", "typing", "history", "session", "error", "pong"
	Text      string           `json:"text,omitempty"`
	Options   []string         `json:"options,omitempty"`
	Role      string           `json:"role,omitempty"` // "assistant" or "user"
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified turn for history responses.
type HistoryMessage struct {
	Role      string   `json:"role"`
	Text      string   `json:"text"`
	Options   []string `json:"options,omitempty"`
	Timestamp string   `json:"timestamp"`
}

// NewHandler creates a web chat handler.
func NewHandler(engine ChatEngine, logger *logging.Logger) *Handler {
	if engine == nil {
		panic("webchat: engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		engine: engine,
		logger: logger,
	}
}

// HandleWebSocket upgrades to WebSocket and handles real-time messaging.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request) {
	ctx := r.Context()
	propertyID := r.URL.Query().Get("property")
	sessionID := r.URL.Query().Get("session")

	if sessionID == "" {
		session, greeting, err := h.engine.StartSession(ctx, propertyID)
		if err != nil {
			h.logger.Error("webchat: failed to start session", "error", err)
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "no se pudo iniciar el chat"})
			return
		}
		sessionID = session.ID
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})
		_ = websocket.JSON.Send(conn, replyMessage(greeting))
	} else {
		session, err := h.engine.Session(ctx, sessionID)
		if err != nil {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "sesión desconocida"})
			return
		}
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: historyOf(session)})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID, "property_id", propertyID)

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "pong"})
			continue
		}

		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		// One in-flight turn per connection: the reply is computed before the
		// next inbound frame is read.
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "typing"})

		_, reply, err := h.engine.HandleTurn(ctx, sessionID, msg.Text)
		if err != nil {
			h.logger.Error("webchat: turn failed", "error", err, "session_id", sessionID)
			_ = websocket.JSON.Send(conn, OutboundMessage{Type: "error", Text: "algo salió mal, probá de nuevo"})
			continue
		}
		_ = websocket.JSON.Send(conn, replyMessage(reply))
	}
}

// MessageRequest is the HTTP fallback request body.
type MessageRequest struct {
	SessionID  string `json:"session_id"`
	PropertyID string `json:"property_id"`
	Text       string `json:"text"`
}

// MessageResponse is the HTTP fallback response body.
type MessageResponse struct {
	SessionID string         `json:"session_id"`
	Reply     leadchat.Reply `json:"reply"`
}

// HandleMessage is the HTTP fallback: POST /chat/message. An empty session_id
// opens a new session; an empty text returns just the greeting.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var reply leadchat.Reply
	if req.SessionID == "" {
		session, greeting, err := h.engine.StartSession(r.Context(), req.PropertyID)
		if err != nil {
			h.logger.Error("webchat: failed to start session", "error", err)
			http.Error(w, "failed to start session", http.StatusInternalServerError)
			return
		}
		req.SessionID = session.ID
		reply = greeting
	}

	if strings.TrimSpace(req.Text) != "" {
		var err error
		_, reply, err = h.engine.HandleTurn(r.Context(), req.SessionID, req.Text)
		if err != nil {
			if errors.Is(err, leadchat.ErrSessionNotFound) {
				http.Error(w, "unknown session", http.StatusNotFound)
				return
			}
			h.logger.Error("webchat: turn failed", "error", err, "session_id", req.SessionID)
			http.Error(w, "failed to process message", http.StatusInternalServerError)
			return
		}
	} else if reply.Text == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(MessageResponse{
		SessionID: req.SessionID,
		Reply:     reply,
	})
}

// HandleHistory returns the transcript for a session.
// GET /chat/history?session=<id>
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	session, err := h.engine.Session(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, leadchat.ErrSessionNotFound) {
			http.Error(w, "unknown session", http.StatusNotFound)
			return
		}
		h.logger.Error("webchat: failed to load history", "error", err, "session_id", sessionID)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]HistoryMessage{"messages": historyOf(session)})
}

// HandleWidgetJS serves the embeddable widget JavaScript.
func (h *Handler) HandleWidgetJS(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/javascript")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(widgetJS)
}

func replyMessage(reply leadchat.Reply) OutboundMessage {
	return OutboundMessage{
		Type:      "message",
		Role:      "assistant",
		Text:      reply.Text,
		Options:   reply.Options,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func historyOf(session *leadchat.Session) []HistoryMessage {
	history := make([]HistoryMessage, 0, len(session.Turns))
	for _, turn := range session.Turns {
		role := "assistant"
		if turn.From == leadchat.FromVisitor {
			role = "user"
		}
		history = append(history, HistoryMessage{
			Role:      role,
			Text:      turn.Text,
			Options:   turn.Options,
			Timestamp: turn.At.Format(time.RFC3339),
		})
	}
	return history
}
