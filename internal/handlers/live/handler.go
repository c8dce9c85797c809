// Package live streams game snapshots to browser renderers over websockets
// and accepts player input on the same connection.
package live

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/certquest/internal/errors"
	"github.com/KirkDiggler/certquest/internal/game"
	"github.com/KirkDiggler/certquest/internal/notice"
	"github.com/KirkDiggler/certquest/internal/orchestrators/session"
)

const (
	writeWait = 5 * time.Second
	// DefaultTickRate is the push rate when HandlerConfig.TickRate is zero
	DefaultTickRate = 15
)

// Client message types
const (
	MessageInput    = "input"
	MessageReset    = "reset"
	MessageSnapshot = "snapshot"
)

// Server message types
const (
	MessageFrame  = "frame"
	MessageUpdate = "update"
	MessageError  = "error"
)

// ClientMessage is a message sent by the renderer
type ClientMessage struct {
	Type    string   `json:"type"`
	Seq     uint64   `json:"seq,omitempty"`
	Intents []string `json:"intents,omitempty"`
}

// ServerMessage is a message pushed to the renderer
type ServerMessage struct {
	Type     string          `json:"type"`
	Seq      uint64          `json:"seq,omitempty"`
	Notices  []notice.Notice `json:"notices,omitempty"`
	Snapshot *game.Snapshot  `json:"snapshot,omitempty"`
	Code     string          `json:"code,omitempty"`
	Message  string          `json:"message,omitempty"`
	Retry    bool            `json:"retry,omitempty"`
}

// HandlerConfig holds dependencies for the live handler
type HandlerConfig struct {
	SessionService session.Service

	// Optional
	TickRate    int
	CheckOrigin func(r *http.Request) bool
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.SessionService == nil {
		vb.RequiredField("SessionService")
	}
	if c.TickRate < 0 || c.TickRate > 120 {
		vb.Field("TickRate", "must be between 0 and 120")
	}

	return vb.Build()
}

// Handler upgrades /ws requests and runs one feed per connection
type Handler struct {
	sessions session.Service
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewHandler creates a live handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("handler config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	rate := cfg.TickRate
	if rate == 0 {
		rate = DefaultTickRate
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}

	return &Handler{
		sessions: cfg.SessionService,
		interval: time.Second / time.Duration(rate),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     checkOrigin,
		},
	}, nil
}

type feed struct {
	sessionID string
	conn      *websocket.Conn
	mu        sync.Mutex
	last      []byte
}

func (f *feed) write(msg *ServerMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "failed to marshal message")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if msg.Type == MessageFrame {
		if bytes.Equal(data, f.last) {
			return nil
		}
		f.last = data
	}
	if err := f.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return errors.Wrap(err, "failed to set write deadline")
	}
	if err := f.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.Wrap(err, "failed to write message")
	}
	return nil
}

func (f *feed) close(code int, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deadline := time.Now().Add(writeWait)
	_ = f.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	_ = f.conn.Close()
}

// Handle serves /ws?session=<id>
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "missing session", http.StatusBadRequest)
		return
	}

	first, err := h.sessions.GetSnapshot(r.Context(), &session.GetSnapshotInput{SessionID: sessionID})
	if err != nil {
		http.Error(w, errors.GetMessage(err), errors.GetCode(err).HTTPStatus())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("Websocket upgrade failed",
			"session_id", sessionID,
			"error", err)
		return
	}

	f := &feed{sessionID: sessionID, conn: conn}
	slog.Info("Live feed connected", "session_id", sessionID)

	if err := f.write(&ServerMessage{Type: MessageFrame, Snapshot: first.Snapshot}); err != nil {
		f.close(websocket.CloseInternalServerErr, "initial frame failed")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.pushFrames(ctx, f)
	}()

	h.readLoop(ctx, f)
	cancel()
	<-done

	slog.Info("Live feed disconnected", "session_id", sessionID)
}

func (h *Handler) pushFrames(ctx context.Context, f *feed) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		out, err := h.sessions.GetSnapshot(ctx, &session.GetSnapshotInput{SessionID: f.sessionID})
		if err != nil {
			if errors.IsNotFound(err) {
				f.close(websocket.CloseNormalClosure, "session ended")
				return
			}
			slog.Warn("Failed to snapshot session",
				"session_id", f.sessionID,
				"error", err)
			continue
		}
		if err := f.write(&ServerMessage{Type: MessageFrame, Snapshot: out.Snapshot}); err != nil {
			f.close(websocket.CloseGoingAway, "write failed")
			return
		}
	}
}

func (h *Handler) readLoop(ctx context.Context, f *feed) {
	defer func() {
		_ = f.conn.Close()
	}()

	for {
		_, payload, err := f.conn.ReadMessage()
		if err != nil {
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			slog.Debug("Discarding malformed message",
				"session_id", f.sessionID,
				"error", err)
			if werr := f.write(errorMessage(0, errors.InvalidArgument("malformed message"))); werr != nil {
				return
			}
			continue
		}

		reply := h.dispatch(ctx, f.sessionID, &msg)
		if err := f.write(reply); err != nil {
			return
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, sessionID string, msg *ClientMessage) *ServerMessage {
	switch msg.Type {
	case MessageInput:
		out, err := h.sessions.SendInput(ctx, &session.SendInputInput{
			SessionID: sessionID,
			Intents:   msg.Intents,
		})
		if err != nil {
			return errorMessage(msg.Seq, err)
		}
		return &ServerMessage{Type: MessageUpdate, Seq: msg.Seq, Notices: out.Notices, Snapshot: out.Snapshot}
	case MessageReset:
		out, err := h.sessions.ResetSession(ctx, &session.ResetSessionInput{SessionID: sessionID})
		if err != nil {
			return errorMessage(msg.Seq, err)
		}
		return &ServerMessage{Type: MessageUpdate, Seq: msg.Seq, Notices: out.Notices, Snapshot: out.Snapshot}
	case MessageSnapshot:
		out, err := h.sessions.GetSnapshot(ctx, &session.GetSnapshotInput{SessionID: sessionID})
		if err != nil {
			return errorMessage(msg.Seq, err)
		}
		return &ServerMessage{Type: MessageUpdate, Seq: msg.Seq, Snapshot: out.Snapshot}
	default:
		return errorMessage(msg.Seq, errors.InvalidArgumentf("unknown message type %q", msg.Type))
	}
}

func errorMessage(seq uint64, err error) *ServerMessage {
	return &ServerMessage{
		Type:    MessageError,
		Seq:     seq,
		Code:    string(errors.GetCode(err)),
		Message: errors.GetMessage(err),
		Retry:   errors.IsRetryable(err),
	}
}
