// Package ws pushes session notifications to browsers over websockets and
// serves the HTTP health check.
package ws

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/KirkDiggler/rpg-narrator/internal/broadcast"
	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// HandlerConfig holds dependencies for the websocket handler
type HandlerConfig struct {
	Hub *broadcast.Hub
	// AllowedOrigins limits browser origins; empty allows all
	AllowedOrigins []string
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Hub == nil {
		vb.RequiredField("Hub")
	}
	return vb.Build()
}

// Handler serves GET /ws and GET /healthz
type Handler struct {
	hub      *broadcast.Hub
	upgrader websocket.Upgrader
}

// NewHandler creates a new websocket handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	allowed := cfg.AllowedOrigins
	return &Handler{
		hub: cfg.Hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				return slices.Contains(allowed, r.Header.Get("Origin"))
			},
		},
	}, nil
}

// Register mounts the routes on a gin engine
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/healthz", h.Health)
	r.GET("/ws", h.ServeWS)
}

// NewRouter returns a gin engine with recovery and the handler's routes
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	h.Register(r)
	return r
}

// Health reports liveness
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ServeWS handles GET /ws?session_id=<id>
func (h *Handler) ServeWS(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
		return
	}

	sub, err := h.hub.Subscribe(sessionID)
	if err != nil {
		c.JSON(errors.GetCode(err).HTTPStatus(), gin.H{"error": errors.GetMessage(err)})
		return
	}
	defer h.hub.Unsubscribe(sub)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(c.Request.Context(), "Websocket upgrade failed",
			"session_id", sessionID,
			"error", err)
		return
	}
	defer func() {
		_ = conn.Close() // nolint:errcheck // connection is done either way
	}()

	slog.InfoContext(c.Request.Context(), "Watcher connected", "session_id", sessionID, "transport", "websocket")

	closed := make(chan struct{})
	go readPump(conn, closed)

	writePump(conn, sub, closed)

	slog.InfoContext(c.Request.Context(), "Watcher disconnected", "session_id", sessionID, "transport", "websocket")
}

// readPump discards client frames and notices when the client goes away
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait)) // nolint:errcheck // fails only on a dead conn
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
				websocket.CloseNoStatusReceived) {
				slog.Warn("Websocket closed unexpectedly", "error", err)
			}
			return
		}
	}
}

func writePump(conn *websocket.Conn, sub *broadcast.Subscription, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case msg, ok := <-sub.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait)) // nolint:errcheck // surfaced by the write
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{}) // nolint:errcheck // best effort
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait)) // nolint:errcheck // surfaced by the write
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
