package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/goodlyheritage/entrance-portal/internal/exam"
	"github.com/goodlyheritage/entrance-portal/internal/middleware"
	"github.com/goodlyheritage/entrance-portal/internal/response"
	"github.com/goodlyheritage/entrance-portal/internal/session"
	ws "github.com/goodlyheritage/entrance-portal/internal/websocket"
)

const pingInterval = 30 * time.Second

// WSHandler streams the authoritative exam countdown to the exam UI. The
// browser renders whatever arrives; it never keeps its own clock.
type WSHandler struct {
	registry *session.ExamRegistry
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewWSHandler creates a new WSHandler. Upgrade requests are accepted only
// from the configured origins; an empty list allows same-host requests only.
func NewWSHandler(registry *session.ExamRegistry, allowedOrigins []string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		registry: registry,
		upgrader: buildUpgrader(allowedOrigins),
		log:      log.With().Str("component", "ws_handler").Logger(),
	}
}

func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
}

// Countdown godoc
// GET /ws/v1/exam/countdown?token=...
// Streams tick and lifecycle events for the caller's live exam session until
// the session reaches a terminal state or the client disconnects.
func (h *WSHandler) Countdown(c *gin.Context) {
	claims := middleware.GetClaims(c)
	sess := h.registry.Get(claims.Email)
	if sess == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNoActiveExam)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.With().Str("exam_id", sess.ExamID()).Logger()
	log.Info().Msg("Countdown stream opened")

	if state := sess.CurrentState(); state == exam.StateSubmitted || state == exam.StateCancelled {
		ws.WriteError(conn, "exam session already finished")
		return
	}

	// Reader goroutine: the client sends nothing meaningful, but reads must
	// be drained for close frames and pong handling to work.
	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	// The connection may open mid-session; send the current value first.
	if err := ws.WriteTyped(conn, ws.TickResponse{Event: exam.EventTick, RemainingSeconds: sess.Remaining()}); err != nil {
		return
	}

	pinger := time.NewTicker(pingInterval)
	defer pinger.Stop()

	for {
		select {
		case <-done:
			log.Info().Msg("Countdown stream closed by client")
			return
		case <-pinger.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		case ev := <-sess.Events():
			if err := h.writeEvent(conn, sess, ev); err != nil {
				return
			}
			if ev.Type == exam.EventSubmitted || ev.Type == exam.EventCancelled {
				log.Info().Str("event", string(ev.Type)).Msg("Countdown stream finished")
				return
			}
		}
	}
}

func (h *WSHandler) writeEvent(conn *websocket.Conn, sess *exam.Session, ev exam.Event) error {
	if ev.Type == exam.EventTick {
		return ws.WriteTyped(conn, ws.TickResponse{Event: ev.Type, RemainingSeconds: ev.RemainingSeconds})
	}
	return ws.WriteTyped(conn, ws.StateResponse{Event: ev.Type, State: sess.CurrentState()})
}
