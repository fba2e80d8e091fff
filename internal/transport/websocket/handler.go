package websocket

import (
	"net/http"
	"slices"

	"sysmon-agent/internal/auth"
	"sysmon-agent/internal/logger"

	"github.com/gorilla/websocket"
)

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	verifier *auth.Verifier
	log      logger.Logger
}

// NewHandler upgrades requests for hub. With no allowed origins configured
// gorilla's same-origin check applies.
func NewHandler(hub *Hub, verifier *auth.Verifier, allowedOrigins []string, log logger.Logger) *Handler {
	upgrader := websocket.Upgrader{}

	if len(allowedOrigins) > 0 {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || slices.Contains(allowedOrigins, origin) {
				return true
			}
			log.Warn("ws: origin rejected", "origin", origin)
			return false
		}
	}

	return &Handler{
		hub:      hub,
		upgrader: upgrader,
		verifier: verifier,
		log:      log,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.verifier.Verify(auth.TokenFromRequest(r)); err != nil {
		h.log.Warn("ws: token rejected", "remote_addr", r.RemoteAddr, "error", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws: upgrade failed", "error", err)
		return
	}

	client := NewClient(h.hub, conn, h.log)
	if !h.hub.Register(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
