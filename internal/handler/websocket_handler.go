package handler

import (
	"net/http"

	"github.com/dafibh/fortuna/networth-backend/internal/websocket"
	ws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler upgrades dashboard connections and subscribes them to the hub
type WebSocketHandler struct {
	hub      *websocket.Hub
	origins  map[string]struct{}
	anyOrig  bool
	upgrader ws.Upgrader
}

// NewWebSocketHandler accepts the same origin list as the CORS middleware; "*" allows any origin
func NewWebSocketHandler(hub *websocket.Hub, allowedOrigins []string) *WebSocketHandler {
	h := &WebSocketHandler{
		hub:     hub,
		origins: make(map[string]struct{}, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			h.anyOrig = true
			continue
		}
		h.origins[origin] = struct{}{}
	}
	h.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin admits non-browser clients, which send no Origin header
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || h.anyOrig {
		return true
	}
	if _, ok := h.origins[origin]; ok {
		return true
	}
	log.Warn().Str("origin", origin).Msg("Dashboard websocket rejected: origin not allowed")
	return false
}

// HandleWS handles GET /ws. The first frame is the latest metrics snapshot
// when one has been published.
func (h *WebSocketHandler) HandleWS(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Str("remote_ip", c.RealIP()).Msg("Websocket upgrade failed")
		return err
	}

	peer := websocket.NewPeer(conn, h.hub)
	log.Info().
		Str("peer_id", peer.ID()).
		Str("remote_ip", c.RealIP()).
		Msg("Dashboard connected")

	go peer.Serve()
	return nil
}
