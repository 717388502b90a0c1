package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/chamados-service/internal/broadcast"
)

// StreamHandler upgrades viewer connections and ties their lifetime to the
// broadcaster's session set. The channel is push-only: a viewer fetches the
// open set via GET /tickets/open after connecting, then applies events as
// deltas; inbound messages are read for liveness and otherwise discarded.
type StreamHandler struct {
	broadcaster *broadcast.Broadcaster
}

// NewStreamHandler constructs handler.
func NewStreamHandler(broadcaster *broadcast.Broadcaster) *StreamHandler {
	return &StreamHandler{broadcaster: broadcaster}
}

// Upgrade gates the route to WebSocket upgrade requests.
func (h *StreamHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve registers the session before entering the read loop, so no event
// published after the upgrade can be missed, and unregisters on any read
// error (disconnect or broken transport).
func (h *StreamHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		session := h.broadcaster.Register(conn)
		defer h.broadcaster.Unregister(session)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
