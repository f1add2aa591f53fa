package handlers

import (
	"log"

	"storefront_backend/internal/ws"
	"storefront_backend/middleware"
	"storefront_backend/models"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	Hub *ws.Hub
}

func NewNotificationHandler(hub *ws.Hub) *NotificationHandler {
	return &NotificationHandler{Hub: hub}
}

// WebSocketUpgradeMiddleware ensures the client is trying to upgrade to
// WebSocket and hands the authenticated user to the connection.
func (h *NotificationHandler) WebSocketUpgradeMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("ws_user", middleware.CurrentUser(c))
	return c.Next()
}

// Handler returns the websocket handler for GET /ws/orders
func (h *NotificationHandler) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		user, ok := c.Locals("ws_user").(*models.User)
		if !ok || user == nil {
			log.Println("Missing user in WebSocket connection")
			c.Close()
			return
		}

		client := ws.NewClient(h.Hub, c, user.ID)
		h.Hub.Register <- client

		go client.WritePump()
		client.ReadPump()
	})
}
