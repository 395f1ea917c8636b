package handler

import (
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/internal/pkg/serverutils"
	internalWS "routine-advisor-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ChangeFeedHandler upgrades a profile's connection to the websocket change feed.
type ChangeFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewChangeFeedHandler(hub *internalWS.Hub, log logger.ILogger) *ChangeFeedHandler {
	return &ChangeFeedHandler{
		hub:    hub,
		logger: log,
	}
}

func (h *ChangeFeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	profileID := serverutils.ProfileID(c)
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChangeFeedHandler", "Starting WebSocket session", map[string]interface{}{"profile_id": profileID})
		internalWS.ServeWs(h.hub, conn, profileID)
		h.logger.Info("ChangeFeedHandler", "WebSocket session ended", map[string]interface{}{"profile_id": profileID})
	})(c)
}

func (h *ChangeFeedHandler) RegisterRoutes(router fiber.Router) {
	// Browsers cannot set headers on the handshake, so the profile usually comes as ?profile_id=
	router.Get("/advisor/v1/ws", serverutils.ProfileMiddleware, h.ServeWs)
}
