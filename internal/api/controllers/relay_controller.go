package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldvisit/internal/relay"
	"fieldvisit/pkg/utils"
)

type RelayController struct {
	hub *relay.Hub
}

func NewRelayController(hub *relay.Hub) *RelayController {
	return &RelayController{hub: hub}
}

// Serve upgrades the connection into the live location relay. Clients
// join an organization room and exchange location samples over it.
// Browsers cannot set an Authorization header on a websocket handshake,
// so the JWT rides in the token query parameter.
func (r *RelayController) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Token query parameter is required")
		return
	}
	if _, err := utils.ValidateToken(token); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	relay.ServeWS(r.hub, c.Writer, c.Request)
}
