package session

import (
	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/sessionhandler"
)

type SessionRoute struct {
	handler *sessionhandler.SessionHandler
}

func NewSessionRoute(handler *sessionhandler.SessionHandler) *SessionRoute {
	return &SessionRoute{handler: handler}
}

func (route *SessionRoute) RegisterRouter(router gin.IRouter) {
	sessions := router.Group("/sessions")
	sessions.GET("/:session_id", route.handler.Get)
	sessions.DELETE("/:session_id", route.handler.Delete)
}
