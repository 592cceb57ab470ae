package conversation

import (
	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/conversationhandler"
)

type ConversationRoute struct {
	handler *conversationhandler.ConversationHandler
}

func NewConversationRoute(handler *conversationhandler.ConversationHandler) *ConversationRoute {
	return &ConversationRoute{handler: handler}
}

func (route *ConversationRoute) RegisterRouter(router gin.IRouter) {
	conversations := router.Group("/conversations")
	conversations.GET("", route.handler.List)
	conversations.GET("/:conversation_id", route.handler.Get)
	conversations.DELETE("/:conversation_id", route.handler.Delete)
	conversations.POST("/:conversation_id/end", route.handler.End)
	conversations.GET("/:conversation_id/summary", route.handler.Summary)
	conversations.PUT("/:conversation_id/metadata", route.handler.UpdateMetadata)
	conversations.POST("/:conversation_id/continue", route.handler.Continue)
}
