package generation

import (
	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/generationhandler"
)

type GenerationRoute struct {
	handler *generationhandler.GenerationHandler
}

func NewGenerationRoute(handler *generationhandler.GenerationHandler) *GenerationRoute {
	return &GenerationRoute{handler: handler}
}

func (route *GenerationRoute) RegisterRouter(router gin.IRouter) {
	testGeneration := router.Group("/test-generation")
	testGeneration.POST("/generate", route.handler.Generate)
	testGeneration.POST("/refine", route.handler.Refine)
}
