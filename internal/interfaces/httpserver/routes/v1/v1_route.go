package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/conversation"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/generation"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/session"
)

type V1Route struct {
	generation   *generation.GenerationRoute
	conversation *conversation.ConversationRoute
	session      *session.SessionRoute
}

func NewV1Route(
	generation *generation.GenerationRoute,
	conversation *conversation.ConversationRoute,
	session *session.SessionRoute,
) *V1Route {
	return &V1Route{
		generation,
		conversation,
		session,
	}
}

func (v1Route *V1Route) RegisterRouter(router gin.IRouter) {
	v1Router := router.Group("/v1")
	v1Router.GET("/healthz", GetHealthz)
	v1Router.GET("/readyz", GetReadyz)

	v1Route.generation.RegisterRouter(v1Router)
	v1Route.conversation.RegisterRouter(v1Router)
	v1Route.session.RegisterRouter(v1Router)
}

// GetHealthz godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API server. Used by orchestrators and monitoring systems.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Health status OK"
// @Router /v1/healthz [get]
func GetHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetReadyz godoc
// @Summary Readiness check endpoint
// @Description Returns the readiness status of the API server. Indicates if the service is ready to accept traffic.
// @Tags Server API
// @Produce json
// @Success 200 {object} map[string]string "Readiness status ready"
// @Router /v1/readyz [get]
func GetReadyz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
