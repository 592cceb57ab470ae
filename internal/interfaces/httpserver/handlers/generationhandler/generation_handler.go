package generationhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/domain/generation"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/requests"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/responses"
	"github.com/univade/testgen-ai/internal/utils/platformerrors"
)

// GenerationHandler exposes the generation pipeline over HTTP.
type GenerationHandler struct {
	service *generation.Service
}

func NewGenerationHandler(service *generation.Service) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// Generate godoc
// @Summary Generate tests
// @Description Generates unit tests for the supplied source. Pipeline failures are reported in the result status, not as HTTP errors.
// @Tags Test Generation API
// @Accept json
// @Produce json
// @Param request body requests.GenerateTestsRequest true "Generation request"
// @Success 200 {object} responses.GenerationResponse "Generation result"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Router /v1/test-generation/generate [post]
func (h *GenerationHandler) Generate(reqCtx *gin.Context) {
	var req requests.GenerateTestsRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request payload", "4f2b8a1d-9c3e-4d6f-8a7b-1e5c9d2f3a4b")
		return
	}

	result := h.service.Generate(reqCtx.Request.Context(), &generation.Request{
		SessionID:      req.SessionID,
		UserInput:      req.UserInput,
		ClassSource:    req.ClassSource,
		ComponentType:  req.ComponentType,
		EntityName:     req.EntityName,
		OwnerID:        req.UserID,
		ConversationID: req.ConversationID,
		UseMemory:      req.UseMemory,
	})

	reqCtx.JSON(http.StatusOK, responses.NewGenerationResponse(result))
}

// Refine godoc
// @Summary Refine generated tests
// @Description Refines a previous generation, addressed either by session or by conversation.
// @Tags Test Generation API
// @Accept json
// @Produce json
// @Param request body requests.RefineTestsRequest true "Refinement request"
// @Success 200 {object} responses.GenerationResponse "Refinement result"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Router /v1/test-generation/refine [post]
func (h *GenerationHandler) Refine(reqCtx *gin.Context) {
	var req requests.RefineTestsRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request payload", "7c1d4e8f-2a5b-4c9d-8e3f-6a1b2c3d4e5f")
		return
	}
	if err := req.Validate(); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, err.Error(), "9e2f5a8b-3c6d-4e1f-9a4b-7c2d3e4f5a6b")
		return
	}

	var result *generation.Result
	if req.SessionID != "" {
		result = h.service.Refine(reqCtx.Request.Context(), req.SessionID, req.Feedback)
	} else {
		result = h.service.RefineInConversation(reqCtx.Request.Context(), req.ConversationID, req.Feedback)
	}

	reqCtx.JSON(http.StatusOK, responses.NewGenerationResponse(result))
}
