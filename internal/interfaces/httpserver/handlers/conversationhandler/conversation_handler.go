package conversationhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/domain/generation"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/requests"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/responses"
	"github.com/univade/testgen-ai/internal/utils/platformerrors"
)

// ConversationHandler exposes conversation lifecycle operations over HTTP.
type ConversationHandler struct {
	service *generation.Service
}

func NewConversationHandler(service *generation.Service) *ConversationHandler {
	return &ConversationHandler{service: service}
}

// List godoc
// @Summary List conversations
// @Description Lists conversation summaries for an owner in insertion order.
// @Tags Conversations API
// @Produce json
// @Param user_id query string false "Owner to list; defaults to the configured owner"
// @Success 200 {object} responses.ConversationListResponse "Conversation summaries"
// @Router /v1/conversations [get]
func (h *ConversationHandler) List(reqCtx *gin.Context) {
	summaries := h.service.ListConversations(reqCtx.Query("user_id"))
	reqCtx.JSON(http.StatusOK, responses.ConversationListResponse{
		Conversations: summaries,
		Total:         len(summaries),
	})
}

// Get godoc
// @Summary Get a conversation
// @Description Returns one conversation. Reading it counts as activity: the conversation is re-activated and its idle clock restarts.
// @Tags Conversations API
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} responses.ConversationResponse "Conversation"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conversation_id} [get]
func (h *ConversationHandler) Get(reqCtx *gin.Context) {
	conv, ok := h.service.GetConversation(reqCtx.Param("conversation_id"))
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeConversationNotFound, "conversation not found", "2a7e4b1c-8d3f-4a6e-9b2c-5d8e1f4a7b3c")
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(conv))
}

// End godoc
// @Summary End a conversation
// @Description Marks the conversation completed. It stays retrievable until the inactivity sweep removes it.
// @Tags Conversations API
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} map[string]string "Conversation ended"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conversation_id}/end [post]
func (h *ConversationHandler) End(reqCtx *gin.Context) {
	conversationID := reqCtx.Param("conversation_id")
	if !h.service.EndConversation(conversationID) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeConversationNotFound, "conversation not found", "6b3c8d1e-4f7a-4b2c-8e5d-9a1f2b3c4d5e")
		return
	}
	reqCtx.JSON(http.StatusOK, gin.H{"conversation_id": conversationID, "status": "COMPLETED"})
}

// Delete godoc
// @Summary Delete a conversation
// @Description Removes the conversation outright. Deleting an unknown conversation is a no-op.
// @Tags Conversations API
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 204 "Conversation deleted"
// @Router /v1/conversations/{conversation_id} [delete]
func (h *ConversationHandler) Delete(reqCtx *gin.Context) {
	h.service.DeleteConversation(reqCtx.Param("conversation_id"))
	reqCtx.Status(http.StatusNoContent)
}

// Summary godoc
// @Summary Summarize a conversation
// @Description Builds and returns a digest of the conversation without refreshing its activity.
// @Tags Conversations API
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} conversation.Summary "Conversation summary"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conversation_id}/summary [get]
func (h *ConversationHandler) Summary(reqCtx *gin.Context) {
	summary, ok := h.service.SummarizeConversation(reqCtx.Param("conversation_id"))
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeConversationNotFound, "conversation not found", "8d1e5f2a-6b9c-4d3e-8f7a-1b4c5d6e7f8a")
		return
	}
	reqCtx.JSON(http.StatusOK, summary)
}

// UpdateMetadata godoc
// @Summary Update conversation metadata
// @Description Merges free-form metadata entries into the conversation. Updating metadata counts as activity.
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.UpdateConversationMetadataRequest true "Metadata entries"
// @Success 200 {object} responses.ConversationResponse "Updated conversation"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Failure 404 {object} responses.ErrorResponse "Conversation not found"
// @Router /v1/conversations/{conversation_id}/metadata [put]
func (h *ConversationHandler) UpdateMetadata(reqCtx *gin.Context) {
	var req requests.UpdateConversationMetadataRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request payload", "1f4a7b2c-9d6e-4f3a-8b5c-2e7d8f9a0b1c")
		return
	}

	conversationID := reqCtx.Param("conversation_id")
	if !h.service.UpdateConversationMetadata(conversationID, req.Metadata) {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeConversationNotFound, "conversation not found", "4c9d2e5f-8a1b-4c6d-9e3f-7a8b9c0d1e2f")
		return
	}

	conv, ok := h.service.GetConversation(conversationID)
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeConversationNotFound, "conversation not found", "6e1f4a7b-2c5d-4e8f-9a0b-3c4d5e6f7a8b")
		return
	}
	reqCtx.JSON(http.StatusOK, responses.NewConversationResponse(conv))
}

// Continue godoc
// @Summary Continue a conversation
// @Description Runs a free-form follow-up turn inside an existing conversation.
// @Tags Conversations API
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.ContinueConversationRequest true "Follow-up input"
// @Success 200 {object} responses.GenerationResponse "Turn result"
// @Failure 400 {object} responses.ErrorResponse "Invalid request payload"
// @Router /v1/conversations/{conversation_id}/continue [post]
func (h *ConversationHandler) Continue(reqCtx *gin.Context) {
	var req requests.ContinueConversationRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request payload", "3e6f9a2b-5c8d-4e1f-9a3b-6c7d8e9f0a1b")
		return
	}

	result := h.service.ContinueConversation(reqCtx.Request.Context(), reqCtx.Param("conversation_id"), req.Input)
	reqCtx.JSON(http.StatusOK, responses.NewGenerationResponse(result))
}
