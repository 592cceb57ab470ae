package sessionhandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/univade/testgen-ai/internal/domain/generation"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/responses"
	"github.com/univade/testgen-ai/internal/utils/platformerrors"
)

// SessionHandler exposes stored generation sessions over HTTP.
type SessionHandler struct {
	service *generation.Service
}

func NewSessionHandler(service *generation.Service) *SessionHandler {
	return &SessionHandler{service: service}
}

// Get godoc
// @Summary Get a session
// @Description Returns the stored context of one generation session.
// @Tags Sessions API
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} responses.SessionResponse "Session context"
// @Failure 404 {object} responses.ErrorResponse "Session not found"
// @Router /v1/sessions/{session_id} [get]
func (h *SessionHandler) Get(reqCtx *gin.Context) {
	sess, ok := h.service.GetSession(reqCtx.Param("session_id"))
	if !ok {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeSessionNotFound, "session not found", "5a8b1c4d-7e2f-4a9b-8c6d-3e4f5a6b7c8d")
		return
	}

	reqCtx.JSON(http.StatusOK, responses.SessionResponse{
		SessionID:      sess.SessionID,
		OwnerID:        sess.OwnerID,
		UserInput:      sess.UserInput,
		ComponentType:  sess.ComponentType,
		EntityName:     sess.EntityName,
		ConversationID: sess.ConversationID,
		UseMemory:      sess.UseMemory,
		HistoryLength:  len(sess.History),
		Metadata:       sess.Metadata,
		CreatedAt:      sess.CreatedAt,
		UpdatedAt:      sess.UpdatedAt,
	})
}

// Delete godoc
// @Summary Delete a session
// @Description Removes the session. Deleting an unknown session is a no-op.
// @Tags Sessions API
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 204 "Session deleted"
// @Router /v1/sessions/{session_id} [delete]
func (h *SessionHandler) Delete(reqCtx *gin.Context) {
	h.service.DeleteSession(reqCtx.Param("session_id"))
	reqCtx.Status(http.StatusNoContent)
}
