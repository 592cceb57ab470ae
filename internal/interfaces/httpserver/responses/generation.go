package responses

import (
	"time"

	"github.com/univade/testgen-ai/internal/domain/conversation"
	"github.com/univade/testgen-ai/internal/domain/generation"
)

// GenerationResponse wraps a generation result for the wire. Pipeline
// failures ride along with HTTP 200: the status field carries the outcome.
type GenerationResponse struct {
	Result *generation.Result `json:"result"`
}

// NewGenerationResponse wraps a result.
func NewGenerationResponse(result *generation.Result) GenerationResponse {
	return GenerationResponse{Result: result}
}

// ConversationResponse is the wire shape of one conversation.
type ConversationResponse struct {
	ConversationID    string              `json:"conversation_id"`
	OwnerID           string              `json:"owner_id"`
	SessionID         string              `json:"session_id,omitempty"`
	Status            conversation.Status `json:"status"`
	MessageCount      int                 `json:"message_count"`
	GenerationCount   int                 `json:"generation_count"`
	RefinementCount   int                 `json:"refinement_count"`
	TotalTokens       int                 `json:"total_tokens"`
	Metadata          map[string]any      `json:"metadata,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	LastInteractionAt time.Time           `json:"last_interaction_at"`
}

// NewConversationResponse converts a domain conversation.
func NewConversationResponse(conv *conversation.Context) ConversationResponse {
	return ConversationResponse{
		ConversationID:    conv.ConversationID,
		OwnerID:           conv.OwnerID,
		SessionID:         conv.SessionID,
		Status:            conv.Status,
		MessageCount:      conv.MessageCount,
		GenerationCount:   conv.GenerationCount,
		RefinementCount:   conv.RefinementCount,
		TotalTokens:       conv.TotalTokens,
		Metadata:          conv.Metadata,
		CreatedAt:         conv.CreatedAt,
		LastInteractionAt: conv.LastInteractionAt,
	}
}

// ConversationListResponse lists conversation summaries.
type ConversationListResponse struct {
	Conversations []*conversation.Summary `json:"conversations"`
	Total         int                     `json:"total"`
}

// SessionResponse is the wire shape of one stored session.
type SessionResponse struct {
	SessionID      string         `json:"session_id"`
	OwnerID        string         `json:"owner_id"`
	UserInput      string         `json:"user_input"`
	ComponentType  string         `json:"component_type,omitempty"`
	EntityName     string         `json:"entity_name,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	UseMemory      bool           `json:"use_conversation_memory"`
	HistoryLength  int            `json:"history_length"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}
