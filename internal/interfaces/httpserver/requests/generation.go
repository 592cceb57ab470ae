package requests

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GenerateTestsRequest is the payload for POST /v1/test-generation/generate.
// A supplied session_id is reused; otherwise one is generated.
type GenerateTestsRequest struct {
	SessionID      string `json:"session_id,omitempty"`
	UserInput      string `json:"user_input" binding:"required" validate:"required"`
	ClassSource    string `json:"class_source,omitempty"`
	ComponentType  string `json:"component_type,omitempty"`
	EntityName     string `json:"entity_name,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	UseMemory      bool   `json:"use_conversation_memory,omitempty"`
}

// RefineTestsRequest is the payload for POST /v1/test-generation/refine.
// Exactly one of SessionID or ConversationID selects the refinement target.
type RefineTestsRequest struct {
	SessionID      string `json:"session_id,omitempty"`
	ConversationID string `json:"conversation_id,omitempty"`
	Feedback       string `json:"feedback" binding:"required" validate:"required"`
}

// Validate runs struct-level validation beyond gin's binding tags.
func (r *RefineTestsRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if (r.SessionID == "") == (r.ConversationID == "") {
		return errExactlyOneTarget
	}
	return nil
}

// ContinueConversationRequest is the payload for
// POST /v1/conversations/:id/continue.
type ContinueConversationRequest struct {
	Input string `json:"input" binding:"required" validate:"required"`
}

// UpdateConversationMetadataRequest is the payload for
// PUT /v1/conversations/:id/metadata.
type UpdateConversationMetadataRequest struct {
	Metadata map[string]any `json:"metadata" binding:"required" validate:"required"`
}

type targetError string

func (e targetError) Error() string { return string(e) }

const errExactlyOneTarget = targetError("exactly one of session_id or conversation_id must be provided")
