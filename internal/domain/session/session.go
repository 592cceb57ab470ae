package session

import (
	"time"

	"github.com/univade/testgen-ai/internal/domain/conversation"
)

// Context captures everything one generation session needs to rebuild its
// prompt on refinement: the original request, the optional conversation
// binding and the running message history.
type Context struct {
	SessionID      string                 `json:"session_id"`
	OwnerID        string                 `json:"owner_id"`
	UserInput      string                 `json:"user_input"`
	ClassSource    string                 `json:"class_source,omitempty"`
	ComponentType  string                 `json:"component_type,omitempty"`
	EntityName     string                 `json:"entity_name,omitempty"`
	ConversationID string                 `json:"conversation_id,omitempty"`
	UseMemory      bool                   `json:"use_memory"`
	History        []conversation.Message `json:"history,omitempty"`
	Metadata       map[string]any         `json:"metadata,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// NewContext creates a session context with timestamps set.
func NewContext(sessionID, ownerID string) *Context {
	now := time.Now().UTC()
	return &Context{
		SessionID: sessionID,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddHistory appends a message to the session-local history.
func (c *Context) AddHistory(msg conversation.Message) {
	c.History = append(c.History, msg)
	c.UpdatedAt = time.Now().UTC()
}

// AddMetadata sets one free-form metadata entry.
func (c *Context) AddMetadata(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	c.UpdatedAt = time.Now().UTC()
}

// clone returns a deep copy so store callers never share mutable state
// with the stored context.
func (c *Context) clone() *Context {
	cp := *c
	cp.History = append([]conversation.Message(nil), c.History...)
	if c.Metadata != nil {
		cp.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			cp.Metadata[k] = v
		}
	}
	return &cp
}
