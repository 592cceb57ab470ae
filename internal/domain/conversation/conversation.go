package conversation

import "time"

// Status tracks the lifecycle of a conversation.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusCompleted Status = "COMPLETED"
)

// Context holds the state of one test-generation conversation: the session
// it is linked to, the message history, per-kind counters and the activity
// timestamp the expiry sweep keys on.
type Context struct {
	ConversationID    string         `json:"conversation_id"`
	OwnerID           string         `json:"owner_id"`
	SessionID         string         `json:"session_id,omitempty"`
	Status            Status         `json:"status"`
	Messages          []Message      `json:"messages"`
	MessageCount      int            `json:"message_count"`
	GenerationCount   int            `json:"generation_count"`
	RefinementCount   int            `json:"refinement_count"`
	TotalTokens       int            `json:"total_tokens"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	LastInteractionAt time.Time      `json:"last_interaction_at"`
	Summary           *Summary       `json:"summary,omitempty"`
}

// NewContext creates an active conversation for the given owner, linked to
// the session that opened it.
func NewContext(conversationID, ownerID, sessionID string) *Context {
	now := time.Now().UTC()
	return &Context{
		ConversationID:    conversationID,
		OwnerID:           ownerID,
		SessionID:         sessionID,
		Status:            StatusActive,
		Messages:          make([]Message, 0, 8),
		Metadata:          make(map[string]any),
		CreatedAt:         now,
		LastInteractionAt: now,
	}
}

// MarkActive records an interaction: the conversation becomes ACTIVE again
// and the activity timestamp is refreshed.
func (c *Context) MarkActive() {
	c.Status = StatusActive
	c.LastInteractionAt = time.Now().UTC()
}

// MarkInactive flags the conversation as idle. It does not touch the
// activity timestamp.
func (c *Context) MarkInactive() {
	c.Status = StatusInactive
}

// AddMessage appends a message and refreshes the activity timestamp.
func (c *Context) AddMessage(msg Message) {
	c.Messages = append(c.Messages, msg)
	c.LastInteractionAt = time.Now().UTC()
}

// IncrementMessageCount bumps the turn counter and refreshes the activity
// timestamp. One turn may append several raw messages; the counter moves
// once per turn.
func (c *Context) IncrementMessageCount() {
	c.MessageCount++
	c.LastInteractionAt = time.Now().UTC()
}

// AddMetadata sets one free-form metadata entry.
func (c *Context) AddMetadata(key string, value any) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
}

// RecentMessages returns up to n most recent messages in order.
func (c *Context) RecentMessages(n int) []Message {
	if n <= 0 || len(c.Messages) <= n {
		return c.Messages
	}
	return c.Messages[len(c.Messages)-n:]
}

// clone returns a deep copy so registry callers never share mutable state
// with the stored context.
func (c *Context) clone() *Context {
	cp := *c
	cp.Messages = append([]Message(nil), c.Messages...)
	if c.Metadata != nil {
		cp.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			cp.Metadata[k] = v
		}
	}
	if c.Summary != nil {
		summary := *c.Summary
		cp.Summary = &summary
	}
	return &cp
}

// Summary is a point-in-time digest of a conversation.
type Summary struct {
	ConversationID    string    `json:"conversation_id"`
	TotalMessages     int       `json:"total_messages"`
	GenerationCount   int       `json:"generation_count"`
	RefinementCount   int       `json:"refinement_count"`
	TotalTokens       int       `json:"total_tokens"`
	Status            Status    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	LastInteractionAt time.Time `json:"last_interaction_at"`
}

// Summarize builds a summary from the current state. TotalMessages carries
// the per-turn counter, not the raw stored message count.
func (c *Context) Summarize() *Summary {
	return &Summary{
		ConversationID:    c.ConversationID,
		TotalMessages:     c.MessageCount,
		GenerationCount:   c.GenerationCount,
		RefinementCount:   c.RefinementCount,
		TotalTokens:       c.TotalTokens,
		Status:            c.Status,
		CreatedAt:         c.CreatedAt,
		LastInteractionAt: c.LastInteractionAt,
	}
}
