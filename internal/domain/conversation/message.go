package conversation

import (
	"time"

	"github.com/univade/testgen-ai/internal/utils/idgen"
)

// MessageType classifies conversation messages beyond their chat role.
type MessageType string

const (
	MessageTypeUserInput            MessageType = "USER_INPUT"
	MessageTypeAIResponse           MessageType = "AI_RESPONSE"
	MessageTypeSystem               MessageType = "SYSTEM"
	MessageTypeTestGenerationResult MessageType = "TEST_GENERATION_RESULT"
	MessageTypeTestRefinement       MessageType = "TEST_REFINEMENT"
	MessageTypeSummary              MessageType = "SUMMARY"
)

// Role is the chat role the message carries when replayed to a model.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message is a single turn stored on a conversation.
type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Role      Role        `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// UserMessage creates a user-authored message.
func UserMessage(content string) Message {
	return newMessage(MessageTypeUserInput, RoleUser, content)
}

// AssistantMessage creates a model-authored message.
func AssistantMessage(content string) Message {
	return newMessage(MessageTypeAIResponse, RoleAssistant, content)
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return newMessage(MessageTypeSystem, RoleSystem, content)
}

// TypedMessage creates a message with an explicit type, keeping the role
// consistent with how the content is replayed.
func TypedMessage(msgType MessageType, role Role, content string) Message {
	return newMessage(msgType, role, content)
}

func newMessage(msgType MessageType, role Role, content string) Message {
	return Message{
		ID:        idgen.MustGenerateSecureID("msg", 16),
		Type:      msgType,
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
}
