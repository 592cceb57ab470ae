package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/domain/conversation"
	"github.com/univade/testgen-ai/internal/domain/session"
	"github.com/univade/testgen-ai/internal/infrastructure/metrics"
	"github.com/univade/testgen-ai/internal/utils/jsonextract"
)

// Request is the input for one generation attempt. A caller-supplied
// SessionID is reused as-is; retries with the same id overwrite the prior
// session state.
type Request struct {
	SessionID      string
	UserInput      string
	ClassSource    string
	ComponentType  string
	EntityName     string
	OwnerID        string
	ConversationID string
	UseMemory      bool
}

// Service orchestrates the generation pipeline: session bookkeeping,
// conversation memory, prompt assembly, the model call and response
// processing. Pipeline failures are returned as ERROR results, never as Go
// errors.
type Service struct {
	sessions     *session.Store
	registry     *conversation.Registry
	model        ModelClient
	systemPrompt SystemPromptSource
	refiner      *PromptRefiner
	processor    *ResultProcessor
	artifacts    ArtifactSink
	defaultOwner string
	windowSize   int
	log          zerolog.Logger
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithArtifactSink attaches a best-effort artifact persister.
func WithArtifactSink(sink ArtifactSink) ServiceOption {
	return func(s *Service) { s.artifacts = sink }
}

// WithDefaultOwner sets the owner used when a request does not name one.
func WithDefaultOwner(owner string) ServiceOption {
	return func(s *Service) {
		if owner != "" {
			s.defaultOwner = owner
		}
	}
}

// WithConversationWindow sets how many recent messages are replayed to the
// model on memory-backed calls.
func WithConversationWindow(n int) ServiceOption {
	return func(s *Service) {
		if n > 0 {
			s.windowSize = n
		}
	}
}

// NewService creates the orchestrator.
func NewService(
	sessions *session.Store,
	registry *conversation.Registry,
	model ModelClient,
	systemPrompt SystemPromptSource,
	log zerolog.Logger,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		sessions:     sessions,
		registry:     registry,
		model:        model,
		systemPrompt: systemPrompt,
		refiner:      NewPromptRefiner(),
		processor:    NewResultProcessor(),
		defaultOwner: "default-user",
		windowSize:   10,
		log:          log.With().Str("component", "generation-service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate runs one generation attempt. The session is upserted before
// the model call, so a failed attempt still leaves a session behind for
// refinement.
func (s *Service) Generate(ctx context.Context, req *Request) *Result {
	if req == nil || strings.TrimSpace(req.UserInput) == "" {
		return s.record("generate", ErrorResult(ErrCodeInvalidInput, "user input is required"))
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	owner := req.OwnerID
	if owner == "" {
		owner = s.defaultOwner
	}

	var conv *conversation.Context
	newConversation := false
	if req.UseMemory {
		if req.ConversationID != "" {
			existing, ok := s.registry.Get(req.ConversationID)
			if !ok {
				return s.record("generate", ErrorResult(ErrCodeConversationNotFound,
					fmt.Sprintf("conversation %s not found", req.ConversationID)))
			}
			conv = existing
		} else {
			conv = s.registry.Start(owner, sessionID)
			newConversation = true
		}
	}

	sess := session.NewContext(sessionID, owner)
	sess.UserInput = req.UserInput
	sess.ClassSource = req.ClassSource
	sess.ComponentType = req.ComponentType
	sess.EntityName = req.EntityName
	sess.UseMemory = req.UseMemory
	if conv != nil {
		sess.ConversationID = conv.ConversationID
	}
	s.sessions.Save(sess)

	userPrompt := s.refiner.BuildUserPrompt(req)
	result := s.complete(ctx, conv, userPrompt)
	result.SessionID = sessionID
	result.IsNewConversation = newConversation
	if conv != nil {
		result.ConversationID = conv.ConversationID
	}

	if result.IsSuccess() {
		s.processor.Normalize(result)
		if conv != nil {
			s.registry.AppendMessage(conv.ConversationID, conversation.UserMessage(userPrompt))
			s.registry.AppendMessage(conv.ConversationID,
				conversation.TypedMessage(conversation.MessageTypeTestGenerationResult, conversation.RoleAssistant, result.RawResponse))
			s.registry.IncrementMessageCount(conv.ConversationID)
			s.registry.IncrementGeneration(conv.ConversationID)
		}
		s.sessions.Update(sessionID, func(c *session.Context) {
			c.AddHistory(conversation.UserMessage(userPrompt))
			c.AddHistory(conversation.AssistantMessage(result.RawResponse))
		})
		s.persistArtifact(ctx, sessionID, result)
	}

	return s.record("generate", result)
}

// Refine reruns the pipeline for an existing session with user feedback.
func (s *Service) Refine(ctx context.Context, sessionID, feedback string) *Result {
	if strings.TrimSpace(feedback) == "" {
		return s.record("refine", ErrorResult(ErrCodeInvalidInput, "feedback is required"))
	}

	sess, ok := s.sessions.Find(sessionID)
	if !ok {
		return s.record("refine", ErrorResult(ErrCodeSessionNotFound,
			fmt.Sprintf("session %s not found", sessionID)))
	}

	var conv *conversation.Context
	if sess.ConversationID != "" {
		conv, _ = s.registry.Get(sess.ConversationID)
	}

	prompt := s.refiner.BuildRefinementPrompt(s.lastAssistantContent(sess.History), feedback)
	result := s.complete(ctx, conv, prompt)
	result.SessionID = sessionID
	result.ConversationID = sess.ConversationID

	if result.IsSuccess() {
		s.processor.Normalize(result)
		if conv != nil {
			s.registry.AppendMessage(conv.ConversationID,
				conversation.TypedMessage(conversation.MessageTypeTestRefinement, conversation.RoleUser, feedback))
			s.registry.AppendMessage(conv.ConversationID, conversation.AssistantMessage(result.RawResponse))
			s.registry.IncrementMessageCount(conv.ConversationID)
			s.registry.IncrementRefinement(conv.ConversationID)
		}
		s.sessions.Update(sessionID, func(c *session.Context) {
			c.AddHistory(conversation.UserMessage(feedback))
			c.AddHistory(conversation.AssistantMessage(result.RawResponse))
		})
		s.persistArtifact(ctx, sessionID, result)
	}

	return s.record("refine", result)
}

// RefineInConversation refines against the session linked to a
// conversation. Unknown conversations and a missing linked session are
// distinct ERROR results; the second can only happen when the two stores
// diverge (for example after an explicit session delete).
func (s *Service) RefineInConversation(ctx context.Context, conversationID, feedback string) *Result {
	if strings.TrimSpace(feedback) == "" {
		return s.record("refine", ErrorResult(ErrCodeInvalidInput, "feedback is required"))
	}

	conv, ok := s.registry.Get(conversationID)
	if !ok {
		return s.record("refine", ErrorResult(ErrCodeConversationNotFound,
			fmt.Sprintf("conversation %s not found", conversationID)))
	}

	sess, ok := s.sessions.Find(conv.SessionID)
	if !ok {
		return s.record("refine", ErrorResult(ErrCodeSessionNotFound,
			fmt.Sprintf("session %s not found", conv.SessionID)))
	}

	previous := s.lastAssistantContent(sess.History)
	if previous == "" {
		previous = s.lastAssistantContent(conv.Messages)
	}

	prompt := s.refiner.BuildRefinementPrompt(previous, feedback)
	result := s.complete(ctx, conv, prompt)
	result.SessionID = sess.SessionID
	result.ConversationID = conv.ConversationID

	if result.IsSuccess() {
		s.processor.Normalize(result)
		s.registry.AppendMessage(conv.ConversationID,
			conversation.TypedMessage(conversation.MessageTypeTestRefinement, conversation.RoleUser, feedback))
		s.registry.AppendMessage(conv.ConversationID, conversation.AssistantMessage(result.RawResponse))
		s.registry.IncrementMessageCount(conv.ConversationID)
		s.registry.IncrementRefinement(conv.ConversationID)
		s.sessions.Update(sess.SessionID, func(c *session.Context) {
			c.AddHistory(conversation.UserMessage(feedback))
			c.AddHistory(conversation.AssistantMessage(result.RawResponse))
		})
		s.persistArtifact(ctx, sess.SessionID, result)
	}

	return s.record("refine", result)
}

// ContinueConversation runs a free-form follow-up turn in an existing
// conversation through the same pipeline.
func (s *Service) ContinueConversation(ctx context.Context, conversationID, input string) *Result {
	if strings.TrimSpace(input) == "" {
		return s.record("continue", ErrorResult(ErrCodeInvalidInput, "input is required"))
	}

	conv, ok := s.registry.Get(conversationID)
	if !ok {
		return s.record("continue", ErrorResult(ErrCodeConversationNotFound,
			fmt.Sprintf("conversation %s not found", conversationID)))
	}

	result := s.complete(ctx, conv, input)
	result.SessionID = conv.SessionID
	result.ConversationID = conv.ConversationID

	if result.IsSuccess() {
		s.processor.Normalize(result)
		s.registry.AppendMessage(conv.ConversationID, conversation.UserMessage(input))
		s.registry.AppendMessage(conv.ConversationID, conversation.AssistantMessage(result.RawResponse))
		s.registry.IncrementMessageCount(conv.ConversationID)
		s.sessions.Update(conv.SessionID, func(c *session.Context) {
			c.AddHistory(conversation.UserMessage(input))
			c.AddHistory(conversation.AssistantMessage(result.RawResponse))
		})
	}

	return s.record("continue", result)
}

// EndConversation marks a conversation completed.
func (s *Service) EndConversation(conversationID string) bool {
	return s.registry.End(conversationID)
}

// GetConversation returns a conversation, refreshing its activity.
func (s *Service) GetConversation(conversationID string) (*conversation.Context, bool) {
	return s.registry.Get(conversationID)
}

// DeleteConversation removes a conversation outright.
func (s *Service) DeleteConversation(conversationID string) {
	s.registry.Delete(conversationID)
}

// ListConversations returns summaries for an owner's conversations.
func (s *Service) ListConversations(ownerID string) []*conversation.Summary {
	if ownerID == "" {
		ownerID = s.defaultOwner
	}
	return s.registry.ListByOwner(ownerID)
}

// UpdateConversationMetadata merges metadata entries into a conversation.
// Returns false on unknown conversations.
func (s *Service) UpdateConversationMetadata(conversationID string, metadata map[string]any) bool {
	return s.registry.UpdateMetadata(conversationID, metadata)
}

// SummarizeConversation builds and attaches a summary.
func (s *Service) SummarizeConversation(conversationID string) (*conversation.Summary, bool) {
	return s.registry.Summarize(conversationID)
}

// GetSession returns a stored session context.
func (s *Service) GetSession(sessionID string) (*session.Context, bool) {
	return s.sessions.Find(sessionID)
}

// DeleteSession removes a session. No-op when absent.
func (s *Service) DeleteSession(sessionID string) {
	s.sessions.Delete(sessionID)
}

// complete performs the model call and turns the raw reply into a Result.
func (s *Service) complete(ctx context.Context, conv *conversation.Context, userPrompt string) *Result {
	messages := make([]ModelMessage, 0, s.windowSize+1)
	if conv != nil {
		for _, msg := range conv.RecentMessages(s.windowSize) {
			messages = append(messages, ModelMessage{Role: string(msg.Role), Content: msg.Content})
		}
	}
	messages = append(messages, ModelMessage{Role: string(conversation.RoleUser), Content: userPrompt})

	start := time.Now()
	resp, err := s.model.Complete(ctx, ModelRequest{
		System:   s.systemPrompt.SystemPrompt(),
		Messages: messages,
	})
	if err != nil {
		s.log.Error().Err(err).Msg("model call failed")
		return ErrorResult(ErrCodeUpstreamFailure, err.Error())
	}

	metrics.RecordModelCall(resp.Model, time.Since(start).Seconds(), resp.PromptTokens, resp.CompletionTokens)

	if conv != nil {
		s.registry.AddTokens(conv.ConversationID, resp.PromptTokens+resp.CompletionTokens)
	}

	return s.parse(resp.Content)
}

// parse extracts the JSON window from the raw reply and unmarshals it.
func (s *Service) parse(raw string) *Result {
	window, found := jsonextract.Extract(raw)
	if !found {
		s.log.Warn().Int("raw_len", len(raw)).Msg("no JSON object in model reply")
		result := ErrorResult(ErrCodeExtractionFailed, "model reply contains no JSON object")
		result.RawResponse = raw
		return result
	}

	var payload modelPayload
	if err := json.Unmarshal([]byte(window), &payload); err != nil {
		s.log.Warn().Err(err).Msg("model reply JSON does not parse")
		result := ErrorResult(ErrCodeParseFailed, fmt.Sprintf("parse model reply: %v", err))
		result.RawResponse = raw
		return result
	}

	status := StatusSuccess
	if strings.EqualFold(payload.Status, string(StatusError)) {
		status = StatusError
	}

	return &Result{
		Status:      status,
		TestClass:   payload.TestClass,
		TestSummary: payload.TestSummary,
		Quality:     payload.Quality,
		Metadata:    payload.Metadata,
		RawResponse: raw,
		CreatedAt:   time.Now().UTC(),
	}
}

// persistArtifact writes the result to disk when a sink is configured.
// Failures are logged and swallowed.
func (s *Service) persistArtifact(ctx context.Context, sessionID string, result *Result) {
	if s.artifacts == nil || !s.processor.IsValid(result) {
		return
	}
	if err := s.artifacts.Persist(ctx, sessionID, result); err != nil {
		metrics.RecordArtifact(false)
		s.log.Warn().Err(err).Str("session_id", sessionID).Msg("artifact persistence failed")
		return
	}
	metrics.RecordArtifact(true)
}

// lastAssistantContent returns the content of the most recent assistant
// message in the history, or empty.
func (s *Service) lastAssistantContent(history []conversation.Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == conversation.RoleAssistant {
			return history[i].Content
		}
	}
	return ""
}

// record emits the outcome metric and returns the result unchanged.
func (s *Service) record(operation string, result *Result) *Result {
	metrics.RecordGeneration(operation, string(result.Status), string(result.ErrorCode))
	return result
}
