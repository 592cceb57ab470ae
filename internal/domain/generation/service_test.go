package generation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/domain/conversation"
	"github.com/univade/testgen-ai/internal/domain/session"
)

const validModelReply = `Here you go:
{
  "status": "SUCCESS",
  "test_class": {
    "package": "com.example.order",
    "imports": ["org.junit.jupiter.api.Test"],
    "class_name": "OrderServiceTest",
    "annotations": ["@ExtendWith(MockitoExtension.class)"],
    "source_code": "class OrderServiceTest { @Test void createsOrder() {} }"
  },
  "test_summary": {
    "happy_path_tests": 2,
    "edge_case_tests": 1,
    "error_condition_tests": 1,
    "validation_tests": 0
  },
  "quality_checklist": {
    "compiles_without_errors": true,
    "dependencies_mocked": true,
    "assertions_meaningful": true,
    "edge_cases_covered": true,
    "naming_descriptive": true,
    "tests_are_independent": true
  },
  "metadata": {
    "component_type": "service",
    "entity_name": "OrderService",
    "test_count": 0,
    "coverage_areas": ["creation"],
    "dependencies": ["OrderRepository"],
    "test_framework": "JUnit 5",
    "assertion_library": "AssertJ"
  }
}
Let me know if you want changes.`

type fakeModel struct {
	reply    string
	err      error
	requests []ModelRequest
}

func (f *fakeModel) Complete(_ context.Context, req ModelRequest) (*ModelResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &ModelResponse{Content: f.reply, Model: "fake", PromptTokens: 10, CompletionTokens: 20}, nil
}

type staticPrompt string

func (p staticPrompt) SystemPrompt() string { return string(p) }

type captureSink struct {
	sessions []string
	err      error
}

func (c *captureSink) Persist(_ context.Context, sessionID string, _ *Result) error {
	if c.err != nil {
		return c.err
	}
	c.sessions = append(c.sessions, sessionID)
	return nil
}

type fixture struct {
	sessions *session.Store
	registry *conversation.Registry
	model    *fakeModel
	sink     *captureSink
	service  *Service
}

func newFixture(model *fakeModel, opts ...ServiceOption) *fixture {
	f := &fixture{
		sessions: session.NewStore(),
		registry: conversation.NewRegistry(zerolog.Nop()),
		model:    model,
		sink:     &captureSink{},
	}
	opts = append([]ServiceOption{WithArtifactSink(f.sink)}, opts...)
	f.service = NewService(f.sessions, f.registry, model, staticPrompt("You generate tests."), zerolog.Nop(), opts...)
	return f
}

func TestGenerateSuccess(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Generate(context.Background(), &Request{
		UserInput:     "generate tests",
		ComponentType: "service",
		EntityName:    "OrderService",
	})

	if result.Status != StatusSuccess {
		t.Fatalf("Status = %s (%s: %s)", result.Status, result.ErrorCode, result.ErrorMessage)
	}
	if result.SessionID == "" {
		t.Error("expected a session id on the result")
	}
	if result.TestClass == nil || result.TestClass.ClassName != "OrderServiceTest" {
		t.Errorf("TestClass = %+v", result.TestClass)
	}
	// Normalize fills test_count from the summary.
	if result.Metadata == nil || result.Metadata.TestCount != 4 {
		t.Errorf("Metadata.TestCount = %+v", result.Metadata)
	}

	if _, ok := f.sessions.Find(result.SessionID); !ok {
		t.Error("session should be stored")
	}
	if len(f.sink.sessions) != 1 {
		t.Errorf("artifact writes = %d, want 1", len(f.sink.sessions))
	}
}

func TestGenerateInvalidInput(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Generate(context.Background(), &Request{UserInput: "   "})

	if result.Status != StatusError || result.ErrorCode != ErrCodeInvalidInput {
		t.Errorf("result = %s/%s", result.Status, result.ErrorCode)
	}
	if f.sessions.Len() != 0 {
		t.Error("invalid input must not create a session")
	}
	if len(f.model.requests) != 0 {
		t.Error("invalid input must not call the model")
	}
}

func TestGenerateUpstreamFailureStillStoresSession(t *testing.T) {
	f := newFixture(&fakeModel{err: errors.New("connection refused")})

	result := f.service.Generate(context.Background(), &Request{UserInput: "generate tests"})

	if result.Status != StatusError || result.ErrorCode != ErrCodeUpstreamFailure {
		t.Fatalf("result = %s/%s", result.Status, result.ErrorCode)
	}
	if result.SessionID == "" {
		t.Fatal("a failed generation still gets a session id")
	}
	if _, ok := f.sessions.Find(result.SessionID); !ok {
		t.Error("the session is upserted before the model call")
	}
	if len(f.sink.sessions) != 0 {
		t.Error("no artifact on failure")
	}
}

func TestGenerateExtractionFailure(t *testing.T) {
	f := newFixture(&fakeModel{reply: "I cannot produce JSON today."})

	result := f.service.Generate(context.Background(), &Request{UserInput: "generate tests"})

	if result.ErrorCode != ErrCodeExtractionFailed {
		t.Errorf("ErrorCode = %s, want %s", result.ErrorCode, ErrCodeExtractionFailed)
	}
	if result.RawResponse == "" {
		t.Error("raw reply should be kept for diagnosis")
	}
}

func TestGenerateParseFailure(t *testing.T) {
	f := newFixture(&fakeModel{reply: `{"status": SUCCESS}`})

	result := f.service.Generate(context.Background(), &Request{UserInput: "generate tests"})

	if result.ErrorCode != ErrCodeParseFailed {
		t.Errorf("ErrorCode = %s, want %s", result.ErrorCode, ErrCodeParseFailed)
	}
}

func TestGenerateWithMemoryStartsConversation(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Generate(context.Background(), &Request{
		UserInput: "generate tests",
		OwnerID:   "owner-1",
		UseMemory: true,
	})

	if result.ConversationID == "" {
		t.Fatal("memory generation should start a conversation")
	}
	if !result.IsNewConversation {
		t.Error("a freshly started conversation should be flagged as new")
	}

	conv, ok := f.registry.Peek(result.ConversationID)
	if !ok {
		t.Fatal("conversation should exist")
	}
	if conv.SessionID != result.SessionID {
		t.Errorf("conversation linked to session %q, want %q", conv.SessionID, result.SessionID)
	}
	if conv.GenerationCount != 1 {
		t.Errorf("GenerationCount = %d, want 1", conv.GenerationCount)
	}
	if conv.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want one turn", conv.MessageCount)
	}
	if len(conv.Messages) != 2 {
		t.Fatalf("messages = %d, want user + assistant", len(conv.Messages))
	}
	if conv.Messages[0].Role != conversation.RoleUser {
		t.Errorf("first message role = %s", conv.Messages[0].Role)
	}
	if conv.Messages[1].Role != conversation.RoleAssistant {
		t.Errorf("second message role = %s", conv.Messages[1].Role)
	}
	if conv.TotalTokens != 30 {
		t.Errorf("TotalTokens = %d, want 30", conv.TotalTokens)
	}
}

func TestGenerateWithExistingConversationReplaysWindow(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	first := f.service.Generate(context.Background(), &Request{
		UserInput: "generate tests",
		UseMemory: true,
	})
	second := f.service.Generate(context.Background(), &Request{
		UserInput:      "add edge cases",
		UseMemory:      true,
		ConversationID: first.ConversationID,
	})

	if second.ConversationID != first.ConversationID {
		t.Errorf("conversation id changed: %s vs %s", second.ConversationID, first.ConversationID)
	}
	if second.IsNewConversation {
		t.Error("continuing an existing conversation must not be flagged as new")
	}

	// Second call replays the first turn's user+assistant messages.
	lastReq := f.model.requests[len(f.model.requests)-1]
	if len(lastReq.Messages) != 3 {
		t.Errorf("replayed messages = %d, want 3", len(lastReq.Messages))
	}
	if lastReq.System != "You generate tests." {
		t.Errorf("system prompt = %q", lastReq.System)
	}

	conv, _ := f.registry.Peek(first.ConversationID)
	if conv.GenerationCount != 2 {
		t.Errorf("GenerationCount = %d, want 2", conv.GenerationCount)
	}
}

func TestGenerateUnknownConversationLeavesStoresUntouched(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Generate(context.Background(), &Request{
		UserInput:      "generate tests",
		UseMemory:      true,
		ConversationID: "conv_missing",
	})

	if result.ErrorCode != ErrCodeConversationNotFound {
		t.Fatalf("ErrorCode = %s", result.ErrorCode)
	}
	if f.sessions.Len() != 0 {
		t.Error("no session should be stored")
	}
	if f.registry.Len() != 0 {
		t.Error("no conversation should be created")
	}
	if len(f.model.requests) != 0 {
		t.Error("the model must not be called")
	}
}

func TestRefineUnknownSession(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Refine(context.Background(), "missing", "more edge cases")

	if result.ErrorCode != ErrCodeSessionNotFound {
		t.Errorf("ErrorCode = %s, want %s", result.ErrorCode, ErrCodeSessionNotFound)
	}
}

func TestRefineUsesStoredSession(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	generated := f.service.Generate(context.Background(), &Request{
		UserInput: "generate tests",
		UseMemory: true,
	})

	refined := f.service.Refine(context.Background(), generated.SessionID, "cover null input")

	if refined.Status != StatusSuccess {
		t.Fatalf("refine failed: %s/%s", refined.ErrorCode, refined.ErrorMessage)
	}
	if refined.SessionID != generated.SessionID {
		t.Errorf("session id = %s, want %s", refined.SessionID, generated.SessionID)
	}

	conv, _ := f.registry.Peek(generated.ConversationID)
	if conv.RefinementCount != 1 {
		t.Errorf("RefinementCount = %d, want 1", conv.RefinementCount)
	}

	// Refinement prompt embeds the previous raw reply and the feedback.
	lastReq := f.model.requests[len(f.model.requests)-1]
	prompt := lastReq.Messages[len(lastReq.Messages)-1].Content
	if !strings.Contains(prompt, "cover null input") {
		t.Errorf("refinement prompt missing feedback: %q", prompt)
	}
}

func TestRefineInConversationUnknownConversation(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.RefineInConversation(context.Background(), "conv_missing", "feedback")

	if result.ErrorCode != ErrCodeConversationNotFound {
		t.Fatalf("ErrorCode = %s", result.ErrorCode)
	}
	if f.sessions.Len() != 0 || f.registry.Len() != 0 {
		t.Error("unknown conversation refinement must not mutate stores")
	}
}

func TestRefineInConversation(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	generated := f.service.Generate(context.Background(), &Request{
		UserInput: "generate tests",
		UseMemory: true,
	})

	refined := f.service.RefineInConversation(context.Background(), generated.ConversationID, "use AssertJ")

	if refined.Status != StatusSuccess {
		t.Fatalf("refine failed: %s", refined.ErrorCode)
	}
	if refined.SessionID != generated.SessionID {
		t.Errorf("refinement resolves the linked session, got %q want %q",
			refined.SessionID, generated.SessionID)
	}

	conv, _ := f.registry.Peek(generated.ConversationID)
	if conv.RefinementCount != 1 {
		t.Errorf("RefinementCount = %d, want 1", conv.RefinementCount)
	}

	sess, ok := f.sessions.Find(generated.SessionID)
	if !ok {
		t.Fatal("linked session should still exist")
	}
	if len(sess.History) != 4 {
		t.Errorf("session history = %d, want 4", len(sess.History))
	}
}

func TestRefineInConversationMissingLinkedSession(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	generated := f.service.Generate(context.Background(), &Request{
		UserInput: "generate tests",
		UseMemory: true,
	})
	f.service.DeleteSession(generated.SessionID)

	result := f.service.RefineInConversation(context.Background(), generated.ConversationID, "use AssertJ")

	if result.Status != StatusError {
		t.Fatalf("Status = %s, want %s", result.Status, StatusError)
	}
	if result.ErrorCode != ErrCodeSessionNotFound {
		t.Errorf("ErrorCode = %s, want %s", result.ErrorCode, ErrCodeSessionNotFound)
	}
	if f.sessions.Len() != 0 {
		t.Error("refinement must not mint a replacement session")
	}
}

func TestContinueConversation(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	generated := f.service.Generate(context.Background(), &Request{
		UserInput: "generate tests",
		UseMemory: true,
	})

	result := f.service.ContinueConversation(context.Background(), generated.ConversationID, "explain the edge cases")
	if result.Status != StatusSuccess {
		t.Fatalf("continue failed: %s", result.ErrorCode)
	}

	conv, _ := f.registry.Peek(generated.ConversationID)
	if len(conv.Messages) != 4 {
		t.Errorf("messages = %d, want 4", len(conv.Messages))
	}

	missing := f.service.ContinueConversation(context.Background(), "conv_missing", "hello")
	if missing.ErrorCode != ErrCodeConversationNotFound {
		t.Errorf("ErrorCode = %s", missing.ErrorCode)
	}
}

func TestArtifactFailureDoesNotAffectResult(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})
	f.sink.err = errors.New("disk full")

	result := f.service.Generate(context.Background(), &Request{UserInput: "generate tests"})

	if result.Status != StatusSuccess {
		t.Errorf("artifact failure must not fail the generation, got %s", result.Status)
	}
}

func TestGenerateWithoutMemorySkipsConversation(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Generate(context.Background(), &Request{UserInput: "generate tests"})

	if result.ConversationID != "" {
		t.Errorf("ConversationID = %q, want empty", result.ConversationID)
	}
	if result.IsNewConversation {
		t.Error("a memoryless generation must not be flagged as a new conversation")
	}
	if f.registry.Len() != 0 {
		t.Errorf("registry Len() = %d, want 0", f.registry.Len())
	}
}

func TestGenerateReusesSuppliedSessionID(t *testing.T) {
	f := newFixture(&fakeModel{reply: validModelReply})

	result := f.service.Generate(context.Background(), &Request{
		SessionID: "sess-retry",
		UserInput: "generate tests",
	})

	if result.SessionID != "sess-retry" {
		t.Fatalf("SessionID = %q, want sess-retry", result.SessionID)
	}
	if _, ok := f.sessions.Find("sess-retry"); !ok {
		t.Fatal("session should be stored under the supplied id")
	}

	// A retry with the same id overwrites the prior session state.
	retry := f.service.Generate(context.Background(), &Request{
		SessionID: "sess-retry",
		UserInput: "generate tests again",
	})
	if retry.SessionID != "sess-retry" {
		t.Errorf("retry SessionID = %q, want sess-retry", retry.SessionID)
	}
	if f.sessions.Len() != 1 {
		t.Errorf("sessions = %d, want 1", f.sessions.Len())
	}

	sess, _ := f.sessions.Find("sess-retry")
	if sess.UserInput != "generate tests again" {
		t.Errorf("UserInput = %q, retry should overwrite", sess.UserInput)
	}
}
