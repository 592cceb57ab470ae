package generation

import "time"

// Status is the outcome of one generation or refinement attempt.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusError   Status = "ERROR"
)

// ErrorCode identifies why a generation attempt failed. Failures travel on
// the result, not as Go errors: a failed pipeline still produces a result.
type ErrorCode string

const (
	ErrCodeNone                 ErrorCode = ""
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeSessionNotFound      ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeConversationNotFound ErrorCode = "CONVERSATION_NOT_FOUND"
	ErrCodeExtractionFailed     ErrorCode = "EXTRACTION_FAILED"
	ErrCodeParseFailed          ErrorCode = "PARSE_FAILED"
	ErrCodeUpstreamFailure      ErrorCode = "UPSTREAM_FAILURE"
)

// TestClass is the generated test source and its surroundings.
type TestClass struct {
	Package     string   `json:"package"`
	Imports     []string `json:"imports"`
	ClassName   string   `json:"class_name"`
	Annotations []string `json:"annotations"`
	SourceCode  string   `json:"source_code"`
}

// TestSummary counts the generated test cases by kind.
type TestSummary struct {
	HappyPathTests      int `json:"happy_path_tests"`
	EdgeCaseTests       int `json:"edge_case_tests"`
	ErrorConditionTests int `json:"error_condition_tests"`
	ValidationTests     int `json:"validation_tests"`
}

// TotalTests sums all test kinds.
func (s TestSummary) TotalTests() int {
	return s.HappyPathTests + s.EdgeCaseTests + s.ErrorConditionTests + s.ValidationTests
}

// QualityChecklist is the model's self-assessment of the generated tests.
type QualityChecklist struct {
	CompilesWithoutErrors bool `json:"compiles_without_errors"`
	DependenciesMocked    bool `json:"dependencies_mocked"`
	AssertionsMeaningful  bool `json:"assertions_meaningful"`
	EdgeCasesCovered      bool `json:"edge_cases_covered"`
	NamingDescriptive     bool `json:"naming_descriptive"`
	TestsAreIndependent   bool `json:"tests_are_independent"`
}

// Metadata describes what was generated and with which tooling.
type Metadata struct {
	ComponentType    string   `json:"component_type"`
	EntityName       string   `json:"entity_name"`
	TestCount        int      `json:"test_count"`
	CoverageAreas    []string `json:"coverage_areas"`
	Dependencies     []string `json:"dependencies"`
	TestFramework    string   `json:"test_framework"`
	AssertionLibrary string   `json:"assertion_library"`
}

// Result is the outcome of one generation or refinement. On ERROR the
// structured payload fields are empty and ErrorCode/ErrorMessage explain
// what went wrong.
type Result struct {
	Status            Status            `json:"status"`
	SessionID         string            `json:"session_id,omitempty"`
	ConversationID    string            `json:"conversation_id,omitempty"`
	IsNewConversation bool              `json:"new_conversation"`
	ErrorCode         ErrorCode         `json:"error_code,omitempty"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	TestClass         *TestClass        `json:"test_class,omitempty"`
	TestSummary       *TestSummary      `json:"test_summary,omitempty"`
	Quality           *QualityChecklist `json:"quality_checklist,omitempty"`
	Metadata          *Metadata         `json:"metadata,omitempty"`
	RawResponse       string            `json:"-"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ErrorResult builds an ERROR result with the given code and message.
func ErrorResult(code ErrorCode, message string) *Result {
	return &Result{
		Status:       StatusError,
		ErrorCode:    code,
		ErrorMessage: message,
		CreatedAt:    time.Now().UTC(),
	}
}

// IsSuccess reports whether the result carries a usable payload status.
func (r *Result) IsSuccess() bool {
	return r != nil && r.Status == StatusSuccess
}

// modelPayload is the wire shape the model is instructed to emit. It is
// parsed out of the extracted JSON window and merged into a Result.
type modelPayload struct {
	Status      string            `json:"status"`
	TestClass   *TestClass        `json:"test_class"`
	TestSummary *TestSummary      `json:"test_summary"`
	Quality     *QualityChecklist `json:"quality_checklist"`
	Metadata    *Metadata         `json:"metadata"`
}
