package generation

import (
	"fmt"
	"strings"
)

// PromptRefiner assembles the user-facing prompt text for generation and
// refinement turns. The system prompt is owned by the prompt loader; this
// only shapes the per-request content.
type PromptRefiner struct{}

// NewPromptRefiner creates a PromptRefiner.
func NewPromptRefiner() *PromptRefiner {
	return &PromptRefiner{}
}

// BuildUserPrompt builds the generation prompt from the request fields.
// Empty optional fields are left out so the model is not fed blank sections.
func (r *PromptRefiner) BuildUserPrompt(req *Request) string {
	var b strings.Builder

	if req.ComponentType != "" {
		fmt.Fprintf(&b, "Component type: %s\n", req.ComponentType)
	}
	if req.EntityName != "" {
		fmt.Fprintf(&b, "Entity under test: %s\n", req.EntityName)
	}

	b.WriteString("Task:\n")
	b.WriteString(strings.TrimSpace(req.UserInput))
	b.WriteString("\n")

	if req.ClassSource != "" {
		b.WriteString("\nSource code under test:\n```\n")
		b.WriteString(strings.TrimSpace(req.ClassSource))
		b.WriteString("\n```\n")
	}

	return b.String()
}

// BuildRefinementPrompt builds a follow-up prompt from the previous raw
// model output and the user's feedback.
func (r *PromptRefiner) BuildRefinementPrompt(previousRaw, feedback string) string {
	var b strings.Builder

	b.WriteString("Refine the previously generated tests.\n")
	if previousRaw != "" {
		b.WriteString("\nPrevious result:\n")
		b.WriteString(strings.TrimSpace(previousRaw))
		b.WriteString("\n")
	}
	b.WriteString("\nFeedback:\n")
	b.WriteString(strings.TrimSpace(feedback))
	b.WriteString("\n\nApply the feedback and return the complete updated result in the same JSON format.\n")

	return b.String()
}
