package generation

import (
	"strings"
	"testing"
)

func TestBuildUserPrompt(t *testing.T) {
	refiner := NewPromptRefiner()

	prompt := refiner.BuildUserPrompt(&Request{
		UserInput:     "generate tests for the checkout flow",
		ClassSource:   "class CheckoutService {}",
		ComponentType: "service",
		EntityName:    "CheckoutService",
	})

	for _, want := range []string{
		"Component type: service",
		"Entity under test: CheckoutService",
		"generate tests for the checkout flow",
		"class CheckoutService {}",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildUserPromptOmitsEmptySections(t *testing.T) {
	refiner := NewPromptRefiner()

	prompt := refiner.BuildUserPrompt(&Request{UserInput: "just do it"})

	if strings.Contains(prompt, "Component type") {
		t.Error("empty component type should be omitted")
	}
	if strings.Contains(prompt, "Source code under test") {
		t.Error("empty class source should be omitted")
	}
	if !strings.Contains(prompt, "just do it") {
		t.Error("user input must be present")
	}
}

func TestBuildRefinementPrompt(t *testing.T) {
	refiner := NewPromptRefiner()

	prompt := refiner.BuildRefinementPrompt(`{"status":"SUCCESS"}`, "add null checks")

	if !strings.Contains(prompt, `{"status":"SUCCESS"}`) {
		t.Error("previous result should be embedded")
	}
	if !strings.Contains(prompt, "add null checks") {
		t.Error("feedback should be embedded")
	}

	// Without a previous result, the section is dropped.
	prompt = refiner.BuildRefinementPrompt("", "feedback only")
	if strings.Contains(prompt, "Previous result") {
		t.Error("empty previous result should be omitted")
	}
}
