package generation

import "strings"

// ResultProcessor validates parsed generation results before they are
// returned or persisted.
type ResultProcessor struct{}

// NewResultProcessor creates a ResultProcessor.
func NewResultProcessor() *ResultProcessor {
	return &ResultProcessor{}
}

// IsValid reports whether the result carries a usable test class: SUCCESS
// status and source code that actually declares a class.
func (p *ResultProcessor) IsValid(result *Result) bool {
	if result == nil || result.Status != StatusSuccess {
		return false
	}
	if result.TestClass == nil {
		return false
	}
	return strings.Contains(result.TestClass.SourceCode, "class")
}

// Normalize fills derived fields the model tends to leave inconsistent:
// the metadata test count is recomputed from the summary when absent.
func (p *ResultProcessor) Normalize(result *Result) {
	if result == nil {
		return
	}
	if result.Metadata != nil && result.Metadata.TestCount == 0 && result.TestSummary != nil {
		result.Metadata.TestCount = result.TestSummary.TotalTests()
	}
}
