package generation

import "testing"

func TestResultProcessorIsValid(t *testing.T) {
	processor := NewResultProcessor()

	tests := []struct {
		name   string
		result *Result
		want   bool
	}{
		{
			name: "valid success result",
			result: &Result{
				Status:    StatusSuccess,
				TestClass: &TestClass{SourceCode: "class OrderServiceTest {}"},
			},
			want: true,
		},
		{
			name:   "nil result",
			result: nil,
			want:   false,
		},
		{
			name:   "error status",
			result: &Result{Status: StatusError, TestClass: &TestClass{SourceCode: "class X {}"}},
			want:   false,
		},
		{
			name:   "missing test class",
			result: &Result{Status: StatusSuccess},
			want:   false,
		},
		{
			name: "source without a class declaration",
			result: &Result{
				Status:    StatusSuccess,
				TestClass: &TestClass{SourceCode: "func TestX(t *testing.T) {}"},
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := processor.IsValid(tt.result); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResultProcessorNormalize(t *testing.T) {
	processor := NewResultProcessor()

	result := &Result{
		Status:      StatusSuccess,
		TestSummary: &TestSummary{HappyPathTests: 2, EdgeCaseTests: 1},
		Metadata:    &Metadata{EntityName: "OrderService"},
	}
	processor.Normalize(result)
	if result.Metadata.TestCount != 3 {
		t.Errorf("TestCount = %d, want 3", result.Metadata.TestCount)
	}

	// An explicit count is kept.
	result.Metadata.TestCount = 7
	processor.Normalize(result)
	if result.Metadata.TestCount != 7 {
		t.Errorf("TestCount = %d, want 7", result.Metadata.TestCount)
	}

	// Nil-safe.
	processor.Normalize(nil)
	processor.Normalize(&Result{})
}
