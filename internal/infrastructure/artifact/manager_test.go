package artifact

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/config"
	"github.com/univade/testgen-ai/internal/domain/generation"
)

func successResult() *generation.Result {
	return &generation.Result{
		Status: generation.StatusSuccess,
		TestClass: &generation.TestClass{
			ClassName:  "OrderServiceTest",
			SourceCode: "class OrderServiceTest {}",
		},
		TestSummary: &generation.TestSummary{HappyPathTests: 1},
		Metadata: &generation.Metadata{
			ComponentType: "service",
			EntityName:    "OrderService",
		},
	}
}

func TestManagerPersist(t *testing.T) {
	base := t.TempDir()
	mgr, err := NewManager(&config.Config{ArtifactsEnabled: true, ArtifactsDir: base}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if err := mgr.Persist(context.Background(), "sess-1", successResult()); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	dir := filepath.Join(base, "sess-1", "service")
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read artifact dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("artifact files = %d, want source + metadata", len(entries))
	}

	var sawSource, sawMetadata bool
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasSuffix(name, ".metadata.json"):
			sawMetadata = true
		case strings.HasSuffix(name, ".java"):
			sawSource = true
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "class OrderServiceTest {}" {
				t.Errorf("source content = %q", data)
			}
		}
		if !strings.HasPrefix(name, "OrderServiceTest_") {
			t.Errorf("file name %q should start with the class name", name)
		}
	}
	if !sawSource || !sawMetadata {
		t.Errorf("sawSource=%v sawMetadata=%v", sawSource, sawMetadata)
	}
}

func TestManagerDisabled(t *testing.T) {
	mgr, err := NewManager(&config.Config{ArtifactsEnabled: false}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	if err := mgr.Persist(context.Background(), "sess-1", successResult()); err != nil {
		t.Errorf("disabled manager should no-op, got %v", err)
	}
}

func TestManagerRejectsMissingTestClass(t *testing.T) {
	mgr, err := NewManager(&config.Config{ArtifactsEnabled: true, ArtifactsDir: t.TempDir()}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	if err := mgr.Persist(context.Background(), "sess-1", &generation.Result{Status: generation.StatusSuccess}); err == nil {
		t.Error("expected error for a result without a test class")
	}
}

func TestManagerSanitizesPathSegments(t *testing.T) {
	base := t.TempDir()
	mgr, err := NewManager(&config.Config{ArtifactsEnabled: true, ArtifactsDir: base}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	result := successResult()
	result.Metadata.ComponentType = "../escape"

	if err := mgr.Persist(context.Background(), "../sess", result); err != nil {
		t.Fatalf("Persist() error = %v", err)
	}

	// Nothing may land outside the base directory.
	outside := filepath.Join(base, "..", "sess")
	if _, err := os.Stat(outside); err == nil {
		t.Error("artifact escaped the base directory")
	}
}
