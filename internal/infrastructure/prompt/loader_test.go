package prompt

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/config"
)

func TestLoaderEmbeddedDefault(t *testing.T) {
	loader, err := NewLoader(&config.Config{}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if !strings.Contains(loader.SystemPrompt(), "expert test engineer") {
		t.Errorf("unexpected default prompt: %q", loader.SystemPrompt()[:40])
	}
}

func TestLoaderFileOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.txt")
	if err := os.WriteFile(path, []byte("  custom prompt  \n"), 0o644); err != nil {
		t.Fatal(err)
	}

	loader, err := NewLoader(&config.Config{SystemPromptLoc: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if loader.SystemPrompt() != "custom prompt" {
		t.Errorf("SystemPrompt() = %q", loader.SystemPrompt())
	}
}

func TestLoaderMissingFile(t *testing.T) {
	if _, err := NewLoader(&config.Config{SystemPromptLoc: "/no/such/file"}, zerolog.Nop()); err == nil {
		t.Error("expected error for missing override file")
	}
}

func TestLoaderEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader(&config.Config{SystemPromptLoc: path}, zerolog.Nop()); err == nil {
		t.Error("expected error for empty prompt")
	}
}
