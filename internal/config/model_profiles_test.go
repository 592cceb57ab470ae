package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model_profiles.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadModelProfiles(t *testing.T) {
	path := writeProfiles(t, `
profiles:
  - name: default
    model: gpt-4o
    temperature: 0.2
    max_tokens: 4096
  - name: fast
    model: gpt-4o-mini
`)

	profiles, err := LoadModelProfiles(path)
	if err != nil {
		t.Fatalf("LoadModelProfiles() error = %v", err)
	}

	def := profiles.Profile("default")
	if def == nil {
		t.Fatal("expected default profile")
	}
	if def.Model != "gpt-4o" || def.MaxTokens != 4096 {
		t.Errorf("default profile = %+v", def)
	}
	if def.Temperature == nil || *def.Temperature != 0.2 {
		t.Errorf("default temperature = %v", def.Temperature)
	}

	fast := profiles.Profile("fast")
	if fast == nil || fast.Model != "gpt-4o-mini" {
		t.Errorf("fast profile = %+v", fast)
	}

	// Empty lookup falls back to "default".
	if profiles.Profile("") == nil {
		t.Error("empty name should resolve the default profile")
	}
	if profiles.Profile("missing") != nil {
		t.Error("unknown profile should be nil")
	}
	if len(profiles.Names()) != 2 {
		t.Errorf("Names() = %v", profiles.Names())
	}
}

func TestLoadModelProfilesErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty document", "profiles: []"},
		{"unnamed profile", "profiles:\n  - model: gpt-4o\n"},
		{"duplicate profile", "profiles:\n  - name: a\n    model: x\n  - name: a\n    model: y\n"},
		{"invalid yaml", "profiles: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProfiles(t, tt.content)
			if _, err := LoadModelProfiles(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadModelProfilesMissingFile(t *testing.T) {
	if _, err := LoadModelProfiles("/does/not/exist.yml"); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadModelProfiles(""); err == nil {
		t.Error("expected error for empty path")
	}
}
