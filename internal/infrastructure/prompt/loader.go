// Package prompt owns the system prompt for generation calls. The default
// prompt ships embedded in the binary; SYSTEM_PROMPT_FILE overrides it.
package prompt

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/config"
)

//go:embed system_prompt.txt
var defaultSystemPrompt string

// Loader resolves the system prompt once at construction and serves it from
// memory afterwards.
type Loader struct {
	prompt string
	log    zerolog.Logger
}

// NewLoader builds the loader, reading the override file when configured.
func NewLoader(cfg *config.Config, log zerolog.Logger) (*Loader, error) {
	logger := log.With().Str("component", "prompt-loader").Logger()

	promptText := defaultSystemPrompt
	if path := strings.TrimSpace(cfg.SystemPromptLoc); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read system prompt %q: %w", path, err)
		}
		promptText = string(data)
		logger.Info().Str("path", path).Msg("system prompt loaded from file")
	}

	promptText = strings.TrimSpace(promptText)
	if promptText == "" {
		return nil, fmt.Errorf("system prompt is empty")
	}

	return &Loader{prompt: promptText, log: logger}, nil
}

// SystemPrompt returns the cached system prompt.
func (l *Loader) SystemPrompt() string {
	return l.prompt
}
