package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/config"
	"github.com/univade/testgen-ai/internal/domain/generation"
)

const timestampLayout = "2006-01-02_15-04-05"

// Manager writes generated test classes to the local filesystem. Layout:
//
//	<base>/<sessionID>/<componentType>/<ClassName>_<timestamp>.java
//	<base>/<sessionID>/<componentType>/<ClassName>_<timestamp>.metadata.json
type Manager struct {
	basePath string
	log      zerolog.Logger
	disabled bool
}

// NewManager creates the artifact manager, preparing the base directory.
func NewManager(cfg *config.Config, log zerolog.Logger) (*Manager, error) {
	logger := log.With().Str("component", "artifact-manager").Logger()

	if !cfg.ArtifactsEnabled {
		logger.Warn().Msg("artifact persistence is disabled")
		return &Manager{log: logger, disabled: true}, nil
	}

	basePath := strings.TrimSpace(cfg.ArtifactsDir)
	if basePath == "" {
		logger.Warn().Msg("ARTIFACTS_DIR is not set; artifact persistence will be disabled")
		return &Manager{log: logger, disabled: true}, nil
	}

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifacts directory: %w", err)
	}

	logger.Info().Str("path", basePath).Msg("artifact manager initialized")

	return &Manager{basePath: basePath, log: logger}, nil
}

// Persist writes the test class and its metadata for one session.
func (m *Manager) Persist(ctx context.Context, sessionID string, result *generation.Result) error {
	if m.disabled {
		return nil
	}
	if result == nil || result.TestClass == nil {
		return errors.New("result carries no test class")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	componentType := sanitizePathSegment(componentTypeOf(result))
	dir := filepath.Join(m.basePath, sanitizePathSegment(sessionID), componentType)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}

	stem := fmt.Sprintf("%s_%s", sanitizePathSegment(classNameOf(result)), time.Now().UTC().Format(timestampLayout))

	sourcePath := filepath.Join(dir, stem+".java")
	if err := os.WriteFile(sourcePath, []byte(result.TestClass.SourceCode), 0644); err != nil {
		return fmt.Errorf("failed to write test source: %w", err)
	}

	metadataPath := filepath.Join(dir, stem+".metadata.json")
	metadata, err := json.MarshalIndent(artifactMetadata{
		SessionID:      sessionID,
		ConversationID: result.ConversationID,
		TestSummary:    result.TestSummary,
		Quality:        result.Quality,
		Metadata:       result.Metadata,
		WrittenAt:      time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(metadataPath, metadata, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	m.log.Debug().
		Str("session_id", sessionID).
		Str("path", sourcePath).
		Msg("test artifact written")

	return nil
}

type artifactMetadata struct {
	SessionID      string                       `json:"session_id"`
	ConversationID string                       `json:"conversation_id,omitempty"`
	TestSummary    *generation.TestSummary      `json:"test_summary,omitempty"`
	Quality        *generation.QualityChecklist `json:"quality_checklist,omitempty"`
	Metadata       *generation.Metadata         `json:"metadata,omitempty"`
	WrittenAt      time.Time                    `json:"written_at"`
}

func componentTypeOf(result *generation.Result) string {
	if result.Metadata != nil && result.Metadata.ComponentType != "" {
		return result.Metadata.ComponentType
	}
	return "general"
}

func classNameOf(result *generation.Result) string {
	if result.TestClass.ClassName != "" {
		return result.TestClass.ClassName
	}
	if result.Metadata != nil && result.Metadata.EntityName != "" {
		return result.Metadata.EntityName + "Test"
	}
	return "GeneratedTest"
}

// sanitizePathSegment keeps artifact paths inside the base directory.
func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	segment = strings.ReplaceAll(segment, string(os.PathSeparator), "_")
	segment = strings.ReplaceAll(segment, "..", "_")
	if segment == "" {
		return "unknown"
	}
	return segment
}
