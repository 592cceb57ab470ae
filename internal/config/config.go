package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton so cron jobs and legacy call sites can reach the
// current config without threading it through.
var globalConfig *Config

// Config holds all environment backed configuration for the service.
type Config struct {
	// HTTP Server
	HTTPPort    int `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int `env:"METRICS_PORT" envDefault:"9091"`

	// Model provider
	OpenAIAPIKey    string        `env:"OPENAI_API_KEY,notEmpty"`
	OpenAIBaseURL   string        `env:"OPENAI_BASE_URL"`
	OpenAIModel     string        `env:"OPENAI_MODEL" envDefault:"gpt-4o"`
	Temperature     float32       `env:"OPENAI_TEMPERATURE" envDefault:"0.2"`
	MaxTokens       int           `env:"OPENAI_MAX_TOKENS" envDefault:"4096"`
	ModelTimeout    time.Duration `env:"MODEL_TIMEOUT" envDefault:"120s"`
	SystemPromptLoc string        `env:"SYSTEM_PROMPT_FILE"`

	// Model profiles
	ModelProfilesEnabled bool                  `env:"MODEL_PROFILES_ENABLED" envDefault:"false"`
	ModelProfilesFile    string                `env:"MODEL_PROFILES_FILE"`
	ModelProfileSet      string                `env:"MODEL_PROFILE_SET" envDefault:"default"`
	ProfileBootstrap     *ProfileBootstrapFile `env:"-"`

	// Conversations
	MaxConversationsPerOwner        int           `env:"MAX_CONVERSATIONS_PER_OWNER" envDefault:"20"`
	ConversationInactivityThreshold time.Duration `env:"CONVERSATION_INACTIVITY_THRESHOLD" envDefault:"30m"`
	ConversationSweepSchedule       string        `env:"CONVERSATION_SWEEP_SCHEDULE" envDefault:"*/5 * * * *"`
	DefaultOwnerID                  string        `env:"DEFAULT_OWNER_ID" envDefault:"default-user"`
	ConversationWindowSize          int           `env:"CONVERSATION_WINDOW_SIZE" envDefault:"10"`

	// Artifacts
	ArtifactsEnabled bool   `env:"ARTIFACTS_ENABLED" envDefault:"true"`
	ArtifactsDir     string `env:"ARTIFACTS_DIR" envDefault:"generated-tests"`

	// Observability / Logging
	OTLPEndpoint     string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTLPHeaders      string `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName      string `env:"SERVICE_NAME" envDefault:"testgen-ai"`
	ServiceNamespace string `env:"SERVICE_NAMESPACE" envDefault:"univade"`
	Environment      string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string `env:"LOG_FORMAT" envDefault:"console"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.MaxConversationsPerOwner <= 0 {
		return nil, errors.New("MAX_CONVERSATIONS_PER_OWNER must be positive")
	}
	if cfg.ConversationInactivityThreshold <= 0 {
		return nil, errors.New("CONVERSATION_INACTIVITY_THRESHOLD must be positive")
	}

	cfg.ModelProfileSet = strings.TrimSpace(cfg.ModelProfileSet)
	if cfg.ModelProfileSet == "" {
		cfg.ModelProfileSet = "default"
	}

	if cfg.ModelProfilesEnabled {
		profileFile := strings.TrimSpace(cfg.ModelProfilesFile)
		if profileFile == "" {
			profileFile = DefaultModelProfilesFile
		}
		bootstrap, err := LoadModelProfiles(profileFile)
		if err != nil {
			return nil, fmt.Errorf("load model profiles: %w", err)
		}
		cfg.ProfileBootstrap = bootstrap
		if bootstrap.Profile(cfg.ModelProfileSet) == nil {
			return nil, fmt.Errorf("model profile %q is missing in %s", cfg.ModelProfileSet, profileFile)
		}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// EffectiveModel resolves the model settings, letting an enabled profile set
// override the flat env values.
func (c *Config) EffectiveModel() (model string, temperature float32, maxTokens int) {
	model, temperature, maxTokens = c.OpenAIModel, c.Temperature, c.MaxTokens
	if c.ProfileBootstrap == nil {
		return
	}
	profile := c.ProfileBootstrap.Profile(c.ModelProfileSet)
	if profile == nil {
		return
	}
	if profile.Model != "" {
		model = profile.Model
	}
	if profile.Temperature != nil {
		temperature = *profile.Temperature
	}
	if profile.MaxTokens > 0 {
		maxTokens = profile.MaxTokens
	}
	return
}

// GetGlobal returns the global config instance.
func GetGlobal() *Config {
	return globalConfig
}
