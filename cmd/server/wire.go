//go:build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/config"
	"github.com/univade/testgen-ai/internal/domain/conversation"
	"github.com/univade/testgen-ai/internal/domain/generation"
	"github.com/univade/testgen-ai/internal/domain/session"
	"github.com/univade/testgen-ai/internal/infrastructure/ai"
	"github.com/univade/testgen-ai/internal/infrastructure/artifact"
	"github.com/univade/testgen-ai/internal/infrastructure/crontab"
	"github.com/univade/testgen-ai/internal/infrastructure/logger"
	"github.com/univade/testgen-ai/internal/infrastructure/prompt"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/generationhandler"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/sessionhandler"
	v1 "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1"
	conversationroute "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/conversation"
	generationroute "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/generation"
	sessionroute "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/session"
)

var domainSet = wire.NewSet(
	session.NewStore,
	provideRegistry,
	provideGenerationService,
)

var httpSet = wire.NewSet(
	generationhandler.NewGenerationHandler,
	conversationhandler.NewConversationHandler,
	sessionhandler.NewSessionHandler,
	generationroute.NewGenerationRoute,
	conversationroute.NewConversationRoute,
	sessionroute.NewSessionRoute,
	v1.NewV1Route,
	httpserver.NewHTTPServer,
)

// BuildApplication assembles the service with Wire.
func BuildApplication() (*Application, error) {
	wire.Build(
		config.Load,
		provideLogger,
		ai.NewOpenAIClient,
		prompt.NewLoader,
		artifact.NewManager,
		domainSet,
		httpSet,
		crontab.NewCrontab,
		NewApplication,
	)
	return nil, nil
}

func provideLogger(cfg *config.Config) (zerolog.Logger, error) {
	return logger.New(cfg.LogLevel, cfg.LogFormat)
}

func provideRegistry(cfg *config.Config, log zerolog.Logger) *conversation.Registry {
	return conversation.NewRegistry(log,
		conversation.WithMaxPerOwner(cfg.MaxConversationsPerOwner),
		conversation.WithInactivityThreshold(cfg.ConversationInactivityThreshold),
	)
}

func provideGenerationService(
	sessions *session.Store,
	registry *conversation.Registry,
	model *ai.OpenAIClient,
	prompts *prompt.Loader,
	artifacts *artifact.Manager,
	cfg *config.Config,
	log zerolog.Logger,
) *generation.Service {
	return generation.NewService(sessions, registry, model, prompts, log,
		generation.WithArtifactSink(artifacts),
		generation.WithDefaultOwner(cfg.DefaultOwnerID),
		generation.WithConversationWindow(cfg.ConversationWindowSize),
	)
}
