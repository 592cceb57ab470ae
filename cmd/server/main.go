package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/univade/testgen-ai/internal/config"
	"github.com/univade/testgen-ai/internal/domain/conversation"
	"github.com/univade/testgen-ai/internal/domain/generation"
	"github.com/univade/testgen-ai/internal/domain/session"
	"github.com/univade/testgen-ai/internal/infrastructure/ai"
	"github.com/univade/testgen-ai/internal/infrastructure/artifact"
	"github.com/univade/testgen-ai/internal/infrastructure/crontab"
	"github.com/univade/testgen-ai/internal/infrastructure/logger"
	"github.com/univade/testgen-ai/internal/infrastructure/observability"
	"github.com/univade/testgen-ai/internal/infrastructure/prompt"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/conversationhandler"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/generationhandler"
	"github.com/univade/testgen-ai/internal/interfaces/httpserver/handlers/sessionhandler"
	v1 "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1"
	conversationroute "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/conversation"
	generationroute "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/generation"
	sessionroute "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1/session"

	_ "net/http/pprof"
)

// @title Test Generation API
// @version 1.0
// @description AI-assisted unit test generation service with conversation memory.
// @BasePath /
type Application struct {
	httpServer *httpserver.HTTPServer
	crontab    *crontab.Crontab
	log        zerolog.Logger
}

func NewApplication(httpServer *httpserver.HTTPServer, crontab *crontab.Crontab, log zerolog.Logger) *Application {
	return &Application{
		httpServer: httpServer,
		crontab:    crontab,
		log:        log,
	}
}

func (a *Application) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var eg errgroup.Group
	eg.Go(func() error {
		err := http.ListenAndServe("0.0.0.0:6060", nil)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := a.crontab.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})
	eg.Go(func() error {
		err := a.httpServer.Run(ctx)
		if err != nil {
			cancel()
		}
		return err
	})

	return eg.Wait()
}

func main() {
	loadEnvFiles()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.Setup(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("initialize observability")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown telemetry")
		}
	}()

	app, err := buildApplication(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create application")
	}

	if err := app.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("application stopped with error")
	}

	log.Info().Msg("application exited cleanly")
}

func buildApplication(cfg *config.Config, log zerolog.Logger) (*Application, error) {
	sessions := session.NewStore()
	registry := conversation.NewRegistry(log,
		conversation.WithMaxPerOwner(cfg.MaxConversationsPerOwner),
		conversation.WithInactivityThreshold(cfg.ConversationInactivityThreshold),
	)

	modelClient, err := ai.NewOpenAIClient(cfg, log)
	if err != nil {
		return nil, err
	}

	promptLoader, err := prompt.NewLoader(cfg, log)
	if err != nil {
		return nil, err
	}

	artifactManager, err := artifact.NewManager(cfg, log)
	if err != nil {
		return nil, err
	}

	service := generation.NewService(sessions, registry, modelClient, promptLoader, log,
		generation.WithArtifactSink(artifactManager),
		generation.WithDefaultOwner(cfg.DefaultOwnerID),
		generation.WithConversationWindow(cfg.ConversationWindowSize),
	)

	v1Route := newV1Route(service)
	httpServer := httpserver.NewHTTPServer(v1Route, cfg, log)
	cron := crontab.NewCrontab(registry, cfg)

	return NewApplication(httpServer, cron, log), nil
}

func newV1Route(service *generation.Service) *v1.V1Route {
	return v1.NewV1Route(
		generationroute.NewGenerationRoute(generationhandler.NewGenerationHandler(service)),
		conversationroute.NewConversationRoute(conversationhandler.NewConversationHandler(service)),
		sessionroute.NewSessionRoute(sessionhandler.NewSessionHandler(service)),
	)
}

func loadEnvFiles() {
	paths := []string{".env", "../.env"}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Overload(path); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
			}
		}
	}
}
