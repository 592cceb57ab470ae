package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/univade/testgen-ai/internal/config"
	middleware "github.com/univade/testgen-ai/internal/interfaces/httpserver/middlewares"
	v1 "github.com/univade/testgen-ai/internal/interfaces/httpserver/routes/v1"
)

type HTTPServer struct {
	engine  *gin.Engine
	v1Route *v1.V1Route
	config  *config.Config
	log     zerolog.Logger
}

func NewHTTPServer(
	v1Route *v1.V1Route,
	cfg *config.Config,
	log zerolog.Logger,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)
	server := HTTPServer{
		engine:  gin.New(),
		v1Route: v1Route,
		config:  cfg,
		log:     log,
	}
	server.engine.Use(middleware.RequestID())
	server.engine.Use(middleware.TracingMiddleware(cfg.ServiceName))
	server.engine.Use(middleware.LoggingMiddleware(log))
	server.engine.Use(middleware.MetricsMiddleware())
	server.engine.Use(middleware.CORSMiddleware())

	// Root health checks
	server.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server.engine.GET("/readyz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	server.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return &server
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully.
func (httpServer *HTTPServer) Run(ctx context.Context) error {
	root := httpServer.engine.Group("/")
	httpServer.v1Route.RegisterRouter(root)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", httpServer.config.HTTPPort),
		Handler: httpServer.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		httpServer.log.Info().Int("port", httpServer.config.HTTPPort).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
