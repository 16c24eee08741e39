// Package app is the composition root: it wires configuration, the loader,
// the judge and the HTTP router together. Bootstrap stays orchestration-only.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"oascore.io/oascore/internal/api/handlers"
	"oascore.io/oascore/internal/config"
	"oascore.io/oascore/internal/judge"
	"oascore.io/oascore/internal/oas"
	"oascore.io/oascore/internal/pkg/logger"
	"oascore.io/oascore/internal/pkg/worker"
	"oascore.io/oascore/internal/rules"
)

// Application holds composed application dependencies.
type Application struct {
	Config *config.Config
	Router *gin.Engine
	Judge  *judge.Judge
	Pool   *worker.Pool

	server *http.Server
}

// Bootstrap initializes all dependencies using manual DI.
func Bootstrap(_ context.Context, cfg *config.Config) (*Application, error) {
	loader := oas.NewLoader()
	loader.MaxBytes = cfg.Limits.MaxDocumentBytes

	var (
		pool *worker.Pool
		opts []judge.Option
	)
	opts = append(opts, judge.WithRules(
		rules.AllWithLimits(cfg.Scoring.Weights, cfg.Limits.MaxSchemaDepth)))
	if cfg.Worker.Parallel {
		p, err := worker.NewPool("rule-eval", cfg.Worker.EvalPoolSize)
		if err != nil {
			return nil, fmt.Errorf("init worker pool: %w", err)
		}
		pool = p
		opts = append(opts, judge.WithPool(pool))
	}

	j := judge.New(cfg.Scoring.Weights, opts...)
	server := handlers.NewServer(j, loader)

	return &Application{
		Config: cfg,
		Router: newRouter(cfg, server),
		Judge:  j,
		Pool:   pool,
	}, nil
}

// Start runs the HTTP server until the listener fails or Shutdown is called.
func (a *Application) Start() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
	logger.Info("server listening", zap.Int("port", a.Config.Server.Port))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and the worker pool.
func (a *Application) Shutdown() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", zap.Error(err))
		}
	}
	if a.Pool != nil {
		a.Pool.Shutdown()
	}
}

func (a *Application) shutdownTimeout() time.Duration {
	if t := a.Config.Server.ShutdownTimeout; t > 0 {
		return t
	}
	return 10 * time.Second
}
