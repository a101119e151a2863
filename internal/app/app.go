// Package app wires configuration, logging, the pipeline, and the HTTP
// adapter into a runnable service.
package app

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"casemark/internal/api"
	"casemark/internal/classify"
	"casemark/internal/config"
	"casemark/internal/pipeline"
)

// Application is the assembled HTTP service.
type Application struct {
	server *http.Server
	logger *zap.Logger
}

// New assembles the service from config.
func New(cfg *config.Config, logger *zap.Logger) *Application {
	p := pipeline.New(cfg.PipelineOptions(), logger)
	handlers := api.NewHandlers(p, classify.New(logger), logger)

	return &Application{
		logger: logger,
		server: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      api.NewRouter(handlers),
			ReadTimeout:  cfg.Server.ReadTimeout.Std(),
			WriteTimeout: cfg.Server.WriteTimeout.Std(),
			IdleTimeout:  cfg.Server.IdleTimeout.Std(),
		},
	}
}

// Run serves until the listener fails or Shutdown is called.
func (a *Application) Run() error {
	a.logger.Info("server listening", zap.String("address", a.server.Addr))
	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (a *Application) Shutdown(ctx context.Context) error {
	a.logger.Info("server shutting down")
	return a.server.Shutdown(ctx)
}
