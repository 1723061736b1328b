package transport

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/anime-shed/card-inspector-go/internal/config"
	"github.com/anime-shed/card-inspector-go/internal/logger"
)

const shutdownTimeout = 30 * time.Second

// Serve runs the HTTP server until ctx is done or SIGINT/SIGTERM arrives,
// then shuts it down gracefully.
func Serve(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	// Create HTTP server with configurable timeouts
	server := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.RequestTimeout.Std(),
		WriteTimeout: cfg.Server.RequestTimeout.Std(),
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		logger.WithFields(logrus.Fields{
			"address":  cfg.ServerAddress(),
			"timeout":  cfg.Server.RequestTimeout.Std().String(),
			"analyzer": cfg.Analysis.Analyzer,
			"database": cfg.Storage.DatabasePath,
		}).Info("Starting HTTP server")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...")

	// Create a deadline for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}
