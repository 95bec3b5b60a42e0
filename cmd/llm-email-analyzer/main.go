package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/adapters/httpapi"
	"github.com/mikey/llm-email-analyzer/internal/adapters/smtpd"
	"github.com/mikey/llm-email-analyzer/internal/config"
	"github.com/mikey/llm-email-analyzer/internal/di"
	"github.com/mikey/llm-email-analyzer/internal/factory"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	cfg *config.Config,
	server *httpapi.Server,
	intake *smtpd.Filter,
	clients *factory.ClientFactory,
) error {
	defer logger.Sync()

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			errCh <- err
		}
	}()

	smtpCfg := cfg.GetSMTP()
	if smtpCfg.Enabled {
		if err := intake.Start(); err != nil {
			logger.Error("Failed to start SMTP intake", zap.Error(err))
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("Shutting down...", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("HTTP server failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}

	if smtpCfg.Enabled {
		if err := intake.Stop(); err != nil {
			logger.Error("Failed to stop SMTP intake", zap.Error(err))
		}
	}

	// Close any provider clients that need closing
	clients.Close()

	logger.Info("Shutdown complete")
	return nil
}
