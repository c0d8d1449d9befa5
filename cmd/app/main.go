package main

import (
	"BlogAPI/internal/config"
	"BlogAPI/pkg/log"
	"BlogAPI/pkg/redis"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// logger needs the env, so this one goes to stderr
		os.Stderr.WriteString("Error loading .env file: " + err.Error() + "\n")
	}

	cfg := config.Load()
	logger := log.NewLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}

	fiberApp := config.NewFiber(cfg)
	validator := config.NewValidator()
	redisServer := redis.New(cfg.Cache.Redis, logger)

	server, err := config.NewServer(
		config.WithConfig(cfg),
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(cfg.DB),
		config.WithMediaUploader(cfg.Media),
		config.WithRedisServer(redisServer),
		config.WithMiddleware(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Infof("Server started on port %s", cfg.App.Port)

	<-sigChan
	logger.Info("Shutting down server...")

	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.Errorf("Shutdown finished with errors: %v", err)
		os.Exit(1)
	}

	logger.Info("Server stopped")
}
