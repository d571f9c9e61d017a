// Command tts-server exposes the sermon-to-audio converter over HTTP.
package main

import (
	"fmt"
	"os"

	"github.com/book-expert/logger"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/socarrandinn/tts-text-to-voice/internal/api"
	"github.com/socarrandinn/tts-text-to-voice/internal/config"
	"github.com/socarrandinn/tts-text-to-voice/internal/library"
	"github.com/socarrandinn/tts-text-to-voice/internal/presets"
	"github.com/socarrandinn/tts-text-to-voice/internal/tts"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	bootstrapLog, err := logger.New(os.TempDir(), "tts-server-bootstrap.log")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to create bootstrap logger: %v\n", err)

		return err
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logDir := cfg.Paths.BaseLogsDir
	if logDir == "" {
		logDir = os.TempDir()
	}

	finalLog, err := logger.New(logDir, "tts-server.log")
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return fmt.Errorf("failed to create final logger: %w", err)
	}

	defer func() {
		closeErr := finalLog.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	engine, err := tts.NewEngine(cfg, finalLog)
	if err != nil {
		return err
	}

	presetStore, err := presets.Load(cfg.Presets.File)
	if err != nil {
		return err
	}

	handler := api.NewHandler(
		engine,
		library.New(cfg.Paths.AudioDir),
		presetStore,
		finalLog,
	)

	router := gin.Default()
	handler.Register(router, cfg.Paths.AudioDir)

	finalLog.System("tts-server listening on port %s", cfg.HTTP.Port)

	runErr := router.Run(":" + cfg.HTTP.Port)
	if runErr != nil {
		return fmt.Errorf("http server failed: %w", runErr)
	}

	return nil
}
