// Command tts-worker consumes sermon jobs from NATS and stores the
// synthesized audio in the object store.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"github.com/socarrandinn/tts-text-to-voice/internal/config"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
	"github.com/socarrandinn/tts-text-to-voice/internal/objectstore"
	"github.com/socarrandinn/tts-text-to-voice/internal/tts"
	"github.com/socarrandinn/tts-text-to-voice/internal/worker"
)

func main() {
	err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Service exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	bootstrapLog, err := logger.New(os.TempDir(), "tts-worker-bootstrap.log")
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

	finalLog, err := logger.New(logDir, "tts-worker.log")
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

	sermonWorker, err := buildWorker(cfg, finalLog)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	finalLog.System(
		"tts-worker initialized, listening for jobs on subject: %s",
		cfg.NATS.SermonSubmittedSubject,
	)

	runErr := sermonWorker.Run(ctx)
	if runErr != nil {
		return fmt.Errorf("worker stopped with error: %w", runErr)
	}

	return nil
}

// buildWorker connects to NATS and assembles the worker with its two
// buckets, the synthesis backend and the configured default options.
func buildWorker(cfg *config.Config, log *logger.Logger) (*worker.NatsWorker, error) {
	natsConnection, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", cfg.NATS.URL, err)
	}

	jetstreamContext, err := natsConnection.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	textStore, err := objectstore.New(jetstreamContext, cfg.NATS.TextObjectStoreBucket)
	if err != nil {
		return nil, err
	}

	audioStore, err := objectstore.New(jetstreamContext, cfg.NATS.AudioObjectStoreBucket)
	if err != nil {
		return nil, err
	}

	synth, err := tts.NewBackend(&cfg.TTS, log)
	if err != nil {
		return nil, err
	}

	defaults := core.SynthesisOptions{
		Voice:    cfg.TTS.Voice,
		Language: cfg.TTS.Language,
		Format:   cfg.TTS.Format,
		Rate:     cfg.TTS.Rate,
		Volume:   cfg.TTS.Volume,
		Pitch:    cfg.TTS.Pitch,
	}

	return worker.NewNatsWorker(
		natsConnection,
		cfg.NATS.SermonSubmittedSubject,
		textStore,
		audioStore,
		synth,
		defaults,
		log,
	)
}
