// Package worker provides a NATS worker that converts submitted sermon text
// into stored audio artifacts.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/book-expert/events"
	"github.com/book-expert/logger"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
	"github.com/socarrandinn/tts-text-to-voice/internal/text"
)

const handleMessageTimeout = 120 * time.Second

// ErrUnsupportedVoice indicates a job carried a voice name no backend accepts.
var ErrUnsupportedVoice = errors.New("unsupported voice")

// voiceNamePattern matches backend voice names such as "es-MX-DaliaNeural".
var voiceNamePattern = regexp.MustCompile(`^[a-z]{2,3}-[A-Z]{2}-[A-Za-z0-9]+$`)

// NatsWorker listens for sermon jobs on a NATS subject, synthesizes the text
// from the text bucket and stores the audio artifact in the audio bucket.
type NatsWorker struct {
	natsConnection *nats.Conn
	subject        string
	textStore      core.ObjectStore
	audioStore     core.ObjectStore
	synth          core.Synthesizer
	normalizer     *text.Normalizer
	defaults       core.SynthesisOptions
	log            *logger.Logger
}

// NewNatsWorker creates a new instance of a NATS worker.
func NewNatsWorker(
	natsConnection *nats.Conn,
	subject string,
	textStore core.ObjectStore,
	audioStore core.ObjectStore,
	synth core.Synthesizer,
	defaults core.SynthesisOptions,
	log *logger.Logger,
) (*NatsWorker, error) {
	_, formatErr := audio.ParseFormat(defaults.Format)
	if formatErr != nil {
		return nil, formatErr
	}

	return &NatsWorker{
		natsConnection: natsConnection,
		subject:        subject,
		textStore:      textStore,
		audioStore:     audioStore,
		synth:          synth,
		normalizer:     text.NewNormalizer(),
		defaults:       defaults,
		log:            log,
	}, nil
}

// Run starts the worker and begins listening for messages. It blocks until
// the context is cancelled, then drains the subscription.
func (w *NatsWorker) Run(ctx context.Context) error {
	sub, err := w.natsConnection.Subscribe(w.subject, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", w.subject, err)
	}

	<-ctx.Done()

	drainErr := sub.Drain()
	if drainErr != nil {
		return fmt.Errorf("failed to drain subscription: %w", drainErr)
	}

	return nil
}

func (w *NatsWorker) handleMessage(msg *nats.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), handleMessageTimeout)
	defer cancel()

	event, err := parseEvent(msg)
	if err != nil {
		w.log.Error("Failed to parse sermon event: %v", err)

		return
	}

	audioKey, processErr := w.processSermonJob(ctx, event)
	if processErr != nil {
		w.log.Error(
			"Failed to process sermon job for workflow %s: %v",
			event.Header.WorkflowID,
			processErr,
		)

		return
	}

	replyEvent := &events.AudioChunkCreatedEvent{
		Header:     event.Header,
		AudioKey:   audioKey,
		PageNumber: event.PageNumber,
		TotalPages: event.TotalPages,
	}

	err = w.publishReplyEvent(msg, replyEvent)
	if err != nil {
		w.log.Error(
			"Failed to publish reply event for workflow %s: %v",
			event.Header.WorkflowID,
			err,
		)
	}
}

// processSermonJob downloads the sermon text, synthesizes it and uploads the
// audio artifact, returning the artifact key.
func (w *NatsWorker) processSermonJob(
	ctx context.Context,
	event *events.TextProcessedEvent,
) (string, error) {
	opts := w.optionsForEvent(event)

	validateErr := validateOptions(opts)
	if validateErr != nil {
		return "", validateErr
	}

	textData, err := w.textStore.Download(ctx, event.TextKey)
	if err != nil {
		return "", fmt.Errorf(
			"failed to download sermon text for key '%s': %w",
			event.TextKey,
			err,
		)
	}

	normalized := w.normalizer.Normalize(string(textData))
	if normalized == "" {
		return "", fmt.Errorf(
			"sermon text for key '%s' is empty after normalization",
			event.TextKey,
		)
	}

	audioData, err := w.synth.Synthesize(ctx, normalized, opts)
	if err != nil {
		return "", fmt.Errorf("failed to synthesize sermon: %w", err)
	}

	audioKey := uuid.NewString() + audio.Format(opts.Format).Extension()

	err = w.audioStore.Upload(ctx, audioKey, audioData)
	if err != nil {
		return "", fmt.Errorf("failed to upload audio data for key '%s': %w", audioKey, err)
	}

	// The submitted text is consumed; leaving it around only grows the bucket.
	deleteErr := deleteIfSupported(ctx, w.textStore, event.TextKey)
	if deleteErr != nil {
		w.log.Warn("Failed to delete consumed text '%s': %v", event.TextKey, deleteErr)
	}

	return audioKey, nil
}

// optionsForEvent overlays per-job settings from the event onto the worker's
// configured defaults.
func (w *NatsWorker) optionsForEvent(event *events.TextProcessedEvent) core.SynthesisOptions {
	opts := w.defaults

	if event.Voice != "" {
		opts.Voice = event.Voice
	}

	return opts
}

// validateOptions rejects bad job settings before any storage round trip.
func validateOptions(opts core.SynthesisOptions) error {
	if !voiceNamePattern.MatchString(opts.Voice) {
		return fmt.Errorf("%w: %q", ErrUnsupportedVoice, opts.Voice)
	}

	_, formatErr := audio.ParseFormat(opts.Format)
	if formatErr != nil {
		return formatErr
	}

	return nil
}

// publishReplyEvent marshals and responds with the AudioChunkCreatedEvent.
func (w *NatsWorker) publishReplyEvent(
	msg *nats.Msg,
	replyEvent *events.AudioChunkCreatedEvent,
) error {
	replyData, err := json.Marshal(replyEvent)
	if err != nil {
		return fmt.Errorf("failed to marshal reply event: %w", err)
	}

	err = msg.Respond(replyData)
	if err != nil {
		return fmt.Errorf("failed to publish reply event: %w", err)
	}

	return nil
}

func parseEvent(msg *nats.Msg) (*events.TextProcessedEvent, error) {
	var event events.TextProcessedEvent

	err := json.Unmarshal(msg.Data, &event)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	return &event, nil
}

// deleter is the optional cleanup half of an object store.
type deleter interface {
	Delete(ctx context.Context, key string) error
}

func deleteIfSupported(ctx context.Context, store core.ObjectStore, key string) error {
	withDelete, ok := store.(deleter)
	if !ok {
		return nil
	}

	return withDelete.Delete(ctx, key)
}
