package tts

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/book-expert/logger"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
)

const (
	defaultEdgeBinary = "edge-tts"
	edgeMaxAttempts   = 3
	edgeRetryBackoff  = time.Second
)

// EdgeBackend synthesizes speech by driving the edge-tts command line tool.
// The tool emits MP3; other formats are produced by transcoding downstream.
//
// Edge is a free network service and fails transiently, so each request is
// retried a bounded number of times with linear backoff.
type EdgeBackend struct {
	binary string
	log    *logger.Logger
}

// NewEdgeBackend creates an edge-tts backend. An empty binary name falls back
// to "edge-tts" on PATH.
func NewEdgeBackend(binary string, log *logger.Logger) *EdgeBackend {
	if binary == "" {
		binary = defaultEdgeBinary
	}

	return &EdgeBackend{binary: binary, log: log}
}

// NativeFormat reports the format edge-tts emits.
func (b *EdgeBackend) NativeFormat() string {
	return string(audio.FormatMP3)
}

// Synthesize converts text to speech and returns the raw MP3 bytes.
func (b *EdgeBackend) Synthesize(
	ctx context.Context,
	text string,
	opts core.SynthesisOptions,
) ([]byte, error) {
	if text == "" {
		return nil, ErrTextEmpty
	}

	if opts.Voice == "" {
		return nil, ErrVoiceEmpty
	}

	var lastErr error

	for attempt := range edgeMaxAttempts {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("synthesis cancelled: %w", ctx.Err())
			case <-time.After(time.Duration(attempt) * edgeRetryBackoff):
			}

			b.log.Warn("Retrying edge-tts synthesis (attempt %d/%d): %v",
				attempt+1, edgeMaxAttempts, lastErr)
		}

		audioData, err := b.synthesizeOnce(ctx, text, opts)
		if err == nil {
			return audioData, nil
		}

		lastErr = err
	}

	return nil, fmt.Errorf("edge-tts failed after %d attempts: %w", edgeMaxAttempts, lastErr)
}

func (b *EdgeBackend) synthesizeOnce(
	ctx context.Context,
	text string,
	opts core.SynthesisOptions,
) ([]byte, error) {
	tempFile, err := os.CreateTemp("", "edge-tts-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for edge-tts output: %w", err)
	}

	defer func() {
		removeErr := os.Remove(tempFile.Name())
		if removeErr != nil {
			b.log.Warn("Failed to remove temp file '%s': %v", tempFile.Name(), removeErr)
		}
	}()

	closeErr := tempFile.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp file: %w", closeErr)
	}

	args := b.buildArgs(text, opts, tempFile.Name())

	// #nosec G204 -- the binary name comes from validated configuration
	cmd := exec.CommandContext(ctx, b.binary, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf(
			"%w: edge-tts execution failed: %w - output: %s",
			ErrBackendUnavailable,
			err,
			string(output),
		)
	}

	audioData, err := os.ReadFile(tempFile.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data from temp file: %w", err)
	}

	if len(audioData) == 0 {
		return nil, ErrEmptyAudio
	}

	return audioData, nil
}

// ListVoices enumerates the voices the edge-tts tool offers.
func (b *EdgeBackend) ListVoices(ctx context.Context) ([]core.Voice, error) {
	// #nosec G204 -- the binary name comes from validated configuration
	cmd := exec.CommandContext(ctx, b.binary, "--list-voices")

	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf(
			"%w: edge-tts --list-voices failed: %w - output: %s",
			ErrBackendUnavailable,
			err,
			string(output),
		)
	}

	return ParseVoiceList(output), nil
}

// ParseVoiceList parses the table edge-tts prints for --list-voices. The
// first column is the voice name, the second its gender; header and
// separator lines are skipped.
func ParseVoiceList(output []byte) []core.Voice {
	var voices []core.Voice

	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}

		name := fields[0]
		if name == "Name" || strings.HasPrefix(name, "-") {
			continue
		}

		voices = append(voices, core.Voice{
			Name:   name,
			Gender: fields[1],
			Locale: voiceLocale(name),
		})
	}

	return voices
}

// voiceLocale extracts the locale prefix from a voice name, for example
// "es-MX" from "es-MX-DaliaNeural".
func voiceLocale(name string) string {
	parts := strings.SplitN(name, "-", 3)
	if len(parts) < 2 {
		return name
	}

	return parts[0] + "-" + parts[1]
}

func (b *EdgeBackend) buildArgs(
	text string,
	opts core.SynthesisOptions,
	outputPath string,
) []string {
	args := []string{
		"--text", text,
		"--voice", opts.Voice,
		"--write-media", outputPath,
	}

	if opts.Rate != "" {
		args = append(args, "--rate", opts.Rate)
	}

	if opts.Volume != "" {
		args = append(args, "--volume", opts.Volume)
	}

	if opts.Pitch != "" {
		args = append(args, "--pitch", opts.Pitch)
	}

	return args
}
