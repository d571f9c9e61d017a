package tts

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/book-expert/logger"

	"github.com/socarrandinn/tts-text-to-voice/internal/audio"
	"github.com/socarrandinn/tts-text-to-voice/internal/config"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
	"github.com/socarrandinn/tts-text-to-voice/internal/input"
	"github.com/socarrandinn/tts-text-to-voice/internal/output"
	"github.com/socarrandinn/tts-text-to-voice/internal/text"
)

// HealthCheckTimeout defines the timeout for health check operations.
const HealthCheckTimeout = 10 * time.Second

// Static errors.
var (
	// ErrOutputDirEmpty indicates that the batch output directory is missing.
	ErrOutputDirEmpty = errors.New("output directory cannot be empty")
	// ErrNoParagraphs indicates that the sermon has no synthesizable paragraphs.
	ErrNoParagraphs = errors.New("no paragraphs found")
)

// Log formats and file patterns.
const (
	logFmtBackendHealthy        = "Speech backend is healthy, converting %d paragraphs"
	logFmtGeneratedAudio        = "Generated audio: %s (%d bytes)"
	partFileFormat              = "part_%04d%s"
	errFmtPartFailed            = "paragraph %d failed: %w"
	logFmtPartProcessingFailed  = "Failed to convert paragraph %d: %v"
	logFmtPartProcessed         = "Converted paragraph %d/%d"
	errFmtHealthCheckFailed     = "speech backend health check failed: %w"
	defaultSermonArtifactPrefix = "sermon"
)

// Engine orchestrates the sermon-to-audio pipeline: normalization, synthesis,
// transcoding and artifact writing. It stays separate from the underlying
// audio generation, which belongs to the configured backend.
type Engine struct {
	synth      core.Synthesizer
	normalizer *text.Normalizer
	writer     *output.Writer
	cfg        *config.Config
	log        *logger.Logger
}

// NewEngine creates an engine with the backend selected by the configuration.
func NewEngine(cfg *config.Config, log *logger.Logger) (*Engine, error) {
	synth, err := NewBackend(&cfg.TTS, log)
	if err != nil {
		return nil, err
	}

	return NewEngineWithSynthesizer(cfg, log, synth)
}

// NewEngineWithSynthesizer creates an engine with an injected backend. This
// constructor is primarily for testing.
func NewEngineWithSynthesizer(
	cfg *config.Config,
	log *logger.Logger,
	synth core.Synthesizer,
) (*Engine, error) {
	writer, err := output.NewWriter(cfg.Paths.AudioDir)
	if err != nil {
		return nil, err
	}

	return &Engine{
		synth:      synth,
		normalizer: text.NewNormalizer(),
		writer:     writer,
		cfg:        cfg,
		log:        log,
	}, nil
}

// Options returns the synthesis options from the configuration.
func (e *Engine) Options() core.SynthesisOptions {
	return core.SynthesisOptions{
		Voice:    e.cfg.TTS.Voice,
		Language: e.cfg.TTS.Language,
		Format:   e.cfg.TTS.Format,
		Rate:     e.cfg.TTS.Rate,
		Volume:   e.cfg.TTS.Volume,
		Pitch:    e.cfg.TTS.Pitch,
	}
}

// ConvertSermon converts a whole sermon into a single audio artifact and
// returns the artifact path. When outputPath is empty, the artifact gets a
// sanitized, timestamped name in the configured audio directory.
func (e *Engine) ConvertSermon(
	ctx context.Context,
	sermon input.SermonText,
	opts core.SynthesisOptions,
	outputPath string,
) (string, error) {
	if strings.TrimSpace(sermon.Body) == "" {
		return "", ErrTextEmpty
	}

	format, formatErr := audio.ParseFormat(opts.Format)
	if formatErr != nil {
		return "", formatErr
	}

	audioData, synthErr := e.synthesize(ctx, sermon.Body, opts, format)
	if synthErr != nil {
		return "", synthErr
	}

	path, writeErr := e.writeArtifact(sermon, format, audioData, outputPath)
	if writeErr != nil {
		return "", writeErr
	}

	e.log.Info(logFmtGeneratedAudio, path, len(audioData))

	return path, nil
}

// ConvertParagraphs converts each paragraph of the sermon to its own
// sequentially named artifact inside outputDir. Paragraphs are processed in
// parallel through a bounded worker pool; per-paragraph failures are logged
// and the remaining paragraphs still run, so a batch completes as much work
// as it can. The last failure is returned.
func (e *Engine) ConvertParagraphs(
	ctx context.Context,
	sermon input.SermonText,
	opts core.SynthesisOptions,
	outputDir string,
) error {
	if outputDir == "" {
		return ErrOutputDirEmpty
	}

	paragraphs := sermon.Paragraphs()
	if len(paragraphs) == 0 {
		return fmt.Errorf("%w in sermon from %q", ErrNoParagraphs, sermon.Source)
	}

	format, formatErr := audio.ParseFormat(opts.Format)
	if formatErr != nil {
		return formatErr
	}

	healthErr := e.checkBackendHealth(ctx)
	if healthErr != nil {
		return healthErr
	}

	e.log.Info(logFmtBackendHealthy, len(paragraphs))

	return e.convertParagraphsParallel(ctx, paragraphs, opts, format, outputDir)
}

// ListVoices enumerates the backend's voices filtered by language prefix and
// gender, sorted by locale then name. An empty language falls back to the
// configured one; an empty gender matches everything.
func (e *Engine) ListVoices(
	ctx context.Context,
	language string,
	gender string,
) ([]core.Voice, error) {
	lister, ok := e.synth.(core.VoiceLister)
	if !ok {
		return nil, ErrVoiceListingUnsupported
	}

	voices, err := lister.ListVoices(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}

	if language == "" {
		language = e.cfg.TTS.Language
	}

	var matched []core.Voice

	for _, voice := range voices {
		if !strings.HasPrefix(voice.Locale, language) {
			continue
		}

		if gender != "" && !strings.EqualFold(voice.Gender, gender) {
			continue
		}

		matched = append(matched, voice)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Locale != matched[j].Locale {
			return matched[i].Locale < matched[j].Locale
		}

		return matched[i].Name < matched[j].Name
	})

	return matched, nil
}

// HealthCheck probes the backend when it supports probing.
func (e *Engine) HealthCheck(ctx context.Context) error {
	checker, ok := e.synth.(core.HealthChecker)
	if !ok {
		return nil
	}

	err := checker.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf(errFmtHealthCheckFailed, err)
	}

	return nil
}

func (e *Engine) synthesize(
	ctx context.Context,
	body string,
	opts core.SynthesisOptions,
	format audio.Format,
) ([]byte, error) {
	normalized := e.normalizer.Normalize(body)

	synthCtx, cancel := context.WithTimeout(
		ctx,
		time.Duration(e.cfg.TTS.TimeoutSeconds)*time.Second,
	)
	defer cancel()

	audioData, err := e.synth.Synthesize(synthCtx, normalized, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to synthesize speech: %w", err)
	}

	return e.matchRequestedFormat(audioData, format)
}

// matchRequestedFormat transcodes the backend's native output when it differs
// from the requested format. Backends reporting an empty native format honor
// the request themselves.
func (e *Engine) matchRequestedFormat(
	audioData []byte,
	format audio.Format,
) ([]byte, error) {
	native := e.synth.NativeFormat()
	if native == "" || native == string(format) {
		return audioData, nil
	}

	converted, err := audio.Transcode(audioData, audio.Format(native), format)
	if err != nil {
		return nil, fmt.Errorf("failed to convert audio to %s: %w", format, err)
	}

	return converted, nil
}

func (e *Engine) writeArtifact(
	sermon input.SermonText,
	format audio.Format,
	audioData []byte,
	outputPath string,
) (string, error) {
	if outputPath != "" {
		return e.writer.WriteTo(outputPath, audioData)
	}

	baseName := defaultSermonArtifactPrefix
	if sermon.Source != "" {
		baseName = strings.TrimSuffix(
			filepath.Base(sermon.Source),
			filepath.Ext(sermon.Source),
		)
	}

	return e.writer.Write(baseName, format, audioData)
}

func (e *Engine) checkBackendHealth(ctx context.Context) error {
	healthCtx, cancel := context.WithTimeout(ctx, HealthCheckTimeout)
	defer cancel()

	return e.HealthCheck(healthCtx)
}

// convertParagraphsParallel runs paragraphs through a worker pool sized by the
// configuration, so the backend is not overwhelmed while throughput stays up.
func (e *Engine) convertParagraphsParallel(
	ctx context.Context,
	paragraphs []string,
	opts core.SynthesisOptions,
	format audio.Format,
	outputDir string,
) error {
	var (
		waitGroup sync.WaitGroup
		mutex     sync.Mutex
		lastError error
	)

	workerPool := make(chan struct{}, e.cfg.TTS.Workers)

	for index, paragraph := range paragraphs {
		waitGroup.Add(1)

		go func(partIndex int, partText string) {
			defer waitGroup.Done()

			workerPool <- struct{}{}

			defer func() { <-workerPool }()

			outputPath := filepath.Join(
				outputDir,
				fmt.Sprintf(partFileFormat, partIndex+1, format.Extension()),
			)

			part := input.SermonText{Source: "", Body: partText}

			_, err := e.ConvertSermon(ctx, part, opts, outputPath)
			if err != nil {
				mutex.Lock()

				lastError = fmt.Errorf(errFmtPartFailed, partIndex+1, err)

				mutex.Unlock()
				e.log.Error(logFmtPartProcessingFailed, partIndex+1, err)

				return
			}

			e.log.Info(logFmtPartProcessed, partIndex+1, len(paragraphs))
		}(index, paragraph)
	}

	waitGroup.Wait()
	close(workerPool)

	return lastError
}
