// Command tts-text-to-voice converts written sermon text into an audio file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/book-expert/logger"
	"github.com/joho/godotenv"

	"github.com/socarrandinn/tts-text-to-voice/internal/config"
	"github.com/socarrandinn/tts-text-to-voice/internal/core"
	"github.com/socarrandinn/tts-text-to-voice/internal/input"
	"github.com/socarrandinn/tts-text-to-voice/internal/library"
	"github.com/socarrandinn/tts-text-to-voice/internal/presets"
	"github.com/socarrandinn/tts-text-to-voice/internal/tts"
)

// Flag names.
const (
	flagText    = "text"
	flagInput   = "input"
	flagOutput  = "output"
	flagVoice   = "voice"
	flagFormat  = "format"
	flagPreset  = "preset"
	flagList    = "list"
	flagVoices  = "voices"
	flagGender  = "gender"
	flagHealth  = "health"
	flagVerbose = "verbose"
)

// Flag descriptions.
const (
	flagTextDesc    = "Sermon text to convert to speech"
	flagInputDesc   = "Path to a sermon text file (.txt or .md)"
	flagOutputDesc  = "Output file path; defaults to a timestamped name in the audio directory"
	flagVoiceDesc   = "Voice to use, e.g. es-ES-AlvaroNeural"
	flagFormatDesc  = "Audio format: mp3, wav or ogg"
	flagPresetDesc  = "Named preset to apply before flag overrides"
	flagListDesc    = "List generated audio files and exit"
	flagVoicesDesc  = "List available voices and exit"
	flagGenderDesc  = "Filter -voices output by gender (Male or Female)"
	flagHealthDesc  = "Check the speech backend health and exit"
	flagVerboseDesc = "Enable verbose logging"
)

// Error and log messages.
const (
	errEitherTextOrInput = "either -text or -input must be provided"
	errCannotSpecifyBoth = "cannot specify both -text and -input"
	logGenerated         = "Generated: %s\n"
	logBackendHealthy    = "speech backend is healthy"
)

// Log file names.
const (
	logFileNameDefault = "tts-text-to-voice.log"
	logFileNameVerbose = "tts-text-to-voice-verbose.log"
)

const (
	healthCheckTimeout = 10 * time.Second
	voiceListTimeout   = 30 * time.Second
)

// appFlags holds the parsed command-line flag values.
type appFlags struct {
	text    string
	input   string
	output  string
	voice   string
	format  string
	preset  string
	gender  string
	list    bool
	voices  bool
	health  bool
	verbose bool
}

func main() {
	err := run()
	if err != nil {
		// The logger might not be initialized yet, so use the standard
		// log package.
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	flags := parseFlags()

	validateErr := validateFlags(flags)
	if validateErr != nil {
		flag.Usage()

		return validateErr
	}

	// A .env next to the binary can prime the environment the configurator
	// reads; a missing file is fine.
	_ = godotenv.Load()

	cfg, appLogger, err := setup(flags.verbose)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := appLogger.Close()
		if closeErr != nil {
			fmt.Fprintf(os.Stderr, "error closing logger: %v\n", closeErr)
		}
	}()

	if flags.list {
		return listArtifacts(cfg)
	}

	engine, err := tts.NewEngine(cfg, appLogger)
	if err != nil {
		return err
	}

	if flags.voices {
		return listVoices(engine, flags.gender)
	}

	if flags.health {
		return handleHealthCheck(engine)
	}

	return convert(engine, cfg, appLogger, flags)
}

func parseFlags() appFlags {
	var flags appFlags

	flag.StringVar(&flags.text, flagText, "", flagTextDesc)
	flag.StringVar(&flags.input, flagInput, "", flagInputDesc)
	flag.StringVar(&flags.output, flagOutput, "", flagOutputDesc)
	flag.StringVar(&flags.voice, flagVoice, "", flagVoiceDesc)
	flag.StringVar(&flags.format, flagFormat, "", flagFormatDesc)
	flag.StringVar(&flags.preset, flagPreset, "", flagPresetDesc)
	flag.StringVar(&flags.gender, flagGender, "", flagGenderDesc)
	flag.BoolVar(&flags.list, flagList, false, flagListDesc)
	flag.BoolVar(&flags.voices, flagVoices, false, flagVoicesDesc)
	flag.BoolVar(&flags.health, flagHealth, false, flagHealthDesc)
	flag.BoolVar(&flags.verbose, flagVerbose, false, flagVerboseDesc)
	flag.Parse()

	return flags
}

// validateFlags checks the input mode flags. The list, voices and health
// modes take no input; conversion needs exactly one of -text and -input.
func validateFlags(flags appFlags) error {
	if flags.list || flags.voices || flags.health {
		return nil
	}

	if flags.text == "" && flags.input == "" {
		return errors.New(errEitherTextOrInput)
	}

	if flags.text != "" && flags.input != "" {
		return errors.New(errCannotSpecifyBoth)
	}

	return nil
}

// setup loads the configuration and initializes the logger, using the
// bootstrap-then-final pattern so configuration failures are still logged.
func setup(verbose bool) (*config.Config, *logger.Logger, error) {
	bootstrapLog, err := logger.New(os.TempDir(), "tts-text-to-voice-bootstrap.log")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bootstrap logger: %w", err)
	}

	cfg, err := config.Load(bootstrapLog)
	if err != nil {
		bootstrapLog.Error("Failed to load configuration: %v", err)

		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logDir := cfg.Paths.BaseLogsDir
	if logDir == "" {
		logDir = os.TempDir()
	}

	logFileName := logFileNameDefault
	if verbose {
		logFileName = logFileNameVerbose
	}

	finalLog, err := logger.New(logDir, logFileName)
	if err != nil {
		bootstrapLog.Error("Failed to create final logger: %v", err)

		return nil, nil, fmt.Errorf("failed to create final logger: %w", err)
	}

	return cfg, finalLog, nil
}

func listArtifacts(cfg *config.Config) error {
	artifacts, err := library.New(cfg.Paths.AudioDir).List()
	if err != nil {
		return err
	}

	if len(artifacts) == 0 {
		fmt.Println("No audio files yet.")

		return nil
	}

	for _, artifact := range artifacts {
		fmt.Printf(
			"%s\t%s\t%s\n",
			artifact.Name,
			artifact.SizeText,
			artifact.ModTime.Format(time.DateTime),
		)
	}

	return nil
}

// listVoices prints the backend's voices for the configured language,
// optionally filtered by gender.
func listVoices(engine *tts.Engine, gender string) error {
	ctx, cancel := context.WithTimeout(context.Background(), voiceListTimeout)
	defer cancel()

	voices, err := engine.ListVoices(ctx, "", gender)
	if err != nil {
		return err
	}

	if len(voices) == 0 {
		fmt.Println("No voices found.")

		return nil
	}

	for _, voice := range voices {
		fmt.Printf("%s\t%s\t%s\n", voice.Name, voice.Gender, voice.Locale)
	}

	return nil
}

func handleHealthCheck(engine *tts.Engine) error {
	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	err := engine.HealthCheck(ctx)
	if err != nil {
		return err
	}

	fmt.Println(logBackendHealthy)

	return nil
}

func convert(
	engine *tts.Engine,
	cfg *config.Config,
	appLogger *logger.Logger,
	flags appFlags,
) error {
	sermon, err := input.Load(flags.input, flags.text)
	if err != nil {
		return err
	}

	opts, store, err := resolveOptions(engine, cfg, flags)
	if err != nil {
		return err
	}

	path, convertErr := engine.ConvertSermon(context.Background(), sermon, opts, flags.output)
	if convertErr != nil {
		return convertErr
	}

	store.RememberVoice(opts.Voice)

	saveErr := store.Save()
	if saveErr != nil {
		appLogger.Warn("Failed to persist last voice: %v", saveErr)
	}

	fmt.Printf(logGenerated, path)

	return nil
}

// resolveOptions layers the effective synthesis options: configuration
// defaults, then the named preset, then explicit flags.
func resolveOptions(
	engine *tts.Engine,
	cfg *config.Config,
	flags appFlags,
) (core.SynthesisOptions, *presets.Store, error) {
	store, err := presets.Load(cfg.Presets.File)
	if err != nil {
		return core.SynthesisOptions{}, nil, err
	}

	opts := engine.Options()

	if flags.preset != "" {
		opts, err = store.Apply(flags.preset, opts)
		if err != nil {
			return core.SynthesisOptions{}, nil, err
		}
	}

	if flags.voice != "" {
		opts.Voice = flags.voice
	}

	if flags.format != "" {
		opts.Format = flags.format
	}

	return opts, store, nil
}
