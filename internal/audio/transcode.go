package audio

import (
	"errors"
	"fmt"
	"os"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// ErrEmptyAudioData indicates there is nothing to transcode.
var ErrEmptyAudioData = errors.New("audio data cannot be empty")

// Transcode converts audio bytes from one format to another using ffmpeg.
// When the formats already match, the input is returned unchanged.
//
// ffmpeg works on files, so the data takes a round trip through the temp
// directory.
func Transcode(data []byte, from, to Format) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyAudioData
	}

	if from == to {
		return data, nil
	}

	inputFile, err := os.CreateTemp("", "transcode-in-*"+from.Extension())
	if err != nil {
		return nil, fmt.Errorf("failed to create temp input file: %w", err)
	}
	defer removeQuietly(inputFile.Name())

	_, writeErr := inputFile.Write(data)
	closeErr := inputFile.Close()

	if writeErr != nil {
		return nil, fmt.Errorf("failed to write temp input file: %w", writeErr)
	}

	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp input file: %w", closeErr)
	}

	outputFile, err := os.CreateTemp("", "transcode-out-*"+to.Extension())
	if err != nil {
		return nil, fmt.Errorf("failed to create temp output file: %w", err)
	}
	defer removeQuietly(outputFile.Name())

	closeErr = outputFile.Close()
	if closeErr != nil {
		return nil, fmt.Errorf("failed to close temp output file: %w", closeErr)
	}

	runErr := ffmpeg.Input(inputFile.Name()).
		Output(outputFile.Name(), ffmpeg.KwArgs{"f": string(to)}).
		OverWriteOutput().
		Silent(true).
		Run()
	if runErr != nil {
		return nil, fmt.Errorf("ffmpeg transcode from %s to %s failed: %w", from, to, runErr)
	}

	converted, readErr := os.ReadFile(outputFile.Name())
	if readErr != nil {
		return nil, fmt.Errorf("failed to read transcoded audio: %w", readErr)
	}

	if len(converted) == 0 {
		return nil, fmt.Errorf("%w: transcode produced no output", ErrEmptyAudioData)
	}

	return converted, nil
}

func removeQuietly(path string) {
	_ = os.Remove(path)
}
