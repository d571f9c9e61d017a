// Package input loads sermon text from a file or a literal string.
//
// The loader is the first stage of the pipeline and the only one allowed to
// touch the input file. It performs no side effects beyond reading.
package input

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Static errors for the InputError taxonomy.
var (
	// ErrEmptyText indicates that the sermon text is empty after trimming.
	ErrEmptyText = errors.New("sermon text cannot be empty")
	// ErrInputFileMissing indicates that the input file does not exist.
	ErrInputFileMissing = errors.New("input file does not exist")
	// ErrNotTextFile indicates that the input file has a non-text extension.
	ErrNotTextFile = errors.New("input file is not a text file")
	// ErrNoInput indicates that neither a file path nor a literal was given.
	ErrNoInput = errors.New("no input provided")
)

// Text extensions the loader accepts.
const (
	extTXT = ".txt"
	extMD  = ".md"
)

// SermonText is the validated, in-memory form of the written input.
type SermonText struct {
	// Source is the file path the text came from, or "" for literals.
	Source string
	// Body is the full UTF-8 text.
	Body string
}

// Paragraphs splits the body on blank lines, preserving order. Whitespace-only
// segments are dropped.
func (s SermonText) Paragraphs() []string {
	var paragraphs []string

	for block := range strings.SplitSeq(s.Body, "\n\n") {
		trimmed := strings.TrimSpace(block)
		if trimmed != "" {
			paragraphs = append(paragraphs, trimmed)
		}
	}

	return paragraphs
}

// FromFile reads sermon text from a file path.
func FromFile(path string) (SermonText, error) {
	if path == "" {
		return SermonText{}, ErrNoInput
	}

	validateErr := validateTextExtension(path)
	if validateErr != nil {
		return SermonText{}, validateErr
	}

	data, readErr := os.ReadFile(path)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			return SermonText{}, fmt.Errorf("%w: %s", ErrInputFileMissing, path)
		}

		return SermonText{}, fmt.Errorf("failed to read input file %s: %w", path, readErr)
	}

	body := string(data)
	if strings.TrimSpace(body) == "" {
		return SermonText{}, fmt.Errorf("%w: %s", ErrEmptyText, path)
	}

	return SermonText{Source: path, Body: body}, nil
}

// FromString wraps a literal sermon string.
func FromString(text string) (SermonText, error) {
	if strings.TrimSpace(text) == "" {
		return SermonText{}, ErrEmptyText
	}

	return SermonText{Source: "", Body: text}, nil
}

// Load resolves the two input modes: a file path takes precedence, otherwise
// the literal is used.
func Load(path, literal string) (SermonText, error) {
	if path != "" {
		return FromFile(path)
	}

	if literal != "" {
		return FromString(literal)
	}

	return SermonText{}, ErrNoInput
}

func validateTextExtension(path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case extTXT, extMD:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrNotTextFile, path)
	}
}
