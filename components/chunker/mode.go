package chunker

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Mode selects the line splitting strategy.
type Mode string

const (
	// PlainText splits on every newline, then at sentence ends and whitespace.
	PlainText Mode = "plain"
	// Markup keeps markdown blocks together and prefers line breaks, sentence
	// ends and clause punctuation, in that order, when a block must be split.
	Markup Mode = "markdown"
)

func (m Mode) String() string {
	return string(m)
}

// ParseMode converts a configuration value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plain", "text", "txt", "plaintext":
		return PlainText, nil
	case "markdown", "md", "markup":
		return Markup, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, s)
}

var markupExtensions = map[string]struct{}{
	".md":       {},
	".markdown": {},
	".mdx":      {},
}

// ModeForFile picks Markup for markdown files and PlainText for anything else.
func ModeForFile(name string) Mode {
	if _, ok := markupExtensions[strings.ToLower(filepath.Ext(name))]; ok {
		return Markup
	}
	return PlainText
}

// LineKind tags a Line for markup-aware handling.
type LineKind int

const (
	Plain LineKind = iota
	HeaderMarkup
)

func (k LineKind) String() string {
	if k == HeaderMarkup {
		return "header"
	}
	return "plain"
}
