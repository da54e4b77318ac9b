package tokenizer

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// Counter defines the interface for counting tokens in a string.
// This abstraction allows for different tokenization strategies (e.g., words, subwords).
// Implementations must be deterministic and free of side effects; they are
// called many times per text while looking for split points.
type Counter interface {
	// Count returns the number of tokens in the given text according to the
	// implementation's tokenization strategy.
	Count(text string) (int, error)
}

// CounterFunc adapts an ordinary function to a Counter.
type CounterFunc func(text string) (int, error)

func (f CounterFunc) Count(text string) (int, error) {
	return f(text)
}

// Estimate adapts a counting function that cannot fail.
type Estimate func(text string) int

func (f Estimate) Count(text string) (int, error) {
	return f(text), nil
}

// Fields provides a simple word-based token counting implementation.
// It splits text on whitespace to approximate token counts. This is suitable
// for basic use cases but may not accurately reflect subword tokenization
// used by language models.
type Fields struct{}

// Count returns the number of words in the text, using whitespace as a delimiter.
func (Fields) Count(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

// DefaultCharsPerToken is the characters-per-token ratio of GPT style tokenizers
// on English prose.
const DefaultCharsPerToken = 4

// RuneEstimate approximates token counts as one token per CharsPerToken runes,
// rounded up. It needs no vocabulary and is the cheapest counter available.
type RuneEstimate struct {
	CharsPerToken int
}

func (c RuneEstimate) Count(text string) (int, error) {
	per := c.CharsPerToken
	if per <= 0 {
		per = DefaultCharsPerToken
	}
	n := utf8.RuneCountInString(text)
	return (n + per - 1) / per, nil
}

// Names of the counters understood by New besides tiktoken encodings.
const (
	FieldsCounter    = "fields"
	EstimateCounter  = "estimate"
	WordsCounter     = "words"
	GraphemesCounter = "graphemes"
	SentencesCounter = "sentences"
)

// Known reports whether New accepts name without loading anything.
func Known(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FieldsCounter, EstimateCounter, WordsCounter, GraphemesCounter, SentencesCounter:
		return true
	}
	return slices.Contains(Encodings, name)
}

// New returns the counter registered under name. Unknown names are treated as
// tiktoken encodings such as "cl100k_base" or "o200k_base".
func New(name string) (Counter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FieldsCounter:
		return Fields{}, nil
	case EstimateCounter:
		return RuneEstimate{CharsPerToken: DefaultCharsPerToken}, nil
	case WordsCounter:
		return Words{}, nil
	case GraphemesCounter:
		return Graphemes{}, nil
	case SentencesCounter:
		return Sentences{}, nil
	}
	counter, err := NewTikToken(name)
	if err != nil {
		return nil, fmt.Errorf("unknown token counter %q: %w", name, err)
	}
	return counter, nil
}
