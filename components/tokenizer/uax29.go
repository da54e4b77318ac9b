package tokenizer

import (
	"github.com/clipperhouse/uax29/graphemes"
	"github.com/clipperhouse/uax29/sentences"
	"github.com/clipperhouse/uax29/words"
)

// Words counts Unicode word segments (UAX #29), including the whitespace and
// punctuation segments between words.
type Words struct{}

func (Words) Count(text string) (int, error) {
	return len(words.SegmentAll([]byte(text))), nil
}

// Graphemes counts user-perceived characters.
type Graphemes struct{}

func (Graphemes) Count(text string) (int, error) {
	return len(graphemes.SegmentAll([]byte(text))), nil
}

// Sentences counts Unicode sentence segments.
type Sentences struct{}

func (Sentences) Count(text string) (int, error) {
	return len(sentences.SegmentAll([]byte(text))), nil
}
