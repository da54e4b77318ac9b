package chunker

import (
	"strings"

	"github.com/bububa/textchunker/components/tokenizer"
)

// TextChunker splits text into token-bounded lines and packs them into
// token-bounded chunks. A TextChunker is immutable and safe for concurrent use
// as long as its token counter is.
type TextChunker struct {
	Options
}

// New creates a TextChunker. Without options it uses the default budgets,
// plain text mode and the whitespace counter.
func New(opts ...Option) (*TextChunker, error) {
	ret := &TextChunker{
		Options: Options{
			lineTokens:  DefaultLineTokens,
			chunkTokens: DefaultChunkTokens,
			counter:     tokenizer.Fields{},
			mode:        PlainText,
		},
	}
	for _, opt := range opts {
		opt(&ret.Options)
	}
	if err := ret.validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// Chunk splits text into lines and aggregates them into chunks.
func (tc *TextChunker) Chunk(text string) ([]Chunk, error) {
	lines, err := tc.SplitLines(text)
	if err != nil {
		return nil, err
	}
	return tc.aggregate(lines)
}

// ChunkMode chunks text like Chunk but with the given mode, keeping every
// other option. An empty mode keeps the chunker's own.
func (tc *TextChunker) ChunkMode(text string, mode Mode) ([]Chunk, error) {
	if mode == "" || mode == tc.mode {
		return tc.Chunk(text)
	}
	if err := validateMode(mode); err != nil {
		return nil, err
	}
	clone := *tc
	clone.mode = mode
	return clone.Chunk(text)
}

// SplitLines runs only the line splitter.
func (tc *TextChunker) SplitLines(text string) ([]Line, error) {
	s := lineSplitter{
		counter: tc.counter,
		budget:  tc.lineTokens,
		mode:    tc.mode,
	}
	return s.split(text)
}

// SplitParagraphs aggregates caller supplied lines. Line token counts are
// recomputed with the chunker's counter.
func (tc *TextChunker) SplitParagraphs(lines []Line) ([]Chunk, error) {
	counted := make([]Line, len(lines))
	for idx, line := range lines {
		n, err := count(tc.counter, line.Text)
		if err != nil {
			return nil, err
		}
		line.Tokens = n
		counted[idx] = line
	}
	return tc.aggregate(counted)
}

func (tc *TextChunker) aggregate(lines []Line) ([]Chunk, error) {
	a := aggregator{
		counter:       tc.counter,
		budget:        tc.chunkTokens,
		headingBreaks: tc.headingBreaks,
	}
	return a.aggregate(lines)
}

// SplitAndChunk splits text into lines of at most lineTokenBudget tokens and
// packs them into chunks of at most chunkTokenBudget tokens. Lines that
// cannot be split any further are kept whole and end up in chunks of their own.
func SplitAndChunk(text string, lineTokenBudget, chunkTokenBudget int, counter tokenizer.Counter, mode Mode) ([]Chunk, error) {
	tc, err := New(
		WithLineTokens(lineTokenBudget),
		WithChunkTokens(chunkTokenBudget),
		WithTokenCounter(counter),
		WithMode(mode),
	)
	if err != nil {
		return nil, err
	}
	return tc.Chunk(text)
}

// ChunkPlainText is SplitAndChunk in PlainText mode.
func ChunkPlainText(text string, lineTokenBudget, chunkTokenBudget int, counter tokenizer.Counter) ([]Chunk, error) {
	return SplitAndChunk(text, lineTokenBudget, chunkTokenBudget, counter, PlainText)
}

// ChunkMarkdown is SplitAndChunk in Markup mode.
func ChunkMarkdown(text string, lineTokenBudget, chunkTokenBudget int, counter tokenizer.Counter) ([]Chunk, error) {
	return SplitAndChunk(text, lineTokenBudget, chunkTokenBudget, counter, Markup)
}

// SplitLines splits text into lines of at most budget tokens.
func SplitLines(text string, budget int, counter tokenizer.Counter, mode Mode) ([]Line, error) {
	tc, err := New(
		WithLineTokens(budget),
		WithChunkTokens(budget),
		WithTokenCounter(counter),
		WithMode(mode),
	)
	if err != nil {
		return nil, err
	}
	return tc.SplitLines(text)
}

// SplitParagraphs packs lines into chunks of at most budget tokens.
func SplitParagraphs(lines []Line, budget int, counter tokenizer.Counter) ([]Chunk, error) {
	tc, err := New(
		WithLineTokens(budget),
		WithChunkTokens(budget),
		WithTokenCounter(counter),
	)
	if err != nil {
		return nil, err
	}
	return tc.SplitParagraphs(lines)
}

// normalizeNewlines converts "\r\n" and lone "\r" to "\n".
func normalizeNewlines(text string) string {
	if !strings.ContainsRune(text, '\r') {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

func count(counter tokenizer.Counter, text string) (int, error) {
	n, err := counter.Count(text)
	if err != nil {
		return 0, &CounterError{Text: text, Err: err}
	}
	return n, nil
}
