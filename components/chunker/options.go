package chunker

import "github.com/bububa/textchunker/components/tokenizer"

// Default budgets, taken from the per-call token limit used when summarising
// repository files.
const (
	DefaultLineTokens  = 1024
	DefaultChunkTokens = 1024
)

// Options holds the configuration of a TextChunker.
type Options struct {
	lineTokens    int
	chunkTokens   int
	counter       tokenizer.Counter
	mode          Mode
	headingBreaks bool
}

// Option is a function type for configuring TextChunker instances.
// This follows the functional options pattern for clean and flexible configuration.
type Option func(*Options)

// WithLineTokens sets the token budget of a single line.
func WithLineTokens(n int) Option {
	return func(o *Options) {
		o.lineTokens = n
	}
}

// WithChunkTokens sets the token budget of a chunk.
func WithChunkTokens(n int) Option {
	return func(o *Options) {
		o.chunkTokens = n
	}
}

// WithTokenCounter sets the counter used for every budget decision.
func WithTokenCounter(counter tokenizer.Counter) Option {
	return func(o *Options) {
		o.counter = counter
	}
}

func WithMode(mode Mode) Option {
	return func(o *Options) {
		o.mode = mode
	}
}

// WithHeadingBreaks starts a new chunk at every markdown heading.
func WithHeadingBreaks(enabled bool) Option {
	return func(o *Options) {
		o.headingBreaks = enabled
	}
}

func (o Options) LineTokens() int {
	return o.lineTokens
}

func (o Options) ChunkTokens() int {
	return o.chunkTokens
}

func (o Options) Mode() Mode {
	return o.mode
}

func (o Options) TokenCounter() tokenizer.Counter {
	return o.counter
}

func (o Options) validate() error {
	if err := validateBudget("line token budget", o.lineTokens); err != nil {
		return err
	}
	if err := validateBudget("chunk token budget", o.chunkTokens); err != nil {
		return err
	}
	if o.counter == nil {
		return ErrNilCounter
	}
	return validateMode(o.mode)
}
