// Package config loads the YAML profile shared by the chunker, the memory
// importer and the prompt assembler.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bububa/textchunker/components/chunker"
	"github.com/bububa/textchunker/components/memory"
	"github.com/bububa/textchunker/components/prompt"
	"github.com/bububa/textchunker/components/tokenizer"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Chunker Chunker `yaml:"chunker"`
	Import  Import  `yaml:"import"`
	Prompt  Prompt  `yaml:"prompt"`
}

type Chunker struct {
	LineTokens  int `yaml:"line_tokens" validate:"gt=0"`
	ChunkTokens int `yaml:"chunk_tokens" validate:"gt=0"`
	// Mode is plain, markdown or empty to pick the mode per file
	Mode          string `yaml:"mode" validate:"omitempty,chunkmode"`
	Counter       string `yaml:"counter" validate:"tokencounter"`
	HeadingBreaks bool   `yaml:"heading_breaks"`
}

type Import struct {
	Collection      string   `yaml:"collection" validate:"required"`
	MaxDocumentSize int      `yaml:"max_document_size" validate:"gt=0"`
	Concurrency     int      `yaml:"concurrency" validate:"gte=1"`
	Engine          string   `yaml:"engine" validate:"oneof=memory chromem"`
	Path            string   `yaml:"path"`
	Compress        bool     `yaml:"compress"`
	Embedder        Embedder `yaml:"embedder"`
}

type Embedder struct {
	Provider  string `yaml:"provider" validate:"omitempty,oneof=openai ollama cohere localai"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url" validate:"omitempty,url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

type Prompt struct {
	MaxTokens    int      `yaml:"max_tokens" validate:"gte=2"`
	Instructions []string `yaml:"instructions"`
}

// Default returns the profile used when no file is given.
func Default() *Config {
	return &Config{
		Chunker: Chunker{
			LineTokens:  chunker.DefaultLineTokens,
			ChunkTokens: chunker.DefaultChunkTokens,
			Counter:     tokenizer.FieldsCounter,
		},
		Import: Import{
			Collection:      memory.DefaultCollection,
			MaxDocumentSize: memory.DefaultMaxDocumentSize,
			Concurrency:     4,
			Engine:          string(memory.Memory),
		},
		Prompt: Prompt{
			MaxTokens: prompt.DefaultMaxTokens,
		},
	}
}

// Load reads and validates a YAML file. Missing keys keep their defaults.
func Load(path string) (*Config, error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(bs)
}

// Parse decodes and validates a YAML document. Missing keys keep their defaults.
func Parse(bs []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(bs, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	must(v.RegisterValidation("chunkmode", validMode))
	must(v.RegisterValidation("tokencounter", validCounter))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// validMode validates if a given string names a chunking mode.
func validMode(fl validator.FieldLevel) bool {
	_, err := chunker.ParseMode(fl.Field().String())
	return err == nil
}

// validCounter validates if a given string names a token counter.
func validCounter(fl validator.FieldLevel) bool {
	return tokenizer.Known(fl.Field().String())
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Import.Engine == string(memory.Chromem) && c.Import.Embedder.Provider == "" {
		return fmt.Errorf("%w: chromem engine needs an embedder provider", ErrInvalidConfig)
	}
	return nil
}

// TokenCounter builds the configured counter.
func (c Chunker) TokenCounter() (tokenizer.Counter, error) {
	return tokenizer.New(c.Counter)
}

// Options converts the profile into chunker options. An empty mode maps to
// PlainText, documents carry their own mode anyway.
func (c Chunker) Options() ([]chunker.Option, error) {
	counter, err := c.TokenCounter()
	if err != nil {
		return nil, err
	}
	mode := chunker.PlainText
	if c.Mode != "" {
		if mode, err = chunker.ParseMode(c.Mode); err != nil {
			return nil, err
		}
	}
	return []chunker.Option{
		chunker.WithLineTokens(c.LineTokens),
		chunker.WithChunkTokens(c.ChunkTokens),
		chunker.WithTokenCounter(counter),
		chunker.WithMode(mode),
		chunker.WithHeadingBreaks(c.HeadingBreaks),
	}, nil
}

// NewChunker builds a TextChunker from the profile.
func (c Chunker) NewChunker() (*chunker.TextChunker, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, err
	}
	return chunker.New(opts...)
}

// ImporterOptions converts the profile into memory importer options.
func (c Import) ImporterOptions() []memory.ImporterOption {
	return []memory.ImporterOption{
		memory.WithCollection(c.Collection),
		memory.WithMaxDocumentSize(c.MaxDocumentSize),
	}
}

// NewAssembler builds a prompt assembler sharing the chunker's counter.
// Extra options are applied after the profile.
func (c Prompt) NewAssembler(counter tokenizer.Counter, opts ...prompt.Option) (*prompt.Assembler, error) {
	return prompt.New(append([]prompt.Option{
		prompt.WithMaxTokens(c.MaxTokens),
		prompt.WithTokenCounter(counter),
		prompt.WithInstructions(c.Instructions...),
	}, opts...)...)
}
