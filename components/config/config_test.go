package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bububa/textchunker/components/chunker"
	"github.com/bububa/textchunker/components/tokenizer"
)

const profile = `
chunker:
  line_tokens: 256
  chunk_tokens: 128
  mode: md
  counter: graphemes
  heading_breaks: true
import:
  collection: repo
  engine: chromem
  path: ./db
  embedder:
    provider: ollama
    model: nomic-embed-text
prompt:
  max_tokens: 512
  instructions:
    - USE ONLY FACTS below.
`

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { newValidator() })
	assert.Panics(t, func() { must(errors.New("bad tag")) })
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(profile))
	require.NoError(t, err)
	assert.Equal(t, 256, cfg.Chunker.LineTokens)
	assert.Equal(t, "md", cfg.Chunker.Mode)
	assert.Equal(t, "repo", cfg.Import.Collection)
	assert.Equal(t, 2048, cfg.Import.MaxDocumentSize, "missing keys keep defaults")
	assert.Equal(t, 4, cfg.Import.Concurrency)
	assert.Equal(t, []string{"USE ONLY FACTS below."}, cfg.Prompt.Instructions)

	tc, err := cfg.Chunker.NewChunker()
	require.NoError(t, err)
	assert.Equal(t, 256, tc.LineTokens())
	assert.Equal(t, 128, tc.ChunkTokens())
	assert.Equal(t, chunker.Markup, tc.Mode())
	assert.IsType(t, tokenizer.Graphemes{}, tc.TokenCounter())

	a, err := cfg.Prompt.NewAssembler(tc.TokenCounter())
	require.NoError(t, err)
	assert.NotNil(t, a)

	fn, err := cfg.Import.Embedder.EmbeddingFunc()
	require.NoError(t, err)
	assert.NotNil(t, fn)
	assert.Len(t, cfg.Import.ImporterOptions(), 2)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	opts, err := cfg.Chunker.Options()
	require.NoError(t, err)
	tc, err := chunker.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, chunker.PlainText, tc.Mode())
	assert.Equal(t, chunker.DefaultLineTokens, tc.LineTokens())
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunker:\n  mode: plain\n"), 0o600))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Chunker.Mode)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "unknown mode", yaml: "chunker:\n  mode: rst\n"},
		{name: "unknown counter", yaml: "chunker:\n  counter: bogus\n"},
		{name: "zero chunk budget", yaml: "chunker:\n  chunk_tokens: 0\n"},
		{name: "negative line budget", yaml: "chunker:\n  line_tokens: -1\n"},
		{name: "empty collection", yaml: "import:\n  collection: \"\"\n"},
		{name: "unknown engine", yaml: "import:\n  engine: milvus\n"},
		{name: "chromem without embedder", yaml: "import:\n  engine: chromem\n"},
		{name: "unknown provider", yaml: "import:\n  embedder:\n    provider: acme\n"},
		{name: "bad base url", yaml: "import:\n  embedder:\n    provider: ollama\n    base_url: \"not a url\"\n"},
		{name: "tiny prompt budget", yaml: "prompt:\n  max_tokens: 1\n"},
		{name: "malformed yaml", yaml: "chunker: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestEmbeddingFunc(t *testing.T) {
	t.Setenv("TEXTCHUNKER_TEST_KEY", "sk-test")
	tests := []struct {
		name    string
		e       Embedder
		wantErr bool
	}{
		{name: "openai", e: Embedder{Provider: "openai", APIKeyEnv: "TEXTCHUNKER_TEST_KEY"}},
		{name: "openai compatible", e: Embedder{Provider: "openai", APIKeyEnv: "TEXTCHUNKER_TEST_KEY", BaseURL: "http://localhost:8080/v1", Model: "bge"}},
		{name: "openai without key", e: Embedder{Provider: "openai"}, wantErr: true},
		{name: "cohere", e: Embedder{Provider: "cohere", APIKeyEnv: "TEXTCHUNKER_TEST_KEY"}},
		{name: "ollama without model", e: Embedder{Provider: "ollama"}, wantErr: true},
		{name: "localai", e: Embedder{Provider: "localai", Model: "bert"}},
		{name: "none", e: Embedder{}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, err := tt.e.EmbeddingFunc()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, fn)
		})
	}
}
