package config

import (
	"fmt"
	"os"

	"github.com/philippgille/chromem-go"
)

// EmbeddingFunc returns the chromem embedding function of the configured
// provider. API keys are read from the APIKeyEnv environment variable.
func (e Embedder) EmbeddingFunc() (chromem.EmbeddingFunc, error) {
	key := ""
	if e.APIKeyEnv != "" {
		key = os.Getenv(e.APIKeyEnv)
	}
	switch e.Provider {
	case "openai":
		if key == "" {
			return nil, fmt.Errorf("%w: openai embedder needs api_key_env", ErrInvalidConfig)
		}
		model := chromem.EmbeddingModelOpenAI3Small
		if e.Model != "" {
			model = chromem.EmbeddingModelOpenAI(e.Model)
		}
		if e.BaseURL != "" {
			return chromem.NewEmbeddingFuncOpenAICompat(e.BaseURL, key, string(model), nil), nil
		}
		return chromem.NewEmbeddingFuncOpenAI(key, model), nil
	case "cohere":
		if key == "" {
			return nil, fmt.Errorf("%w: cohere embedder needs api_key_env", ErrInvalidConfig)
		}
		model := chromem.EmbeddingModelCohereMultilingualV3
		if e.Model != "" {
			model = chromem.EmbeddingModelCohere(e.Model)
		}
		return chromem.NewEmbeddingFuncCohere(key, model), nil
	case "ollama":
		if e.Model == "" {
			return nil, fmt.Errorf("%w: ollama embedder needs a model", ErrInvalidConfig)
		}
		return chromem.NewEmbeddingFuncOllama(e.Model, e.BaseURL), nil
	case "localai":
		if e.Model == "" {
			return nil, fmt.Errorf("%w: localai embedder needs a model", ErrInvalidConfig)
		}
		return chromem.NewEmbeddingFuncLocalAI(e.Model), nil
	}
	return nil, fmt.Errorf("%w: unknown embedder provider %q", ErrInvalidConfig, e.Provider)
}
