package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// TikToken provides accurate token counting using the tiktoken library,
// which implements the tokenization schemes used by OpenAI models.
type TikToken struct {
	tke *tiktoken.Tiktoken
}

var _ Counter = (*TikToken)(nil)

// Encodings lists the tiktoken encodings accepted by NewTikToken.
var Encodings = []string{
	tiktoken.MODEL_O200K_BASE,
	tiktoken.MODEL_CL100K_BASE,
	tiktoken.MODEL_P50K_BASE,
	tiktoken.MODEL_P50K_EDIT,
	tiktoken.MODEL_R50K_BASE,
}

// NewTikToken creates a new TikToken counter using the specified encoding.
// Common encodings include:
// - "o200k_base" (GPT-4o)
// - "cl100k_base" (GPT-4, ChatGPT)
// - "p50k_base" (GPT-3)
// - "r50k_base" (Codex)
func NewTikToken(encoding string) (*TikToken, error) {
	tke, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TikToken{tke: tke}, nil
}

// NewTikTokenForModel picks the encoding used by the named model.
func NewTikTokenForModel(model string) (*TikToken, error) {
	tke, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding for model %s: %w", model, err)
	}
	return &TikToken{tke: tke}, nil
}

// Count returns the exact number of tokens in the text according to the
// specified tiktoken encoding.
func (ttc *TikToken) Count(text string) (int, error) {
	return len(ttc.tke.Encode(text, nil, nil)), nil
}
