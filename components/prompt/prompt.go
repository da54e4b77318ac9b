// Package prompt builds question answering prompts from retrieved facts,
// splitting the facts over several prompts when they exceed a token budget.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bububa/textchunker/components/chunker"
	"github.com/bububa/textchunker/components/tokenizer"
)

// DefaultMaxTokens is the facts budget of a single prompt.
const DefaultMaxTokens = 1024

// ContextProvider is an interface that defines the title and info of a context provider
type ContextProvider interface {
	Title() string
	Info() string
}

// Prompt is one user prompt.
type Prompt struct {
	// Text is the full prompt
	Text string
	// Facts is the part of the facts used in this prompt
	Facts string
	// FactTokens is the token count of Facts
	FactTokens int
	// Part is the index of this prompt among the prompts built for one question
	Part int
	// Parts is the total number of prompts built for the question
	Parts int
}

// Assembler turns facts and a question into prompts.
type Assembler struct {
	maxTokens        int
	counter          tokenizer.Counter
	instructions     []string
	contextProviders []ContextProvider
}

type Option func(*Assembler)

// WithMaxTokens sets the token budget of the facts in a prompt. Larger facts
// are split into chunks of half that size.
func WithMaxTokens(n int) Option {
	return func(a *Assembler) {
		a.maxTokens = n
	}
}

func WithTokenCounter(counter tokenizer.Counter) Option {
	return func(a *Assembler) {
		a.counter = counter
	}
}

// WithInstructions sets lines written at the top of every prompt
func WithInstructions(lines ...string) Option {
	return func(a *Assembler) {
		a.instructions = lines
	}
}

// WithContextProviders adds context sections to every prompt
func WithContextProviders(providers ...ContextProvider) Option {
	return func(a *Assembler) {
		a.contextProviders = append(a.contextProviders, providers...)
	}
}

func New(opts ...Option) (*Assembler, error) {
	ret := &Assembler{
		maxTokens: DefaultMaxTokens,
		counter:   tokenizer.Fields{},
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.maxTokens < 2 {
		return nil, fmt.Errorf("%w: max tokens must be at least 2, got %d", chunker.ErrInvalidArgument, ret.maxTokens)
	}
	if ret.counter == nil {
		return nil, chunker.ErrNilCounter
	}
	return ret, nil
}

// Assemble returns a single prompt when the facts fit the budget. Otherwise
// the facts are chunked as markdown, with lines bounded by the budget and
// chunks by half of it, and one prompt is built per chunk.
func (a *Assembler) Assemble(facts, question string) ([]Prompt, error) {
	if strings.TrimSpace(question) == "" {
		return nil, errors.New("question is empty")
	}
	n, err := a.counter.Count(facts)
	if err != nil {
		return nil, &chunker.CounterError{Text: facts, Err: err}
	}
	if n <= a.maxTokens {
		return []Prompt{a.build(facts, question, n, 0, 1)}, nil
	}
	chunks, err := chunker.ChunkMarkdown(facts, a.maxTokens, a.maxTokens/2, a.counter)
	if err != nil {
		return nil, err
	}
	ret := make([]Prompt, 0, len(chunks))
	for _, c := range chunks {
		ret = append(ret, a.build(c.Text, question, c.Tokens, c.Index, len(chunks)))
	}
	return ret, nil
}

// Aggregate builds the follow-up prompt that answers question from the
// replies given to the partial prompts.
func (a *Assembler) Aggregate(replies []string, question string) (Prompt, error) {
	facts := strings.Join(replies, "\n")
	n, err := a.counter.Count(facts)
	if err != nil {
		return Prompt{}, &chunker.CounterError{Text: facts, Err: err}
	}
	return a.build(facts, question, n, 0, 1), nil
}

func (a *Assembler) build(facts, question string, tokens, part, parts int) Prompt {
	promptParts := make([]string, 0, len(a.instructions)+len(a.contextProviders)*3+4)
	if len(a.instructions) > 0 {
		promptParts = append(promptParts, a.instructions...)
		promptParts = append(promptParts, "")
	}
	if len(a.contextProviders) > 0 {
		promptParts = append(promptParts, "# EXTRA INFORMATION AND CONTEXT")
		for _, provider := range a.contextProviders {
			if info := provider.Info(); info != "" {
				promptParts = append(promptParts, fmt.Sprintf("## %s", provider.Title()))
				promptParts = append(promptParts, info)
				promptParts = append(promptParts, "")
			}
		}
	}
	promptParts = append(promptParts, "FACTS: "+facts)
	promptParts = append(promptParts, "QUESTION: "+question)
	return Prompt{
		Text:       strings.Join(promptParts, "\n"),
		Facts:      facts,
		FactTokens: tokens,
		Part:       part,
		Parts:      parts,
	}
}

// StaticContext is a ContextProvider with fixed content.
type StaticContext struct {
	title string
	info  string
}

func NewStaticContext(title, info string) *StaticContext {
	return &StaticContext{title: title, info: info}
}

func (c *StaticContext) Title() string {
	return c.title
}

func (c *StaticContext) Info() string {
	return c.info
}
