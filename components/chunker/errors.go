package chunker

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned for non-positive budgets, a missing token
// counter or an unknown mode. It is reported before any text is processed.
var ErrInvalidArgument = errors.New("invalid argument")

// CounterError reports a token counter failure together with the text that
// was being measured. Unwrap returns the counter's error unchanged.
type CounterError struct {
	Text string
	Err  error
}

func (e *CounterError) Error() string {
	return fmt.Sprintf("count tokens of %q: %v", preview(e.Text, 40), e.Err)
}

func (e *CounterError) Unwrap() error {
	return e.Err
}

func preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

func validateBudget(name string, budget int) error {
	if budget <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidArgument, name, budget)
	}
	return nil
}

// ErrNilCounter is returned when no token counter is supplied.
var ErrNilCounter = fmt.Errorf("%w: token counter is nil", ErrInvalidArgument)

func validateMode(mode Mode) error {
	switch mode {
	case PlainText, Markup:
		return nil
	}
	return fmt.Errorf("%w: unknown mode %q", ErrInvalidArgument, mode)
}
