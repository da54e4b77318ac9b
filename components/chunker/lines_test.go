package chunker

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bububa/textchunker/components/tokenizer"
)

var charCounter = tokenizer.RuneEstimate{CharsPerToken: 1}

func lineTexts(lines []Line) []string {
	ret := make([]string, len(lines))
	for idx, line := range lines {
		ret[idx] = line.Text
	}
	return ret
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		budget        int
		counter       tokenizer.Counter
		mode          Mode
		wantLines     []string
		wantContinued []bool
	}{
		{
			name:          "newlines only",
			input:         "first line\nsecond line\n\nfourth",
			budget:        10,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"first line", "second line", "", "fourth"},
			wantContinued: []bool{false, false, false, false},
		},
		{
			name:          "sentence ends",
			input:         "One two three. Four five six. Seven eight nine.",
			budget:        4,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"One two three. ", "Four five six. ", "Seven eight nine."},
			wantContinued: []bool{false, true, true},
		},
		{
			name:          "furthest fitting sentence end",
			input:         "One. Two. Three. Four five six seven.",
			budget:        4,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"One. Two. Three. ", "Four five six seven."},
			wantContinued: []bool{false, true},
		},
		{
			name:          "whitespace fallback",
			input:         "a b c d e f",
			budget:        4,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"a b c d ", "e f"},
			wantContinued: []bool{false, true},
		},
		{
			name:          "decimal point is not a sentence end",
			input:         "pi is 3.14 roughly speaking",
			budget:        3,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"pi is 3.14 ", "roughly speaking"},
			wantContinued: []bool{false, true},
		},
		{
			name:          "oversized word kept whole",
			input:         "aaa bbbbbbbbbb ccc",
			budget:        5,
			counter:       charCounter,
			mode:          PlainText,
			wantLines:     []string{"aaa ", "bbbbbbbbbb ", "ccc"},
			wantContinued: []bool{false, true, true},
		},
		{
			name:          "unsplittable run",
			input:         strings.Repeat("x", 50),
			budget:        10,
			counter:       charCounter,
			mode:          PlainText,
			wantLines:     []string{strings.Repeat("x", 50)},
			wantContinued: []bool{false},
		},
		{
			name:          "full width sentence ends",
			input:         "你好世界。今天天气很好。",
			budget:        7,
			counter:       charCounter,
			mode:          PlainText,
			wantLines:     []string{"你好世界。", "今天天气很好。"},
			wantContinued: []bool{false, true},
		},
		{
			name:          "markdown keeps paragraphs together",
			input:         "# Title\nfirst line of para\nsecond line of para\n\nNext para.",
			budget:        100,
			counter:       tokenizer.Fields{},
			mode:          Markup,
			wantLines:     []string{"# Title", "first line of para\nsecond line of para", "", "Next para."},
			wantContinued: []bool{false, false, false, false},
		},
		{
			name:          "markdown prefers line breaks",
			input:         "one two three\nfour five six",
			budget:        4,
			counter:       tokenizer.Fields{},
			mode:          Markup,
			wantLines:     []string{"one two three\n", "four five six"},
			wantContinued: []bool{false, true},
		},
		{
			name:          "markdown clause punctuation",
			input:         "alpha, beta gamma delta",
			budget:        3,
			counter:       tokenizer.Fields{},
			mode:          Markup,
			wantLines:     []string{"alpha, ", "beta gamma delta"},
			wantContinued: []bool{false, true},
		},
		{
			name:          "plain text ignores clause punctuation",
			input:         "alpha, beta gamma delta",
			budget:        3,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"alpha, beta gamma ", "delta"},
			wantContinued: []bool{false, true},
		},
		{
			name:          "fenced code stays one unit",
			input:         "```go\nfunc main() {\n}\n```\nafter",
			budget:        100,
			counter:       tokenizer.Fields{},
			mode:          Markup,
			wantLines:     []string{"```go\nfunc main() {\n}\n```", "after"},
			wantContinued: []bool{false, false},
		},
		{
			name:          "crlf normalised",
			input:         "a\r\nb\rc",
			budget:        10,
			counter:       tokenizer.Fields{},
			mode:          PlainText,
			wantLines:     []string{"a", "b", "c"},
			wantContinued: []bool{false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, err := SplitLines(tt.input, tt.budget, tt.counter, tt.mode)
			if err != nil {
				t.Fatalf("SplitLines failed: %v", err)
			}
			if got := lineTexts(lines); !reflect.DeepEqual(got, tt.wantLines) {
				t.Fatalf("lines = %q, want %q", got, tt.wantLines)
			}
			for i, line := range lines {
				if line.Continued != tt.wantContinued[i] {
					t.Errorf("line %d continued = %v, want %v", i, line.Continued, tt.wantContinued[i])
				}
				want, _ := tt.counter.Count(line.Text)
				if line.Tokens != want {
					t.Errorf("line %d tokens = %d, want %d", i, line.Tokens, want)
				}
			}
		})
	}
}

func TestSplitLinesEmpty(t *testing.T) {
	for _, mode := range []Mode{PlainText, Markup} {
		lines, err := SplitLines("", 10, tokenizer.Fields{}, mode)
		if err != nil {
			t.Fatalf("%s: %v", mode, err)
		}
		if len(lines) != 0 {
			t.Errorf("%s: expected no lines, got %q", mode, lineTexts(lines))
		}
	}
}

func TestSplitLinesHeaderKind(t *testing.T) {
	lines, err := SplitLines("Intro text\n\n## Usage\nRun it.\n\nSetext\n======", 100, tokenizer.Fields{}, Markup)
	if err != nil {
		t.Fatal(err)
	}
	var headers []string
	for _, line := range lines {
		if line.Kind == HeaderMarkup {
			headers = append(headers, line.Text)
		}
	}
	want := []string{"## Usage", "Setext\n======"}
	if !reflect.DeepEqual(headers, want) {
		t.Errorf("headers = %q, want %q", headers, want)
	}

	plain, err := SplitLines("## Usage", 100, tokenizer.Fields{}, PlainText)
	if err != nil {
		t.Fatal(err)
	}
	if plain[0].Kind != Plain {
		t.Errorf("plain text mode should not tag headers")
	}
}

func TestCutPoints(t *testing.T) {
	tests := []struct {
		name  string
		input string
		b     boundary
		want  []int
	}{
		{name: "whitespace runs collapse", input: "a  b c", b: whitespace, want: []int{3, 5}},
		{name: "sentence keeps trailing space", input: "Hi. Yo! ok", b: sentenceEnd, want: []int{4, 8}},
		{name: "sentence at end is not a cut", input: "Hi. Yo.", b: sentenceEnd, want: []int{4}},
		{name: "line breaks", input: "a\n\nb\nc", b: lineBreak, want: []int{3, 5}},
		{name: "clause", input: "a, b; c", b: clausePunct, want: []int{3, 6}},
		{name: "none", input: "abc", b: whitespace, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cutPoints(tt.input, tt.b); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("cutPoints(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
