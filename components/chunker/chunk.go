package chunker

import "strings"

// Separator joins lines inside a chunk. Its token count is charged once per
// join when estimating a chunk's size.
const Separator = "\n"

// Line is an atomic unit produced by the line splitter.
type Line struct {
	// Text is the line content. Markup mode lines may span several source lines.
	Text string
	// Kind tells headings apart from body text in markup mode
	Kind LineKind
	// Tokens is the token count of Text
	Tokens int
	// Continued reports that Text continues the previous line without a
	// newline in between, because an over-budget unit was split mid-line.
	Continued bool
}

// Chunk is a group of consecutive lines whose estimated token count fits the
// chunk budget, unless it holds a single oversized line.
type Chunk struct {
	// Text contains the lines joined by Separator; continued lines are joined
	// without one so Text is always a contiguous part of the source.
	Text string
	// Lines are the lines packed into this chunk
	Lines []Line
	// Tokens is the sum of the line tokens plus one separator per join
	Tokens int
	// Index is the position of this chunk in the result
	Index int
	// StartLine is the index of the first line in this chunk
	StartLine int
	// EndLine is the index of the last line in this chunk (exclusive)
	EndLine int
}

// JoinLines concatenates lines the same way Chunk.Text does.
func JoinLines(lines []Line) string {
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 && !line.Continued {
			sb.WriteString(Separator)
		}
		sb.WriteString(line.Text)
	}
	return sb.String()
}

// Reassemble rebuilds the chunked text. For any input it returns the input
// with line endings normalised to "\n".
func Reassemble(chunks []Chunk) string {
	var lines []Line
	for _, c := range chunks {
		lines = append(lines, c.Lines...)
	}
	return JoinLines(lines)
}

// Texts returns the text of every chunk.
func Texts(chunks []Chunk) []string {
	ret := make([]string, len(chunks))
	for idx, c := range chunks {
		ret[idx] = c.Text
	}
	return ret
}
