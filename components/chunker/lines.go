package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bububa/textchunker/components/tokenizer"
)

// boundary is a class of positions where an over-budget line may be cut.
type boundary int

const (
	lineBreak boundary = iota
	sentenceEnd
	clausePunct
	whitespace
)

// Boundary classes in order of preference.
var (
	plainBoundaries  = []boundary{sentenceEnd, whitespace}
	markupBoundaries = []boundary{lineBreak, sentenceEnd, clausePunct, whitespace}
)

type lineSplitter struct {
	counter tokenizer.Counter
	budget  int
	mode    Mode
}

func (s *lineSplitter) boundaries() []boundary {
	if s.mode == Markup {
		return markupBoundaries
	}
	return plainBoundaries
}

func (s *lineSplitter) split(text string) ([]Line, error) {
	if text == "" {
		return nil, nil
	}
	text = normalizeNewlines(text)
	var units []Line
	if s.mode == Markup {
		units = markdownUnits(text)
	} else {
		units = plainUnits(text)
	}
	lines := make([]Line, 0, len(units))
	for _, unit := range units {
		var err error
		if lines, err = s.splitUnit(lines, unit); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

func plainUnits(text string) []Line {
	parts := strings.Split(text, "\n")
	units := make([]Line, len(parts))
	for idx, part := range parts {
		units[idx] = Line{Text: part, Kind: Plain}
	}
	return units
}

// splitUnit appends unit to lines, cutting it into pieces that fit the budget.
// Each cut is placed at the furthest fitting boundary of the most preferred
// class that has one.
func (s *lineSplitter) splitUnit(lines []Line, unit Line) ([]Line, error) {
	rest := unit.Text
	continued := false
	for {
		n, err := count(s.counter, rest)
		if err != nil {
			return nil, err
		}
		if n <= s.budget {
			return append(lines, Line{Text: rest, Kind: unit.Kind, Tokens: n, Continued: continued}), nil
		}
		cut, tokens, err := s.findCut(rest)
		if err != nil {
			return nil, err
		}
		if cut <= 0 {
			// nothing left to split on, keep the oversized run whole
			return append(lines, Line{Text: rest, Kind: unit.Kind, Tokens: n, Continued: continued}), nil
		}
		lines = append(lines, Line{Text: rest[:cut], Kind: unit.Kind, Tokens: tokens, Continued: continued})
		rest = rest[cut:]
		continued = true
	}
}

// findCut returns the byte offset where text should be cut and the token
// count of text[:cut]. It returns -1 when text has no boundary at all.
func (s *lineSplitter) findCut(text string) (int, int, error) {
	first := -1
	for _, b := range s.boundaries() {
		cands := cutPoints(text, b)
		if len(cands) == 0 {
			continue
		}
		if first < 0 || cands[0] < first {
			first = cands[0]
		}
		idx, tokens, err := s.lastFitting(text, cands)
		if err != nil {
			return 0, 0, err
		}
		if idx >= 0 {
			return cands[idx], tokens, nil
		}
	}
	if first < 0 {
		return -1, 0, nil
	}
	// Even the shortest piece is over budget: emit it alone.
	tokens, err := count(s.counter, text[:first])
	if err != nil {
		return 0, 0, err
	}
	return first, tokens, nil
}

// lastFitting binary searches the ascending cut points for the last one whose
// prefix fits the budget.
func (s *lineSplitter) lastFitting(text string, cands []int) (int, int, error) {
	best, bestTokens := -1, 0
	lo, hi := 0, len(cands)-1
	for lo <= hi {
		mid := (lo + hi) / 2
		n, err := count(s.counter, text[:cands[mid]])
		if err != nil {
			return -1, 0, err
		}
		if n <= s.budget {
			best, bestTokens = mid, n
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best, bestTokens, nil
}

// cutPoints lists, in ascending order, the offsets right after every
// boundary of class b in text. Whitespace following a boundary stays on the
// left side of the cut. Offsets at 0 or len(text) are never returned.
func cutPoints(text string, b boundary) []int {
	var ret []int
	for i, r := range text {
		end := i + utf8.RuneLen(r)
		var cut int
		switch b {
		case lineBreak:
			if r != '\n' {
				continue
			}
			cut = skipNewlines(text, end)
		case sentenceEnd:
			if !isBoundary(text, end, r, isSentenceEnd) {
				continue
			}
			cut = skipSpace(text, end)
		case clausePunct:
			if !isBoundary(text, end, r, isClausePunct) {
				continue
			}
			cut = skipSpace(text, end)
		case whitespace:
			if !unicode.IsSpace(r) {
				continue
			}
			cut = skipSpace(text, end)
		}
		if cut <= 0 || cut >= len(text) {
			continue
		}
		if l := len(ret); l > 0 && ret[l-1] == cut {
			continue
		}
		ret = append(ret, cut)
	}
	return ret
}

// isBoundary accepts full-width punctuation anywhere and ASCII punctuation
// only when followed by whitespace, so "3.14" or "e.g." in a URL stay whole.
func isBoundary(text string, end int, r rune, match func(rune) (bool, bool)) bool {
	ok, wide := match(r)
	if !ok {
		return false
	}
	if wide {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return end < len(text) && unicode.IsSpace(next)
}

func isSentenceEnd(r rune) (bool, bool) {
	switch r {
	case '.', '!', '?':
		return true, false
	case '。', '！', '？':
		return true, true
	}
	return false, false
}

func isClausePunct(r rune) (bool, bool) {
	switch r {
	case ';', ':', ',', ')', ']', '}':
		return true, false
	case '；', '：', '，', '、':
		return true, true
	}
	return false, false
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func skipNewlines(text string, i int) int {
	for i < len(text) && text[i] == '\n' {
		i++
	}
	return i
}
