package chunker

import (
	"strings"

	"gitlab.com/golang-commonmark/markdown"
)

var mdParser = markdown.New(
	markdown.HTML(true),
	markdown.Tables(true),
	markdown.Linkify(false),
	markdown.Typographer(false),
)

// block is a top-level markdown block covering source lines [begin, end).
type block struct {
	begin   int
	end     int
	heading bool
}

// markdownUnits groups the source lines of every top-level block into one
// unit. Lines outside any block (blank separators) become units of their own.
func markdownUnits(text string) []Line {
	lines := strings.Split(text, "\n")
	units := make([]Line, 0, len(lines))
	i := 0
	for _, b := range topLevelBlocks(mdParser.Parse([]byte(text))) {
		end := min(b.end, len(lines))
		if b.begin < i || end <= b.begin {
			continue
		}
		for ; i < b.begin; i++ {
			units = append(units, Line{Text: lines[i], Kind: Plain})
		}
		kind := Plain
		if b.heading {
			kind = HeaderMarkup
		}
		units = append(units, Line{Text: strings.Join(lines[b.begin:end], "\n"), Kind: kind})
		i = end
	}
	for ; i < len(lines); i++ {
		units = append(units, Line{Text: lines[i], Kind: Plain})
	}
	return units
}

func topLevelBlocks(tokens []markdown.Token) []block {
	var blocks []block
	for _, tok := range tokens {
		if tok.Level() != 0 {
			continue
		}
		var (
			lineMap [2]int
			heading bool
		)
		switch t := tok.(type) {
		case *markdown.HeadingOpen:
			lineMap, heading = t.Map, true
		case *markdown.ParagraphOpen:
			lineMap = t.Map
		case *markdown.BulletListOpen:
			lineMap = t.Map
		case *markdown.OrderedListOpen:
			lineMap = t.Map
		case *markdown.BlockquoteOpen:
			lineMap = t.Map
		case *markdown.Fence:
			lineMap = t.Map
		case *markdown.CodeBlock:
			lineMap = t.Map
		case *markdown.HTMLBlock:
			lineMap = t.Map
		case *markdown.TableOpen:
			lineMap = t.Map
		case *markdown.Hr:
			lineMap = t.Map
		default:
			continue
		}
		blocks = append(blocks, block{begin: lineMap[0], end: lineMap[1], heading: heading})
	}
	return blocks
}
