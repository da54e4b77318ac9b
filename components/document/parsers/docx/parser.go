package docx

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/bububa/textchunker/components/document"
)

// MimeType handled by Parser
const MimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Parser is a parser which parse docx to markdown
type Parser struct{}

var _ document.Parser = (*Parser)(nil)

// Parse writes every body paragraph and table separated by blank lines.
// Heading styles become markdown headings.
func (p *Parser) Parse(ctx context.Context, reader document.ParserReader, writer io.Writer) error {
	doc, err := docx.Parse(reader, reader.Size())
	if err != nil {
		return err
	}

	var written bool
	for _, it := range doc.Document.Body.Items {
		var content string
		switch t := it.(type) {
		case *docx.Paragraph:
			content = strings.TrimSpace(t.String())
			if content != "" {
				if level := headingLevel(t); level > 0 {
					content = strings.Repeat("#", level) + " " + content
				}
			}
		case *docx.Table:
			content = strings.TrimSpace(t.String())
		}
		if content == "" {
			continue
		}
		if written {
			if _, err := io.WriteString(writer, "\n\n"); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(writer, content); err != nil {
			return err
		}
		written = true
	}
	return nil
}

// headingLevel maps Title and HeadingN paragraph styles to a markdown level.
func headingLevel(p *docx.Paragraph) int {
	if p.Properties == nil || p.Properties.Style == nil {
		return 0
	}
	style := strings.ReplaceAll(strings.ToLower(p.Properties.Style.Val), " ", "")
	if style == "title" {
		return 1
	}
	if !strings.HasPrefix(style, "heading") {
		return 0
	}
	level, err := strconv.Atoi(strings.TrimPrefix(style, "heading"))
	if err != nil || level < 1 {
		return 0
	}
	return min(level, 6)
}
