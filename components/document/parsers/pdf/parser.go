package pdf

import (
	"context"
	"io"

	"github.com/ledongthuc/pdf"

	"github.com/bububa/textchunker/components/document"
)

// MimeType handled by Parser
const MimeType = "application/pdf"

// Parser is a parser which parse PDF content to text
type Parser struct {
	password string
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

func WithPassword(password string) Option {
	return func(p *Parser) {
		p.password = password
	}
}

func NewParser(opts ...Option) *Parser {
	ret := new(Parser)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse writes the text of every page, one row per line. Pages are separated
// by a blank line so the plain text splitter sees page boundaries.
func (p *Parser) Parse(ctx context.Context, reader document.ParserReader, writer io.Writer) error {
	var (
		r    *pdf.Reader
		err  error
		size = reader.Size()
	)
	if p.password != "" {
		if r, err = pdf.NewReaderEncrypted(reader, size, func() string {
			return p.password
		}); err != nil {
			return err
		}
	} else {
		if r, err = pdf.NewReader(reader, size); err != nil {
			return err
		}
	}
	totalPage := r.NumPage()

	var written bool
	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := r.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return err
		}
		if written && len(rows) > 0 {
			if _, err := io.WriteString(writer, "\n\n"); err != nil {
				return err
			}
		}
		for idx, row := range rows {
			if idx > 0 {
				if _, err := io.WriteString(writer, "\n"); err != nil {
					return err
				}
			}
			for _, word := range row.Content {
				if _, err := io.WriteString(writer, word.S); err != nil {
					return err
				}
			}
			written = true
		}
	}
	return nil
}
