package html

import (
	"context"
	"io"

	"github.com/PuerkitoBio/goquery"
	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"

	"github.com/bububa/textchunker/components/document"
)

// MimeType handled by Parser
const MimeType = "text/html"

// DefaultStrip lists the elements removed before conversion.
var DefaultStrip = []string{"script", "style", "noscript", "iframe", "nav", "footer", "svg", "form"}

// Parser is a parser which parse html content to markdown
type Parser struct {
	strip []string
	opts  []converter.ConvertOptionFunc
}

var _ document.Parser = (*Parser)(nil)

type Option func(*Parser)

// WithStrip replaces the list of elements removed before conversion
func WithStrip(selectors ...string) Option {
	return func(p *Parser) {
		p.strip = selectors
	}
}

// WithConvertOptions passes options to the markdown converter
func WithConvertOptions(opts ...converter.ConvertOptionFunc) Option {
	return func(p *Parser) {
		p.opts = append(p.opts, opts...)
	}
}

func NewParser(opts ...Option) *Parser {
	ret := &Parser{
		strip: DefaultStrip,
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Parse removes boilerplate elements then converts the page to markdown
func (h *Parser) Parse(ctx context.Context, reader document.ParserReader, writer io.Writer) error {
	doc, err := goquery.NewDocumentFromReader(io.NewSectionReader(reader, 0, reader.Size()))
	if err != nil {
		return err
	}
	for _, sel := range h.strip {
		doc.Find(sel).Remove()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	bs, err := htmltomarkdown.ConvertNode(doc.Get(0), h.opts...)
	if err != nil {
		return err
	}
	_, err = writer.Write(bs)
	return err
}
