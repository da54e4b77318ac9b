// Package parsers wires the format specific parsers into a document.Loader.
package parsers

import (
	"github.com/bububa/textchunker/components/chunker"
	"github.com/bububa/textchunker/components/document"
	"github.com/bububa/textchunker/components/document/parsers/docx"
	"github.com/bububa/textchunker/components/document/parsers/html"
	"github.com/bububa/textchunker/components/document/parsers/pdf"
	"github.com/bububa/textchunker/components/document/parsers/xlsx"
)

// Register installs the pdf, html, docx and xlsx parsers. PDF text has no
// structure and is chunked as plain text, the other formats produce markdown.
func Register(l *document.Loader) {
	l.Register(pdf.MimeType, chunker.PlainText, pdf.NewParser())
	l.Register(html.MimeType, chunker.Markup, html.NewParser())
	l.Register(docx.MimeType, chunker.Markup, new(docx.Parser))
	l.Register(xlsx.MimeType, chunker.Markup, xlsx.NewParser())
}

// NewLoader returns a loader with every parser registered.
func NewLoader(opts ...document.LoaderOption) *document.Loader {
	l := document.NewLoader(opts...)
	Register(l)
	return l
}
