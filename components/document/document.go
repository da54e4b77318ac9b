package document

import (
	"context"
	"errors"
	"io"

	"github.com/bububa/textchunker/components/chunker"
)

var (
	// ErrUnsupported is returned when no parser is registered for a document type.
	ErrUnsupported = errors.New("unsupported document type")
	// ErrEmptySource is returned for a nil or zero sized source.
	ErrEmptySource = errors.New("empty document source")
)

// ParserReader is a random access document source.
type ParserReader interface {
	io.Reader
	io.ReaderAt
	Size() int64
}

// Parser converts the content of a source into text written to writer.
type Parser interface {
	Parse(ctx context.Context, reader ParserReader, writer io.Writer) error
}

// Document is the text extracted from a source together with metadata
type Document struct {
	// Name of the source, usually a file name or object key
	Name string
	// MimeType is the detected content type
	MimeType string
	// Mode tells the chunker which splitting rules fit Text
	Mode chunker.Mode
	// Text is the extracted content
	Text string
	// Meta carries source metadata such as filename or bucket
	Meta map[string]string
}

// Chunk splits the document with tc. The document's Mode overrides the mode
// configured on tc.
func (d *Document) Chunk(tc *chunker.TextChunker) ([]chunker.Chunk, error) {
	return tc.ChunkMode(d.Text, d.Mode)
}

// Content holds the metadata shared by every source
type Content struct {
	name string
	meta map[string]string
}

func (c *Content) Name() string {
	return c.name
}

func (c *Content) Meta() map[string]string {
	ret := make(map[string]string, len(c.meta))
	for k, v := range c.meta {
		ret[k] = v
	}
	return ret
}

// Source is a ParserReader that knows its name and metadata.
type Source interface {
	ParserReader
	Name() string
	Meta() map[string]string
}
