package memory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rs/xid"
	"go.uber.org/atomic"

	"github.com/bububa/textchunker/components/chunker"
	"github.com/bububa/textchunker/components/document"
)

const (
	// DefaultCollection receives imported documents unless configured otherwise.
	DefaultCollection = "documents"
	// DefaultMaxDocumentSize is the largest document, in characters, stored
	// as a single record.
	DefaultMaxDocumentSize = 2048
)

// Metadata keys set on every imported record.
const (
	MetaImportID  = "import_id"
	MetaURI       = "uri"
	MetaName      = "name"
	MetaMimeType  = "mime_type"
	MetaMode      = "mode"
	MetaChunk     = "chunk"
	MetaTokens    = "tokens"
	MetaStartLine = "start_line"
	MetaEndLine   = "end_line"
)

// ErrEmptyDocument is returned when a document has no text to import.
var ErrEmptyDocument = errors.New("document has no text")

// Importer saves documents into an Engine. Small documents are stored whole,
// larger ones are chunked and every chunk becomes a record.
type Importer struct {
	engine          Engine
	chunker         *chunker.TextChunker
	collection      string
	maxDocumentSize int
	logger          *slog.Logger

	documents atomic.Int64
	chunked   atomic.Int64
	records   atomic.Int64
	failures  atomic.Int64
}

type ImporterOption func(*Importer)

func WithCollection(name string) ImporterOption {
	return func(im *Importer) {
		im.collection = name
	}
}

// WithMaxDocumentSize sets the size, in characters, above which documents
// are chunked.
func WithMaxDocumentSize(n int) ImporterOption {
	return func(im *Importer) {
		im.maxDocumentSize = n
	}
}

func WithLogger(l *slog.Logger) ImporterOption {
	return func(im *Importer) {
		im.logger = l
	}
}

func NewImporter(engine Engine, tc *chunker.TextChunker, opts ...ImporterOption) (*Importer, error) {
	if engine == nil {
		return nil, errors.New("memory engine is required")
	}
	if tc == nil {
		return nil, errors.New("text chunker is required")
	}
	ret := &Importer{
		engine:          engine,
		chunker:         tc,
		collection:      DefaultCollection,
		maxDocumentSize: DefaultMaxDocumentSize,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.logger == nil {
		ret.logger = slog.Default()
	}
	if ret.maxDocumentSize <= 0 {
		return nil, fmt.Errorf("max document size must be positive, got %d", ret.maxDocumentSize)
	}
	if ret.collection == "" {
		return nil, errors.New("collection name is required")
	}
	return ret, nil
}

// Result describes one imported document.
type Result struct {
	ImportID string
	URI      string
	Chunked  bool
	Records  []Record
}

// Import stores doc. The record text is suffixed with " File:<uri>" so answers
// built from it can cite the source. The uri is taken from the "uri" metadata,
// then the document name, then derived from the content.
func (im *Importer) Import(ctx context.Context, doc *document.Document) (*Result, error) {
	if doc == nil || strings.TrimSpace(doc.Text) == "" {
		return nil, ErrEmptyDocument
	}
	uri := doc.Meta[MetaURI]
	if uri == "" {
		uri = doc.Name
	}
	if uri == "" {
		uri = ContentID(doc.Text)
	}
	ret := &Result{
		ImportID: xid.New().String(),
		URI:      uri,
	}
	logger := im.logger.With("import_id", ret.ImportID, "uri", uri, "collection", im.collection)

	base := maps.Clone(doc.Meta)
	if base == nil {
		base = make(map[string]string, 5)
	}
	base[MetaImportID] = ret.ImportID
	base[MetaURI] = uri
	base[MetaName] = doc.Name
	base[MetaMimeType] = doc.MimeType
	base[MetaMode] = doc.Mode.String()

	size := utf8.RuneCountInString(doc.Text)
	if size <= im.maxDocumentSize {
		ret.Records = []Record{{
			ID:   uri,
			Text: withSource(doc.Text, uri),
			Meta: base,
		}}
	} else {
		chunks, err := doc.Chunk(im.chunker)
		if err != nil {
			im.failures.Inc()
			return nil, fmt.Errorf("chunk %s: %w", uri, err)
		}
		ret.Chunked = true
		ret.Records = make([]Record, 0, len(chunks))
		for _, c := range chunks {
			meta := maps.Clone(base)
			meta[MetaChunk] = strconv.Itoa(c.Index)
			meta[MetaTokens] = strconv.Itoa(c.Tokens)
			meta[MetaStartLine] = strconv.Itoa(c.StartLine)
			meta[MetaEndLine] = strconv.Itoa(c.EndLine)
			ret.Records = append(ret.Records, Record{
				ID:   fmt.Sprintf("%s_%d", uri, c.Index),
				Text: withSource(c.Text, uri),
				Meta: meta,
			})
		}
		logger.Debug("document chunked", "chars", size, "max_chars", im.maxDocumentSize, "chunks", len(chunks))
	}

	if err := im.engine.Insert(ctx, im.collection, ret.Records...); err != nil {
		im.failures.Inc()
		logger.Error("import failed", "error", err)
		return nil, fmt.Errorf("import %s: %w", uri, err)
	}
	im.documents.Inc()
	im.records.Add(int64(len(ret.Records)))
	if ret.Chunked {
		im.chunked.Inc()
	}
	logger.Info("document imported", "records", len(ret.Records), "chunked", ret.Chunked)
	return ret, nil
}

// ImportAll imports docs in order and stops at the first failure.
func (im *Importer) ImportAll(ctx context.Context, docs ...*document.Document) ([]*Result, error) {
	ret := make([]*Result, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return ret, err
		}
		res, err := im.Import(ctx, doc)
		if err != nil {
			return ret, err
		}
		ret = append(ret, res)
	}
	return ret, nil
}

// Stats is a snapshot of the importer counters.
type Stats struct {
	Documents int64
	Chunked   int64
	Records   int64
	Failures  int64
}

func (im *Importer) Stats() Stats {
	return Stats{
		Documents: im.documents.Load(),
		Chunked:   im.chunked.Load(),
		Records:   im.records.Load(),
		Failures:  im.failures.Load(),
	}
}

func withSource(text, uri string) string {
	return text + " File:" + uri
}
