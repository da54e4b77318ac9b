package chromem

import (
	"context"
	"fmt"

	"github.com/philippgille/chromem-go"

	"github.com/bububa/textchunker/components/memory"
)

// DefaultConcurrency is the number of goroutines used to embed a batch.
const DefaultConcurrency = 4

// Engine stores records in a chromem database. Records without an embedding
// are embedded with the engine's embedding function.
type Engine struct {
	db          *chromem.DB
	embed       chromem.EmbeddingFunc
	concurrency int
	batchSize   int
}

var _ memory.Engine = (*Engine)(nil)

type Option func(*Engine)

// WithEmbeddingFunc sets the embedding function. chromem falls back to
// OpenAI with the OPENAI_API_KEY environment variable when none is set.
func WithEmbeddingFunc(fn chromem.EmbeddingFunc) Option {
	return func(e *Engine) {
		e.embed = fn
	}
}

// WithConcurrency sets how many records are embedded in parallel.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// WithBatchSize limits the number of records handed to chromem at once.
func WithBatchSize(n int) Option {
	return func(e *Engine) {
		e.batchSize = n
	}
}

func New(db *chromem.DB, opts ...Option) *Engine {
	ret := &Engine{
		db:          db,
		concurrency: DefaultConcurrency,
		batchSize:   100,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.concurrency < 1 {
		ret.concurrency = 1
	}
	if ret.batchSize < 1 {
		ret.batchSize = 100
	}
	return ret
}

func (e *Engine) Collection(_ context.Context, name string) (*chromem.Collection, error) {
	return e.db.GetOrCreateCollection(name, nil, e.embed)
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...memory.Record) error {
	if len(records) == 0 {
		return nil
	}
	col, err := e.Collection(ctx, collectionName)
	if err != nil {
		return err
	}
	docs := make([]chromem.Document, 0, len(records))
	for _, record := range records {
		docs = append(docs, recordToDocument(record))
	}
	// Insert documents in batches to avoid memory issues
	for i := 0; i < len(docs); i += e.batchSize {
		end := min(i+e.batchSize, len(docs))
		if err := col.AddDocuments(ctx, docs[i:end], e.concurrency); err != nil {
			return fmt.Errorf("add documents to %s: %w", collectionName, err)
		}
	}
	return nil
}

func (e *Engine) Get(ctx context.Context, collectionName string, id string) (memory.Record, error) {
	col := e.db.GetCollection(collectionName, e.embed)
	if col == nil {
		return memory.Record{}, memory.ErrNotFound
	}
	doc, err := col.GetByID(ctx, id)
	if err != nil {
		return memory.Record{}, fmt.Errorf("%w: %s", memory.ErrNotFound, err)
	}
	return documentToRecord(doc), nil
}

func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	col := e.db.GetCollection(collectionName, e.embed)
	if col == nil {
		return 0, nil
	}
	return col.Count(), nil
}

func documentToRecord(doc chromem.Document) memory.Record {
	return memory.Record{
		ID:        doc.ID,
		Text:      doc.Content,
		Meta:      doc.Metadata,
		Embedding: doc.Embedding,
	}
}

func recordToDocument(record memory.Record) chromem.Document {
	record.EnsureID()
	return chromem.Document{
		ID:        record.ID,
		Content:   record.Text,
		Metadata:  record.Meta,
		Embedding: record.Embedding,
	}
}
