package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/bububa/textchunker/components/memory"
)

// Engine implements memory.Engine using in-memory storage.
// It is safe for concurrent use and is meant for tests and short lived tools.
type Engine struct {
	// collections stores all collections by name
	collections *sync.Map
}

var _ memory.Engine = (*Engine)(nil)

// Collection is a named set of records.
type Collection struct {
	// ids keeps insertion order
	ids     []string
	records map[string]memory.Record
	// mu provides thread-safety for concurrent operations
	mu sync.RWMutex
}

func newCollection() *Collection {
	return &Collection{records: make(map[string]memory.Record)}
}

// AddRecords stores records, replacing existing ones with the same id.
func (c *Collection) AddRecords(records ...memory.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, record := range records {
		if _, ok := c.records[record.ID]; !ok {
			c.ids = append(c.ids, record.ID)
		}
		c.records[record.ID] = clone(record)
	}
}

// Records returns a copy of the records in insertion order.
func (c *Collection) Records() []memory.Record {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ret := make([]memory.Record, 0, len(c.ids))
	for _, id := range c.ids {
		ret = append(ret, clone(c.records[id]))
	}
	return ret
}

func (c *Collection) get(id string) (memory.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	return clone(record), ok
}

func (c *Collection) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}

func clone(r memory.Record) memory.Record {
	r.Meta = maps.Clone(r.Meta)
	r.Embedding = slices.Clone(r.Embedding)
	return r
}

// New creates a new in-memory engine.
func New() *Engine {
	return &Engine{
		collections: new(sync.Map),
	}
}

// HasCollection checks if a collection with the given name exists.
func (e *Engine) HasCollection(name string) bool {
	_, exists := e.collections.Load(name)
	return exists
}

// DropCollection removes a collection and all its data.
func (e *Engine) DropCollection(name string) {
	e.collections.Delete(name)
}

// Collection returns the named collection, creating it when needed.
func (e *Engine) Collection(_ context.Context, name string) *Collection {
	col, _ := e.collections.LoadOrStore(name, newCollection())
	return col.(*Collection)
}

func (e *Engine) Insert(ctx context.Context, collectionName string, records ...memory.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	docs := make([]memory.Record, 0, len(records))
	for _, record := range records {
		record.EnsureID()
		docs = append(docs, record)
	}
	e.Collection(ctx, collectionName).AddRecords(docs...)
	return nil
}

// lookup returns an existing collection without creating it.
func (e *Engine) lookup(name string) (*Collection, bool) {
	col, ok := e.collections.Load(name)
	if !ok {
		return nil, false
	}
	return col.(*Collection), true
}

func (e *Engine) Get(ctx context.Context, collectionName string, id string) (memory.Record, error) {
	col, ok := e.lookup(collectionName)
	if !ok {
		return memory.Record{}, memory.ErrNotFound
	}
	record, ok := col.get(id)
	if !ok {
		return memory.Record{}, memory.ErrNotFound
	}
	return record, nil
}

// Count returns 0 for unknown collections.
func (e *Engine) Count(ctx context.Context, collectionName string) (int, error) {
	col, ok := e.lookup(collectionName)
	if !ok {
		return 0, nil
	}
	return col.len(), nil
}
