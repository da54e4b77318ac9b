// Package memory stores document chunks in a collection based memory store.
package memory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type EngineType string

const (
	Memory  EngineType = "memory"
	Chromem EngineType = "chromem"
)

// ErrNotFound is returned by Get for an unknown record id.
var ErrNotFound = errors.New("record not found")

// Engine is a memory store holding records grouped in collections.
// Inserting a record with an existing id replaces it.
type Engine interface {
	Insert(ctx context.Context, collection string, records ...Record) error
	Get(ctx context.Context, collection string, id string) (Record, error)
	Count(ctx context.Context, collection string) (int, error)
}

// Record is a piece of text saved into memory.
type Record struct {
	// ID identifies the record inside its collection
	ID string
	// Text is the stored content
	Text string
	// Meta carries record metadata
	Meta map[string]string
	// Embedding is optional, engines that need one compute it when empty
	Embedding []float32
}

// ContentID derives a stable id from text.
func ContentID(text string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(text)).String()
}

// EnsureID sets a content derived id on records without one.
func (r *Record) EnsureID() {
	if r.ID == "" {
		r.ID = ContentID(r.Text)
	}
}
