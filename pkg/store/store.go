// Package store persists render records: a summary of every graph the
// server rendered, addressable by a generated id.
//
// Backends:
//   - memory: in-process map for tests and single-shot use
//   - file: one JSON document per record, for local servers
//   - mongo: MongoDB collection for shared deployments
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/analyzere/extras/pkg/errors"
)

// RenderRecord describes one rendered graph.
type RenderRecord struct {
	ID          string        `json:"id" bson:"_id"`
	LayerViewID string        `json:"layer_view_id" bson:"layer_view_id"`
	Filename    string        `json:"filename" bson:"filename"`
	Format      string        `json:"format" bson:"format"`
	Options     RecordOptions `json:"options" bson:"options"`
	Nodes       int           `json:"nodes" bson:"nodes"`
	Edges       int           `json:"edges" bson:"edges"`
	Warnings    []string      `json:"warnings" bson:"warnings"`
	Size        int           `json:"size" bson:"size"`
	CreatedAt   time.Time     `json:"created_at" bson:"created_at"`
}

// RecordOptions captures the graph options a record was rendered with.
type RecordOptions struct {
	WithTerms  bool   `json:"with_terms" bson:"with_terms"`
	Compact    bool   `json:"compact" bson:"compact"`
	Warnings   bool   `json:"warnings" bson:"warnings"`
	Rankdir    string `json:"rankdir" bson:"rankdir"`
	MaxDepth   int    `json:"max_depth" bson:"max_depth"`
	MaxSources int    `json:"max_sources" bson:"max_sources"`
	Colors     int    `json:"colors" bson:"colors"`
	ColorMode  string `json:"color_mode" bson:"color_mode"`
}

// NewRecord returns a record with a fresh id and creation time.
func NewRecord() *RenderRecord {
	return &RenderRecord{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
	}
}

// Store is the interface for render record backends.
type Store interface {
	// Save inserts or replaces a record. The record must have an id.
	Save(ctx context.Context, rec *RenderRecord) error

	// Get returns the record with the given id, or a NOT_FOUND error.
	Get(ctx context.Context, id string) (*RenderRecord, error)

	// Close releases backend resources.
	Close() error
}

func checkRecord(rec *RenderRecord) error {
	if rec == nil || rec.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "render record requires an id")
	}
	return nil
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "render record not found: %s", id)
}
