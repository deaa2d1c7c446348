// Package store keeps a history of interpretations.
//
// Every description interpreted through the API server can be saved as a
// [Record] and fetched again by ID. [MemoryStore] serves tests and single
// process setups; [MongoStore] persists records in MongoDB.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/layoutdsl/pkg/cache"
	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/layout"
)

// DefaultListLimit and MaxListLimit bound List.
const (
	DefaultListLimit = 20
	MaxListLimit     = 200
)

// Record is one saved interpretation.
type Record struct {
	ID         string          `json:"id" bson:"_id"`
	Source     string          `json:"source" bson:"source"`
	SourceHash string          `json:"source_hash" bson:"source_hash"`
	Form       string          `json:"form" bson:"form"`
	Directives int             `json:"directives" bson:"directives"`
	Error      string          `json:"error,omitempty" bson:"error,omitempty"`
	Result     json.RawMessage `json:"result" bson:"result"`
	CreatedAt  time.Time       `json:"created_at" bson:"created_at"`
}

// Decode returns the stored result.
func (r *Record) Decode() (*layout.Result, error) {
	return layout.UnmarshalResult(r.Result)
}

// Store persists records.
type Store interface {
	// Save records the interpretation of source.
	Save(ctx context.Context, source string, res *layout.Result) (*Record, error)

	// Get returns the record with the given ID, or an ErrCodeNotFound error.
	Get(ctx context.Context, id string) (*Record, error)

	// List returns up to limit records, newest first. A limit <= 0 means
	// DefaultListLimit.
	List(ctx context.Context, limit int) ([]*Record, error)

	// Close releases the store's resources.
	Close(ctx context.Context) error
}

// NewRecord builds a record with a fresh ID.
func NewRecord(source string, res *layout.Result, now time.Time) (*Record, error) {
	data, err := layout.MarshalResult(res)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode result")
	}
	rec := &Record{
		ID:         uuid.NewString(),
		Source:     source,
		SourceHash: cache.HashString(source),
		Form:       res.Form().String(),
		Directives: len(res.Directives()),
		Result:     data,
		CreatedAt:  now.UTC(),
	}
	if err := res.Err(); err != nil {
		rec.Error = errors.UserMessage(err)
	}
	return rec, nil
}

// clone returns a deep copy of r.
func (r *Record) clone() *Record {
	cp := *r
	cp.Result = append(json.RawMessage(nil), r.Result...)
	return &cp
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeNotFound, "interpretation %s not found", id)
}
