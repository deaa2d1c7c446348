package store

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/matzehuels/layoutdsl/pkg/errors"
	"github.com/matzehuels/layoutdsl/pkg/layout"
)

// DefaultMemoryRecords bounds a MemoryStore created with size <= 0.
const DefaultMemoryRecords = 1000

// MemoryStore keeps the most recent records in process memory. Once full,
// saving a record evicts the oldest one.
type MemoryStore struct {
	records *lru.Cache[string, *Record]
	now     func() time.Time
}

// NewMemoryStore returns an empty store holding at most size records.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemoryRecords
	}
	records, err := lru.New[string, *Record](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{records: records, now: time.Now}, nil
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, source string, res *layout.Result) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, err := NewRecord(source, res, s.now())
	if err != nil {
		return nil, err
	}
	s.records.Add(rec.ID, rec.clone())
	return rec, nil
}

// Get implements Store. Reads do not change which record is evicted next.
func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	if err := errors.ValidateRecordID(id); err != nil {
		return nil, err
	}
	rec, ok := s.records.Peek(id)
	if !ok {
		return nil, notFound(id)
	}
	return rec.clone(), nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, limit int) ([]*Record, error) {
	limit = clampLimit(limit)
	keys := s.records.Keys()

	out := make([]*Record, 0, min(limit, len(keys)))
	for i := len(keys) - 1; i >= 0 && len(out) < limit; i-- {
		if rec, ok := s.records.Peek(keys[i]); ok {
			out = append(out, rec.clone())
		}
	}
	return out, nil
}

// Len returns the number of records held.
func (s *MemoryStore) Len() int {
	return s.records.Len()
}

// Close implements Store.
func (s *MemoryStore) Close(context.Context) error {
	s.records.Purge()
	return nil
}

var _ Store = (*MemoryStore)(nil)
