// Package idgen provides the UUIDv4 source used for ping document IDs and
// the Uuid metric kind's generate_and_set. It is a thin, injectable wrapper
// around google/uuid so tests can substitute deterministic IDs.
package idgen

import "github.com/google/uuid"

// Source produces UUIDv4 values.
type Source interface {
	NewV4() uuid.UUID
}

// realSource backs production use.
type realSource struct{}

// New returns the production Source.
func New() Source {
	return realSource{}
}

func (realSource) NewV4() uuid.UUID {
	return uuid.New()
}

// Fixed is a Source for tests that always returns (and then advances
// through) a predetermined sequence of UUIDs.
type Fixed struct {
	ids []uuid.UUID
	i   int
}

// NewFixed returns a Source that cycles through ids in order, repeating the
// last one once exhausted.
func NewFixed(ids ...uuid.UUID) *Fixed {
	return &Fixed{ids: ids}
}

func (f *Fixed) NewV4() uuid.UUID {
	if len(f.ids) == 0 {
		return uuid.Nil
	}
	id := f.ids[f.i]
	if f.i < len(f.ids)-1 {
		f.i++
	}
	return id
}
