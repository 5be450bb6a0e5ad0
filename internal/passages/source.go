// Package passages supplies the text a race is typed against, either from the
// passage store or from a bundled static list when the store is unreachable.
package passages

import (
	"context"
	"log"
	"time"

	"typeracer/internal/db"
)

// Source hands out one passage per race. Implementations never fail; on any
// trouble they degrade to the bundled list.
type Source interface {
	Random(ctx context.Context) string
}

// NewSource returns a store-backed source, or the static source when no
// database is configured.
func NewSource(database *db.DB) Source {
	if database == nil {
		return StaticSource{}
	}
	return &storeSource{db: database}
}

// StaticSource serves only the bundled passages.
type StaticSource struct{}

func (StaticSource) Random(context.Context) string {
	return randomStatic()
}

const storeTimeout = 500 * time.Millisecond

type storeSource struct {
	db *db.DB
}

func (s *storeSource) Random(ctx context.Context) string {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	text, err := s.db.RandomPassage(ctx)
	if err != nil {
		log.Printf("[Passages] Store fetch failed, using static fallback: %v\n", err)
		return randomStatic()
	}
	return text
}
