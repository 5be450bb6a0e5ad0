package rooms

import (
	"sync"
	"time"

	"typeracer/internal/metrics"
	"typeracer/internal/passages"
)

const (
	staleTTL    = 1 * time.Hour
	sweepPeriod = 5 * time.Minute
)

// Store is the process-wide registry of rooms, keyed by the id clients join
// with.
type Store struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	source passages.Source
	opts   Options
}

func NewStore(source passages.Source, opts Options) *Store {
	s := &Store{
		rooms:  make(map[string]*Room),
		source: source,
		opts:   opts,
	}
	go s.sweepStale()
	return s
}

// GetOrCreate returns the room for id, creating it atomically on first join.
// The room is fully initialized before any other caller can see it.
func (s *Store) GetOrCreate(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, s.source, s.opts)
	s.rooms[id] = r
	metrics.RoomsCreated.Inc()
	return r
}

func (s *Store) Get(id string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rooms[id]
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, id)
}

func (s *Store) List() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		list = append(list, r)
	}
	return list
}

// sweepStale drops rooms that have sat empty past the TTL. Occupied rooms are
// never swept.
func (s *Store) sweepStale() {
	ticker := time.NewTicker(sweepPeriod)
	defer ticker.Stop()
	for range ticker.C {
		s.mu.Lock()
		now := time.Now()
		for id, r := range s.rooms {
			if r.Players().Len() == 0 && r.Hub().SubscriberCount() == 0 && now.Sub(r.CreatedAt) > staleTTL {
				delete(s.rooms, id)
			}
		}
		s.mu.Unlock()
	}
}
