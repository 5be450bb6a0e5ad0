package players

import "sync"

// Store is the concurrent player table for one room. Callers that need a
// composite read across the room state and this table must take the room lock
// first; the store lock is always innermost.
type Store struct {
	mu      sync.Mutex
	players map[string]*Player
}

func NewStore() *Store {
	return &Store{
		players: make(map[string]*Player),
	}
}

func (s *Store) Add(p *Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

func (s *Store) Get(id string) *Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players[id]
}

func (s *Store) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

// HumanCount counts non-bot players.
func (s *Store) HumanCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, p := range s.players {
		if p.Kind == Human {
			n++
		}
	}
	return n
}

// Names returns the display names of every player, for lobby broadcasts.
func (s *Store) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.players))
	for _, p := range s.players {
		names = append(names, p.Name)
	}
	return names
}

// Bots returns copies of every bot entry.
func (s *Store) Bots() []Player {
	s.mu.Lock()
	defer s.mu.Unlock()
	bots := make([]Player, 0, len(s.players))
	for _, p := range s.players {
		if p.Kind == Bot {
			bots = append(bots, *p)
		}
	}
	return bots
}

// AllFinished reports whether every current player has finished. An empty
// table is not "all finished"; it means nobody is racing.
func (s *Store) AllFinished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.players) == 0 {
		return false
	}
	for _, p := range s.players {
		if !p.Finished {
			return false
		}
	}
	return true
}

// MarkFinished sets the finished flag and pins the position to the passage
// end. Used by the bot path; humans finish through the keystroke path.
func (s *Store) MarkFinished(id string, position int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.players[id]; ok {
		p.Finished = true
		p.Position = position
	}
}

// ResetAll zeroes race progress on every player.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.players {
		p.ResetProgress()
	}
}

// DropBots removes every bot entry.
func (s *Store) DropBots() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, p := range s.players {
		if p.Kind == Bot {
			delete(s.players, id)
		}
	}
}

// WithPlayer runs fn with the identified player while holding the table lock,
// so a read-modify-write on one entry cannot interleave with another mutation.
// It returns false if the player does not exist.
func (s *Store) WithPlayer(id string, fn func(*Player)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[id]
	if !ok {
		return false
	}
	fn(p)
	return true
}
