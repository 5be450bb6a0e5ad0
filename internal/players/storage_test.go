package players

import "testing"

func TestNewStore(t *testing.T) {
	s := NewStore()
	if s == nil {
		t.Fatal("NewStore() returned nil")
	}
	if s.Len() != 0 {
		t.Errorf("new store should be empty, got %d players", s.Len())
	}
}

func TestStore_AddGetRemove(t *testing.T) {
	s := NewStore()
	s.Add(&Player{ID: "id1", Name: "Alice"})

	p := s.Get("id1")
	if p == nil {
		t.Fatal("Get returned nil for existing player")
	}
	if p.Name != "Alice" {
		t.Errorf("Name = %q, want %q", p.Name, "Alice")
	}
	if p.Kind != Human {
		t.Errorf("Kind = %v, want Human", p.Kind)
	}
	if s.Get("nonexistent") != nil {
		t.Error("Get should return nil for nonexistent player")
	}

	s.Remove("id1")
	if s.Len() != 0 {
		t.Errorf("Len() = %d after remove, want 0", s.Len())
	}
}

func TestStore_HumanCount(t *testing.T) {
	s := NewStore()
	s.Add(&Player{ID: "h1", Name: "Alice"})
	s.Add(&Player{ID: "h2", Name: "Bob"})
	s.Add(&Player{ID: "b1", Name: "Bot 1", Kind: Bot, BotWPM: 60})

	if got := s.HumanCount(); got != 2 {
		t.Errorf("HumanCount() = %d, want 2", got)
	}
	if got := s.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	if got := len(s.Bots()); got != 1 {
		t.Errorf("len(Bots()) = %d, want 1", got)
	}
}

func TestStore_AllFinished(t *testing.T) {
	s := NewStore()
	if s.AllFinished() {
		t.Error("empty store should not report all finished")
	}

	s.Add(&Player{ID: "h1", Name: "Alice"})
	s.Add(&Player{ID: "b1", Name: "Bot 1", Kind: Bot})
	if s.AllFinished() {
		t.Error("nobody finished yet")
	}

	s.MarkFinished("b1", 10)
	if s.AllFinished() {
		t.Error("human still racing")
	}

	s.MarkFinished("h1", 10)
	if !s.AllFinished() {
		t.Error("all players finished, AllFinished() = false")
	}
}

func TestStore_DropBots(t *testing.T) {
	s := NewStore()
	s.Add(&Player{ID: "h1", Name: "Alice"})
	s.Add(&Player{ID: "b1", Name: "Bot 1", Kind: Bot})
	s.Add(&Player{ID: "b2", Name: "Bot 2", Kind: Bot})

	s.DropBots()
	if s.Len() != 1 {
		t.Errorf("Len() = %d after DropBots, want 1", s.Len())
	}
	if s.Get("h1") == nil {
		t.Error("human should survive DropBots")
	}
}

func TestStore_ResetAll(t *testing.T) {
	s := NewStore()
	s.Add(&Player{ID: "h1", Name: "Alice", Position: 42, StartTime: 1000, Errors: 3, Finished: true, KeystrokeCount: 45})

	s.ResetAll()
	p := s.Get("h1")
	if p.Position != 0 || p.StartTime != 0 || p.Errors != 0 || p.Finished || p.KeystrokeCount != 0 {
		t.Errorf("ResetAll left race fields set: %+v", p)
	}
	if p.Name != "Alice" {
		t.Error("ResetAll should keep identity")
	}
}

func TestPlayer_Advance(t *testing.T) {
	p := &Player{ID: "h1", Name: "Alice"}
	passageLen := 3

	p.Advance(1000, passageLen)
	if p.Position != 1 {
		t.Errorf("Position = %d, want 1", p.Position)
	}
	if p.StartTime != 1000 {
		t.Errorf("StartTime = %d, want 1000 (stamped on first advance)", p.StartTime)
	}

	p.Advance(1100, passageLen)
	if p.StartTime != 1000 {
		t.Error("StartTime should be set at most once")
	}

	p.Advance(1200, passageLen)
	if !p.Finished {
		t.Error("player should be finished at passage end")
	}
	if p.Position != passageLen {
		t.Errorf("Position = %d, want %d", p.Position, passageLen)
	}

	// Position is bounded by passage length.
	p.Advance(1300, passageLen)
	if p.Position != passageLen {
		t.Errorf("Position advanced past passage end: %d", p.Position)
	}
}
