package players

// Kind distinguishes real connections from simulated racers.
type Kind int

const (
	Human Kind = iota
	Bot
)

func (k Kind) String() string {
	if k == Bot {
		return "bot"
	}
	return "human"
}

// Player is one participant in a race. All timestamps are epoch milliseconds;
// zero means unset.
type Player struct {
	ID             string
	Name           string
	Kind           Kind
	Position       int
	StartTime      int64
	LastKeystroke  int64
	Errors         int
	Finished       bool
	KeystrokeCount int
	BotWPM         float64 // target speed, bots only
}

// Advance moves the player forward by one correct character, stamping the
// start time on the first one. Position never exceeds passageLen; reaching it
// marks the player finished.
func (p *Player) Advance(ts int64, passageLen int) {
	if p.Position >= passageLen {
		return
	}
	p.Position++
	if p.StartTime == 0 {
		p.StartTime = ts
	}
	if p.Position >= passageLen {
		p.Finished = true
	}
}

// ResetProgress zeroes every per-race field, keeping identity.
func (p *Player) ResetProgress() {
	p.Position = 0
	p.StartTime = 0
	p.LastKeystroke = 0
	p.Errors = 0
	p.Finished = false
	p.KeystrokeCount = 0
}
