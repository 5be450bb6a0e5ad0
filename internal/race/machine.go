package race

// State is the lifecycle phase of a single room.
type State string

const (
	StateWaiting   = State("waiting")
	StateCountdown = State("countdown")
	StateRacing    = State("racing")
	StateFinished  = State("finished")
)

// Event is an input to the transition function.
type Event string

const (
	EventJoin             = Event("join")
	EventCountdownElapsed = Event("countdown_elapsed")
	EventAllDone          = Event("all_done")
	EventReset            = Event("reset")
)

// Initial is the state of a freshly created room.
const Initial = StateWaiting

// Transition returns the next state for a (state, event) pair and whether the
// pair is part of the transition table. Pairs outside the table return the
// current state and false, so callers can treat unexpected events as no-ops.
func Transition(s State, e Event) (State, bool) {
	switch {
	case s == StateWaiting && e == EventJoin:
		return StateCountdown, true
	case s == StateCountdown && e == EventCountdownElapsed:
		return StateRacing, true
	case s == StateRacing && e == EventAllDone:
		return StateFinished, true
	case s == StateFinished && e == EventReset:
		return StateWaiting, true
	}
	return s, false
}
