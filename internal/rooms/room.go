// Package rooms implements the race engine: room lifecycle, player admission,
// keystroke scoring with anti-cheat guards, bot simulation, and the tick
// driver that advances time-based transitions.
package rooms

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"typeracer/internal/broadcast"
	"typeracer/internal/metrics"
	"typeracer/internal/passages"
	"typeracer/internal/players"
	"typeracer/internal/protocol"
	"typeracer/internal/race"
	"typeracer/internal/stats"
)

// minElapsedForSpeedCheck is how long a player must have been typing before
// the instantaneous-WPM guard applies; below it the sample is too noisy.
const minElapsedForSpeedCheck = 100 * time.Millisecond

// Room is one isolated race. The room mutex guards state, passage and the
// timers; the player table has its own inner lock and is only combined with
// room fields while the room mutex is held.
type Room struct {
	ID        string
	CreatedAt time.Time

	mu              sync.Mutex
	state           race.State
	passage         []rune
	countdownStart  int64 // epoch ms, 0 = unset
	waitingStart    int64 // epoch ms, 0 = unset
	lastTimerSecond int64
	botCancel       context.CancelFunc

	players *players.Store
	hub     *broadcast.Hub
	source  passages.Source
	opts    Options
}

// NewRoom returns a fully initialized room in the waiting state. It is safe
// to share as soon as it is returned.
func NewRoom(id string, source passages.Source, opts Options) *Room {
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		state:     race.Initial,
		players:   players.NewStore(),
		hub:       broadcast.NewHub(),
		source:    source,
		opts:      opts.withDefaults(),
	}
}

func (r *Room) Hub() *broadcast.Hub {
	return r.hub
}

func (r *Room) Players() *players.Store {
	return r.players
}

func (r *Room) State() race.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Room) Passage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.passage)
}

// Snapshot returns the current roster as a lobby message, for sending
// directly to a joining or resynchronizing client.
func (r *Room) Snapshot() protocol.ServerMsg {
	return protocol.Lobby(r.players.Names())
}

// AddPlayer admits a player. Joining a finished room force-resets it first,
// then the start condition is evaluated and the roster republished either way.
func (r *Room) AddPlayer(p *players.Player) {
	r.mu.Lock()
	r.players.Add(p)
	log.Printf("[Room %s] %s joined (%d players)\n", r.ID, p.Name, r.players.Len())

	if r.state == race.StateFinished {
		log.Printf("[Room %s] Resetting finished race for new player\n", r.ID)
		r.forceResetLocked()
	}
	if r.state == race.StateWaiting && r.waitingStart == 0 && r.opts.AutoStartWait > 0 {
		r.waitingStart = r.opts.Now()
	}
	r.broadcastLobbyLocked()
	r.tryStartLocked(2)
	r.mu.Unlock()
}

// RemovePlayer deletes the entry; an emptied room resets to waiting whatever
// state it was in.
func (r *Room) RemovePlayer(id string) {
	r.mu.Lock()
	r.players.Remove(id)
	if r.players.Len() == 0 {
		r.forceResetLocked()
	}
	r.broadcastLobbyLocked()
	r.mu.Unlock()
}

// TryStart evaluates the two-human start condition.
func (r *Room) TryStart() {
	r.mu.Lock()
	r.tryStartLocked(2)
	r.mu.Unlock()
}

// tryStartLocked fires Join when the room is waiting with at least minHumans
// human players: it stamps the countdown, fetches the passage, fills the
// room with bots, and publishes lobby, state change and countdown in order.
func (r *Room) tryStartLocked(minHumans int) {
	if r.state != race.StateWaiting {
		return
	}
	if r.players.HumanCount() < minHumans {
		return
	}
	next, ok := race.Transition(r.state, race.EventJoin)
	if !ok {
		return
	}
	r.state = next
	r.countdownStart = r.opts.Now()
	r.waitingStart = 0
	r.lastTimerSecond = 0
	r.passage = []rune(r.source.Random(context.Background()))

	needed := r.opts.TargetPlayers - r.players.Len()
	for i := 0; i < needed; i++ {
		wpm := r.opts.BotMinWPM + rand.Float64()*(r.opts.BotMaxWPM-r.opts.BotMinWPM)
		r.players.Add(&players.Player{
			ID:     fmt.Sprintf("bot-%s-%d-%s", r.ID, i, uuid.New().String()),
			Name:   fmt.Sprintf("Bot %d", i+1),
			Kind:   players.Bot,
			BotWPM: wpm,
		})
	}

	r.broadcastLobbyLocked()
	r.hub.Publish(protocol.StateChange(string(race.StateCountdown)))
	r.hub.Publish(protocol.Countdown(string(r.passage)))
	log.Printf("[Room %s] Countdown started with %d players\n", r.ID, r.players.Len())
}

// HandleKeystroke scores one submitted character. It is a no-op outside the
// racing state, for bots, and for keystrokes the guards reject.
func (r *Room) HandleKeystroke(playerID string, ch rune, ts int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != race.StateRacing || len(r.passage) == 0 {
		return
	}
	passage := r.passage

	var out []protocol.ServerMsg
	r.players.WithPlayer(playerID, func(p *players.Player) {
		if p.Kind == players.Bot || p.Finished {
			return
		}
		if ts-p.LastKeystroke < r.opts.KeyMinInterval {
			metrics.KeystrokesRejected.WithLabelValues("rate_limit").Inc()
			return
		}
		p.LastKeystroke = ts
		p.KeystrokeCount++

		if p.StartTime != 0 {
			elapsed := float64(ts-p.StartTime) / 1000.0
			if elapsed > minElapsedForSpeedCheck.Seconds() {
				if wpm := stats.GrossWPM(p.Position, elapsed); wpm > r.opts.MaxWPM {
					log.Printf("[Room %s] Suspicious typing speed from %s: %.0f WPM\n", r.ID, p.Name, wpm)
					metrics.KeystrokesRejected.WithLabelValues("speed").Inc()
					out = append(out, protocol.Error("suspicious typing speed detected"))
					return
				}
			}
		}

		if p.Position >= len(passage) {
			return
		}
		if ch != passage[p.Position] {
			p.Errors++
			return
		}

		p.Advance(ts, len(passage))
		if p.Finished {
			elapsed := float64(ts-p.StartTime) / 1000.0
			wpm := stats.NetWPM(p.Position, elapsed, p.Errors)
			acc := stats.Accuracy(p.Position-p.Errors, p.Position)
			out = append(out, protocol.Finish(p.Name, wpm, acc))
		} else {
			out = append(out, protocol.Progress(p.Name, p.Position))
		}
	})
	for _, msg := range out {
		r.hub.Publish(msg)
	}
	r.checkAllDoneLocked()
}

// HandleProgress applies a client-reported position sync. It is a no-op
// outside the racing state; positions only move forward and never past the
// passage end.
func (r *Room) HandleProgress(playerID string, pos int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != race.StateRacing {
		return
	}
	limit := len(r.passage)

	var out *protocol.ServerMsg
	r.players.WithPlayer(playerID, func(p *players.Player) {
		if p.Kind == players.Bot {
			return
		}
		if pos > limit {
			pos = limit
		}
		if pos <= p.Position {
			return
		}
		p.Position = pos
		msg := protocol.Progress(p.Name, pos)
		out = &msg
	})
	if out != nil {
		r.hub.Publish(*out)
	}
}

// HandleFinish applies a client-reported completion. It is a no-op outside
// the racing state.
func (r *Room) HandleFinish(playerID string, wpm, accuracy float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != race.StateRacing {
		return
	}

	var out *protocol.ServerMsg
	r.players.WithPlayer(playerID, func(p *players.Player) {
		if p.Kind == players.Bot || p.Finished {
			return
		}
		p.Finished = true
		if len(r.passage) > 0 {
			p.Position = len(r.passage)
		}
		msg := protocol.Finish(p.Name, wpm, accuracy)
		out = &msg
	})
	if out != nil {
		r.hub.Publish(*out)
	}
	r.checkAllDoneLocked()
}

// Reset returns the room toward waiting when the state machine permits it,
// dropping bots and zeroing human progress. Enough remaining humans may
// immediately begin a new countdown.
func (r *Room) Reset() {
	r.mu.Lock()
	next, ok := race.Transition(r.state, race.EventReset)
	if !ok {
		r.mu.Unlock()
		return
	}
	r.state = next
	r.cancelBotsLocked()
	r.passage = nil
	r.countdownStart = 0
	r.waitingStart = 0
	r.lastTimerSecond = 0
	r.players.DropBots()
	r.players.ResetAll()
	if r.opts.AutoStartWait > 0 && r.players.Len() > 0 {
		r.waitingStart = r.opts.Now()
	}

	r.hub.Publish(protocol.StateChange(string(race.StateWaiting)))
	r.broadcastLobbyLocked()
	r.tryStartLocked(2)
	r.mu.Unlock()
}

// forceResetLocked clears the race unconditionally, outside the transition
// table. Used when an emptied or finished room must accept a fresh lobby.
func (r *Room) forceResetLocked() {
	r.cancelBotsLocked()
	r.state = race.StateWaiting
	r.passage = nil
	r.countdownStart = 0
	r.waitingStart = 0
	r.lastTimerSecond = 0
	r.players.DropBots()
	r.players.ResetAll()
}

// checkAllDoneLocked fires AllDone once every current player has finished.
// Both the keystroke path and bot terminations call it; the transition table
// accepts AllDone only from racing, so exactly one caller flips the state and
// broadcasts.
func (r *Room) checkAllDoneLocked() {
	if !r.players.AllFinished() {
		return
	}
	next, ok := race.Transition(r.state, race.EventAllDone)
	if !ok {
		return
	}
	r.state = next
	r.hub.Publish(protocol.StateChange(string(race.StateFinished)))
	log.Printf("[Room %s] Race finished\n", r.ID)
}

// Tick advances time-based transitions. Called by the driver on every period.
func (r *Room) Tick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.opts.Now()

	switch r.state {
	case race.StateWaiting:
		r.tickWaitingLocked(now)
	case race.StateCountdown:
		if r.countdownStart == 0 || now-r.countdownStart < r.opts.Countdown.Milliseconds() {
			return
		}
		next, ok := race.Transition(r.state, race.EventCountdownElapsed)
		if !ok {
			return
		}
		r.state = next
		// now becomes the authoritative race origin every client measures from.
		r.hub.Publish(protocol.Start(string(r.passage), now))
		r.startBotsLocked()
		metrics.RacesStarted.Inc()
		log.Printf("[Room %s] Racing started\n", r.ID)
	}
}

// tickWaitingLocked drives the optional waiting-room auto-start timer.
func (r *Room) tickWaitingLocked(now int64) {
	if r.opts.AutoStartWait <= 0 || r.waitingStart == 0 || r.players.Len() == 0 {
		return
	}
	elapsed := now - r.waitingStart
	waitMS := r.opts.AutoStartWait.Milliseconds()
	if elapsed >= waitMS {
		r.tryStartLocked(1)
		return
	}
	secondsLeft := (waitMS - elapsed + 999) / 1000
	if secondsLeft != r.lastTimerSecond {
		r.lastTimerSecond = secondsLeft
		r.hub.Publish(protocol.WaitingTimer(secondsLeft))
	}
}

func (r *Room) broadcastLobbyLocked() {
	r.hub.Publish(r.Snapshot())
}

func (r *Room) cancelBotsLocked() {
	if r.botCancel != nil {
		r.botCancel()
		r.botCancel = nil
	}
}
