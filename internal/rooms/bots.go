package rooms

import (
	"context"
	"log"
	"time"

	"typeracer/internal/players"
	"typeracer/internal/protocol"
	"typeracer/internal/race"
)

// startBotsLocked launches one goroutine per seeded bot under a shared
// context, so a reset can cancel them all before they emit stray events.
func (r *Room) startBotsLocked() {
	r.cancelBotsLocked()
	bots := r.players.Bots()
	if len(bots) == 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.botCancel = cancel
	passageLen := len(r.passage)
	for _, b := range bots {
		go r.runBot(ctx, b, passageLen)
	}
	log.Printf("[Room %s] Launched %d bots\n", r.ID, len(bots))
}

// runBot advances a synthetic racer at its assigned speed. Progress
// accumulates from wall-clock deltas rather than tick counts, so scheduling
// jitter does not slow the bot down.
func (r *Room) runBot(ctx context.Context, bot players.Player, passageLen int) {
	cps := bot.BotWPM * 5.0 / 60.0
	pos := 0.0
	last := r.opts.Now()

	ticker := time.NewTicker(r.opts.BotSample)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := r.opts.Now()
		pos += cps * float64(now-last) / 1000.0
		last = now

		ipos := int(pos)
		if ipos > passageLen {
			ipos = passageLen
		}
		r.hub.Publish(protocol.Progress(bot.Name, ipos))

		if ipos >= passageLen {
			r.hub.Publish(protocol.Finish(bot.Name, bot.BotWPM, 100))
			r.players.MarkFinished(bot.ID, passageLen)
			r.finishCheck()
			return
		}
	}
}

// finishCheck is the bot-side half of the all-finished race. It competes with
// the keystroke path's check; transition idempotency guarantees at most one
// visible state change.
func (r *Room) finishCheck() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != race.StateRacing {
		return
	}
	r.checkAllDoneLocked()
}
