package rooms

import "time"

// Options carries the tunables for one room. The zero value is not usable;
// start from DefaultOptions.
type Options struct {
	Countdown      time.Duration // lobby countdown before racing
	TargetPlayers  int           // occupancy filled up with bots at race start
	BotMinWPM      float64
	BotMaxWPM      float64
	BotSample      time.Duration // bot progress sampling period
	KeyMinInterval int64         // ms between accepted keystrokes per player
	MaxWPM         float64       // instantaneous speed ceiling

	// AutoStartWait > 0 enables the waiting-room timer: a race starts for any
	// non-empty room once the wait elapses, the two-human threshold path
	// pre-empting it. 0 keeps the threshold-only policy.
	AutoStartWait time.Duration

	// Now returns the current time in epoch milliseconds. Tests substitute a
	// fake clock; the default is wall time.
	Now func() int64
}

func DefaultOptions() Options {
	return Options{
		Countdown:      3000 * time.Millisecond,
		TargetPlayers:  5,
		BotMinWPM:      40,
		BotMaxWPM:      90,
		BotSample:      100 * time.Millisecond,
		KeyMinInterval: 20,
		MaxWPM:         300,
		Now:            nowMillis,
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Countdown == 0 {
		o.Countdown = d.Countdown
	}
	if o.TargetPlayers == 0 {
		o.TargetPlayers = d.TargetPlayers
	}
	if o.BotMinWPM == 0 {
		o.BotMinWPM = d.BotMinWPM
	}
	if o.BotMaxWPM == 0 {
		o.BotMaxWPM = d.BotMaxWPM
	}
	if o.BotSample == 0 {
		o.BotSample = d.BotSample
	}
	if o.KeyMinInterval == 0 {
		o.KeyMinInterval = d.KeyMinInterval
	}
	if o.MaxWPM == 0 {
		o.MaxWPM = d.MaxWPM
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}
