package rooms

import (
	"log"
	"time"
)

// Driver is the single periodic task that visits every room to advance its
// time-based transitions. It holds the registry explicitly so its lifecycle
// is visible and testable.
type Driver struct {
	store  *Store
	period time.Duration
	stop   chan struct{}
	done   chan struct{}
}

func NewDriver(store *Store, period time.Duration) *Driver {
	return &Driver{
		store:  store,
		period: period,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start launches the tick loop. Call Stop to end it.
func (d *Driver) Start() {
	go d.run()
	log.Printf("[Tick] Driver running every %s\n", d.period)
}

func (d *Driver) run() {
	defer close(d.done)
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()
	for {
		select {
		case <-d.stop:
			return
		case <-ticker.C:
			for _, r := range d.store.List() {
				r.Tick()
			}
		}
	}
}

// Stop ends the tick loop and waits for the current sweep to finish.
func (d *Driver) Stop() {
	close(d.stop)
	<-d.done
}
