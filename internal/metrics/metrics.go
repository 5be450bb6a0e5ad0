// Package metrics holds the server's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typeracer_rooms_created_total",
		Help: "Rooms created on first join.",
	})

	RacesStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typeracer_races_started_total",
		Help: "Countdown to racing transitions.",
	})

	KeystrokesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "typeracer_keystrokes_rejected_total",
		Help: "Keystrokes dropped by the guards, by reason.",
	}, []string{"reason"})

	BroadcastDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "typeracer_broadcast_drops_total",
		Help: "Messages dropped because a subscriber channel was full.",
	})
)
