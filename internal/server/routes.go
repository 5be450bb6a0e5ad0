package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"typeracer/internal/config"
	"typeracer/internal/db"
	"typeracer/internal/passages"
	"typeracer/internal/rooms"
)

type Server struct {
	Rooms *rooms.Store
	DB    *db.DB // nil if no database configured
}

func Run() error {
	cfg := config.Load()

	srv := &Server{}

	// Optional database connection; without it, races use the bundled
	// passage list.
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			srv.DB = database
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	source := passages.NewSource(srv.DB)
	srv.Rooms = rooms.NewStore(source, rooms.Options{
		Countdown:      time.Duration(cfg.CountdownMS) * time.Millisecond,
		TargetPlayers:  cfg.TargetPlayers,
		BotMinWPM:      cfg.BotMinWPM,
		BotMaxWPM:      cfg.BotMaxWPM,
		BotSample:      time.Duration(cfg.BotSampleMS) * time.Millisecond,
		KeyMinInterval: int64(cfg.KeyMinInterval),
		MaxWPM:         cfg.MaxWPM,
		AutoStartWait:  time.Duration(cfg.AutoStartWaitSec) * time.Second,
	})

	driver := rooms.NewDriver(srv.Rooms, time.Duration(cfg.TickMS)*time.Millisecond)
	driver.Start()
	defer driver.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWS)
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.DB != nil {
		if err := s.DB.Ping(); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Println(err)
	}
}
