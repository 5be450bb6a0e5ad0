package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string

	CountdownMS    int     // countdown length before racing starts
	TickMS         int     // tick driver period
	TargetPlayers  int     // occupancy to fill with bots when a race starts
	BotMinWPM      float64
	BotMaxWPM      float64
	BotSampleMS    int     // bot progress sampling period
	KeyMinInterval int     // ms between accepted keystrokes per player
	MaxWPM         float64 // instantaneous speed ceiling before rejection

	// AutoStartWaitSec > 0 enables the waiting-room timer that starts a race
	// even below the two-human threshold. 0 keeps the threshold-only policy.
	AutoStartWaitSec int
}

func Load() Config {
	cfg := Config{
		Port:             getEnv("PORT", "8080"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		CountdownMS:      getEnvInt("COUNTDOWN_MS", 3000),
		TickMS:           getEnvInt("TICK_MS", 50),
		TargetPlayers:    getEnvInt("TARGET_PLAYERS", 5),
		BotMinWPM:        float64(getEnvInt("BOT_MIN_WPM", 40)),
		BotMaxWPM:        float64(getEnvInt("BOT_MAX_WPM", 90)),
		BotSampleMS:      getEnvInt("BOT_SAMPLE_MS", 100),
		KeyMinInterval:   getEnvInt("KEY_MIN_INTERVAL_MS", 20),
		MaxWPM:           float64(getEnvInt("MAX_WPM", 300)),
		AutoStartWaitSec: getEnvInt("AUTOSTART_WAIT_SECONDS", 0),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
