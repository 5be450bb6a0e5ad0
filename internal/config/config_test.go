package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.CountdownMS != 3000 {
		t.Errorf("CountdownMS = %d, want 3000", cfg.CountdownMS)
	}
	if cfg.TickMS != 50 {
		t.Errorf("TickMS = %d, want 50", cfg.TickMS)
	}
	if cfg.TargetPlayers != 5 {
		t.Errorf("TargetPlayers = %d, want 5", cfg.TargetPlayers)
	}
	if cfg.BotMinWPM != 40 || cfg.BotMaxWPM != 90 {
		t.Errorf("bot WPM range = [%v, %v), want [40, 90)", cfg.BotMinWPM, cfg.BotMaxWPM)
	}
	if cfg.KeyMinInterval != 20 {
		t.Errorf("KeyMinInterval = %d, want 20", cfg.KeyMinInterval)
	}
	if cfg.MaxWPM != 300 {
		t.Errorf("MaxWPM = %v, want 300", cfg.MaxWPM)
	}
	if cfg.AutoStartWaitSec != 0 {
		t.Errorf("AutoStartWaitSec = %d, want 0 (threshold-only)", cfg.AutoStartWaitSec)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("COUNTDOWN_MS", "1500")
	t.Setenv("AUTOSTART_WAIT_SECONDS", "30")
	t.Setenv("MAX_WPM", "250")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.CountdownMS != 1500 {
		t.Errorf("CountdownMS = %d, want 1500", cfg.CountdownMS)
	}
	if cfg.AutoStartWaitSec != 30 {
		t.Errorf("AutoStartWaitSec = %d, want 30", cfg.AutoStartWaitSec)
	}
	if cfg.MaxWPM != 250 {
		t.Errorf("MaxWPM = %v, want 250", cfg.MaxWPM)
	}
}

func TestLoadIgnoresBadInt(t *testing.T) {
	t.Setenv("TICK_MS", "fast")
	cfg := Load()
	if cfg.TickMS != 50 {
		t.Errorf("TickMS = %d, want default 50 for unparseable value", cfg.TickMS)
	}
}
