package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PEGS", "TURNS", "PORT", "ENV", "DB_DSN", "TICKET_TTL_HOURS"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.Pegs != 4 || cfg.Game.Turns != 10 {
		t.Fatalf("game = %+v, want 4x10", cfg.Game)
	}
	if cfg.Addr() != ":5175" || cfg.IsProduction() {
		t.Fatalf("server = %+v", cfg.Server)
	}
	if cfg.Server.DSN != MemoryDSN {
		t.Fatalf("dsn = %q", cfg.Server.DSN)
	}
	if cfg.Server.TicketTTL != 24*time.Hour {
		t.Fatalf("ttl = %v", cfg.Server.TicketTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PEGS", "6")
	t.Setenv("TURNS", "12")
	t.Setenv("ENV", "production")
	t.Setenv("PORT", "9000")
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Game.Pegs != 6 || cfg.Game.Turns != 12 || !cfg.IsProduction() || cfg.Addr() != ":9000" {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadMalformed(t *testing.T) {
	t.Setenv("PEGS", "four")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for PEGS=four")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		pegs  string
		turns string
		ttl   string
		ok    bool
	}{
		{"defaults", "", "", "", true},
		{"negative pegs", "-1", "", "", false},
		{"too many pegs", "7", "", "", false},
		{"too few turns", "", "7", "", false},
		{"zero ttl", "", "", "0", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("PEGS", tc.pegs)
			t.Setenv("TURNS", tc.turns)
			t.Setenv("TICKET_TTL_HOURS", tc.ttl)
			cfg, err := Load()
			if err != nil {
				t.Fatal(err)
			}
			if err := cfg.Validate(); (err == nil) != tc.ok {
				t.Fatalf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}
