package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.ServerAddr != ":8080" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":8080")
	}
	if cfg.DatabaseDriver != "sqlite" {
		t.Errorf("DatabaseDriver = %q, want %q", cfg.DatabaseDriver, "sqlite")
	}
	if cfg.StatsCacheType != StatsCacheTypeMemory {
		t.Errorf("StatsCacheType = %q, want %q", cfg.StatsCacheType, StatsCacheTypeMemory)
	}
	if cfg.PollInterval != 2*time.Minute {
		t.Errorf("PollInterval = %v, want %v", cfg.PollInterval, 2*time.Minute)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("POLL_INTERVAL", "45s")
	t.Setenv("POLL_BATCH", "25")
	t.Setenv("ENABLE_RATE_LIMIT", "false")

	cfg := Load()

	if cfg.ServerAddr != ":9090" {
		t.Errorf("ServerAddr = %q, want %q", cfg.ServerAddr, ":9090")
	}
	if cfg.PollInterval != 45*time.Second {
		t.Errorf("PollInterval = %v, want 45s", cfg.PollInterval)
	}
	if cfg.PollBatch != 25 {
		t.Errorf("PollBatch = %d, want 25", cfg.PollBatch)
	}
	if cfg.EnableRateLimit {
		t.Error("Expected rate limiting disabled")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DatabaseDSN:    "einvoice.db",
			StatsCacheType: StatsCacheTypeMemory,
			RateLimitStore: RateLimitStoreMemory,
			PollEnabled:    true,
			PollInterval:   time.Minute,
		}
	}

	if err := base().Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}

	cfg := base()
	cfg.DatabaseDSN = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing DATABASE_DSN")
	}

	cfg = base()
	cfg.IsProduction = true
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing API_SECRET in production")
	}

	cfg = base()
	cfg.StatsCacheType = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid STATS_CACHE_TYPE")
	}

	cfg = base()
	cfg.RateLimitStore = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for invalid RATE_LIMIT_STORE")
	}

	cfg = base()
	cfg.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for non-positive POLL_INTERVAL")
	}
}
