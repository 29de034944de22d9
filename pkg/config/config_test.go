package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("JOBS_QUEUES", "")
	t.Setenv("STORAGE_PRESIGN_EXPIRY", "")

	cfg := Load()
	if cfg.Redis.Address() != "localhost:6379" {
		t.Fatalf("redis address = %q", cfg.Redis.Address())
	}
	if !reflect.DeepEqual(cfg.Jobs.Queues, []string{"extractions"}) {
		t.Fatalf("queues = %v", cfg.Jobs.Queues)
	}
	if cfg.Storage.PresignExpiry != 24*time.Hour {
		t.Fatalf("presign expiry = %v", cfg.Storage.PresignExpiry)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("JOBS_QUEUES", " fast , ,slow")
	t.Setenv("EXTRACT_LAYOUT_ENABLED", "false")
	t.Setenv("ENGINE_TIMEOUT", "45s")
	t.Setenv("DB_PORT", "not-a-number")

	cfg := Load()
	if cfg.Redis.Address() != "cache:6380" {
		t.Fatalf("redis address = %q", cfg.Redis.Address())
	}
	if !reflect.DeepEqual(cfg.Jobs.Queues, []string{"fast", "slow"}) {
		t.Fatalf("queues = %v", cfg.Jobs.Queues)
	}
	if cfg.Extraction.LayoutEnabled {
		t.Fatal("layout should be disabled")
	}
	if cfg.Engine.Timeout != 45*time.Second {
		t.Fatalf("engine timeout = %v", cfg.Engine.Timeout)
	}
	if cfg.Database.Port != 5432 {
		t.Fatalf("invalid int should fall back, got %d", cfg.Database.Port)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=n sslmode=disable"
	if got := d.DSN(); got != want {
		t.Fatalf("DSN = %q", got)
	}
}
