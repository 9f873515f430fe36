package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Engine.DefaultTimerSeconds != 120 {
		t.Errorf("DefaultTimerSeconds = %d, want 120", cfg.Engine.DefaultTimerSeconds)
	}
	if cfg.Engine.MinTimerSeconds != 30 {
		t.Errorf("MinTimerSeconds = %d, want 30", cfg.Engine.MinTimerSeconds)
	}
	if cfg.NATS.StatusStream != "PERFORMANCE_STATUS" {
		t.Errorf("StatusStream = %q", cfg.NATS.StatusStream)
	}
	if cfg.Redis.DialTimeout != 5*time.Second {
		t.Errorf("DialTimeout = %v", cfg.Redis.DialTimeout)
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte(`
dynamodb:
  tablename: tournament-arrangement
engine:
  defaulttimerseconds: 150
  teamemaildomain: teams.example.org
`)
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ARRANGEMENT_NATS_URL", "nats://nats.internal:4222")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DynamoDB.TableName != "tournament-arrangement" {
		t.Errorf("TableName = %q", cfg.DynamoDB.TableName)
	}
	if cfg.Engine.DefaultTimerSeconds != 150 {
		t.Errorf("DefaultTimerSeconds = %d, want 150", cfg.Engine.DefaultTimerSeconds)
	}
	if cfg.Engine.TeamEmailDomain != "teams.example.org" {
		t.Errorf("TeamEmailDomain = %q", cfg.Engine.TeamEmailDomain)
	}
	if cfg.NATS.URL != "nats://nats.internal:4222" {
		t.Errorf("NATS.URL = %q", cfg.NATS.URL)
	}
}

func TestEngineNormalizedRaisesTimerBelowMinimum(t *testing.T) {
	got := EngineConfig{DefaultTimerSeconds: 10, MinTimerSeconds: 30}.normalized()
	if got.DefaultTimerSeconds != 120 {
		t.Fatalf("DefaultTimerSeconds = %d, want 120", got.DefaultTimerSeconds)
	}
	got = EngineConfig{DefaultTimerSeconds: 10, MinTimerSeconds: 200}.normalized()
	if got.DefaultTimerSeconds != 200 {
		t.Fatalf("DefaultTimerSeconds = %d, want 200", got.DefaultTimerSeconds)
	}
}

func TestLoadRedisEnvOverrides(t *testing.T) {
	t.Setenv("ARRANGEMENT_REDIS_ADDR", "redis:6380")
	t.Setenv("ARRANGEMENT_REDIS_POOL_SIZE", "not-a-number")
	t.Setenv("ARRANGEMENT_REDIS_READ_TIMEOUT", "750ms")

	got := LoadRedis(RedisConfig{Address: "localhost:6379", PoolSize: 10, ReadTimeout: time.Second})
	if got.Address != "redis:6380" {
		t.Errorf("Address = %q", got.Address)
	}
	if got.PoolSize != 10 {
		t.Errorf("PoolSize = %d, want fallback 10", got.PoolSize)
	}
	if got.ReadTimeout != 750*time.Millisecond {
		t.Errorf("ReadTimeout = %v", got.ReadTimeout)
	}
}
