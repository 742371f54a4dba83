package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("QR_SIZE", "not-a-number")
	t.Setenv("HOTEL_CACHE_TTL", "90s")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test ,")

	cfg := Load()

	if cfg.Port != ":8081" {
		t.Fatalf("expected :8081, got %q", cfg.Port)
	}
	if cfg.QRSize != 256 {
		t.Fatalf("expected fallback QR size 256, got %d", cfg.QRSize)
	}
	if cfg.HotelCacheTTL != 90*time.Second {
		t.Fatalf("expected 90s ttl, got %v", cfg.HotelCacheTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.CORSOrigins)
	}
	if cfg.MongoDB != "tourguide" {
		t.Fatalf("expected default db name, got %q", cfg.MongoDB)
	}
}
