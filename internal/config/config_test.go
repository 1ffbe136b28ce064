package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SessionStore != "memory" {
		t.Errorf("SessionStore = %q, want memory", cfg.SessionStore)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
	if cfg.ExtractorTimeout != 10*time.Second {
		t.Errorf("ExtractorTimeout = %v, want 10s", cfg.ExtractorTimeout)
	}
	if cfg.LLMProvider != "none" {
		t.Errorf("LLMProvider = %q, want none", cfg.LLMProvider)
	}
	if cfg.EmailProvider != "stub" {
		t.Errorf("EmailProvider = %q, want stub", cfg.EmailProvider)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_STORE", " Redis ")
	t.Setenv("EXTRACTOR_TIMEOUT", "3s")
	t.Setenv("KNOWLEDGE_TOP_K", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.SessionStore != "redis" {
		t.Errorf("SessionStore = %q, want redis", cfg.SessionStore)
	}
	if cfg.ExtractorTimeout != 3*time.Second {
		t.Errorf("ExtractorTimeout = %v, want 3s", cfg.ExtractorTimeout)
	}
	if cfg.KnowledgeTopK != 7 {
		t.Errorf("KnowledgeTopK = %d, want 7", cfg.KnowledgeTopK)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
}

func TestGetEnvAsBoolInvalid(t *testing.T) {
	t.Setenv("REDIS_TLS", "not-a-bool")
	cfg := Load()
	if cfg.RedisTLS {
		t.Error("invalid bool should fall back to default false")
	}
}
