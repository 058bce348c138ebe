package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP:       HTTPConfig{Port: 8080},
		Catalog:    CatalogConfig{SnapshotPath: "data/catalog.json"},
		Embedding:  EmbeddingConfig{Model: "text-embedding-3-small"},
		Generation: GenerationConfig{Model: "gpt-4o-mini"},
		Cache:      CacheConfig{Driver: "memory"},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingSnapshotPath(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.SnapshotPath = ""

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing snapshot path")
	}
}

func TestValidate_MissingModels(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing embedding model")
	}

	cfg = validConfig()
	cfg.Generation.Model = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing generation model")
	}
}

func TestValidate_CacheDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Driver = "memcached"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown cache driver")
	}

	cfg = validConfig()
	cfg.Cache.Driver = "redis"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for redis driver without addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Cache.Driver != "memory" {
		t.Errorf("expected cache driver memory, got %q", cfg.Cache.Driver)
	}
	if cfg.Resolver.TextTopK != 20 {
		t.Errorf("expected TextTopK=20, got %d", cfg.Resolver.TextTopK)
	}
	if cfg.Resolver.ImageTopK != 15 {
		t.Errorf("expected ImageTopK=15, got %d", cfg.Resolver.ImageTopK)
	}
	if cfg.Resolver.DocumentTopK != 40 {
		t.Errorf("expected DocumentTopK=40, got %d", cfg.Resolver.DocumentTopK)
	}
	if cfg.Resolver.EmbedTimeoutSec != 10 {
		t.Errorf("expected EmbedTimeoutSec=10, got %d", cfg.Resolver.EmbedTimeoutSec)
	}
	if cfg.Resolver.GenerateTimeoutSec != 30 {
		t.Errorf("expected GenerateTimeoutSec=30, got %d", cfg.Resolver.GenerateTimeoutSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 90, ShutdownSec: 5},
		Cache:    CacheConfig{Driver: "redis", ReadinessTimeout: 15},
		Resolver: ResolverConfig{TextTopK: 5, ImageTopK: 5, DocumentTopK: 10},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Cache.Driver != "redis" {
		t.Errorf("expected cache driver redis, got %q", cfg.Cache.Driver)
	}
	if cfg.Resolver.TextTopK != 5 {
		t.Errorf("expected TextTopK=5, got %d", cfg.Resolver.TextTopK)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("INTENTD_TEST_KEY", "secret")

	in := []byte("api_key: ${INTENTD_TEST_KEY}\nmodel: ${INTENTD_TEST_MODEL:-gpt-4o-mini}\n")
	out := string(expandEnvVars(in))

	if out != "api_key: secret\nmodel: gpt-4o-mini\n" {
		t.Errorf("unexpected expansion:\n%s", out)
	}
}
