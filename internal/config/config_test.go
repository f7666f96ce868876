package config

import "testing"

func TestAssistantDefaults(t *testing.T) {
	t.Setenv("ASSISTANT_VERBOSITY", "")
	t.Setenv("CAVISTA_DB", "")
	t.Setenv("CAVISTA_GENERATED_DIR", "")

	cfg, err := loadAssistantConfig()
	if err != nil {
		t.Fatalf("loadAssistantConfig err: %v", err)
	}
	if cfg.Verbosity != "quick" {
		t.Fatalf("default verbosity = %q, want quick", cfg.Verbosity)
	}
	if cfg.DatabasePath != "cavista.db" || cfg.GeneratedDir != "generated" {
		t.Fatalf("unexpected path defaults: %+v", cfg)
	}
}

func TestAssistantVerbosityValidation(t *testing.T) {
	t.Setenv("ASSISTANT_VERBOSITY", "Detailed")
	cfg, err := loadAssistantConfig()
	if err != nil {
		t.Fatalf("loadAssistantConfig err: %v", err)
	}
	if cfg.Verbosity != "detailed" {
		t.Fatalf("verbosity = %q, want detailed", cfg.Verbosity)
	}

	t.Setenv("ASSISTANT_VERBOSITY", "chatty")
	if _, err := loadAssistantConfig(); err == nil {
		t.Fatal("expected error for invalid verbosity")
	}
}

func TestServerConfigAddr(t *testing.T) {
	t.Setenv("PORT", "")
	cfg, err := loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != ":8000" {
		t.Fatalf("default addr = %q, want :8000", cfg.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9001")
	cfg, err = loadServerConfig()
	if err != nil {
		t.Fatalf("loadServerConfig err: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9001" {
		t.Fatalf("addr = %q, want verbatim host:port", cfg.Addr)
	}
}
