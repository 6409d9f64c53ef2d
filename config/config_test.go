package config

import (
	"testing"
)

// fakeFS is an in-memory FileSystem for loader tests.
type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error {
	return nil
}

func TestServiceConfig_ApplyDefaults(t *testing.T) {
	cfg := ServiceConfig{Name: "ssekitd"}
	cfg.ApplyDefaults()

	if cfg.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.Environment)
	}
	if !cfg.Debug {
		t.Error("expected debug true in development")
	}
	if cfg.Logging.ServiceName != "ssekitd" {
		t.Errorf("expected logging service name propagated, got '%s'", cfg.Logging.ServiceName)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected logging defaults applied, got level '%s'", cfg.Logging.Level)
	}
}

func TestServiceConfig_Validate(t *testing.T) {
	cfg := ServiceConfig{Name: "ssekitd", Environment: "production"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	cfg = ServiceConfig{Environment: "development"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing name")
	}

	cfg = ServiceConfig{Name: "ssekitd", Environment: "qa"}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestLoadConfig_NoFiles(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{}}

	var cfg ServiceConfig
	if err := LoadConfig("ssekitd", &cfg, WithFileSystem(fs)); err != nil {
		t.Errorf("expected load without files to succeed, got %v", err)
	}
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	fs := &fakeFS{files: map[string]bool{}}

	var cfg ServiceConfig
	err := LoadConfig("ssekitd", &cfg,
		WithFileSystem(fs),
		WithConfigFile("/nonexistent/config.yml"),
	)
	// Missing explicit file degrades to env-only config, not an error.
	if err != nil {
		t.Errorf("expected graceful handling, got %v", err)
	}
}
