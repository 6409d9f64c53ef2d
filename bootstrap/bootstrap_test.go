package bootstrap

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/kbukum/ssekit/component"
	"github.com/kbukum/ssekit/config"
)

// testConfig is a minimal config satisfying the Config interface.
type testConfig struct {
	config.ServiceConfig
}

// mockComponent implements component.Component for testing.
type mockComponent struct {
	name     string
	startErr error
	stopErr  error
	health   component.Health
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	m.stopped = true
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) component.Health {
	return m.health
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func TestNewApp(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" {
		t.Errorf("expected name 'test-svc', got %q", app.Name)
	}
	if app.Version != "1.0.0" {
		t.Errorf("expected version '1.0.0', got %q", app.Version)
	}
	if app.Components == nil {
		t.Error("expected non-nil components registry")
	}
	if app.Logger == nil {
		t.Error("expected non-nil logger")
	}
	if app.Cfg.Name != "test-svc" {
		t.Errorf("expected cfg.Name 'test-svc', got %q", app.Cfg.Name)
	}
}

func TestNewAppValidation(t *testing.T) {
	cfg := &testConfig{
		ServiceConfig: config.ServiceConfig{
			Environment: "development",
		},
	}
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for missing name")
	}
}

func TestAppStartupAndShutdown(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg, WithGracefulTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	comp := &mockComponent{
		name:   "mock",
		health: component.Health{Name: "mock", Status: component.StatusHealthy},
	}
	if err := app.RegisterComponent(comp); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}

	var order []string
	app.OnStart(func(ctx context.Context) error {
		order = append(order, "start")
		return nil
	})
	app.OnReady(func(ctx context.Context) error {
		order = append(order, "ready")
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		order = append(order, "stop")
		return nil
	})
	app.OnConfigure(func(ctx context.Context, a *App[*testConfig]) error {
		order = append(order, "configure")
		return nil
	})

	if err := app.startup(context.Background()); err != nil {
		t.Fatalf("startup failed: %v", err)
	}
	if !comp.started {
		t.Error("expected component started")
	}

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown failed: %v", err)
	}
	if !comp.stopped {
		t.Error("expected component stopped")
	}

	want := []string{"start", "configure", "ready", "stop"}
	if len(order) != len(want) {
		t.Fatalf("expected hook order %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected hook order %v, got %v", want, order)
		}
	}
}

func TestAppStartupHookFailure(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	app.OnStart(func(ctx context.Context) error {
		return fmt.Errorf("boom")
	})
	if err := app.startup(context.Background()); err == nil {
		t.Error("expected startup to fail on hook error")
	}
}

func TestReadyCheckReportsUnhealthy(t *testing.T) {
	cfg := newTestConfig("test-svc", "1.0.0")
	app, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}

	unhealthy := &mockComponent{
		name:   "broken",
		health: component.Health{Name: "broken", Status: component.StatusUnhealthy, Message: "down"},
	}
	if err := app.RegisterComponent(unhealthy); err != nil {
		t.Fatalf("RegisterComponent failed: %v", err)
	}

	if err := app.ReadyCheck(context.Background()); err == nil {
		t.Error("expected ready check to report the unhealthy component")
	}
}
