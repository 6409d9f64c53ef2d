package component

import (
	"context"
	"fmt"
	"testing"
)

// fakeComponent records lifecycle calls for registry tests.
type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	starts   int
	stops    int
	order    *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(ctx context.Context) error {
	f.starts++
	if f.order != nil {
		*f.order = append(*f.order, "start:"+f.name)
	}
	return f.startErr
}

func (f *fakeComponent) Stop(ctx context.Context) error {
	f.stops++
	if f.order != nil {
		*f.order = append(*f.order, "stop:"+f.name)
	}
	return f.stopErr
}

func (f *fakeComponent) Health(ctx context.Context) Health {
	return Health{Name: f.name, Status: StatusHealthy}
}

func TestRegistry_Register_Duplicate(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(&fakeComponent{name: "sse"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(&fakeComponent{name: "sse"}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistry_StartStop_Order(t *testing.T) {
	var order []string
	r := NewRegistry()
	a := &fakeComponent{name: "a", order: &order}
	b := &fakeComponent{name: "b", order: &order}

	_ = r.Register(a)
	_ = r.Register(b)

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	want := []string{"start:a", "start:b", "stop:b", "stop:a"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("at %d: expected %s, got %s", i, want[i], order[i])
		}
	}
}

func TestRegistry_StartAll_FailureStops(t *testing.T) {
	r := NewRegistry()
	a := &fakeComponent{name: "a"}
	b := &fakeComponent{name: "b", startErr: fmt.Errorf("bind failed")}
	c := &fakeComponent{name: "c"}

	_ = r.Register(a)
	_ = r.Register(b)
	_ = r.Register(c)

	if err := r.StartAll(context.Background()); err == nil {
		t.Fatal("expected StartAll to fail")
	}
	if c.starts != 0 {
		t.Error("expected components after the failure not to start")
	}

	// Only started components are stopped.
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if a.stops != 1 {
		t.Errorf("expected 'a' stopped once, got %d", a.stops)
	}
	if c.stops != 0 {
		t.Errorf("expected 'c' never stopped, got %d", c.stops)
	}
}

func TestRegistry_HealthAll(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&fakeComponent{name: "a"})
	_ = r.Register(&fakeComponent{name: "b"})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 health results, got %d", len(results))
	}
	for _, h := range results {
		if h.Status != StatusHealthy {
			t.Errorf("expected healthy, got %s for %s", h.Status, h.Name)
		}
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	a := &fakeComponent{name: "a"}
	_ = r.Register(a)

	if got := r.Get("a"); got != a {
		t.Error("expected Get to return the registered component")
	}
	if got := r.Get("missing"); got != nil {
		t.Error("expected nil for unknown component")
	}
}
