package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"galleria/internal/scheduler"
)

type fakeSource struct {
	name   string
	worked bool
	err    error
	calls  int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) RunOnce(_ context.Context) (bool, error) {
	f.calls++
	return f.worked, f.err
}

func TestTickRunsSourcesInPriorityOrder(t *testing.T) {
	high := &fakeSource{name: "quarantine", worked: true}
	low := &fakeSource{name: "tagging", worked: true}
	sel := scheduler.NewSelector(high, low)

	name, err := sel.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if name != "quarantine" {
		t.Fatalf("expected quarantine to win, got %q", name)
	}
	if low.calls != 0 {
		t.Fatal("lower-priority source should not run when a higher one works")
	}
}

func TestTickFallsThroughIdleSources(t *testing.T) {
	idle := &fakeSource{name: "quarantine"}
	busy := &fakeSource{name: "tagging", worked: true}
	sel := scheduler.NewSelector(idle, busy)

	name, err := sel.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if name != "tagging" {
		t.Fatalf("expected tagging to work, got %q", name)
	}
	if idle.calls != 1 {
		t.Fatal("idle source should still be offered work first")
	}
}

func TestTickReportsIdleWhenAllSourcesIdle(t *testing.T) {
	sel := scheduler.NewSelector(&fakeSource{name: "a"}, &fakeSource{name: "b"})

	name, err := sel.Tick(context.Background())
	if err != nil {
		t.Fatalf("Tick failed: %v", err)
	}
	if name != "" {
		t.Fatalf("expected idle tick, got %q", name)
	}
}

func TestTickStopsAtFirstError(t *testing.T) {
	failing := &fakeSource{name: "quarantine", err: errors.New("db locked")}
	next := &fakeSource{name: "tagging", worked: true}
	sel := scheduler.NewSelector(failing, next)

	name, err := sel.Tick(context.Background())
	if err == nil {
		t.Fatal("expected error to propagate")
	}
	if name != "quarantine" {
		t.Fatalf("expected failing source name, got %q", name)
	}
	if next.calls != 0 {
		t.Fatal("sources after a failure should not run this tick")
	}
}

func TestGateEnforcesInterval(t *testing.T) {
	current := time.Unix(1000, 0)
	clock := func() time.Time { return current }

	source := &fakeSource{name: "cleanup", worked: true}
	gated := scheduler.Gate(source, time.Hour, clock)

	worked, err := gated.RunOnce(context.Background())
	if err != nil || !worked {
		t.Fatalf("first run should fire, worked=%v err=%v", worked, err)
	}

	current = current.Add(30 * time.Minute)
	worked, err = gated.RunOnce(context.Background())
	if err != nil || worked {
		t.Fatalf("run before interval should be idle, worked=%v err=%v", worked, err)
	}
	if source.calls != 1 {
		t.Fatalf("wrapped source ran %d times, want 1", source.calls)
	}

	current = current.Add(31 * time.Minute)
	worked, err = gated.RunOnce(context.Background())
	if err != nil || !worked {
		t.Fatalf("run after interval should fire, worked=%v err=%v", worked, err)
	}
	if source.calls != 2 {
		t.Fatalf("wrapped source ran %d times, want 2", source.calls)
	}
}

func TestGateAdvancesEvenWhenIdle(t *testing.T) {
	current := time.Unix(1000, 0)
	clock := func() time.Time { return current }

	source := &fakeSource{name: "cleanup"}
	gated := scheduler.Gate(source, time.Hour, clock)

	if _, err := gated.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	current = current.Add(59 * time.Minute)
	if _, err := gated.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("idle gate must still respect interval, got %d calls", source.calls)
	}
}
