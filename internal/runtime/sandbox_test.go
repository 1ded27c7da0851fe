package runtime

import (
	"testing"
	"time"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/matcherr"
	"github.com/philippe-ths/tanks/internal/sim"
	"github.com/philippe-ths/tanks/internal/tankapi"
)

func newTestHandle(t *testing.T, slot domain.Slot) (*sim.Loop, *tankapi.Handle) {
	t.Helper()
	constants := domain.DefaultConstants()
	w := sim.CreateWorld(1, constants, []sim.PlayerSpec{
		{Slot: slot, Class: domain.ClassLight},
		{Slot: "opponent", Class: domain.ClassLight},
	})
	loop := sim.NewLoop(w, nil, nil)
	handle := tankapi.NewHandle(loop, slot, nil)
	resolver := tankapi.NewResolver(map[domain.Slot]*tankapi.Handle{slot: handle})
	loop.OnTick = resolver.Resolve
	return loop, handle
}

func TestSandbox_LoadRejectsMissingClass(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	_, err := Load("p1", `function loop(tank) {}`, handle, domain.DefaultConstants().Classes)
	if err == nil {
		t.Fatal("expected a load error for a missing CLASS binding")
	}
	if _, ok := err.(*matcherr.LoadError); !ok {
		t.Fatalf("expected *matcherr.LoadError, got %T", err)
	}
}

func TestSandbox_LoadRejectsUnknownClass(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	src := `var CLASS = "medium"; function loop(tank) {}`
	_, err := Load("p1", src, handle, domain.DefaultConstants().Classes)
	if err == nil {
		t.Fatal("expected a load error for an unknown class tag")
	}
}

func TestSandbox_LoadRejectsMissingLoopFunction(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	src := `var CLASS = "light";`
	_, err := Load("p1", src, handle, domain.DefaultConstants().Classes)
	if err == nil {
		t.Fatal("expected a load error for a missing loop function")
	}
}

func TestSandbox_LoadAcceptsDefaultBindingAsAlias(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	src := `var CLASS = "light"; var default_ = function(tank) {}; this.default = default_;`
	if _, err := Load("p1", src, handle, domain.DefaultConstants().Classes); err != nil {
		t.Fatalf("expected default binding to be accepted, got %v", err)
	}
}

func TestSandbox_RunDrivesLoopAndBlocksOnMoveForward(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	src := `
		var CLASS = "light";
		var moved = false;
		function loop(tank) {
			if (!moved) {
				moved = true;
				tank.moveForward();
			}
		}
	`
	sandbox, err := Load("p1", src, handle, domain.DefaultConstants().Classes)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	errCh := make(chan error, 1)
	go sandbox.Run(func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		t.Fatalf("expected the sandbox to keep running, got forfeit: %v", err)
	case <-time.After(300 * time.Millisecond):
	}

	sandbox.Stop()
}

func TestSandbox_RuntimeErrorForfeits(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	src := `var CLASS = "light"; function loop(tank) { throw new Error("boom"); }`
	sandbox, err := Load("p1", src, handle, domain.DefaultConstants().Classes)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	errCh := make(chan error, 1)
	go sandbox.Run(func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		if _, ok := err.(*matcherr.PlayerRuntimeError); !ok {
			t.Fatalf("expected *matcherr.PlayerRuntimeError, got %T (%v)", err, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the throwing loop to forfeit promptly")
	}
}

func TestSandbox_WatchdogFiresOnTightLoop(t *testing.T) {
	loop, handle := newTestHandle(t, "p1")
	go loop.Run()
	defer loop.Stop()

	src := `var CLASS = "light"; function loop(tank) { while (true) {} }`
	sandbox, err := LoadWithTimeout("p1", src, handle, domain.DefaultConstants().Classes, 100*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	errCh := make(chan error, 1)
	go sandbox.Run(func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		if _, ok := err.(*matcherr.PlayerTimeoutError); !ok {
			t.Fatalf("expected *matcherr.PlayerTimeoutError, got %T (%v)", err, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected the watchdog to forfeit a tight synchronous loop")
	}
}
