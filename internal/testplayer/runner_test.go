package testplayer

import (
	"testing"
	"time"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/matcherr"
	"github.com/philippe-ths/tanks/internal/sim"
	"github.com/philippe-ths/tanks/internal/tankapi"
)

func newTestSetup(t *testing.T) (*sim.Loop, *tankapi.Handle) {
	t.Helper()
	constants := domain.DefaultConstants()
	w := sim.CreateWorld(1, constants, []sim.PlayerSpec{
		{Slot: "p1", Class: domain.ClassLight},
		{Slot: "p2", Class: domain.ClassLight},
	})
	loop := sim.NewLoop(w, nil, nil)
	handle := tankapi.NewHandle(loop, "p1", nil)
	resolver := tankapi.NewResolver(map[domain.Slot]*tankapi.Handle{"p1": handle})
	loop.OnTick = resolver.Resolve
	return loop, handle
}

// SpinAndShoot is a minimal native bot: turn, scan, shoot if something
// is found, repeat.
func SpinAndShoot(tank tankapi.PlayerAPI) {
	tank.TurnRight(nil)
	if tank.Scan(-30, 30) {
		tank.Shoot()
	}
}

func TestRunner_DrivesLoopFuncRepeatedly(t *testing.T) {
	loop, handle := newTestSetup(t)
	go loop.Run()
	defer loop.Stop()

	runner := NewRunner("p1", handle, SpinAndShoot)
	errCh := make(chan error, 1)
	go runner.Run(func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		t.Fatalf("expected the runner to keep going, got: %v", err)
	case <-time.After(500 * time.Millisecond):
	}

	runner.Stop()
}

func TestRunner_PanicForfeits(t *testing.T) {
	loop, handle := newTestSetup(t)
	go loop.Run()
	defer loop.Stop()

	runner := NewRunner("p1", handle, func(tank tankapi.PlayerAPI) {
		panic("boom")
	})

	errCh := make(chan error, 1)
	go runner.Run(func(err error) { errCh <- err })

	select {
	case err := <-errCh:
		if _, ok := err.(*matcherr.PlayerRuntimeError); !ok {
			t.Fatalf("expected *matcherr.PlayerRuntimeError, got %T", err)
		}
	case <-time.After(time.Second):
		t.Fatal("expected the panicking loop to forfeit promptly")
	}
}
