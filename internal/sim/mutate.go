package sim

import "github.com/philippe-ths/tanks/internal/domain"

// mutationRequest is a cross-goroutine request to run fn against the
// world on the loop's own goroutine and hand the result back. This is
// the "marshal cross-task requests through a queue" strategy the
// concurrency model calls for: the world is single-writer, but player
// programs run on their own goroutines and need a synchronous
// accepted/rejected answer from a starter call, so a plain mutex would
// work too, but a request channel keeps the loop's goroutine as the
// one and only place world.* fields are ever touched, including from
// starters — "share memory by communicating" rather than locking.
type mutationRequest struct {
	fn   func(*domain.World) any
	resp chan any
}

// Mutate is called by a tank API handle on a player's goroutine to run
// fn against the world from the loop's goroutine, and blocks for the
// result. It is safe to call concurrently from many player goroutines;
// requests are serialized by the loop's select statement.
func (l *Loop) Mutate(fn func(w *domain.World) any) any {
	resp := make(chan any, 1)
	select {
	case l.mutateCh <- mutationRequest{fn: fn, resp: resp}:
	case <-l.stopCh:
		return nil
	}

	select {
	case v := <-resp:
		return v
	case <-l.stopCh:
		return nil
	}
}
