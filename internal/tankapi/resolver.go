package tankapi

import "github.com/philippe-ths/tanks/internal/domain"

// Resolver drains one tick's actionComplete events into the
// corresponding handles. It must run on the same goroutine that
// services the loop's mutation channel (normally inside the loop's
// own OnTick callback) so that detaching a handle's pending mailbox
// and a player goroutine re-arming it via Mutate never race.
type Resolver struct {
	handles map[domain.Slot]*Handle
}

// NewResolver binds a resolver to the given per-slot handles.
func NewResolver(handles map[domain.Slot]*Handle) *Resolver {
	return &Resolver{handles: handles}
}

// Resolve walks one tick's events in order and fires the completion
// callback for every actionComplete it finds. Hit, despawn, and
// matchEnd events are for the orchestrator, not the resolver.
func (r *Resolver) Resolve(events []domain.Event) {
	for _, e := range events {
		if e.Kind != domain.EventActionComplete {
			continue
		}
		ac := e.ActionComplete

		h, ok := r.handles[ac.Slot]
		if !ok {
			continue
		}

		h.complete(completionResult{scanResult: ac.ScanResult})
	}
}
