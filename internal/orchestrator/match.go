// Package orchestrator is the thin wiring described by the design
// notes: load every player's code, build the world, stand up a tank
// API handle and player runner per slot, start the loop, then start
// the player tasks. It owns no simulation logic of its own — that all
// lives in package sim — and exists to connect sim, tankapi, and
// runtime/testplayer into one running match plus talk to the
// broadcaster collaborator.
package orchestrator

import (
	"math/rand"
	"time"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/replay"
	"github.com/philippe-ths/tanks/internal/runtime"
	"github.com/philippe-ths/tanks/internal/sim"
	"github.com/philippe-ths/tanks/internal/tankapi"
)

// player is a runnable participant: either a *runtime.Sandbox (goja)
// or a *testplayer.Runner (native Go), unified behind this narrow
// interface so Match doesn't care which one it is driving.
type player interface {
	Run(onError func(err error))
	Stop()
}

// PlayerSource is one participant's inputs to match creation. Runner,
// when non-nil, substitutes a native Go player for the sandboxed
// runtime (see internal/testplayer) — used by tests and local
// exhibition matches. When Runner is nil, Source is compiled and
// driven through the goja sandbox instead.
type PlayerSource struct {
	Slot   domain.Slot
	Class  domain.TankClass
	Name   string
	Source string
	Runner func(handle *tankapi.Handle) player
}

// Match wires exactly one running game together.
type Match struct {
	world     *domain.World
	loop      *sim.Loop
	handles   map[domain.Slot]*tankapi.Handle
	resolver  *tankapi.Resolver
	players   map[domain.Slot]player
	alive     map[domain.Slot]bool
	names     map[domain.Slot]string
	broadcast Broadcaster

	tickCount     uint64
	snapshotEvery uint64

	recorder     *replay.Recorder
	participants []replay.ParticipantInfo
	timestamp    int64
}

// NewMatch loads every player's code and builds the world, but does
// not start anything yet. Any single LoadError aborts match creation
// entirely — the match never starts if one player's code cannot be
// ingested, per the load-time contract in the error taxonomy.
func NewMatch(seed int64, constants domain.Constants, players []PlayerSource, broadcast Broadcaster) (*Match, error) {
	specs := make([]sim.PlayerSpec, len(players))
	for i, p := range players {
		specs[i] = sim.PlayerSpec{Slot: p.Slot, Class: p.Class}
	}

	world := sim.CreateWorld(seed, constants, specs)

	participants := make([]replay.ParticipantInfo, len(players))
	for i, p := range players {
		participants[i] = replay.ParticipantInfo{Slot: p.Slot, Class: p.Class, Name: p.Name}
	}

	m := &Match{
		world:         world,
		handles:       make(map[domain.Slot]*tankapi.Handle, len(players)),
		players:       make(map[domain.Slot]player, len(players)),
		alive:         make(map[domain.Slot]bool, len(players)),
		names:         make(map[domain.Slot]string, len(players)),
		broadcast:     broadcast,
		snapshotEvery: snapshotInterval(constants),
		recorder:      replay.NewRecorder(),
		participants:  participants,
		timestamp:     time.Now().Unix(),
	}
	m.loop = sim.NewLoop(world, m.onTick, m.onMatchEnd)

	for _, p := range players {
		handle := tankapi.NewHandle(m.loop, p.Slot, m.logSink)
		slot := p.Slot
		handle.SetAcceptedHook(func(kind domain.ActionKind, degrees *float64, aDeg, bDeg float64, shoot bool) {
			tick := int64(m.world.T/m.world.Constants.Dt() + 0.5)
			m.recorder.Record(tick, slot, kind, degrees, aDeg, bDeg, shoot)
		})
		m.handles[p.Slot] = handle
		m.names[p.Slot] = p.Name
		m.alive[p.Slot] = true

		if p.Runner != nil {
			m.players[p.Slot] = p.Runner(handle)
			continue
		}

		sandbox, err := runtime.Load(p.Slot, p.Source, handle, constants.Classes)
		if err != nil {
			return nil, err
		}
		m.players[p.Slot] = sandbox
	}

	m.resolver = tankapi.NewResolver(m.handles)
	return m, nil
}

// ExportReplay finalizes the action log recorded so far into a
// replay.Session ready for replay.Save. Safe to call after the match
// ends (typically from onMatchEnd's caller); calling it mid-match just
// yields a partial recording, which is harmless since Play only ever
// reads what's there.
func (m *Match) ExportReplay() *replay.Session {
	return m.recorder.Session(m.world.Seed, m.world.Constants, m.timestamp, m.participants)
}

// Start launches the loop and every player's task. It returns
// immediately; the match runs on its own goroutines until it ends.
func (m *Match) Start() {
	if m.broadcast != nil {
		tanks := make(map[domain.Slot]TankInfo, len(m.world.Tanks))
		for _, slot := range m.world.AllSlots() {
			tanks[slot] = TankInfo{Slot: slot, TankType: m.world.Tanks[slot].Class, Name: m.names[slot]}
		}
		m.broadcast.MatchStart(MatchStart{Seed: m.world.Seed, Constants: m.world.Constants, Tanks: tanks})
	}

	go m.loop.Run()
	for slot, p := range m.players {
		go p.Run(m.onPlayerError(slot))
	}
}

// Stop aborts the match early (e.g. a client disconnect the
// collaborator policy chose to treat as an abort rather than a
// freeze — see Q3). Stopping the loop with no matchEnd event pending
// is reported as reason "aborted".
func (m *Match) Stop() {
	m.loop.Stop()
	for _, p := range m.players {
		p.Stop()
	}
	if m.broadcast != nil {
		m.broadcast.MatchEnd(MatchEnd{Reason: domain.ReasonAborted})
	}
}

func (m *Match) logSink(slot domain.Slot, msg string) {
	_ = slot
	_ = msg
	// log(msg) output is discarded: Match does not forward it to any
	// logger, and cmd/server installs no other sink.
}

// onTick runs on the loop's own goroutine (Loop.Run calls it
// synchronously), which is what makes it safe to read/write m.world
// directly here without going through Loop.Mutate.
func (m *Match) onTick(events []domain.Event) {
	m.resolver.Resolve(events)

	for _, slot := range m.world.AllSlots() {
		tank := m.world.Tanks[slot]
		if tank.HP == 0 && m.alive[slot] {
			m.alive[slot] = false
			if h, ok := m.handles[slot]; ok {
				h.KillNow()
			}
			if p, ok := m.players[slot]; ok {
				// Stop resolves the handle through Mutate, which only the
				// loop goroutine services, so it must not run inline here.
				go p.Stop()
			}
		}
	}

	m.tickCount++
	if m.snapshotEvery > 0 && m.tickCount%m.snapshotEvery == 0 {
		m.emitSnapshot()
	}
}

func (m *Match) onMatchEnd(events []domain.Event) {
	for _, e := range events {
		if e.Kind != domain.EventMatchEnd {
			continue
		}
		if m.broadcast != nil {
			m.broadcast.MatchEnd(MatchEnd{
				Winner:    e.MatchEnd.Winner,
				HasWinner: e.MatchEnd.HasWinner,
				Reason:    e.MatchEnd.Reason,
				Detail:    e.MatchEnd.Detail,
			})
		}
	}
	// Still on the loop goroutine: resolve pending completions directly
	// and stop the loop first, so each player's Stop (which goes through
	// Mutate) returns instead of waiting on this goroutine.
	for _, h := range m.handles {
		h.KillNow()
	}
	m.loop.Stop()
	for _, p := range m.players {
		p.Stop()
	}
}

// onPlayerError is the forfeit path: a runtime error or watchdog
// timeout kills the tank and lets step's own match-end check decide
// the winner naturally, exactly as the design calls for — the
// orchestrator never picks a winner itself on a forfeit.
func (m *Match) onPlayerError(slot domain.Slot) func(err error) {
	return func(err error) {
		m.loop.Mutate(func(w *domain.World) any {
			if tank, ok := w.Tanks[slot]; ok {
				tank.HP = 0
			}
			return nil
		})
		if h, ok := m.handles[slot]; ok {
			h.Kill()
		}
		if m.broadcast != nil {
			m.broadcast.Forfeit(Forfeit{Slot: slot, Error: err.Error()})
		}
	}
}

// NewSeed produces a fresh match seed from math/rand's global source
// (randomly seeded at program start), used when the caller supplies
// none of its own.
func NewSeed() int64 {
	return rand.Int63()
}
