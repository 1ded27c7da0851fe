package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/philippe-ths/tanks/internal/domain"
	"github.com/philippe-ths/tanks/internal/network"
	"github.com/philippe-ths/tanks/internal/orchestrator"
	"github.com/philippe-ths/tanks/internal/replay"
	"github.com/philippe-ths/tanks/internal/version"
	"github.com/philippe-ths/tanks/pkg/config"
	"github.com/philippe-ths/tanks/pkg/logger"
)

func init() {
	logger.Init()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("failed to load configuration: %v", err)
	}

	var seed int64
	var replayPath string
	var port string
	flag.Int64Var(&seed, "seed", cfg.Seed, "match seed (0 for random)")
	flag.StringVar(&replayPath, "replay", "", "path to a .tnkr replay file to re-simulate instead of running a live match")
	flag.StringVar(&port, "port", cfg.Port, "spectator HTTP/WebSocket listen port")
	flag.Parse()

	logger.Log.Info("starting tank arena server")
	logger.Log.Info(version.String())

	if replayPath != "" {
		runReplay(replayPath)
		return
	}

	players, err := playersFromArgs(flag.Args())
	if err != nil {
		logger.Log.Fatalf("failed to load players: %v", err)
	}

	if seed == 0 {
		seed = orchestrator.NewSeed()
	}
	logger.Log.Infof("using seed %d", seed)

	hub := network.NewHub()
	match, err := orchestrator.NewMatch(seed, domain.DefaultConstants(), players, hub)
	if err != nil {
		logger.Log.Fatalf("failed to start match: %v", err)
	}
	match.Start()

	srv := network.New(hub, port)
	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.Fatalf("spectator server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down, saving replay")
	match.Stop()

	session := match.ExportReplay()
	outPath := fmt.Sprintf("match-%d.tnkr", session.Timestamp)
	if err := replay.Save(outPath, session); err != nil {
		logger.Log.Errorf("failed to save replay: %v", err)
	} else {
		logger.Log.Infof("replay saved to %s", outPath)
	}

	logger.Log.Info("done")
}

// playersFromArgs turns the entrypoint's positional arguments — each
// of the form slot:class:path/to/player.js — into orchestrator
// PlayerSources. Exactly two are expected for a standard duel, but
// nothing here enforces that count; the orchestrator itself is the
// one place arena size lives.
func playersFromArgs(args []string) ([]orchestrator.PlayerSource, error) {
	if len(args) == 0 {
		args = []string{"p1:light:players/p1.js", "p2:heavy:players/p2.js"}
	}

	players := make([]orchestrator.PlayerSource, 0, len(args))
	for _, arg := range args {
		slot, class, path, err := parsePlayerArg(arg)
		if err != nil {
			return nil, err
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		players = append(players, orchestrator.PlayerSource{
			Slot:   domain.Slot(slot),
			Class:  domain.TankClass(class),
			Name:   filepath.Base(path),
			Source: string(src),
		})
	}
	return players, nil
}

func parsePlayerArg(arg string) (slot, class, path string, err error) {
	parts := strings.SplitN(arg, ":", 3)
	if len(parts) != 3 {
		return "", "", "", fmt.Errorf("player argument %q: want slot:class:path", arg)
	}
	return parts[0], parts[1], parts[2], nil
}

// runReplay re-simulates a recorded session headlessly and reports
// the outcome — no sandboxes, no network, no clock: replay.Play drives
// sim.Step directly from the recorded action log.
func runReplay(path string) {
	logger.Log.Infof("mode: replay simulation (%s)", path)

	session, err := replay.Load(path)
	if err != nil {
		logger.Log.Fatalf("failed to load replay: %v", err)
	}

	events, err := replay.Play(session)
	if err != nil {
		logger.Log.Fatalf("replay simulation failed: %v", err)
	}

	for _, e := range events {
		if e.Kind != domain.EventMatchEnd {
			continue
		}
		if e.MatchEnd.HasWinner {
			logger.Log.Infof("replay result: %s wins (%s)", e.MatchEnd.Winner, e.MatchEnd.Reason)
		} else {
			logger.Log.Infof("replay result: draw (%s)", e.MatchEnd.Reason)
		}
	}
}
