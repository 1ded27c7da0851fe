// Command timeutill inspects a .tnkr replay file's header and prints
// its seed, recorded wall-clock timestamp, and participant roster
// without running the simulation — a quick sanity check before
// feeding a file to replay.Play or archiving it.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/philippe-ths/tanks/internal/replay"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		os.Exit(1)
	}

	session, err := replay.Load(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "timeutill: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("seed:      %d\n", session.Seed)
	fmt.Printf("recorded:  %s\n", time.Unix(session.Timestamp, 0).Format(time.RFC3339))
	fmt.Printf("ticks:     %d Hz, match limit %.0fs\n", session.Constants.TickRate, session.Constants.MatchTimeLimit)
	fmt.Printf("actions:   %d\n", len(session.Actions))
	fmt.Println("roster:")
	for _, p := range session.Participants {
		fmt.Printf("  %s  %-6s %s\n", p.Slot, p.Class, p.Name)
	}
}

func printHelp() {
	fmt.Println(`timeutill - inspect a .tnkr replay file's header

Usage:
  timeutill <path-to-replay.tnkr>`)
}
