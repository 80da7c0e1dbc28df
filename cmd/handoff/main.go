// Command handoff demonstrates a state handoff across two process runs.
//
// The pause run registers a callback that stages a value, drives the pause,
// and prints the activation ID. A later resume run picks the harvest back up:
//
//	handoff -state ./state -key greeting -value "hello from the first run"
//	handoff -state ./state -resume <activation-id> -key greeting
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pausepoint/handoff/handoff"
	"github.com/pausepoint/handoff/observability"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to driver config JSON file (optional)")
		statePath  = flag.String("state", "", "Path to transport state directory (overrides config)")
		codecName  = flag.String("codec", "", "Codec for staged values (overrides config)")
		resumeID   = flag.String("resume", "", "Activation ID to resume from; omit to run the pause side")
		key        = flag.String("key", "greeting", "Key to stage or take")
		value      = flag.String("value", "", "Value to stage (pause side only)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	cfg := handoff.DefaultConfig()
	if *configFile != "" {
		loaded, err := handoff.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *statePath != "" {
		cfg.Transport.Path = *statePath
	}
	if *codecName != "" {
		cfg.Codec = *codecName
	}
	if cfg.Transport.Path == "" {
		log.Fatal("A transport path is required to hand off between runs (-state)")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	m, err := handoff.New(&cfg, handoff.WithObserver(observability.NewSlogObserver(logger)))
	if err != nil {
		log.Fatalf("Failed to create handoff driver: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *resumeID != "" {
		if err := m.Resume(ctx, *resumeID); err != nil {
			log.Fatalf("Resume failed: %v", err)
		}
		var got string
		found, err := m.State().TakeValue(*key, &got)
		if err != nil {
			log.Fatalf("Take failed: %v", err)
		}
		if !found {
			fmt.Printf("No state found under %q\n", *key)
			return
		}
		fmt.Printf("%s = %s\n", *key, got)
		return
	}

	staged := *value
	if staged == "" {
		staged = "hello from activation " + m.ID()
	}
	_, err = m.OnPausing().RegisterOnPausing(func(ctx context.Context) error {
		return m.State().PersistValue(*key, staged)
	})
	if err != nil {
		log.Fatalf("Failed to register pause callback: %v", err)
	}

	if err := m.Pause(ctx); err != nil {
		log.Fatalf("Pause failed: %v", err)
	}
	fmt.Printf("Paused. Resume with: handoff -state %s -resume %s -key %s\n",
		cfg.Transport.Path, m.ID(), *key)
}
