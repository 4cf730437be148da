package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config (defaults apply when empty)")
	scenarioName := flag.String("scenario", "", "scenario prefab to replay, overrides the config")
	ticks := flag.Int("ticks", 0, "ticks to simulate (0 uses config, then scenario)")
	watch := flag.Bool("watch", false, "hot-reload prefab and script edits between ticks")
	realtime := flag.Bool("realtime", false, "pace ticks on the wall clock")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *scenarioName != "" {
		cfg.Prefabs.Scenario = *scenarioName
	}

	logger, err := logging.NewLogrusLogger(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	game, err := NewGame(cfg, logger)
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}

	var watcher *prefabs.Watcher
	if *watch {
		dir := prefabs.Dir()
		watcher, err = prefabs.NewWatcher(dir, filepath.Join(dir, "scripts"))
		if err != nil {
			logger.Warnf("watch disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	n := game.Ticks(*ticks)
	if *realtime && *ticks == 0 && *watch {
		n = 0
	}
	stats, err := game.Run(ctx, n, *realtime, watcher)
	if err != nil && ctx.Err() == nil {
		logger.Errorf("run: %v", err)
	}

	logger.WithFields(map[string]interface{}{
		"ticks":        stats.Ticks,
		"jumps":        stats.Jumps,
		"double_jumps": stats.DoubleJumps,
		"landings":     stats.Landings,
		"transitions":  stats.Transitions,
	}).Infof("done")
}
