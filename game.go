package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/milk9111/locomotion/config"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/ecs/system"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/levels"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
)

const (
	defaultTicks = 600
	// heightProbeDistance bounds the downward ray used for the clearance log.
	heightProbeDistance = 50.0
)

// Stats counts what happened during a run.
type Stats struct {
	Ticks       int
	Jumps       int
	DoubleJumps int
	Landings    int
	Transitions int
	// States counts entries into each behavior state.
	States map[string]int
}

type Game struct {
	cfg *config.Config
	log logging.Logger

	world    *ecs.World
	physics  *physics.World
	sched    *ecs.Scheduler
	behavior *system.BehaviorSystem

	input    *input.State
	player   playerHandles
	camera   ecs.Entity
	scenario *Scenario

	characterFile string
	graphs        map[string]bool

	stats Stats
}

// NewGame loads the level, character and scenario named by cfg and wires the
// tick pipeline.
func NewGame(cfg *config.Config, log logging.Logger) (*Game, error) {
	log = logging.OrNop(log)
	prefabs.SetDir(cfg.Prefabs.Dir)

	var scenarioSpec *prefabs.ScenarioSpec
	if cfg.Prefabs.Scenario != "" {
		spec, err := prefabs.LoadScenarioSpec(cfg.Prefabs.Scenario)
		if err != nil {
			return nil, err
		}
		scenarioSpec = spec
	}
	scenario, err := NewScenario(scenarioSpec)
	if err != nil {
		return nil, err
	}

	levelName := cfg.Level
	if scenarioSpec != nil && scenarioSpec.Level != "" {
		levelName = scenarioSpec.Level
	}
	lvl, err := levels.LoadLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("level %s: %w", levelName, err)
	}
	pw := physics.NewWorld()
	if _, err := lvl.Build(pw); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:           cfg,
		log:           log,
		world:         ecs.NewWorld(),
		physics:       pw,
		behavior:      system.NewBehaviorSystem(log),
		input:         input.NewState(),
		scenario:      scenario,
		characterFile: cfg.Prefabs.Character,
		graphs:        map[string]bool{},
		stats:         Stats{States: map[string]int{}},
	}

	charSpec, err := prefabs.LoadCharacterSpec(cfg.Prefabs.Character)
	if err != nil {
		return nil, err
	}
	if g.player, err = g.spawnPlayer(charSpec, lvl.Spawn.Vec3()); err != nil {
		return nil, err
	}
	camYaw := 0.0
	if scenarioSpec != nil {
		camYaw = scenarioSpec.CameraYaw
		for _, ws := range scenarioSpec.Watchers {
			if _, err := g.spawnWatcher(ws, g.player.entity); err != nil {
				return nil, fmt.Errorf("watcher %s: %w", ws.Name, err)
			}
		}
	}
	if g.camera, err = g.spawnCamera(camYaw); err != nil {
		return nil, err
	}

	g.sched = ecs.NewScheduler(
		system.NewInputSystem(),
		g.behavior,
		system.NewLocomotionSystem(pw),
		system.NewRootMotionSystem(),
		system.NewFacingSystem(),
		system.NewAnimationSystem(),
	)

	log.WithFields(map[string]interface{}{
		"level":     lvl.Name,
		"character": charSpec.Name,
		"scenario":  scenario.Name(),
		"obstacles": len(pw.Obstacles()),
	}).Infof("game: ready")
	return g, nil
}

func (g *Game) loadGraph(name string) error {
	graph, err := prefabs.LoadBehaviorGraphSpec(name)
	if err != nil {
		return err
	}
	g.behavior.Register(name, graph)
	g.graphs[name] = true
	return nil
}

// Ticks resolves the run length: an explicit override, then the config,
// then the scenario.
func (g *Game) Ticks(override int) int {
	switch {
	case override > 0:
		return override
	case g.cfg.Ticks > 0:
		return g.cfg.Ticks
	case g.scenario.Ticks() > 0:
		return g.scenario.Ticks()
	}
	return defaultTicks
}

// Step runs one tick with a clamped delta time.
func (g *Game) Step(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if dt > g.cfg.MaxDelta {
		dt = g.cfg.MaxDelta
	}

	cam, _ := ecs.Get(g.world, g.camera, component.CameraRigComponent.Kind())
	g.scenario.Apply(int(g.world.Tick()), g.input, cam)

	g.sched.Step(g.world, dt)
	g.stats.Ticks++
	g.handleEvents(g.world.Events().Drain())

	if every := g.cfg.LogEvery; every > 0 && g.stats.Ticks%every == 0 {
		g.logState()
	}
}

func (g *Game) handleEvents(events []ecs.Event) {
	for _, evt := range events {
		switch data := evt.Data.(type) {
		case ecs.JumpEvent:
			g.stats.Jumps++
			if data.Double {
				g.stats.DoubleJumps++
			}
			g.log.WithFields(map[string]interface{}{"entity": data.Entity, "double": data.Double}).Debugf("jump")
		case ecs.LandedEvent:
			g.stats.Landings++
			g.log.WithField("entity", data.Entity).Debugf("landed")
		case ecs.BehaviorTransitionEvent:
			g.stats.States[data.To]++
			if data.From != "" {
				g.stats.Transitions++
			}
			g.log.WithFields(map[string]interface{}{
				"entity":   data.Entity,
				"from":     data.From,
				"to":       data.To,
				"movement": !data.Locks.MovementLocked,
				"rotation": !data.Locks.RotationLocked,
				"gravity":  data.Locks.GravityEnabled,
				"root":     data.Locks.RootMotionEnabled,
			}).Infof("behavior %s -> %s", data.From, data.To)
		}
	}
}

func (g *Game) logState() {
	loc, ok := ecs.Get(g.world, g.player.entity, component.LocomotionComponent.Kind())
	if !ok {
		return
	}
	fields := map[string]interface{}{
		"pos":   g.player.controller.Position(),
		"speed": fmt.Sprintf("%.2f", loc.Speed),
		"yaw":   fmt.Sprintf("%.1f", loc.Yaw),
		"phase": loc.Phase,
	}
	if h, ok := g.groundClearance(); ok {
		fields["height"] = fmt.Sprintf("%.2f", h)
	}
	if b, ok := ecs.Get(g.world, g.player.entity, component.BehaviorComponent.Kind()); ok {
		fields["behavior"] = b.Current
	}
	if params, ok := ecs.Get(g.world, g.player.entity, component.AnimationParamsComponent.Kind()); ok {
		fields["anim"] = params.Fields()
	}
	g.log.WithFields(fields).Debugf("tick %d", g.world.Tick())
}

// groundClearance is the player's feet height above the nearest walkable top
// below it.
func (g *Game) groundClearance() (float64, bool) {
	char, ok := ecs.Get(g.world, g.player.entity, component.CharacterComponent.Kind())
	if !ok {
		return 0, false
	}
	pos := g.player.controller.Position()
	top, _, ok := g.physics.Raycast(pos, heightProbeDistance, char.GroundMask)
	if !ok {
		return 0, false
	}
	return pos.Y() - top, true
}

// Run simulates ticks steps. Headless runs advance as fast as possible with
// the fixed delta; realtime runs pace on a ticker and measure the delta, and
// run until ctx ends when ticks is not positive. Prefab edits from watcher
// are applied between ticks.
func (g *Game) Run(ctx context.Context, ticks int, realtime bool, watcher *prefabs.Watcher) (Stats, error) {
	var changes <-chan prefabs.Change
	var watchErrs <-chan error
	if watcher != nil {
		changes = watcher.Events
		watchErrs = watcher.Errors
	}

	if !realtime {
		dt := g.cfg.FixedDelta()
		for i := 0; i < ticks; i++ {
			if err := ctx.Err(); err != nil {
				return g.stats, err
			}
			g.drainChanges(changes, watchErrs)
			g.Step(dt)
		}
		return g.stats, nil
	}

	ticker := time.NewTicker(g.cfg.TickInterval())
	defer ticker.Stop()
	last := time.Now()
	for ticks <= 0 || g.stats.Ticks < ticks {
		select {
		case <-ctx.Done():
			return g.stats, ctx.Err()
		case change, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			g.Reload(change)
		case err, ok := <-watchErrs:
			if !ok {
				watchErrs = nil
				continue
			}
			g.log.Warnf("watch: %v", err)
		case now := <-ticker.C:
			g.Step(now.Sub(last).Seconds())
			last = now
		}
	}
	return g.stats, nil
}

func (g *Game) drainChanges(changes <-chan prefabs.Change, errs <-chan error) {
	for {
		select {
		case change, ok := <-changes:
			if !ok {
				return
			}
			g.Reload(change)
		case err, ok := <-errs:
			if !ok {
				return
			}
			g.log.Warnf("watch: %v", err)
		default:
			return
		}
	}
}

// Reload applies an edited prefab. Scripts recompile on next use, graphs are
// re-registered, and character tuning is swapped in place so motion state
// carries over.
func (g *Game) Reload(change prefabs.Change) {
	log := g.log.WithField("file", change.Name)
	if change.Kind == prefabs.ChangeScript {
		g.behavior.InvalidateScripts()
		log.Infof("reload: script")
		return
	}

	name := filepath.Base(change.Name)
	switch {
	case g.graphs[name]:
		if err := g.loadGraph(name); err != nil {
			log.Warnf("reload: graph: %v", err)
			return
		}
		log.Infof("reload: behavior graph")
	case name == filepath.Base(g.characterFile):
		spec, err := prefabs.LoadCharacterSpec(g.characterFile)
		if err != nil {
			log.Warnf("reload: character: %v", err)
			return
		}
		char, err := characterFromSpec(spec.Locomotion)
		if err != nil {
			log.Warnf("reload: character: %v", err)
			return
		}
		if cur, ok := ecs.Get(g.world, g.player.entity, component.CharacterComponent.Kind()); ok {
			*cur = char
		}
		log.Infof("reload: character tuning")
	default:
		log.Debugf("reload: ignored")
	}
}

// Stats returns the counters so far.
func (g *Game) Stats() Stats {
	return g.stats
}
