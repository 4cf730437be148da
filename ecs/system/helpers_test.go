package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
)

const testDT = 1.0 / 60.0

// flatGround reports grounded within radius above a floor plane.
type flatGround struct {
	floor float64
}

func (g flatGround) IsGrounded(p mgl64.Vec3, radius float64, _ physics.Layer) bool {
	return p.Y()-g.floor <= radius
}

// scriptedGround replays fixed readings, one per call, then repeats the last.
type scriptedGround struct {
	readings []bool
	calls    int
}

func (g *scriptedGround) IsGrounded(mgl64.Vec3, float64, physics.Layer) bool {
	i := g.calls
	if i >= len(g.readings) {
		i = len(g.readings) - 1
	}
	g.calls++
	return g.readings[i]
}

// floorMover moves freely but never sinks below the floor plane.
type floorMover struct {
	pos   mgl64.Vec3
	floor float64
	moves int
}

func (m *floorMover) Move(d mgl64.Vec3) mgl64.Vec3 {
	m.moves++
	next := m.pos.Add(d)
	if next.Y() < m.floor {
		next[1] = m.floor
	}
	applied := next.Sub(m.pos)
	m.pos = next
	return applied
}

func (m *floorMover) Position() mgl64.Vec3 { return m.pos }

type rig struct {
	w      *ecs.World
	player ecs.Entity
	camera ecs.Entity
	src    *input.State
	mover  *floorMover
	sched  *ecs.Scheduler
}

type rigOption func(*rigConfig)

type rigConfig struct {
	start    mgl64.Vec3
	camYaw   float64
	camReady bool
	gate     *component.LockGate
	behavior *BehaviorSystem
	sensor   GroundSensor
}

func withStart(p mgl64.Vec3) rigOption { return func(c *rigConfig) { c.start = p } }
func withCamera(yaw float64, ready bool) rigOption {
	return func(c *rigConfig) { c.camYaw, c.camReady = yaw, ready }
}
func withGate(g *component.LockGate) rigOption { return func(c *rigConfig) { c.gate = g } }
func withBehavior(b *BehaviorSystem) rigOption { return func(c *rigConfig) { c.behavior = b } }
func withSensor(s GroundSensor) rigOption      { return func(c *rigConfig) { c.sensor = s } }

func newRig(t *testing.T, opts ...rigOption) *rig {
	t.Helper()
	cfg := rigConfig{camReady: true, sensor: flatGround{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	w := ecs.NewWorld()
	r := &rig{
		w:     w,
		src:   input.NewState(),
		mover: &floorMover{pos: cfg.start},
	}

	r.camera = ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, r.camera, component.CameraRigComponent.Kind(), &component.CameraRig{Yaw: cfg.camYaw, Ready: cfg.camReady}))

	r.player = ecs.CreateEntity(w)
	char := component.DefaultCharacter()
	mustAdd(t, ecs.Add(w, r.player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	mustAdd(t, ecs.Add(w, r.player, component.TransformComponent.Kind(), &component.Transform{Position: cfg.start}))
	mustAdd(t, ecs.Add(w, r.player, component.CharacterComponent.Kind(), &char))
	mustAdd(t, ecs.Add(w, r.player, component.LocomotionComponent.Kind(), &component.Locomotion{}))
	mustAdd(t, ecs.Add(w, r.player, component.InputComponent.Kind(), &component.Input{Source: r.src}))
	mustAdd(t, ecs.Add(w, r.player, component.BodyComponent.Kind(), &component.Body{Mover: r.mover}))
	mustAdd(t, ecs.Add(w, r.player, component.AnimationParamsComponent.Kind(), &component.AnimationParams{}))
	gate := cfg.gate
	if gate == nil {
		gate = component.NewLockGate()
	}
	mustAdd(t, ecs.Add(w, r.player, component.LockGateComponent.Kind(), gate))

	systems := []ecs.System{NewInputSystem()}
	if cfg.behavior != nil {
		systems = append(systems, cfg.behavior)
	}
	systems = append(systems,
		NewLocomotionSystem(cfg.sensor),
		NewRootMotionSystem(),
		NewAnimationSystem(),
	)
	r.sched = ecs.NewScheduler(systems...)
	return r
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func (r *rig) step(n int) {
	for i := 0; i < n; i++ {
		r.sched.Step(r.w, testDT)
	}
}

func (r *rig) loc() *component.Locomotion {
	loc, _ := ecs.Get(r.w, r.player, component.LocomotionComponent.Kind())
	return loc
}

func (r *rig) params() *component.AnimationParams {
	p, _ := ecs.Get(r.w, r.player, component.AnimationParamsComponent.Kind())
	return p
}

func (r *rig) gate() *component.LockGate {
	g, _ := ecs.Get(r.w, r.player, component.LockGateComponent.Kind())
	return g
}

func (r *rig) events(typ ecs.EventType) []ecs.Event {
	var out []ecs.Event
	for _, evt := range r.w.Events().Drain() {
		if evt.Type == typ {
			out = append(out, evt)
		}
	}
	return out
}

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
