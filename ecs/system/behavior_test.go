package system

import (
	"testing"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/prefabs"
)

const behaviorDT = 0.125

func boolPtr(b bool) *bool { return &b }

func castGraph() *prefabs.BehaviorGraphSpec {
	return &prefabs.BehaviorGraphSpec{
		Name:    "cast",
		Initial: "idle",
		States: map[string]prefabs.BehaviorStateSpec{
			"idle": {Enter: prefabs.LockSpec{RootMotion: boolPtr(false)}},
			"cast": {
				Duration:        0.5,
				RootMotionSpeed: 2,
				Enter:           prefabs.LockSpec{MovementLocked: true, RotationLocked: true},
				Exit:            prefabs.LockSpec{GravityEnabled: boolPtr(false)},
			},
		},
		Transitions: map[string][]prefabs.BehaviorTransitionSpec{
			"idle":           {{To: "cast", On: "skill1"}},
			prefabs.AnyState: {{To: "idle", On: "finished"}},
		},
	}
}

type behaviorRig struct {
	w     *ecs.World
	e     ecs.Entity
	src   *input.State
	sys   *BehaviorSystem
	sched *ecs.Scheduler
}

func newBehaviorRig(t *testing.T, graphName string, graph *prefabs.BehaviorGraphSpec) *behaviorRig {
	t.Helper()
	w := ecs.NewWorld()
	r := &behaviorRig{w: w, e: ecs.CreateEntity(w), src: input.NewState(), sys: NewBehaviorSystem(nil)}
	r.sys.Register(graphName, graph)

	mustAdd(t, ecs.Add(w, r.e, component.BehaviorComponent.Kind(), &component.Behavior{Graph: graphName}))
	mustAdd(t, ecs.Add(w, r.e, component.LockGateComponent.Kind(), component.NewLockGate()))
	mustAdd(t, ecs.Add(w, r.e, component.InputComponent.Kind(), &component.Input{Source: r.src}))
	mustAdd(t, ecs.Add(w, r.e, component.LocomotionComponent.Kind(), &component.Locomotion{Grounded: true}))

	r.sched = ecs.NewScheduler(NewInputSystem(), r.sys)
	return r
}

func (r *behaviorRig) step(n int) {
	for i := 0; i < n; i++ {
		r.sched.Step(r.w, behaviorDT)
	}
}

func (r *behaviorRig) behavior() *component.Behavior {
	b, _ := ecs.Get(r.w, r.e, component.BehaviorComponent.Kind())
	return b
}

func (r *behaviorRig) gate() *component.LockGate {
	g, _ := ecs.Get(r.w, r.e, component.LockGateComponent.Kind())
	return g
}

func TestBehaviorDeclarativeTransitions(t *testing.T) {
	r := newBehaviorRig(t, "cast", castGraph())

	r.step(1)
	if got := r.behavior().Current; got != "idle" {
		t.Fatalf("initial state = %q", got)
	}
	if r.gate().Config() != component.Unlocked {
		t.Fatalf("idle locks = %+v", r.gate().Config())
	}

	r.src.OnSkillTrigger(input.Skill1)
	r.step(1)
	b := r.behavior()
	if b.Current != "cast" || b.Transitions != 1 || b.RootMotionSpeed != 2 {
		t.Fatalf("unexpected behavior after skill: %+v", *b)
	}
	want := component.LockConfiguration{MovementLocked: true, RotationLocked: true, GravityEnabled: true, RootMotionEnabled: true}
	if got := r.gate().Config(); got != want {
		t.Fatalf("cast locks = %+v, want %+v", got, want)
	}
	if v := r.gate().Version(); v != 3 {
		t.Fatalf("gate version = %d, want start plus exit and enter", v)
	}

	r.step(3)
	if r.behavior().Current != "cast" {
		t.Fatalf("left cast before its duration")
	}
	r.step(1)
	if r.behavior().Current != "idle" {
		t.Fatalf("state = %q, want idle after duration", r.behavior().Current)
	}
	if got := r.gate().Config(); got != component.Unlocked {
		t.Fatalf("exit locks leaked past enter locks: %+v", got)
	}

	var transitions []ecs.BehaviorTransitionEvent
	for _, evt := range r.w.Events().Drain() {
		if evt.Type == ecs.EventBehaviorTransition {
			transitions = append(transitions, evt.Data.(ecs.BehaviorTransitionEvent))
		}
	}
	if len(transitions) != 3 {
		t.Fatalf("transition events = %d, want 3", len(transitions))
	}
	last := transitions[2]
	if last.From != "cast" || last.To != "idle" {
		t.Fatalf("last transition = %s -> %s", last.From, last.To)
	}
}

func TestLockDefaults(t *testing.T) {
	st := prefabs.BehaviorStateSpec{}
	if got := enterLocks(st); got != (component.LockConfiguration{GravityEnabled: true, RootMotionEnabled: true}) {
		t.Fatalf("enter defaults = %+v", got)
	}
	if got := exitLocks(st); got != component.Unlocked {
		t.Fatalf("exit defaults = %+v", got)
	}
}

func TestBehaviorUnknownGraphIsIgnored(t *testing.T) {
	r := newBehaviorRig(t, "cast", castGraph())
	r.behavior().Graph = "missing"
	r.step(3)
	if r.behavior().Started {
		t.Fatalf("behavior started without a registered graph")
	}
	if r.gate().Version() != 0 {
		t.Fatalf("gate written without a graph")
	}
}

const lifecycleScript = `
update := func(engine, state, current) {
	if current == "idle" && engine.elapsed() >= 0.25 {
		engine.transition("cast")
	}
}

onEnter := func(engine, state, current) {
	state.entered = current
}

onExit := func(engine, state, current) {
	state.exited = current
}
`

func TestBehaviorScriptDrivesTransitions(t *testing.T) {
	graph := castGraph()
	graph.Script = "inline.tengo"
	graph.Transitions = nil
	r := newBehaviorRig(t, "scripted", graph)

	rt, err := compileBehaviorScript([]byte(lifecycleScript))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rt.graph = "scripted"
	rt.scriptPath = "inline.tengo"
	r.sys.scripts[r.e] = rt

	r.step(2)
	if r.behavior().Current != "idle" {
		t.Fatalf("state = %q before script deadline", r.behavior().Current)
	}
	if v, ok := rt.StateValue("entered"); !ok || objectAsString(v) != "idle" {
		t.Fatalf("onEnter not run for initial state: %v", v)
	}

	r.step(1)
	if r.behavior().Current != "cast" {
		t.Fatalf("state = %q, want cast", r.behavior().Current)
	}
	if v, _ := rt.StateValue("exited"); objectAsString(v) != "idle" {
		t.Fatalf("onExit saw %v", v)
	}
	if v, _ := rt.StateValue("entered"); objectAsString(v) != "cast" {
		t.Fatalf("onEnter saw %v", v)
	}
}

func TestBehaviorScriptFailureFallsBackToGraph(t *testing.T) {
	graph := castGraph()
	graph.Script = "does_not_exist.tengo"
	r := newBehaviorRig(t, "cast", graph)

	r.step(1)
	r.src.OnSkillTrigger(input.Skill1)
	r.step(1)
	if r.behavior().Current != "cast" {
		t.Fatalf("declarative transition skipped after script error")
	}
}

func TestPlayerAbilityComboWindow(t *testing.T) {
	graph, err := prefabs.LoadBehaviorGraphSpec("behaviors.yaml")
	if err != nil {
		t.Fatalf("load graph: %v", err)
	}
	r := newBehaviorRig(t, "behaviors.yaml", graph)

	r.step(1)
	r.src.OnSkillTrigger(input.Attack1)
	r.step(1)
	if r.behavior().Current != "attack1" {
		t.Fatalf("state = %q, want attack1", r.behavior().Current)
	}

	// outside the combo window the press is ignored
	r.src.OnSkillTrigger(input.Attack1)
	r.step(1)
	if r.behavior().Current != "attack1" {
		t.Fatalf("combo fired early: %q", r.behavior().Current)
	}

	r.src.OnSkillTrigger(input.Attack1)
	r.step(1)
	if r.behavior().Current != "attack2" {
		t.Fatalf("state = %q, want attack2 inside combo window", r.behavior().Current)
	}
	if !r.gate().MovementLocked() || !r.gate().RootMotionEnabled() {
		t.Fatalf("attack2 locks = %+v", r.gate().Config())
	}
}
