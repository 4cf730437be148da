package system

import (
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/logging"
	"github.com/milk9111/locomotion/prefabs"
)

// Transition triggers understood by declarative behavior graphs besides
// skill names.
const (
	TriggerFinished = "finished"
	TriggerGrounded = "grounded"
	TriggerAirborne = "airborne"
	TriggerJumped   = "jumped"
)

// BehaviorSystem runs the ability/animation state graphs that own the lock
// gate. Each transition applies the old state's exit locks and then the new
// state's enter locks.
type BehaviorSystem struct {
	graphs  map[string]*prefabs.BehaviorGraphSpec
	scripts map[ecs.Entity]*behaviorScriptRuntime
	log     logging.Logger
}

func NewBehaviorSystem(log logging.Logger) *BehaviorSystem {
	return &BehaviorSystem{
		graphs:  map[string]*prefabs.BehaviorGraphSpec{},
		scripts: map[ecs.Entity]*behaviorScriptRuntime{},
		log:     logging.OrNop(log),
	}
}

// Register installs or replaces a graph. Script runtimes built from an older
// version are dropped.
func (s *BehaviorSystem) Register(name string, graph *prefabs.BehaviorGraphSpec) {
	if graph == nil {
		delete(s.graphs, name)
	} else {
		s.graphs[name] = graph
	}
	for e, rt := range s.scripts {
		if rt.graph == name {
			delete(s.scripts, e)
		}
	}
}

// InvalidateScripts forces every script to recompile on next use.
func (s *BehaviorSystem) InvalidateScripts() {
	s.scripts = map[ecs.Entity]*behaviorScriptRuntime{}
}

func (s *BehaviorSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()

	ecs.ForEach2(w, component.BehaviorComponent.Kind(), component.LockGateComponent.Kind(), func(e ecs.Entity, b *component.Behavior, gate *component.LockGate) {
		graph, ok := s.graphs[b.Graph]
		if !ok {
			return
		}

		if !b.Started || b.Current == "" {
			s.start(w, e, b, gate, graph)
			return
		}
		b.Elapsed += dt

		ctx := behaviorContext{entity: e, behavior: b, graph: graph}
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			ctx.skills = in.Snapshot.Skills
		}
		if loc, ok := ecs.Get(w, e, component.LocomotionComponent.Kind()); ok {
			ctx.loc = loc
		}

		next := ""
		if strings.TrimSpace(graph.Script) != "" {
			target, err := s.runScript(&ctx)
			if err != nil {
				s.log.WithField("entity", e).Warnf("behavior: script %s: %v", graph.Script, err)
			}
			next = target
		}
		if next == "" {
			next = ctx.declarativeTarget()
		}
		if next == "" || next == b.Current {
			return
		}
		if _, ok := graph.States[next]; !ok {
			s.log.WithField("entity", e).Warnf("behavior: %s: unknown state %q", b.Graph, next)
			return
		}
		s.transition(w, &ctx, gate, next)
	})
}

func (s *BehaviorSystem) start(w *ecs.World, e ecs.Entity, b *component.Behavior, gate *component.LockGate, graph *prefabs.BehaviorGraphSpec) {
	initial := graph.States[graph.Initial]
	b.Started = true
	b.Current = graph.Initial
	b.Elapsed = 0
	b.RootMotionSpeed = initial.RootMotionSpeed
	gate.Apply(enterLocks(initial))
	w.Events().Push(ecs.Event{Type: ecs.EventBehaviorTransition, Data: ecs.BehaviorTransitionEvent{
		Entity: e,
		To:     b.Current,
		Locks:  gate.Config(),
	}})
}

func (s *BehaviorSystem) transition(w *ecs.World, ctx *behaviorContext, gate *component.LockGate, next string) {
	e, b, graph := ctx.entity, ctx.behavior, ctx.graph
	prev := b.Current
	from := graph.States[prev]
	to := graph.States[next]

	rt := s.scripts[e]
	var engine *tengo.ImmutableMap
	if rt != nil {
		engine = buildBehaviorScriptEngine(ctx, rt)
		if err := rt.runPhase("exit", prev, engine); err != nil {
			s.log.WithField("entity", e).Warnf("behavior: script exit %s: %v", prev, err)
		}
	}

	gate.Apply(exitLocks(from))
	gate.Apply(enterLocks(to))

	b.Current = next
	b.Elapsed = 0
	b.RootMotionSpeed = to.RootMotionSpeed
	b.Transitions++

	if rt != nil {
		if err := rt.runPhase("enter", next, engine); err != nil {
			s.log.WithField("entity", e).Warnf("behavior: script enter %s: %v", next, err)
		}
		rt.pending = ""
	}

	s.log.WithFields(map[string]interface{}{"entity": e, "from": prev, "to": next}).Debugf("behavior: transition")
	w.Events().Push(ecs.Event{Type: ecs.EventBehaviorTransition, Data: ecs.BehaviorTransitionEvent{
		Entity: e,
		From:   prev,
		To:     next,
		Locks:  gate.Config(),
	}})
}

func enterLocks(st prefabs.BehaviorStateSpec) component.LockConfiguration {
	return component.LockConfiguration{
		MovementLocked:    st.Enter.MovementLocked,
		RotationLocked:    st.Enter.RotationLocked,
		GravityEnabled:    st.Enter.Gravity(),
		RootMotionEnabled: st.Enter.RootMotionOr(true),
	}
}

func exitLocks(st prefabs.BehaviorStateSpec) component.LockConfiguration {
	return component.LockConfiguration{
		MovementLocked:    st.Exit.MovementLocked,
		RotationLocked:    st.Exit.RotationLocked,
		GravityEnabled:    st.Exit.Gravity(),
		RootMotionEnabled: st.Exit.RootMotionOr(false),
	}
}

// behaviorContext is the read-only view a graph evaluates triggers against.
type behaviorContext struct {
	entity   ecs.Entity
	behavior *component.Behavior
	graph    *prefabs.BehaviorGraphSpec
	skills   input.SkillSet
	loc      *component.Locomotion
}

func (c *behaviorContext) finished() bool {
	st := c.graph.States[c.behavior.Current]
	return st.Duration > 0 && c.behavior.Elapsed >= st.Duration
}

func (c *behaviorContext) grounded() bool {
	return c.loc != nil && c.loc.Grounded
}

func (c *behaviorContext) triggered(on string) bool {
	switch strings.ToLower(strings.TrimSpace(on)) {
	case TriggerFinished:
		return c.finished()
	case TriggerGrounded:
		return c.grounded()
	case TriggerAirborne:
		return c.loc != nil && !c.loc.Grounded
	case TriggerJumped:
		return c.loc != nil && c.loc.JumpImpulse
	}
	id, ok := input.ParseSkill(on)
	return ok && c.skills.Has(id)
}

// declarativeTarget returns the first matching transition from the current
// state, then from the any-state list.
func (c *behaviorContext) declarativeTarget() string {
	for _, from := range []string{c.behavior.Current, prefabs.AnyState} {
		for _, tr := range c.graph.Transitions[from] {
			if tr.To == c.behavior.Current {
				continue
			}
			if c.triggered(tr.On) {
				return tr.To
			}
		}
	}
	return ""
}
