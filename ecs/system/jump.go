package system

import (
	"math"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

// jumpState is one phase of the vertical state machine.
type jumpState interface {
	Phase() component.JumpPhase
	Enter(ctx *jumpContext)
	Step(ctx *jumpContext)
}

// jumpContext is what a jump state may read and touch during one tick.
type jumpContext struct {
	Entity    ecs.Entity
	Loc       *component.Locomotion
	Character *component.Character
	Grounded  bool
	Requested bool

	ConsumeJump func()
	Emit        func(ecs.Event)
}

func (ctx *jumpContext) changeState(next jumpState) {
	ctx.Loc.Phase = next.Phase()
	next.Enter(ctx)
}

func (ctx *jumpContext) consume() {
	if ctx.ConsumeJump != nil {
		ctx.ConsumeJump()
	}
	ctx.Requested = false
}

func (ctx *jumpContext) emit(evt ecs.Event) {
	if ctx.Emit != nil {
		ctx.Emit(evt)
	}
}

func (ctx *jumpContext) impulse() {
	ctx.Loc.VerticalVelocity = ctx.Character.JumpForce
	ctx.Loc.FramesSinceGrounded = 0
	ctx.Loc.JumpImpulse = true
	ctx.consume()
}

// Jump state singletons (avoid allocations on transitions).
var (
	jumpStateGrounded jumpState = &groundedState{}
	jumpStateAirborne jumpState = &airborneState{}
	jumpStateDouble   jumpState = &airborneDoubleState{}
)

func jumpStateFor(p component.JumpPhase) jumpState {
	switch p {
	case component.PhaseAirborne:
		return jumpStateAirborne
	case component.PhaseAirborneAfterDoubleJump:
		return jumpStateDouble
	}
	return jumpStateGrounded
}

// stepJump advances the vertical state machine by one tick. Edges from the
// previous tick are cleared first.
func stepJump(ctx *jumpContext) {
	ctx.Loc.JumpTriggered = false
	ctx.Loc.JumpImpulse = false
	ctx.Loc.Grounded = ctx.Grounded
	jumpStateFor(ctx.Loc.Phase).Step(ctx)
}

type groundedState struct{}

type airborneState struct{}

type airborneDoubleState struct{}

func (groundedState) Phase() component.JumpPhase { return component.PhaseGrounded }
func (groundedState) Enter(ctx *jumpContext) {
	ctx.Loc.HasDoubleJumped = false
	ctx.Loc.JumpTriggered = false
	ctx.Loc.FramesSinceGrounded = 0
	ctx.emit(ecs.Event{Type: ecs.EventLanded, Data: ecs.LandedEvent{Entity: ctx.Entity}})
}
func (groundedState) Step(ctx *jumpContext) {
	loc := ctx.Loc
	if !ctx.Grounded {
		// walked off a ledge; the air jump stays available
		loc.FramesSinceGrounded = 0
		ctx.changeState(jumpStateAirborne)
		jumpStateAirborne.Step(ctx)
		return
	}
	if ctx.Requested {
		ctx.impulse()
		loc.JumpTriggered = true
		ctx.changeState(jumpStateAirborne)
		ctx.emit(ecs.Event{Type: ecs.EventJumped, Data: ecs.JumpEvent{Entity: ctx.Entity}})
		return
	}

	if loc.FramesSinceGrounded < math.MaxInt32 {
		loc.FramesSinceGrounded++
	}
	if loc.FramesSinceGrounded > ctx.Character.LandingGraceTicks {
		loc.VerticalVelocity = 0
	}
	loc.HasDoubleJumped = false
}

func (airborneState) Phase() component.JumpPhase { return component.PhaseAirborne }
func (airborneState) Enter(ctx *jumpContext)     {}
func (airborneState) Step(ctx *jumpContext) {
	if ctx.Grounded {
		ctx.changeState(jumpStateGrounded)
		jumpStateGrounded.Step(ctx)
		return
	}
	ctx.Loc.FramesSinceGrounded = 0
	if ctx.Requested && !ctx.Loc.HasDoubleJumped {
		ctx.impulse()
		ctx.Loc.HasDoubleJumped = true
		ctx.changeState(jumpStateDouble)
		ctx.emit(ecs.Event{Type: ecs.EventJumped, Data: ecs.JumpEvent{Entity: ctx.Entity, Double: true}})
	}
}

func (airborneDoubleState) Phase() component.JumpPhase {
	return component.PhaseAirborneAfterDoubleJump
}
func (airborneDoubleState) Enter(ctx *jumpContext) {}
func (airborneDoubleState) Step(ctx *jumpContext) {
	if ctx.Grounded {
		ctx.changeState(jumpStateGrounded)
		jumpStateGrounded.Step(ctx)
		return
	}
	// the air jump is spent; requests stay pending until landing
	ctx.Loc.FramesSinceGrounded = 0
}
