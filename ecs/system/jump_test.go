package system

import (
	"testing"

	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

type jumpHarness struct {
	loc      component.Locomotion
	char     component.Character
	consumed int
	events   []ecs.Event
}

func newJumpHarness(phase component.JumpPhase) *jumpHarness {
	return &jumpHarness{
		loc:  component.Locomotion{Phase: phase, Grounded: phase == component.PhaseGrounded},
		char: component.DefaultCharacter(),
	}
}

func (h *jumpHarness) step(grounded, requested bool) {
	ctx := jumpContext{
		Loc:         &h.loc,
		Character:   &h.char,
		Grounded:    grounded,
		Requested:   requested,
		ConsumeJump: func() { h.consumed++ },
		Emit:        func(evt ecs.Event) { h.events = append(h.events, evt) },
	}
	stepJump(&ctx)
}

func (h *jumpHarness) count(typ ecs.EventType) int {
	n := 0
	for _, evt := range h.events {
		if evt.Type == typ {
			n++
		}
	}
	return n
}

func TestGroundJumpIsOneShot(t *testing.T) {
	h := newJumpHarness(component.PhaseGrounded)
	h.step(true, true)

	if h.loc.Phase != component.PhaseAirborne {
		t.Fatalf("phase = %v, want airborne", h.loc.Phase)
	}
	if !h.loc.JumpTriggered || !h.loc.JumpImpulse {
		t.Fatalf("expected trigger and impulse on jump tick")
	}
	if h.loc.VerticalVelocity != h.char.JumpForce {
		t.Fatalf("vy = %v, want %v", h.loc.VerticalVelocity, h.char.JumpForce)
	}
	if h.consumed != 1 {
		t.Fatalf("consumed = %d, want 1", h.consumed)
	}

	h.step(false, false)
	if h.loc.JumpTriggered || h.loc.JumpImpulse {
		t.Fatalf("jump edges must clear on the next tick")
	}
	if h.count(ecs.EventJumped) != 1 {
		t.Fatalf("jump events = %d, want 1", h.count(ecs.EventJumped))
	}
}

func TestDoubleJumpOncePerFlight(t *testing.T) {
	h := newJumpHarness(component.PhaseAirborne)
	h.loc.VerticalVelocity = -2

	h.step(false, true)
	if h.loc.Phase != component.PhaseAirborneAfterDoubleJump || !h.loc.HasDoubleJumped {
		t.Fatalf("expected double jump, got phase %v", h.loc.Phase)
	}
	if h.loc.JumpTriggered {
		t.Fatalf("air jump must not fire the ground jump trigger")
	}
	if h.loc.VerticalVelocity != h.char.JumpForce {
		t.Fatalf("vy = %v, want %v", h.loc.VerticalVelocity, h.char.JumpForce)
	}

	h.loc.VerticalVelocity = 1
	h.step(false, true)
	if h.consumed != 1 {
		t.Fatalf("second air request must stay pending, consumed = %d", h.consumed)
	}
	if h.loc.VerticalVelocity != 1 {
		t.Fatalf("second air request changed vy to %v", h.loc.VerticalVelocity)
	}

	// still held on touchdown: the buffered request jumps immediately
	h.step(true, true)
	if h.loc.Phase != component.PhaseAirborne || !h.loc.JumpTriggered {
		t.Fatalf("expected buffered ground jump on landing, phase %v", h.loc.Phase)
	}
	if h.loc.HasDoubleJumped {
		t.Fatalf("landing must restore the air jump")
	}
	if h.count(ecs.EventLanded) != 1 {
		t.Fatalf("landed events = %d, want 1", h.count(ecs.EventLanded))
	}
}

func TestWalkingOffLedgeKeepsAirJump(t *testing.T) {
	h := newJumpHarness(component.PhaseGrounded)
	h.step(true, false)
	h.step(false, false)

	if h.loc.Phase != component.PhaseAirborne {
		t.Fatalf("phase = %v, want airborne", h.loc.Phase)
	}
	if h.loc.HasDoubleJumped || h.consumed != 0 {
		t.Fatalf("walking off a ledge must not spend the air jump")
	}

	h.step(false, true)
	if h.loc.Phase != component.PhaseAirborneAfterDoubleJump {
		t.Fatalf("expected air jump after ledge, phase %v", h.loc.Phase)
	}
}

func TestLandingGraceZeroesVelocityOnSecondTick(t *testing.T) {
	h := newJumpHarness(component.PhaseAirborne)
	h.loc.VerticalVelocity = -5

	h.step(true, false)
	if h.loc.Phase != component.PhaseGrounded {
		t.Fatalf("phase = %v, want grounded", h.loc.Phase)
	}
	if h.loc.FramesSinceGrounded != 1 {
		t.Fatalf("frames = %d, want 1", h.loc.FramesSinceGrounded)
	}
	if h.loc.VerticalVelocity != -5 {
		t.Fatalf("vy zeroed inside grace window: %v", h.loc.VerticalVelocity)
	}

	h.step(true, false)
	if h.loc.VerticalVelocity != 0 {
		t.Fatalf("vy = %v, want 0 after grace", h.loc.VerticalVelocity)
	}
}

func TestAirborneResetsGroundedCounter(t *testing.T) {
	h := newJumpHarness(component.PhaseGrounded)
	for i := 0; i < 5; i++ {
		h.step(true, false)
	}
	if h.loc.FramesSinceGrounded != 5 {
		t.Fatalf("frames = %d, want 5", h.loc.FramesSinceGrounded)
	}
	h.step(false, false)
	if h.loc.FramesSinceGrounded != 0 {
		t.Fatalf("frames = %d, want 0 while airborne", h.loc.FramesSinceGrounded)
	}
}
