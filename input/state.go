// Package input owns the player's intent between device callbacks and the
// simulation tick. Device layers push events from any goroutine; the tick
// drains one immutable Snapshot per step.
package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// State is the long-lived intent buffer for one player.
type State struct {
	mu sync.Mutex

	move mgl64.Vec2
	look mgl64.Vec2

	jumpHeld    bool
	jumpPending bool

	run    bool
	crouch bool

	skills SkillSet

	secondaryActive bool
	primary         mgl64.Vec2
	secondary       mgl64.Vec2
}

// NewState returns an empty intent buffer.
func NewState() *State {
	return &State{}
}

func (s *State) OnMoveVector(v mgl64.Vec2) {
	s.mu.Lock()
	s.move = mgl64.Vec2{clampAxis(v[0]), clampAxis(v[1])}
	s.mu.Unlock()
}

func (s *State) OnMoveCanceled() {
	s.mu.Lock()
	s.move = mgl64.Vec2{}
	s.mu.Unlock()
}

func (s *State) OnLookVector(v mgl64.Vec2) {
	s.mu.Lock()
	s.look = v
	s.mu.Unlock()
}

// OnJumpEdge records a press (active) or release of the jump button. A press
// stays pending until consumed or until a drain has seen it after release.
func (s *State) OnJumpEdge(active bool) {
	s.mu.Lock()
	s.jumpHeld = active
	if active {
		s.jumpPending = true
	}
	s.mu.Unlock()
}

func (s *State) OnRunToggle() {
	s.mu.Lock()
	s.run = !s.run
	s.mu.Unlock()
}

func (s *State) OnCrouchToggle() {
	s.mu.Lock()
	s.crouch = !s.crouch
	s.mu.Unlock()
}

// OnSkillTrigger marks a discrete action for the next drain only.
func (s *State) OnSkillTrigger(id SkillID) {
	if !id.Valid() {
		return
	}
	s.mu.Lock()
	s.skills = s.skills.With(id)
	s.mu.Unlock()
}

func (s *State) OnSecondaryPointer(active bool, pos mgl64.Vec2) {
	s.mu.Lock()
	s.secondaryActive = active
	s.secondary = pos
	s.mu.Unlock()
}

func (s *State) OnPrimaryPointer(pos mgl64.Vec2) {
	s.mu.Lock()
	s.primary = pos
	s.mu.Unlock()
}

// Drain returns the intent for this tick and clears one-tick edges.
func (s *State) Drain() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Move:                   s.move,
		Look:                   s.look,
		JumpRequested:          s.jumpPending,
		JumpHeld:               s.jumpHeld,
		RunToggled:             s.run,
		CrouchToggled:          s.crouch,
		Skills:                 s.skills,
		SecondaryPointerActive: s.secondaryActive,
		PrimaryPointer:         s.primary,
		SecondaryPointer:       s.secondary,
	}

	if !s.jumpHeld {
		s.jumpPending = false
	}
	s.skills = 0
	return snap
}

// ConsumeJump clears a pending jump once the core has acted on it.
func (s *State) ConsumeJump() {
	s.mu.Lock()
	s.jumpPending = false
	s.mu.Unlock()
}

// CancelRun clears the run toggle.
func (s *State) CancelRun() {
	s.mu.Lock()
	s.run = false
	s.mu.Unlock()
}

// CancelCrouch clears the crouch toggle.
func (s *State) CancelCrouch() {
	s.mu.Lock()
	s.crouch = false
	s.mu.Unlock()
}

func clampAxis(v float64) float64 {
	return mgl64.Clamp(v, -1, 1)
}
