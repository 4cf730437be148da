package component

import "github.com/go-gl/mathgl/mgl64"

// JumpPhase is the discrete vertical state of a character.
type JumpPhase uint8

const (
	PhaseGrounded JumpPhase = iota
	PhaseAirborne
	PhaseAirborneAfterDoubleJump
)

func (p JumpPhase) String() string {
	switch p {
	case PhaseGrounded:
		return "grounded"
	case PhaseAirborne:
		return "airborne"
	case PhaseAirborneAfterDoubleJump:
		return "airborne_double"
	}
	return "unknown"
}

// Locomotion is the integrator state carried between ticks.
type Locomotion struct {
	Grounded            bool
	FramesSinceGrounded int
	HasDoubleJumped     bool
	Phase               JumpPhase

	// JumpTriggered is true only on the tick a ground jump starts.
	JumpTriggered bool
	// JumpImpulse marks that VerticalVelocity was set by a jump this tick.
	JumpImpulse bool

	VerticalVelocity float64

	Speed         float64
	SpeedVelocity float64

	// Yaw is the facing in degrees; 0 faces +Z.
	Yaw         float64
	YawVelocity float64

	// Heading is the last camera-relative movement direction.
	Heading mgl64.Vec3
	// InputDir is this tick's camera-relative input direction, zero without input.
	InputDir mgl64.Vec3
	// MoveMagnitude is the clamped stick deflection used this tick.
	MoveMagnitude float64

	Running   bool
	Crouching bool

	Displacement mgl64.Vec3
}

var LocomotionComponent = NewComponent[Locomotion]()
