package component

import "github.com/milk9111/locomotion/physics"

// Character is the locomotion tuning of one avatar. Speeds are in m/s,
// times in seconds, gravity in m/s^2 (negative is down).
type Character struct {
	WalkSpeed       float64
	RunSpeed        float64
	CrouchSpeed     float64
	SpeedSmoothTime float64
	TurnSmoothTime  float64

	JumpForce float64
	Gravity   float64

	GroundCheckRadius float64
	GroundMask        physics.Layer
	// LandingGraceTicks is how many grounded ticks pass before vertical
	// velocity is zeroed.
	LandingGraceTicks int
}

// DefaultCharacter mirrors the stock third-person tuning.
func DefaultCharacter() Character {
	return Character{
		WalkSpeed:         3,
		RunSpeed:          6,
		CrouchSpeed:       1.5,
		SpeedSmoothTime:   0.2,
		TurnSmoothTime:    0.2,
		JumpForce:         8,
		Gravity:           -9.81,
		GroundCheckRadius: 0.1,
		GroundMask:        physics.LayerAll,
		LandingGraceTicks: 1,
	}
}

var CharacterComponent = NewComponent[Character]()
