package component

// FacingTarget turns an entity to look at another entity every tick.
// Target holds the raw ecs.Entity value.
type FacingTarget struct {
	Target     uint64
	Smooth     bool
	SmoothTime float64
	// Inverse faces directly away from the target.
	Inverse bool

	Yaw         float64
	YawVelocity float64
}

var FacingTargetComponent = NewComponent[FacingTarget]()
