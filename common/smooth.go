package common

import "math"

const minSmoothTime = 1e-4

// SmoothDamp moves current toward target with a critically damped spring and
// returns the new value and velocity. It never overshoots target and stays
// stable for any dt. A non-positive dt leaves both values unchanged.
func SmoothDamp(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	if dt <= 0 {
		return current, velocity
	}
	smoothTime = math.Max(minSmoothTime, smoothTime)

	omega := 2 / smoothTime
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	if (target-current > 0) == (out > target) {
		out = target
		velocity = 0
	}
	return out, velocity
}

// SmoothDampAngle is SmoothDamp over degrees, taking the short way around.
// The returned angle is continuous with current, not wrapped.
func SmoothDampAngle(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	target = current + DeltaAngle(current, target)
	return SmoothDamp(current, target, velocity, smoothTime, dt)
}
