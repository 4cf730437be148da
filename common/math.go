package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// InputEpsilon is the stick deflection below which input counts as released.
const InputEpsilon = 1e-3

// Repeat wraps t into [0, length).
func Repeat(t, length float64) float64 {
	return mgl64.Clamp(t-math.Floor(t/length)*length, 0, length)
}

// DeltaAngle is the shortest signed difference from current to target in
// degrees, in (-180, 180].
func DeltaAngle(current, target float64) float64 {
	delta := Repeat(target-current, 360)
	if delta > 180 {
		delta -= 360
	}
	return delta
}

// NormalizeAngle wraps degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := Repeat(deg, 360)
	if a >= 360 {
		return 0
	}
	return a
}

// YawForward is the unit XZ direction a yaw in degrees faces. Yaw 0 faces +Z
// and yaw 90 faces +X.
func YawForward(yaw float64) mgl64.Vec3 {
	r := mgl64.DegToRad(yaw)
	return mgl64.Vec3{math.Sin(r), 0, math.Cos(r)}
}

// YawOf is the yaw in degrees of an XZ direction.
func YawOf(dir mgl64.Vec3) float64 {
	return mgl64.RadToDeg(math.Atan2(dir.X(), dir.Z()))
}

// CameraRelative rotates a stick vector (x right, y forward) around the
// up axis by the camera yaw in degrees. The result is not normalized.
func CameraRelative(move mgl64.Vec2, cameraYaw float64) mgl64.Vec3 {
	return mgl64.Rotate3DY(mgl64.DegToRad(cameraYaw)).Mul3x1(mgl64.Vec3{move.X(), 0, move.Y()})
}
