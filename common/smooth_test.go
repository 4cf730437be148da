package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSmoothDampConverges(t *testing.T) {
	cases := []struct {
		name       string
		current    float64
		target     float64
		smoothTime float64
		dt         float64
	}{
		{"walk_start", 0, 3, 0.2, 1.0 / 60},
		{"decelerate", 6, 0, 0.2, 1.0 / 60},
		{"coarse_tick", 0, 10, 0.5, 0.1},
		{"tiny_smooth_time", 2, -2, 0, 1.0 / 30},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			value, vel := c.current, 0.0
			prevDist := math.Abs(c.target - value)
			for i := 0; i < 600; i++ {
				value, vel = SmoothDamp(value, c.target, vel, c.smoothTime, c.dt)
				dist := math.Abs(c.target - value)
				if dist > prevDist+1e-12 {
					t.Fatalf("tick %d: moved away from target (%v -> %v)", i, prevDist, dist)
				}
				if (c.target-c.current)*(value-c.target) > 1e-12 {
					t.Fatalf("tick %d: overshot target %v with %v", i, c.target, value)
				}
				prevDist = dist
			}
			if math.Abs(value-c.target) > 1e-4 {
				t.Fatalf("expected convergence to %v, got %v", c.target, value)
			}
		})
	}
}

func TestSmoothDampStableForLargeStep(t *testing.T) {
	value, vel := SmoothDamp(0, 5, 0, 0.2, 1000)
	if math.IsNaN(value) || math.IsInf(value, 0) || math.IsNaN(vel) {
		t.Fatalf("expected finite output, got %v %v", value, vel)
	}
	if math.Abs(value-5) > 1e-6 {
		t.Fatalf("expected target after huge step, got %v", value)
	}
}

func TestSmoothDampZeroStep(t *testing.T) {
	value, vel := SmoothDamp(1, 5, 2, 0.2, 0)
	if value != 1 || vel != 2 {
		t.Fatalf("zero dt must be a no-op, got %v %v", value, vel)
	}
}

func TestSmoothDampWalkStartReachesNinetyFivePercent(t *testing.T) {
	const dt = 1.0 / 60
	speed, vel := 0.0, 0.0
	ticks := 0
	for speed < 0.95*3 {
		speed, vel = SmoothDamp(speed, 3, vel, 0.2, dt)
		ticks++
		if ticks > 120 {
			t.Fatalf("speed %v did not reach 95%% of walk within 2s", speed)
		}
	}
	// a critically damped spring with smoothTime 0.2 settles in roughly 3-4 time constants
	if elapsed := float64(ticks) * dt; elapsed < 0.3 || elapsed > 1.0 {
		t.Fatalf("unexpected settle time %vs", elapsed)
	}
}

func TestDeltaAngle(t *testing.T) {
	cases := []struct {
		current, target, want float64
	}{
		{0, 90, 90},
		{170, -170, 20},
		{-170, 170, -20},
		{10, 370, 0},
		{0, 180, 180},
		{0, 270, -90},
	}
	for _, c := range cases {
		if got := DeltaAngle(c.current, c.target); !mgl64.FloatEqualThreshold(got, c.want, 1e-9) {
			t.Fatalf("DeltaAngle(%v,%v) = %v want %v", c.current, c.target, got, c.want)
		}
	}
}

func TestSmoothDampAngleTakesShortPath(t *testing.T) {
	angle, vel := 170.0, 0.0
	for i := 0; i < 600; i++ {
		angle, vel = SmoothDampAngle(angle, -170, vel, 0.2, 1.0/60)
		if angle < 170-1e-9 {
			t.Fatalf("tick %d: rotated the long way round, angle %v", i, angle)
		}
	}
	if got := NormalizeAngle(angle); math.Abs(got-190) > 1e-3 {
		t.Fatalf("expected to settle at 190 (== -170), got %v", got)
	}
}

func TestYawConventions(t *testing.T) {
	cases := []struct {
		name      string
		move      mgl64.Vec2
		cameraYaw float64
		wantYaw   float64
	}{
		{"forward_no_camera_yaw", mgl64.Vec2{0, 1}, 0, 0},
		{"right_no_camera_yaw", mgl64.Vec2{1, 0}, 0, 90},
		{"forward_camera_90", mgl64.Vec2{0, 1}, 90, 90},
		{"left_camera_90", mgl64.Vec2{-1, 0}, 90, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			dir := CameraRelative(c.move, c.cameraYaw)
			if got := YawOf(dir); math.Abs(DeltaAngle(got, c.wantYaw)) > 1e-9 {
				t.Fatalf("expected yaw %v, got %v", c.wantYaw, got)
			}
			fwd := YawForward(c.wantYaw)
			if !fwd.ApproxEqualThreshold(dir.Normalize(), 1e-9) {
				t.Fatalf("YawForward(%v) = %v, want %v", c.wantYaw, fwd, dir.Normalize())
			}
		})
	}
}
