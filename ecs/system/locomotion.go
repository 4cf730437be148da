package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/physics"
)

// GroundSensor answers whether a sphere at the feet touches walkable
// geometry.
type GroundSensor interface {
	IsGrounded(position mgl64.Vec3, radius float64, mask physics.Layer) bool
}

// LocomotionSystem turns input into grounded movement, jumps and facing for
// every character.
type LocomotionSystem struct {
	sensor GroundSensor
}

func NewLocomotionSystem(sensor GroundSensor) *LocomotionSystem {
	return &LocomotionSystem{sensor: sensor}
}

func (s *LocomotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	var cam *component.CameraRig
	if camEnt, ok := ecs.First(w, component.CameraRigComponent.Kind()); ok {
		cam, _ = ecs.Get(w, camEnt, component.CameraRigComponent.Kind())
	}

	dt := w.DeltaTime()
	ecs.ForEach3(w, component.LocomotionComponent.Kind(), component.CharacterComponent.Kind(), component.InputComponent.Kind(), func(e ecs.Entity, loc *component.Locomotion, char *component.Character, in *component.Input) {
		locks := component.Unlocked
		if gate, ok := ecs.Get(w, e, component.LockGateComponent.Kind()); ok {
			locks = gate.Config()
		}

		var mover component.Mover
		if body, ok := ecs.Get(w, e, component.BodyComponent.Kind()); ok {
			mover = body.Mover
		}
		transform, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		s.step(w, e, stepInput{
			dt:        dt,
			loc:       loc,
			char:      char,
			in:        in,
			locks:     locks,
			cam:       cam,
			mover:     mover,
			transform: transform,
		})
	})
}

type stepInput struct {
	dt        float64
	loc       *component.Locomotion
	char      *component.Character
	in        *component.Input
	locks     component.LockConfiguration
	cam       *component.CameraRig
	mover     component.Mover
	transform *component.Transform
}

func (s *LocomotionSystem) step(w *ecs.World, e ecs.Entity, p stepInput) {
	loc, char, snap := p.loc, p.char, p.in.Snapshot

	var pos mgl64.Vec3
	switch {
	case p.mover != nil:
		pos = p.mover.Position()
	case p.transform != nil:
		pos = p.transform.Position
	}

	grounded := false
	if s.sensor != nil {
		grounded = s.sensor.IsGrounded(pos, char.GroundCheckRadius, char.GroundMask)
	}

	jctx := jumpContext{
		Entity:    e,
		Loc:       loc,
		Character: char,
		Grounded:  grounded,
		Requested: snap.JumpRequested,
		Emit:      w.Events().Push,
	}
	if p.in.Source != nil {
		jctx.ConsumeJump = p.in.Source.ConsumeJump
	}
	stepJump(&jctx)

	magnitude := snap.MoveMagnitude()
	hasInput := magnitude > common.InputEpsilon
	if !hasInput {
		magnitude = 0
	}
	loc.MoveMagnitude = magnitude
	loc.InputDir = mgl64.Vec3{}
	if loc.Heading.LenSqr() == 0 {
		loc.Heading = common.YawForward(loc.Yaw)
	}

	if hasInput {
		if p.cam != nil && p.cam.Ready {
			dir := common.CameraRelative(snap.Move, p.cam.Yaw).Normalize()
			loc.InputDir = dir
			loc.Heading = dir
			if !p.locks.RotationLocked {
				loc.Yaw, loc.YawVelocity = common.SmoothDampAngle(loc.Yaw, common.YawOf(dir), loc.YawVelocity, char.TurnSmoothTime, p.dt)
			}
		} else {
			loc.Heading = common.YawForward(loc.Yaw)
		}
	}

	running := snap.RunToggled && hasInput
	crouching := snap.CrouchToggled && !running
	if p.in.Source != nil {
		if !hasInput && snap.RunToggled {
			p.in.Source.CancelRun()
		}
		if running && snap.CrouchToggled {
			p.in.Source.CancelCrouch()
		}
	}
	loc.Running = running
	loc.Crouching = crouching

	target := char.WalkSpeed
	switch {
	case running:
		target = char.RunSpeed
	case crouching && loc.Grounded:
		target = char.CrouchSpeed
	}
	target *= magnitude
	loc.Speed, loc.SpeedVelocity = common.SmoothDamp(loc.Speed, target, loc.SpeedVelocity, char.SpeedSmoothTime, p.dt)

	horizontal := loc.Heading.Mul(loc.Speed * p.dt)
	if p.locks.MovementLocked {
		horizontal = mgl64.Vec3{}
	}

	settled := loc.Grounded && loc.FramesSinceGrounded > char.LandingGraceTicks
	if p.locks.GravityEnabled && !loc.JumpImpulse && !settled {
		loc.VerticalVelocity += char.Gravity * p.dt
	}
	vertical := mgl64.Vec3{0, loc.VerticalVelocity * p.dt, 0}

	if p.mover == nil {
		loc.Displacement = mgl64.Vec3{}
		return
	}
	applied := p.mover.Move(horizontal)
	applied = applied.Add(p.mover.Move(vertical))
	loc.Displacement = applied
	if p.transform != nil {
		p.transform.Position = p.mover.Position()
	}
}
