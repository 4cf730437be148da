package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

// RootMotionSystem moves characters by their animation's authored forward
// speed while the lock gate has root motion enabled. Procedural locomotion
// has already run this tick; both displacements go through the same mover.
type RootMotionSystem struct{}

func NewRootMotionSystem() *RootMotionSystem {
	return &RootMotionSystem{}
}

func (r *RootMotionSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach3(w, component.BehaviorComponent.Kind(), component.LockGateComponent.Kind(), component.LocomotionComponent.Kind(), func(e ecs.Entity, b *component.Behavior, gate *component.LockGate, loc *component.Locomotion) {
		if !gate.RootMotionEnabled() || b.RootMotionSpeed == 0 || dt <= 0 {
			return
		}
		body, ok := ecs.Get(w, e, component.BodyComponent.Kind())
		if !ok || body.Mover == nil {
			return
		}

		delta := common.YawForward(loc.Yaw).Mul(b.RootMotionSpeed * dt)
		delta[1] = 0
		applied := body.Mover.Move(delta)
		loc.Displacement = loc.Displacement.Add(mgl64.Vec3{applied.X(), 0, applied.Z()})

		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = body.Mover.Position()
		}
	})
}
