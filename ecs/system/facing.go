package system

import (
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
)

const defaultFacingSmoothTime = 0.15

// FacingSystem keeps watcher entities oriented toward their target.
type FacingSystem struct{}

func NewFacingSystem() *FacingSystem {
	return &FacingSystem{}
}

func (f *FacingSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	dt := w.DeltaTime()
	ecs.ForEach2(w, component.FacingTargetComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, face *component.FacingTarget, t *component.Transform) {
		target := ecs.Entity(face.Target)
		if !target.Valid() || !ecs.IsAlive(w, target) {
			return
		}
		tt, ok := ecs.Get(w, target, component.TransformComponent.Kind())
		if !ok {
			return
		}

		dir := tt.Position.Sub(t.Position)
		dir[1] = 0
		if dir.LenSqr() == 0 {
			return
		}
		want := common.YawOf(dir)
		if face.Inverse {
			want += 180
		}

		if !face.Smooth {
			face.Yaw = common.NormalizeAngle(want)
			face.YawVelocity = 0
			return
		}
		smoothTime := face.SmoothTime
		if smoothTime <= 0 {
			smoothTime = defaultFacingSmoothTime
		}
		face.Yaw, face.YawVelocity = common.SmoothDampAngle(face.Yaw, want, face.YawVelocity, smoothTime, dt)
	})
}
