package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/physics"
)

func TestLocomotionAgainstCollisionWorld(t *testing.T) {
	pw := physics.NewWorld()
	if _, err := pw.AddBox("floor", mgl64.Vec3{-20, -1, -20}, mgl64.Vec3{20, 0, 20}, physics.LayerGround); err != nil {
		t.Fatal(err)
	}
	if _, err := pw.AddBox("wall", mgl64.Vec3{-5, 0, 3}, mgl64.Vec3{5, 3, 4}, physics.LayerProps); err != nil {
		t.Fatal(err)
	}

	w := ecs.NewWorld()
	cam := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, cam, component.CameraRigComponent.Kind(), &component.CameraRig{Ready: true}))

	src := input.NewState()
	ctrl := pw.NewController(mgl64.Vec3{}, physics.ControllerConfig{Radius: 0.3, Height: 1.8, StepOffset: 0.3})
	char := component.DefaultCharacter()
	char.GroundMask = physics.LayerGround | physics.LayerProps

	e := ecs.CreateEntity(w)
	mustAdd(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))
	mustAdd(t, ecs.Add(w, e, component.CharacterComponent.Kind(), &char))
	mustAdd(t, ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{}))
	mustAdd(t, ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Source: src}))
	mustAdd(t, ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Mover: ctrl}))

	sched := ecs.NewScheduler(NewInputSystem(), NewLocomotionSystem(pw))
	src.OnMoveVector(mgl64.Vec2{0, 1})
	for i := 0; i < 180; i++ {
		sched.Step(w, testDT)
		loc, _ := ecs.Get(w, e, component.LocomotionComponent.Kind())
		if !loc.Grounded {
			t.Fatalf("tick %d: lost ground at %v", i, ctrl.Position())
		}
	}

	p := ctrl.Position()
	if p.Y() != 0 {
		t.Fatalf("sank or floated to y=%v", p.Y())
	}
	if p.Z() > 2.7+1e-3 || p.Z() < 2.6 {
		t.Fatalf("expected to rest against the wall, z=%v", p.Z())
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Position != p {
		t.Fatalf("transform %v not synced with controller %v", tr.Position, p)
	}
}
