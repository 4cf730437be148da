package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
)

// characterFromSpec builds locomotion tuning, filling unset values from the
// stock tuning.
func characterFromSpec(spec prefabs.LocomotionComponentSpec) (component.Character, error) {
	c := component.DefaultCharacter()
	setIf := func(dst *float64, v float64) {
		if v != 0 {
			*dst = v
		}
	}
	setIf(&c.WalkSpeed, spec.WalkSpeed)
	setIf(&c.RunSpeed, spec.RunSpeed)
	setIf(&c.CrouchSpeed, spec.CrouchSpeed)
	setIf(&c.SpeedSmoothTime, spec.SpeedSmoothTime)
	setIf(&c.TurnSmoothTime, spec.TurnSmoothTime)
	setIf(&c.JumpForce, spec.JumpForce)
	setIf(&c.Gravity, spec.Gravity)
	setIf(&c.GroundCheckRadius, spec.GroundCheckRadius)
	if spec.LandingGraceTicks > 0 {
		c.LandingGraceTicks = spec.LandingGraceTicks
	}
	mask, err := physics.ParseMask(spec.GroundLayers)
	if err != nil {
		return c, err
	}
	c.GroundMask = mask
	return c, nil
}

func controllerFromSpec(spec prefabs.ColliderComponentSpec) (physics.ControllerConfig, error) {
	mask, err := physics.ParseMask(spec.Layers)
	if err != nil {
		return physics.ControllerConfig{}, err
	}
	return physics.ControllerConfig{
		Radius:     spec.Radius,
		Height:     spec.Height,
		StepOffset: spec.StepOffset,
		Mask:       mask,
	}, nil
}

type playerHandles struct {
	entity     ecs.Entity
	controller *physics.Controller
}

func (g *Game) spawnPlayer(spec *prefabs.CharacterSpec, origin mgl64.Vec3) (playerHandles, error) {
	char, err := characterFromSpec(spec.Locomotion)
	if err != nil {
		return playerHandles{}, fmt.Errorf("character %s: %w", spec.Name, err)
	}
	ctrlCfg, err := controllerFromSpec(spec.Collider)
	if err != nil {
		return playerHandles{}, fmt.Errorf("character %s: %w", spec.Name, err)
	}

	pos := origin.Add(mgl64.Vec3{spec.Transform.X, spec.Transform.Y, spec.Transform.Z})
	ctrl := g.physics.NewController(pos, ctrlCfg)

	w := g.world
	e := ecs.CreateEntity(w)
	adds := []error{
		ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{}),
		ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}),
		ecs.Add(w, e, component.CharacterComponent.Kind(), &char),
		ecs.Add(w, e, component.LocomotionComponent.Kind(), &component.Locomotion{Yaw: spec.Transform.Yaw}),
		ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{Source: g.input}),
		ecs.Add(w, e, component.BodyComponent.Kind(), &component.Body{Mover: ctrl}),
		ecs.Add(w, e, component.AnimationParamsComponent.Kind(), &component.AnimationParams{}),
		ecs.Add(w, e, component.LockGateComponent.Kind(), component.NewLockGate()),
	}
	if spec.Behavior.Graph != "" {
		if err := g.loadGraph(spec.Behavior.Graph); err != nil {
			return playerHandles{}, err
		}
		adds = append(adds, ecs.Add(w, e, component.BehaviorComponent.Kind(), &component.Behavior{Graph: spec.Behavior.Graph}))
	}
	for _, err := range adds {
		if err != nil {
			return playerHandles{}, err
		}
	}
	return playerHandles{entity: e, controller: ctrl}, nil
}

func (g *Game) spawnCamera(yaw float64) (ecs.Entity, error) {
	e := ecs.CreateEntity(g.world)
	if err := ecs.Add(g.world, e, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, err
	}
	if err := ecs.Add(g.world, e, component.CameraRigComponent.Kind(), &component.CameraRig{Yaw: yaw, Ready: true}); err != nil {
		return 0, err
	}
	return e, nil
}

func (g *Game) spawnWatcher(spec prefabs.WatcherEntitySpec, target ecs.Entity) (ecs.Entity, error) {
	e := ecs.CreateEntity(g.world)
	pos := mgl64.Vec3{spec.Transform.X, spec.Transform.Y, spec.Transform.Z}
	if err := ecs.Add(g.world, e, component.TransformComponent.Kind(), &component.Transform{Position: pos}); err != nil {
		return 0, err
	}
	face := &component.FacingTarget{
		Target:     uint64(target),
		Smooth:     spec.Smooth,
		SmoothTime: spec.SmoothTime,
		Inverse:    spec.Inverse,
		Yaw:        spec.Transform.Yaw,
	}
	if err := ecs.Add(g.world, e, component.FacingTargetComponent.Kind(), face); err != nil {
		return 0, err
	}
	return e, nil
}
