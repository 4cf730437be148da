package system

import (
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/ecs"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
)

// AnimationSystem publishes the animation driver values derived from the
// locomotion state. It never writes locomotion state.
type AnimationSystem struct{}

func NewAnimationSystem() *AnimationSystem {
	return &AnimationSystem{}
}

var skillParams = [...]struct {
	skill input.SkillID
	param component.ParamID
}{
	{input.Skill1, component.ParamSkill1},
	{input.Skill2, component.ParamSkill2},
	{input.Attack1, component.ParamAttack1},
	{input.Attack2, component.ParamAttack2},
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach2(w, component.AnimationParamsComponent.Kind(), component.LocomotionComponent.Kind(), func(e ecs.Entity, params *component.AnimationParams, loc *component.Locomotion) {
		var snap input.Snapshot
		if in, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			snap = in.Snapshot
		}
		rootMotion := false
		if gate, ok := ecs.Get(w, e, component.LockGateComponent.Kind()); ok {
			rootMotion = gate.RootMotionEnabled()
		}
		publish(params, loc, snap, rootMotion)
		params.SetTick(w.Tick())
	})
}

func publish(params *component.AnimationParams, loc *component.Locomotion, snap input.Snapshot, rootMotion bool) {
	params.SetFloat(component.ParamSpeed, loc.Speed)
	params.SetFloat(component.ParamVerticalSpeed, loc.VerticalVelocity)
	params.SetFloat(component.ParamMoveMagnitude, loc.MoveMagnitude)
	params.SetFloat(component.ParamMoveX, snap.Move.X())
	params.SetFloat(component.ParamMoveY, snap.Move.Y())
	params.SetBool(component.ParamIsRunning, loc.Running)
	params.SetBool(component.ParamIsCrouching, loc.Crouching)
	params.SetBool(component.ParamIsGrounded, loc.Grounded)
	params.SetBool(component.ParamDoubleJumped, loc.HasDoubleJumped)
	params.SetBool(component.ParamJumpTrigger, loc.JumpTriggered)

	dot := 0.0
	if loc.InputDir.LenSqr() > 0 {
		dot = common.YawForward(loc.Yaw).Dot(loc.InputDir)
	}
	params.SetFloat(component.ParamMoveInputDot, dot)

	for _, sp := range skillParams {
		params.SetBool(sp.param, snap.Skills.Has(sp.skill))
	}
	params.SetBool(component.ParamRootMotion, rootMotion)
}
