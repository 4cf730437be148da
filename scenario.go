package main

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/ecs/component"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/prefabs"
)

// Scenario replays a scripted input timeline into the intent buffer and
// camera, the way device callbacks would.
type Scenario struct {
	spec *prefabs.ScenarioSpec
	next int
}

func NewScenario(spec *prefabs.ScenarioSpec) (*Scenario, error) {
	if spec == nil {
		return &Scenario{spec: &prefabs.ScenarioSpec{}}, nil
	}
	for i, st := range spec.Steps {
		if st.Skill == "" {
			continue
		}
		if _, ok := input.ParseSkill(st.Skill); !ok {
			return nil, fmt.Errorf("scenario %s: step %d: unknown skill %q", spec.Name, i, st.Skill)
		}
	}
	return &Scenario{spec: spec}, nil
}

func (s *Scenario) Name() string { return s.spec.Name }

// Ticks is the scenario's preferred run length, zero when unset.
func (s *Scenario) Ticks() int { return s.spec.Ticks }

// Apply fires every step scheduled at or before tick that has not fired yet.
func (s *Scenario) Apply(tick int, src *input.State, cam *component.CameraRig) {
	for s.next < len(s.spec.Steps) && s.spec.Steps[s.next].Tick <= tick {
		applyStep(s.spec.Steps[s.next], src, cam)
		s.next++
	}
}

// Done reports whether every step has fired.
func (s *Scenario) Done() bool {
	return s.next >= len(s.spec.Steps)
}

func applyStep(st prefabs.ScenarioStepSpec, src *input.State, cam *component.CameraRig) {
	if st.Move != nil {
		mv := *st.Move
		if mv[0] == 0 && mv[1] == 0 {
			src.OnMoveCanceled()
		} else {
			src.OnMoveVector(mgl64.Vec2{mv[0], mv[1]})
		}
	}
	if st.Jump != nil {
		src.OnJumpEdge(*st.Jump)
	}
	if st.Run {
		src.OnRunToggle()
	}
	if st.Crouch {
		src.OnCrouchToggle()
	}
	if id, ok := input.ParseSkill(st.Skill); ok {
		src.OnSkillTrigger(id)
	}
	if cam == nil {
		return
	}
	if st.CameraYaw != nil {
		cam.Yaw = *st.CameraYaw
	}
	if st.Camera != nil {
		cam.Ready = *st.Camera
	}
}
