package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a named bag of component specs keyed by component name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// LocomotionComponentSpec is the movement tuning of a character.
type LocomotionComponentSpec struct {
	WalkSpeed         float64  `yaml:"walk_speed"`
	RunSpeed          float64  `yaml:"run_speed"`
	CrouchSpeed       float64  `yaml:"crouch_speed"`
	SpeedSmoothTime   float64  `yaml:"speed_smooth_time"`
	TurnSmoothTime    float64  `yaml:"turn_smooth_time"`
	JumpForce         float64  `yaml:"jump_force"`
	Gravity           float64  `yaml:"gravity"`
	GroundCheckRadius float64  `yaml:"ground_check_radius"`
	GroundLayers      []string `yaml:"ground_layers"`
	LandingGraceTicks int      `yaml:"landing_grace_ticks"`
}

type ColliderComponentSpec struct {
	Radius     float64  `yaml:"radius"`
	Height     float64  `yaml:"height"`
	StepOffset float64  `yaml:"step_offset"`
	Layers     []string `yaml:"layers"`
}

type BehaviorComponentSpec struct {
	Graph string `yaml:"graph"`
}

// CharacterSpec is a decoded character entity.
type CharacterSpec struct {
	Name       string
	Locomotion LocomotionComponentSpec
	Transform  TransformSpec
	Collider   ColliderComponentSpec
	Behavior   BehaviorComponentSpec
}

// LoadCharacterSpec decodes a character entity build spec. The locomotion
// component is required; the rest are optional.
func LoadCharacterSpec(filename string) (*CharacterSpec, error) {
	build, err := LoadEntityBuildSpec(filename)
	if err != nil {
		return nil, err
	}
	return DecodeCharacterSpec(build)
}

func DecodeCharacterSpec(build EntityBuildSpec) (*CharacterSpec, error) {
	raw, ok := build.Components["locomotion"]
	if !ok {
		return nil, fmt.Errorf("prefabs: %s: missing locomotion component", build.Name)
	}

	spec := &CharacterSpec{Name: build.Name}
	var err error
	if spec.Locomotion, err = DecodeComponentSpec[LocomotionComponentSpec](raw); err != nil {
		return nil, fmt.Errorf("prefabs: %s: decode locomotion: %w", build.Name, err)
	}
	if spec.Transform, err = DecodeComponentSpec[TransformSpec](build.Components["transform"]); err != nil {
		return nil, fmt.Errorf("prefabs: %s: decode transform: %w", build.Name, err)
	}
	if spec.Collider, err = DecodeComponentSpec[ColliderComponentSpec](build.Components["collider"]); err != nil {
		return nil, fmt.Errorf("prefabs: %s: decode collider: %w", build.Name, err)
	}
	if spec.Behavior, err = DecodeComponentSpec[BehaviorComponentSpec](build.Components["behavior"]); err != nil {
		return nil, fmt.Errorf("prefabs: %s: decode behavior: %w", build.Name, err)
	}
	if err := spec.Locomotion.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", build.Name, err)
	}
	return spec, nil
}

// Validate rejects tuning that would make the controller misbehave.
func (s LocomotionComponentSpec) Validate() error {
	switch {
	case s.WalkSpeed < 0 || s.RunSpeed < 0 || s.CrouchSpeed < 0:
		return fmt.Errorf("speeds must be non-negative")
	case s.SpeedSmoothTime < 0 || s.TurnSmoothTime < 0:
		return fmt.Errorf("smooth times must be non-negative")
	case s.GroundCheckRadius <= 0:
		return fmt.Errorf("ground_check_radius must be positive")
	case s.LandingGraceTicks < 0:
		return fmt.Errorf("landing_grace_ticks must be non-negative")
	}
	return nil
}
