package prefabs

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	ErrUnknownState   = errors.New("prefabs: unknown behavior state")
	ErrNoInitialState = errors.New("prefabs: behavior graph has no initial state")
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

type TransformSpec struct {
	X   float64 `yaml:"x"`
	Y   float64 `yaml:"y"`
	Z   float64 `yaml:"z"`
	Yaw float64 `yaml:"yaw"`
}

// LockSpec is a lock configuration as authored. Gravity defaults to on.
type LockSpec struct {
	MovementLocked bool  `yaml:"movement_locked"`
	RotationLocked bool  `yaml:"rotation_locked"`
	GravityEnabled *bool `yaml:"gravity_enabled"`
	RootMotion     *bool `yaml:"root_motion"`
}

// Gravity resolves the authored gravity flag.
func (l LockSpec) Gravity() bool {
	return l.GravityEnabled == nil || *l.GravityEnabled
}

// RootMotionOr resolves the authored root motion flag.
func (l LockSpec) RootMotionOr(def bool) bool {
	if l.RootMotion == nil {
		return def
	}
	return *l.RootMotion
}

type BehaviorStateSpec struct {
	Enter           LockSpec `yaml:"enter"`
	Exit            LockSpec `yaml:"exit"`
	Duration        float64  `yaml:"duration"`
	RootMotionSpeed float64  `yaml:"root_motion_speed"`
}

type BehaviorTransitionSpec struct {
	To string `yaml:"to"`
	On string `yaml:"on"`
}

// BehaviorGraphSpec is an ability/animation state graph. Every transition
// into or out of a state applies that state's lock configuration.
type BehaviorGraphSpec struct {
	Name        string                              `yaml:"name"`
	Initial     string                              `yaml:"initial"`
	Script      string                              `yaml:"script"`
	States      map[string]BehaviorStateSpec        `yaml:"states"`
	Transitions map[string][]BehaviorTransitionSpec `yaml:"transitions"`
}

func LoadBehaviorGraphSpec(filename string) (*BehaviorGraphSpec, error) {
	spec, err := LoadSpec[BehaviorGraphSpec](filename)
	if err != nil {
		return nil, err
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return &spec, nil
}

// Validate checks that every referenced state exists.
func (g *BehaviorGraphSpec) Validate() error {
	if strings.TrimSpace(g.Initial) == "" {
		return ErrNoInitialState
	}
	if _, ok := g.States[g.Initial]; !ok {
		return fmt.Errorf("%w: initial %q", ErrUnknownState, g.Initial)
	}
	for _, from := range g.sortedTransitionSources() {
		if _, ok := g.States[from]; !ok && from != AnyState {
			return fmt.Errorf("%w: transition source %q", ErrUnknownState, from)
		}
		for _, tr := range g.Transitions[from] {
			if _, ok := g.States[tr.To]; !ok {
				return fmt.Errorf("%w: %q -> %q", ErrUnknownState, from, tr.To)
			}
			if strings.TrimSpace(tr.On) == "" {
				return fmt.Errorf("prefabs: transition %q -> %q has no trigger", from, tr.To)
			}
		}
	}
	return nil
}

// AnyState is the transition source that applies from every state.
const AnyState = "any"

func (g *BehaviorGraphSpec) sortedTransitionSources() []string {
	out := make([]string, 0, len(g.Transitions))
	for from := range g.Transitions {
		out = append(out, from)
	}
	sort.Strings(out)
	return out
}

// ScenarioSpec is a scripted input timeline for the headless runner.
type ScenarioSpec struct {
	Name      string              `yaml:"name"`
	Level     string              `yaml:"level"`
	Ticks     int                 `yaml:"ticks"`
	CameraYaw float64             `yaml:"camera_yaw"`
	Steps     []ScenarioStepSpec  `yaml:"steps"`
	Watchers  []WatcherEntitySpec `yaml:"watchers"`
}

// ScenarioStepSpec applies input events at a tick. Unset fields are left
// alone.
type ScenarioStepSpec struct {
	Tick      int        `yaml:"tick"`
	Move      *[]float64 `yaml:"move"`
	Jump      *bool      `yaml:"jump"`
	Run       bool       `yaml:"run"`
	Crouch    bool       `yaml:"crouch"`
	Skill     string     `yaml:"skill"`
	CameraYaw *float64   `yaml:"camera_yaw"`
	Camera    *bool      `yaml:"camera_ready"`
}

// WatcherEntitySpec places an entity that keeps facing the player.
type WatcherEntitySpec struct {
	Name       string        `yaml:"name"`
	Transform  TransformSpec `yaml:"transform"`
	Smooth     bool          `yaml:"smooth"`
	SmoothTime float64       `yaml:"smooth_time"`
	Inverse    bool          `yaml:"inverse"`
}

func LoadScenarioSpec(filename string) (*ScenarioSpec, error) {
	spec, err := LoadSpec[ScenarioSpec](filename)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(spec.Steps, func(i, j int) bool { return spec.Steps[i].Tick < spec.Steps[j].Tick })
	for i, st := range spec.Steps {
		if st.Move != nil && len(*st.Move) != 2 {
			return nil, fmt.Errorf("prefabs: %s: step %d: move needs 2 components", filename, i)
		}
	}
	return &spec, nil
}
