package system

import (
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/locomotion/input"
	"github.com/milk9111/locomotion/prefabs"
)

// behaviorScriptRuntime is one entity's compiled behavior script. Scripts
// define onEnter, update and onExit taking (engine, state, current).
type behaviorScriptRuntime struct {
	graph       string
	scriptPath  string
	compiled    *tengo.Compiled
	stateData   *tengo.Map
	initialized bool
	pending     string
}

const behaviorLifecycleDispatchScript = `
if __phase == "enter" {
	onEnter(__engine, __state, __current_state)
} else if __phase == "update" {
	update(__engine, __state, __current_state)
} else if __phase == "exit" {
	onExit(__engine, __state, __current_state)
}
`

// runScript evaluates the entity's script for this tick and returns the
// state it asked to move to, if any.
func (s *BehaviorSystem) runScript(ctx *behaviorContext) (string, error) {
	rt, err := s.scriptRuntime(ctx)
	if err != nil {
		return "", err
	}

	engine := buildBehaviorScriptEngine(ctx, rt)
	if !rt.initialized {
		if err := rt.runPhase("enter", ctx.behavior.Current, engine); err != nil {
			return "", fmt.Errorf("onEnter: %w", err)
		}
		rt.initialized = true
	}

	rt.pending = ""
	if err := rt.runPhase("update", ctx.behavior.Current, engine); err != nil {
		return "", fmt.Errorf("update: %w", err)
	}
	next := rt.pending
	rt.pending = ""
	return next, nil
}

func (s *BehaviorSystem) scriptRuntime(ctx *behaviorContext) (*behaviorScriptRuntime, error) {
	path := strings.TrimSpace(ctx.graph.Script)
	if rt, ok := s.scripts[ctx.entity]; ok && rt.scriptPath == path && rt.graph == ctx.behavior.Graph {
		return rt, nil
	}

	src, err := prefabs.LoadScript(path)
	if err != nil {
		return nil, err
	}
	rt, err := compileBehaviorScript(src)
	if err != nil {
		return nil, err
	}
	rt.graph = ctx.behavior.Graph
	rt.scriptPath = path
	s.scripts[ctx.entity] = rt
	return rt, nil
}

func compileBehaviorScript(src []byte) (*behaviorScriptRuntime, error) {
	script := tengo.NewScript([]byte(string(src) + "\n" + behaviorLifecycleDispatchScript))
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__current_state", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, err
	}
	return &behaviorScriptRuntime{
		compiled:  compiled,
		stateData: &tengo.Map{Value: map[string]tengo.Object{}},
	}, nil
}

func (rt *behaviorScriptRuntime) runPhase(phase string, current string, engine *tengo.ImmutableMap) error {
	if rt == nil || rt.compiled == nil {
		return fmt.Errorf("nil script runtime")
	}
	if engine == nil {
		engine = &tengo.ImmutableMap{Value: map[string]tengo.Object{}}
	}
	if err := rt.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.stateData); err != nil {
		return err
	}
	if err := rt.compiled.Set("__current_state", current); err != nil {
		return err
	}
	return rt.compiled.Run()
}

// StateValue reads a value the script stored in its state map.
func (rt *behaviorScriptRuntime) StateValue(key string) (tengo.Object, bool) {
	if rt == nil || rt.stateData == nil {
		return nil, false
	}
	v, ok := rt.stateData.Value[key]
	return v, ok
}

func buildBehaviorScriptEngine(ctx *behaviorContext, rt *behaviorScriptRuntime) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["transition"] = &tengo.UserFunction{Name: "transition", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		name := strings.TrimSpace(objectAsString(args[0]))
		if name == "" {
			return tengo.FalseValue, nil
		}
		rt.pending = name
		return tengo.TrueValue, nil
	}}

	values["skill"] = &tengo.UserFunction{Name: "skill", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		id, ok := input.ParseSkill(objectAsString(args[0]))
		return boolObject(ok && ctx.skills.Has(id)), nil
	}}

	values["elapsed"] = &tengo.UserFunction{Name: "elapsed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctx.behavior.Elapsed}, nil
	}}

	values["duration"] = &tengo.UserFunction{Name: "duration", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: ctx.graph.States[ctx.behavior.Current].Duration}, nil
	}}

	values["finished"] = &tengo.UserFunction{Name: "finished", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ctx.finished()), nil
	}}

	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(ctx.grounded()), nil
	}}

	values["speed"] = &tengo.UserFunction{Name: "speed", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ctx.loc == nil {
			return &tengo.Float{Value: 0}, nil
		}
		return &tengo.Float{Value: ctx.loc.Speed}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func boolObject(b bool) tengo.Object {
	if b {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
