package component

// ParamID names an animation driver value.
type ParamID uint8

const (
	ParamSpeed ParamID = iota
	ParamVerticalSpeed
	ParamMoveMagnitude
	ParamMoveX
	ParamMoveY
	ParamIsRunning
	ParamIsCrouching
	ParamIsGrounded
	ParamDoubleJumped
	ParamJumpTrigger
	ParamMoveInputDot
	ParamSkill1
	ParamSkill2
	ParamAttack1
	ParamAttack2
	ParamRootMotion
	paramCount
)

var paramNames = [paramCount]string{
	ParamSpeed:         "Speed",
	ParamVerticalSpeed: "VerticalSpeed",
	ParamMoveMagnitude: "MoveMagnitude",
	ParamMoveX:         "MoveX",
	ParamMoveY:         "MoveY",
	ParamIsRunning:     "IsRunning",
	ParamIsCrouching:   "IsCrouching",
	ParamIsGrounded:    "IsGrounded",
	ParamDoubleJumped:  "DoubleJumped",
	ParamJumpTrigger:   "Jump",
	ParamMoveInputDot:  "MoveInputDot",
	ParamSkill1:        "Skill1",
	ParamSkill2:        "Skill2",
	ParamAttack1:       "Attack1",
	ParamAttack2:       "Attack2",
	ParamRootMotion:    "RootMotion",
}

func (id ParamID) String() string {
	if id >= paramCount {
		return "Unknown"
	}
	return paramNames[id]
}

// AllParams lists every parameter in publication order.
func AllParams() []ParamID {
	out := make([]ParamID, paramCount)
	for i := range out {
		out[i] = ParamID(i)
	}
	return out
}

// AnimationParams is the per-tick projection consumed by an animation layer.
// Booleans and triggers are stored as 0 or 1.
type AnimationParams struct {
	values [paramCount]float64
	tick   uint64
}

func (p *AnimationParams) Float(id ParamID) float64 {
	if id >= paramCount {
		return 0
	}
	return p.values[id]
}

func (p *AnimationParams) Bool(id ParamID) bool {
	return p.Float(id) != 0
}

func (p *AnimationParams) SetFloat(id ParamID, v float64) {
	if id < paramCount {
		p.values[id] = v
	}
}

func (p *AnimationParams) SetBool(id ParamID, v bool) {
	if v {
		p.SetFloat(id, 1)
		return
	}
	p.SetFloat(id, 0)
}

// Tick is the world tick the values were published on.
func (p *AnimationParams) Tick() uint64 { return p.tick }

func (p *AnimationParams) SetTick(t uint64) { p.tick = t }

// Fields renders the values by name for logging.
func (p *AnimationParams) Fields() map[string]any {
	out := make(map[string]any, paramCount)
	for i, v := range p.values {
		out[paramNames[i]] = v
	}
	return out
}

var AnimationParamsComponent = NewComponent[AnimationParams]()
