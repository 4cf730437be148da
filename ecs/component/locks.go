package component

// LockConfiguration is the full set of gates a behavior state imposes on
// locomotion. It is applied as one value so root motion never flips
// independently of the other three.
type LockConfiguration struct {
	MovementLocked    bool
	RotationLocked    bool
	GravityEnabled    bool
	RootMotionEnabled bool
}

// Unlocked is the configuration of free procedural movement.
var Unlocked = LockConfiguration{GravityEnabled: true}

// LockGate holds the configuration currently in force for an entity. Only
// behavior transitions write it; locomotion only reads it.
type LockGate struct {
	current LockConfiguration
	version uint64
}

// NewLockGate starts in the unlocked configuration.
func NewLockGate() *LockGate {
	return &LockGate{current: Unlocked}
}

// Apply replaces every flag at once.
func (g *LockGate) Apply(cfg LockConfiguration) {
	g.current = cfg
	g.version++
}

func (g *LockGate) Config() LockConfiguration { return g.current }

// Version increments on every Apply, including no-op writes.
func (g *LockGate) Version() uint64 { return g.version }

func (g *LockGate) MovementLocked() bool    { return g.current.MovementLocked }
func (g *LockGate) RotationLocked() bool    { return g.current.RotationLocked }
func (g *LockGate) GravityEnabled() bool    { return g.current.GravityEnabled }
func (g *LockGate) RootMotionEnabled() bool { return g.current.RootMotionEnabled }

var LockGateComponent = NewComponent[LockGate]()
