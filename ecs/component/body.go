package component

import "github.com/go-gl/mathgl/mgl64"

// Mover applies a displacement against world geometry and returns what was
// actually applied.
type Mover interface {
	Move(displacement mgl64.Vec3) mgl64.Vec3
	Position() mgl64.Vec3
}

type Body struct {
	Mover Mover
}

var BodyComponent = NewComponent[Body]()
