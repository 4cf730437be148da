package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the feet position of an entity in world space.
type Transform struct {
	Position mgl64.Vec3
}

var TransformComponent = NewComponent[Transform]()
