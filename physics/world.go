// Package physics indexes static level geometry and moves characters through
// it. Boxes are extruded footprints: the XZ rectangle lives in a Chipmunk
// space for broadphase and distance queries, the Y span is kept alongside.
package physics

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

var ErrEmptyObstacle = errors.New("physics: obstacle has no volume")

// Obstacle is an axis aligned static box.
type Obstacle struct {
	Name  string
	Min   mgl64.Vec3
	Max   mgl64.Vec3
	Layer Layer

	shape *cp.Shape
}

// Top is the walkable surface height.
func (o *Obstacle) Top() float64 { return o.Max.Y() }

// Bottom is the ceiling height seen from below.
func (o *Obstacle) Bottom() float64 { return o.Min.Y() }

// verticalGap is how far y sits outside [Bottom, Top], 0 when inside.
func (o *Obstacle) verticalGap(y float64) float64 {
	switch {
	case y > o.Max.Y():
		return y - o.Max.Y()
	case y < o.Min.Y():
		return o.Min.Y() - y
	}
	return 0
}

// footprint returns the signed XZ distance from p to the obstacle and the
// outward gradient.
func (o *Obstacle) footprint(p mgl64.Vec3) (float64, cp.Vector) {
	info := o.shape.PointQuery(cp.Vector{X: p.X(), Y: p.Z()})
	return info.Distance, info.Gradient
}

// World holds the static geometry of one level.
type World struct {
	space     *cp.Space
	obstacles []*Obstacle
}

func NewWorld() *World {
	return &World{space: cp.NewSpace()}
}

// AddBox registers a static box and returns its handle.
func (w *World) AddBox(name string, min, max mgl64.Vec3, layer Layer) (*Obstacle, error) {
	lo := mgl64.Vec3{math.Min(min.X(), max.X()), math.Min(min.Y(), max.Y()), math.Min(min.Z(), max.Z())}
	hi := mgl64.Vec3{math.Max(min.X(), max.X()), math.Max(min.Y(), max.Y()), math.Max(min.Z(), max.Z())}
	if hi.X()-lo.X() <= 0 || hi.Z()-lo.Z() <= 0 {
		return nil, ErrEmptyObstacle
	}
	if layer == 0 {
		layer = LayerDefault
	}

	o := &Obstacle{Name: name, Min: lo, Max: hi, Layer: layer}
	shape := cp.NewBox2(w.space.StaticBody, cp.BB{L: lo.X(), B: lo.Z(), R: hi.X(), T: hi.Z()}, 0)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, uint(layer), cp.ALL_CATEGORIES))
	shape.UserData = o
	o.shape = w.space.AddShape(shape)

	w.obstacles = append(w.obstacles, o)
	return o, nil
}

// Remove drops an obstacle from the world.
func (w *World) Remove(o *Obstacle) {
	if o == nil || o.shape == nil {
		return
	}
	w.space.RemoveShape(o.shape)
	o.shape = nil
	for i, cur := range w.obstacles {
		if cur == o {
			w.obstacles = append(w.obstacles[:i], w.obstacles[i+1:]...)
			break
		}
	}
}

// Obstacles returns the registered boxes in insertion order.
func (w *World) Obstacles() []*Obstacle {
	return append([]*Obstacle(nil), w.obstacles...)
}

// overlapping calls fn for every obstacle in mask whose footprint box comes
// within radius of p on the XZ plane.
func (w *World) overlapping(p mgl64.Vec3, radius float64, mask Layer, fn func(o *Obstacle)) {
	bb := cp.NewBBForCircle(cp.Vector{X: p.X(), Y: p.Z()}, radius)
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))
	var hits []*Obstacle
	w.space.BBQuery(bb, filter, func(shape *cp.Shape, _ interface{}) {
		if o, ok := shape.UserData.(*Obstacle); ok {
			hits = append(hits, o)
		}
	}, nil)
	// callbacks run after the query so they may mutate the space
	for _, o := range hits {
		fn(o)
	}
}

// IsGrounded reports whether a sphere of radius at position touches any
// obstacle whose layer is in mask.
func (w *World) IsGrounded(position mgl64.Vec3, radius float64, mask Layer) bool {
	if w == nil || radius <= 0 {
		return false
	}
	grounded := false
	w.overlapping(position, radius, mask, func(o *Obstacle) {
		if grounded {
			return
		}
		dh, _ := o.footprint(position)
		dh = math.Max(0, dh)
		dv := o.verticalGap(position.Y())
		if dh*dh+dv*dv <= radius*radius {
			grounded = true
		}
	})
	return grounded
}

// Raycast casts straight down from origin and returns the first surface top
// within maxDistance.
func (w *World) Raycast(origin mgl64.Vec3, maxDistance float64, mask Layer) (float64, *Obstacle, bool) {
	best := math.Inf(-1)
	var hit *Obstacle
	w.overlapping(origin, 0, mask, func(o *Obstacle) {
		if d, _ := o.footprint(origin); d > 0 {
			return
		}
		top := o.Top()
		if top <= origin.Y() && origin.Y()-top <= maxDistance && top > best {
			best = top
			hit = o
		}
	})
	if hit == nil {
		return 0, nil, false
	}
	return best, hit, true
}
