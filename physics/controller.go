package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	skin          = 1e-4
	maxPushPasses = 4
)

// ControllerConfig shapes a character body: an upright cylinder standing on
// its feet position.
type ControllerConfig struct {
	Radius     float64
	Height     float64
	StepOffset float64
	Mask       Layer
}

// CollisionFlags reports which sides touched geometry during the last Move.
type CollisionFlags uint8

const (
	CollidedSides CollisionFlags = 1 << iota
	CollidedBelow
	CollidedAbove
)

func (f CollisionFlags) Has(flag CollisionFlags) bool { return f&flag != 0 }

// Controller is a collision-aware mover over a World.
type Controller struct {
	world *World
	cfg   ControllerConfig
	pos   mgl64.Vec3
	flags CollisionFlags
}

// NewController places a character body at feet position pos.
func (w *World) NewController(pos mgl64.Vec3, cfg ControllerConfig) *Controller {
	if cfg.Radius <= 0 {
		cfg.Radius = 0.3
	}
	if cfg.Height < 2*cfg.Radius {
		cfg.Height = 2 * cfg.Radius
	}
	if cfg.StepOffset < 0 {
		cfg.StepOffset = 0
	}
	if cfg.Mask == 0 {
		cfg.Mask = LayerAll
	}
	return &Controller{world: w, cfg: cfg, pos: pos}
}

func (c *Controller) Position() mgl64.Vec3 { return c.pos }

// Collisions reports the contacts of the most recent Move.
func (c *Controller) Collisions() CollisionFlags { return c.flags }

// Move displaces the body, sliding along walls, stepping onto low ledges and
// stopping on floors and ceilings. It returns the displacement applied.
func (c *Controller) Move(d mgl64.Vec3) mgl64.Vec3 {
	c.flags = 0
	start := c.pos
	if c.world == nil {
		c.pos = c.pos.Add(d)
		return d
	}

	horizontal := mgl64.Vec3{d.X(), 0, d.Z()}
	if l := horizontal.Len(); l > 0 {
		steps := int(math.Ceil(l / (c.cfg.Radius * 0.5)))
		step := horizontal.Mul(1 / float64(steps))
		for i := 0; i < steps; i++ {
			c.moveHorizontal(step)
		}
	}
	if d.Y() != 0 {
		c.moveVertical(d.Y())
	}
	return c.pos.Sub(start)
}

func (c *Controller) moveHorizontal(step mgl64.Vec3) {
	target := c.pos.Add(step)
	r := c.cfg.Radius

	for pass := 0; pass < maxPushPasses; pass++ {
		pushed := false
		c.world.overlapping(target, r, c.cfg.Mask, func(o *Obstacle) {
			if !c.blocks(o, target.Y()) {
				return
			}
			dist, grad := o.footprint(target)
			if dist >= r {
				return
			}
			push := r - dist + skin
			target = mgl64.Vec3{target.X() + grad.X*push, target.Y(), target.Z() + grad.Y*push}
			pushed = true
			c.flags |= CollidedSides
		})
		if !pushed {
			break
		}
	}

	// step up onto ledges low enough to walk over
	stepTop := math.Inf(-1)
	c.world.overlapping(target, r, c.cfg.Mask, func(o *Obstacle) {
		top := o.Top()
		if top <= target.Y() || top > target.Y()+c.cfg.StepOffset || o.Bottom() > target.Y()+c.cfg.StepOffset {
			return
		}
		if dist, _ := o.footprint(target); dist < r && top > stepTop {
			stepTop = top
		}
	})
	if !math.IsInf(stepTop, -1) {
		target[1] = stepTop
		c.flags |= CollidedBelow
	}
	c.pos = target
}

// blocks reports whether o is a wall for a body whose feet are at y.
func (c *Controller) blocks(o *Obstacle, y float64) bool {
	if o.Top() <= y+c.cfg.StepOffset {
		return false
	}
	return o.Bottom() < y+c.cfg.Height
}

func (c *Controller) moveVertical(dy float64) {
	r := c.cfg.Radius
	y := c.pos.Y()
	next := y + dy

	if dy < 0 {
		floor := math.Inf(-1)
		c.world.overlapping(c.pos, r, c.cfg.Mask, func(o *Obstacle) {
			top := o.Top()
			if top > y+skin || top < next {
				return
			}
			if dist, _ := o.footprint(c.pos); dist < r && top > floor {
				floor = top
			}
		})
		if !math.IsInf(floor, -1) {
			next = floor
			c.flags |= CollidedBelow
		}
	} else {
		head := y + c.cfg.Height
		ceiling := math.Inf(1)
		c.world.overlapping(c.pos, r, c.cfg.Mask, func(o *Obstacle) {
			bottom := o.Bottom()
			if bottom < head-skin || bottom > head+dy {
				return
			}
			if dist, _ := o.footprint(c.pos); dist < r && bottom < ceiling {
				ceiling = bottom
			}
		})
		if !math.IsInf(ceiling, 1) {
			next = ceiling - c.cfg.Height
			c.flags |= CollidedAbove
		}
	}
	c.pos[1] = next
}
