package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/locomotion/physics"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrNoObstacles = errors.New("levels: level has no obstacles")

// Level is a static arena of axis-aligned boxes.
type Level struct {
	Name      string         `json:"name"`
	Spawn     Point          `json:"spawn"`
	Obstacles []ObstacleSpec `json:"obstacles"`
}

type Point struct {
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Z   float64 `json:"z"`
	Yaw float64 `json:"yaw,omitempty"`
}

func (p Point) Vec3() mgl64.Vec3 {
	return mgl64.Vec3{p.X, p.Y, p.Z}
}

// ObstacleSpec is one box given by opposite corners. Layer defaults to
// ground.
type ObstacleSpec struct {
	Name  string     `json:"name"`
	Min   [3]float64 `json:"min"`
	Max   [3]float64 `json:"max"`
	Layer string     `json:"layer,omitempty"`
}

// LoadLevelFromFS reads a level from the embedded set.
func LoadLevelFromFS(name string) (*Level, error) {
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return parse(data)
}

// LoadLevel reads a level from disk when path exists and falls back to the
// embedded copy of its base name.
func LoadLevel(path string) (*Level, error) {
	if data, err := os.ReadFile(path); err == nil {
		return parse(data)
	}
	return LoadLevelFromFS(filepath.Base(path))
}

func parse(data []byte) (*Level, error) {
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if len(lvl.Obstacles) == 0 {
		return nil, ErrNoObstacles
	}
	return &lvl, nil
}

// Build adds every obstacle of the level to the collision world.
func (l *Level) Build(w *physics.World) ([]*physics.Obstacle, error) {
	out := make([]*physics.Obstacle, 0, len(l.Obstacles))
	for i, spec := range l.Obstacles {
		layer := physics.LayerGround
		if spec.Layer != "" {
			parsed, err := physics.ParseLayer(spec.Layer)
			if err != nil {
				return nil, fmt.Errorf("level %s obstacle %d: %w", l.Name, i, err)
			}
			layer = parsed
		}
		name := spec.Name
		if name == "" {
			name = fmt.Sprintf("obstacle_%d", i)
		}
		o, err := w.AddBox(name, mgl64.Vec3(spec.Min), mgl64.Vec3(spec.Max), layer)
		if err != nil {
			return nil, fmt.Errorf("level %s obstacle %q: %w", l.Name, name, err)
		}
		out = append(out, o)
	}
	return out, nil
}
