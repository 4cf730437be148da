package physics

import (
	"fmt"
	"strings"
)

// Layer is a collision category bit.
type Layer uint

const (
	LayerDefault Layer = 1 << iota
	LayerGround
	LayerProps
	LayerWater
	LayerCharacter
)

// LayerAll matches every category.
const LayerAll = ^Layer(0)

var layerNames = map[string]Layer{
	"default":   LayerDefault,
	"ground":    LayerGround,
	"props":     LayerProps,
	"water":     LayerWater,
	"character": LayerCharacter,
	"all":       LayerAll,
}

// ParseLayer resolves a layer name.
func ParseLayer(name string) (Layer, error) {
	l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("physics: unknown layer %q", name)
	}
	return l, nil
}

// ParseMask ORs together named layers. An empty list yields LayerAll.
func ParseMask(names []string) (Layer, error) {
	if len(names) == 0 {
		return LayerAll, nil
	}
	var mask Layer
	for _, n := range names {
		l, err := ParseLayer(n)
		if err != nil {
			return 0, err
		}
		mask |= l
	}
	return mask, nil
}
