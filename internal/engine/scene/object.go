package scene

import (
	"sort"

	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/pkg/math"
)

// Kind tags a RenderObject variant.
type Kind int

const (
	KindTerrain Kind = iota
	KindWater
	KindBuildingFace
	KindLocation
	KindLocationAnchor
	KindRegionPoint
	KindRegionBoundary
)

// Object is one draw call: a sort depth, screen-space geometry, and
// paint attributes. Objects are built fresh every frame and thrown away
// after drawing.
type Object struct {
	Kind  Kind
	Depth float32

	Pts   []math.Vec2
	Color projection.Color

	// Marker attributes (locations, region points).
	Radius   float32
	Selected bool
	Count    int
}

// sortQueue orders a draw queue back-to-front: non-increasing depth,
// farther objects first. The sort must be stable: objects at the same
// depth keep their insertion order, which is what layers same-tile
// features consistently.
func sortQueue(q []Object) {
	sort.SliceStable(q, func(i, j int) bool {
		return q[i].Depth > q[j].Depth
	})
}
