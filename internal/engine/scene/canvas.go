package scene

import (
	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/pkg/math"
)

// Viewport is the drawing surface size in pixels.
type Viewport struct {
	W, H float32
}

// Contains reports whether a screen point lies inside the viewport,
// expanded by the given margin on all sides.
func (v Viewport) Contains(x, y, margin float32) bool {
	return x >= -margin && y >= -margin && x <= v.W+margin && y <= v.H+margin
}

// Canvas is the drawing surface contract. The compositor issues all of
// its draw calls through this interface; the SDL window target and the
// test recorder both implement it.
type Canvas interface {
	Clear(c projection.Color)
	FillPolygon(pts []math.Vec2, c projection.Color)
	StrokePolyline(pts []math.Vec2, c projection.Color, closed bool)
	DashedLine(a, b math.Vec2, c projection.Color)
	FillCircle(center math.Vec2, radius float32, c projection.Color)
	StrokeCircle(center math.Vec2, radius float32, c projection.Color)
}
