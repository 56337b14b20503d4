// Package projection provides the world-to-screen transform for the
// pseudo-3D map view, plus the height palette and the coordinate hash
// used for deterministic placement.
package projection

import (
	gomath "math"

	"github.com/fablewright/overmap/pkg/math"
)

// Matrix holds the per-frame projection constants. Trigonometry is
// evaluated once here so Project stays multiply-add only.
type Matrix struct {
	SinYaw, CosYaw float32

	// Pitch factors pre-multiplied by the zoom scale.
	ScaleSinPitch, ScaleCosPitch float32

	Scale float32
	Pan   math.Vec3

	// Viewport center in pixels.
	CenterX, CenterY float32
}

// NewMatrix builds the projection for one frame from the camera fields
// and the viewport center.
func NewMatrix(yaw, pitch, scale float32, pan math.Vec3, centerX, centerY float32) Matrix {
	sinYaw, cosYaw := gomath.Sincos(float64(yaw))
	sinPitch, cosPitch := gomath.Sincos(float64(pitch))
	return Matrix{
		SinYaw:        float32(sinYaw),
		CosYaw:        float32(cosYaw),
		ScaleSinPitch: scale * float32(sinPitch),
		ScaleCosPitch: scale * float32(cosPitch),
		Scale:         scale,
		Pan:           pan,
		CenterX:       centerX,
		CenterY:       centerY,
	}
}

// Point is a projected world point. Depth is the rotated forward
// distance into the scene, not the screen Y: painter's-algorithm order
// under an oblique camera must sort by distance along the view ray.
// Larger depth means farther from the camera; negative depth is behind it.
type Point struct {
	X, Y  float32
	Depth float32
}

// Project transforms a world position to screen space.
func (m *Matrix) Project(x, y, z float32) Point {
	dx := x - m.Pan.X
	dy := y - m.Pan.Y
	dz := z - m.Pan.Z

	rx := dx*m.CosYaw - dy*m.SinYaw
	fwd := dx*m.SinYaw + dy*m.CosYaw

	return Point{
		X:     m.CenterX + rx*m.Scale,
		Y:     m.CenterY - fwd*m.ScaleCosPitch - dz*m.ScaleSinPitch,
		Depth: fwd,
	}
}

// Hash2D maps world coordinates to a pseudo-random value in [0, 1).
// It is a pure function of its inputs: the same coordinates always
// yield the same value, which is what lets building layouts survive
// cache rebuilds without any stored list.
func Hash2D(x, y float32) float32 {
	s := gomath.Sin(float64(x)*12.9898 + float64(y)*78.233)
	v := s * 43758.5453
	f := v - gomath.Floor(v)
	return float32(f)
}
