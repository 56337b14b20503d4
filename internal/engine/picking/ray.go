// Package picking recovers world-space targets from screen points: the
// ground point under a tap via ray/heightmap intersection, and the
// nearest location icon for hit-testing.
package picking

import (
	gomath "math"

	"github.com/fablewright/overmap/internal/engine/camera"
)

const (
	// Binary-search iteration count. 16 halvings over the height
	// bracket resolve the hit well below one world unit.
	iterations = 16

	// Heights bracketing plausible terrain extremes.
	maxTerrain = 100.0
	minTerrain = -80.0

	// Below this sin(pitch) the view ray is near-horizontal and the
	// intersection is numerically unstable.
	minSinPitch = 1e-3
)

// PickGround intersects the view ray through a screen point with the
// terrain height field and returns the world ground point.
//
// The projection makes world XY and ray height linear functions of one
// free parameter (the forward distance along the view ray), but the
// terrain height under the ray is an opaque function of position, so
// the intersection has no closed form; a binary search between two
// bracketing heights narrows onto it instead.
//
// A near-horizontal pitch has no stable solution: the current pan point
// is returned rather than dividing by a vanishing sin(pitch).
func PickGround(cam camera.State, centerX, centerY, screenX, screenY float32, height camera.HeightFunc) (x, y float32) {
	sinYaw, cosYaw := sincos(cam.Yaw)
	sinPitch, cosPitch := sincos(cam.Pitch)
	if sinPitch < minSinPitch {
		return cam.Pan.X, cam.Pan.Y
	}

	// Screen X pins the rotated right-axis offset; screen Y couples the
	// forward distance t and the ray height z:
	//   screenY = centerY - t*scale*cosPitch - (z-pan.Z)*scale*sinPitch
	rx := (screenX - centerX) / cam.Scale
	dy := centerY - screenY

	// Forward distance at which the ray passes a given height.
	tAt := func(z float32) float32 {
		return (dy - (z-cam.Pan.Z)*cam.Scale*sinPitch) / (cam.Scale * cosPitch)
	}
	// World position of the ray at forward distance t.
	at := func(t float32) (float32, float32) {
		return cam.Pan.X + rx*cosYaw + t*sinYaw,
			cam.Pan.Y - rx*sinYaw + t*cosYaw
	}
	// Ray height at forward distance t (inverse of tAt).
	heightAt := func(t float32) float32 {
		return cam.Pan.Z + (dy-t*cam.Scale*cosPitch)/(cam.Scale*sinPitch)
	}

	// The ray descends as t grows: lo is above terrain, hi below.
	lo := tAt(maxTerrain)
	hi := tAt(minTerrain)

	t := lo
	for i := 0; i < iterations; i++ {
		t = (lo + hi) / 2
		wx, wy := at(t)
		if heightAt(t) > height(wx, wy) {
			lo = t
		} else {
			hi = t
		}
	}

	return at(t)
}

func sincos(a float32) (float32, float32) {
	s, c := gomath.Sincos(float64(a))
	return float32(s), float32(c)
}
