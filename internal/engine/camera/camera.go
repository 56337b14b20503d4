// Package camera owns the orbit-camera state for the map view.
package camera

import (
	gomath "math"

	"github.com/fablewright/overmap/pkg/math"
)

// State clamps. Pitch stays away from straight-down and horizon views,
// which are degenerate for both projection and picking.
const (
	MinScale = 0.02
	MaxScale = 5.0
	MinPitch = 0.1
	MaxPitch = gomath.Pi/2 - 0.1
)

// Reset defaults.
const (
	DefaultYaw   = 0.0
	DefaultPitch = 0.9
	DefaultScale = 1.0
)

// Gesture sensitivities.
const (
	RotateSensitivity = 0.005
	ZoomSensitivity   = 0.1
)

// State is the orbit-camera pose: yaw around the vertical axis, pitch
// tilt, zoom scale, and the world-space focus point the camera orbits.
// Pan.Z tracks the terrain height under (Pan.X, Pan.Y).
type State struct {
	Yaw   float32
	Pitch float32
	Scale float32
	Pan   math.Vec3
}

// HeightFunc samples terrain height at a world position.
type HeightFunc func(x, y float32) float32

// Camera holds the live camera state plus a committed snapshot.
//
// Gesture handlers write Live directly for zero-latency feedback during
// a drag; the observable snapshot only advances on an explicit Commit,
// which is what redraw scheduling keys on.
type Camera struct {
	// Live is the fast-path mutable state. Single-threaded access only.
	Live State

	committed State
	revision  uint64

	heightAt HeightFunc
}

// New creates a camera focused on the origin. heightAt may be nil, in
// which case the focus height stays 0.
func New(heightAt HeightFunc) *Camera {
	c := &Camera{heightAt: heightAt}
	c.Reset(0, 0)
	c.committed = c.Live
	return c
}

// Committed returns the last committed snapshot.
func (c *Camera) Committed() State {
	return c.committed
}

// Revision returns the commit counter.
func (c *Camera) Revision() uint64 {
	return c.revision
}

// Commit flushes the live state to the observable snapshot and reports
// whether anything changed.
func (c *Camera) Commit() bool {
	if c.Live == c.committed {
		return false
	}
	c.committed = c.Live
	c.revision++
	return true
}

// Reset snaps the focus to the given world point (the active location,
// or the origin), restores default yaw/pitch/scale, and samples the
// focus height from terrain.
func (c *Camera) Reset(x, y float32) {
	c.Live.Yaw = DefaultYaw
	c.Live.Pitch = DefaultPitch
	c.Live.Scale = DefaultScale
	c.Live.Pan = math.Vec3{X: x, Y: y, Z: c.HeightAt(x, y)}
}

// HeightAt samples terrain height under a world position, 0 when no
// sampler is wired.
func (c *Camera) HeightAt(x, y float32) float32 {
	if c.heightAt == nil {
		return 0
	}
	return c.heightAt(x, y)
}

// Rotate applies a rotation drag delta in pixels.
func (c *Camera) Rotate(dx, dy float32) {
	c.Live.Yaw += dx * RotateSensitivity
	c.Live.Pitch += dy * RotateSensitivity
	c.clamp()
}

// PanBy moves the focus so the terrain follows a screen-space drag
// delta. The screen delta is unrotated through the current yaw and
// unscaled by zoom and pitch foreshortening.
func (c *Camera) PanBy(dx, dy float32) {
	s := &c.Live
	sinYaw, cosYaw := sincos(s.Yaw)
	cosPitch := float32(gomath.Cos(float64(s.Pitch)))
	if cosPitch < 1e-4 {
		cosPitch = 1e-4
	}

	// Solve for the pan delta whose projection shifts content by (dx, dy).
	drx := -dx / s.Scale
	dfwd := dy / (s.Scale * cosPitch)

	s.Pan.X += drx*cosYaw + dfwd*sinYaw
	s.Pan.Y += -drx*sinYaw + dfwd*cosYaw
	s.Pan.Z = c.HeightAt(s.Pan.X, s.Pan.Y)
}

// ZoomBy applies a multiplicative zoom delta (positive zooms in).
func (c *Camera) ZoomBy(delta float32) {
	c.Live.Scale += delta * c.Live.Scale * ZoomSensitivity
	c.clamp()
}

// ScaleBy multiplies the zoom scale directly, for pinch gestures where
// the factor is the ratio of finger distances.
func (c *Camera) ScaleBy(factor float32) {
	if factor <= 0 {
		return
	}
	c.Live.Scale *= factor
	c.clamp()
}

func (c *Camera) clamp() {
	s := &c.Live
	if s.Pitch < MinPitch {
		s.Pitch = MinPitch
	}
	if s.Scale < MinScale {
		s.Scale = MinScale
	}
	if s.Pitch > MaxPitch {
		s.Pitch = MaxPitch
	}
	if s.Scale > MaxScale {
		s.Scale = MaxScale
	}
}

func sincos(a float32) (float32, float32) {
	s, c := gomath.Sincos(float64(a))
	return float32(s), float32(c)
}
