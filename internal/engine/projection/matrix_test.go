package projection

import (
	gomath "math"
	"testing"

	"github.com/fablewright/overmap/pkg/math"
)

func TestProjectCenterPoint(t *testing.T) {
	m := NewMatrix(0, gomath.Pi/4, 1, math.Vec3{}, 400, 300)
	p := m.Project(0, 0, 0)
	if p.X != 400 || p.Y != 300 {
		t.Errorf("pan focus projected to (%v, %v), want viewport center (400, 300)", p.X, p.Y)
	}
	if p.Depth != 0 {
		t.Errorf("pan focus depth = %v, want 0", p.Depth)
	}
}

func TestProjectDepthIsForwardDistance(t *testing.T) {
	m := NewMatrix(0, 0.9, 1, math.Vec3{}, 0, 0)

	// With yaw 0, +Y is straight into the scene.
	far := m.Project(0, 10, 0)
	near := m.Project(0, -10, 0)
	if far.Depth != 10 || near.Depth != -10 {
		t.Errorf("depths = (%v, %v), want (10, -10)", far.Depth, near.Depth)
	}
	// Farther points sit higher on screen (smaller Y).
	if far.Y >= near.Y {
		t.Errorf("far point Y %v not above near point Y %v", far.Y, near.Y)
	}
}

func TestProjectYawRotation(t *testing.T) {
	// At yaw π/2, world +X becomes the forward axis.
	m := NewMatrix(gomath.Pi/2, 0.9, 1, math.Vec3{}, 0, 0)
	p := m.Project(10, 0, 0)
	if d := gomath.Abs(float64(p.Depth - 10)); d > 1e-4 {
		t.Errorf("depth after yaw = %v, want 10", p.Depth)
	}
	if x := gomath.Abs(float64(p.X)); x > 1e-3 {
		t.Errorf("screen X after yaw = %v, want ~0", p.X)
	}
}

func TestProjectHeightRaisesPoint(t *testing.T) {
	m := NewMatrix(0, gomath.Pi/4, 1, math.Vec3{}, 0, 0)
	ground := m.Project(5, 5, 0)
	raised := m.Project(5, 5, 10)
	if raised.Y >= ground.Y {
		t.Errorf("raised point Y %v not above ground Y %v", raised.Y, ground.Y)
	}
	if raised.Depth != ground.Depth {
		t.Errorf("height changed depth: %v vs %v", raised.Depth, ground.Depth)
	}
}

func TestProjectScaleAppliedOncePerFactor(t *testing.T) {
	m1 := NewMatrix(0.3, 0.8, 1, math.Vec3{}, 0, 0)
	m2 := NewMatrix(0.3, 0.8, 2, math.Vec3{}, 0, 0)
	p1 := m1.Project(7, 3, 2)
	p2 := m2.Project(7, 3, 2)
	if d := gomath.Abs(float64(p2.X - 2*p1.X)); d > 1e-3 {
		t.Errorf("screen X did not scale linearly: %v vs 2*%v", p2.X, p1.X)
	}
	if p1.Depth != p2.Depth {
		t.Errorf("scale changed depth: %v vs %v", p1.Depth, p2.Depth)
	}
}

func TestHash2DDeterministic(t *testing.T) {
	a := Hash2D(13.5, -7)
	b := Hash2D(13.5, -7)
	if a != b {
		t.Errorf("Hash2D not deterministic: %v vs %v", a, b)
	}
	if a < 0 || a >= 1 {
		t.Errorf("Hash2D out of [0,1): %v", a)
	}
	if Hash2D(13.5, -7) == Hash2D(14.5, -7) {
		t.Error("Hash2D collision on neighboring tiles (suspicious)")
	}
}

func TestHeightColorBands(t *testing.T) {
	// Below the lowest stop clamps to abyss.
	if got := HeightColor(-100); got != (Color{R: 6, G: 14, B: 40}) {
		t.Errorf("HeightColor(-100) = %v, want abyss", got)
	}
	// Above the highest stop clamps to snow.
	if got := HeightColor(200); got != (Color{R: 238, G: 240, B: 245}) {
		t.Errorf("HeightColor(200) = %v, want snow", got)
	}
	// Exactly on a stop returns the stop color.
	if got := HeightColor(0); got != (Color{R: 214, G: 196, B: 138}) {
		t.Errorf("HeightColor(0) = %v, want beach", got)
	}
	// Midway between stops interpolates.
	mid := HeightColor(2)
	lo, hi := HeightColor(0), HeightColor(4)
	if mid == lo || mid == hi {
		t.Errorf("HeightColor(2) = %v did not interpolate between %v and %v", mid, lo, hi)
	}
}

func TestDarken(t *testing.T) {
	c := Color{R: 100, G: 200, B: 50}
	if got := Darken(c, 0.5); got != (Color{R: 50, G: 100, B: 25}) {
		t.Errorf("Darken(0.5) = %v", got)
	}
	if got := Darken(c, 1); got != c {
		t.Errorf("Darken(1) = %v, want unchanged", got)
	}
	if got := Darken(c, -2); got != (Color{}) {
		t.Errorf("Darken(-2) = %v, want black", got)
	}
}
