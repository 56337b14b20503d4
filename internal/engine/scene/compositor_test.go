package scene

import (
	"testing"

	"github.com/fablewright/overmap/internal/engine/camera"
	"github.com/fablewright/overmap/internal/engine/grid"
	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/internal/world"
	"github.com/fablewright/overmap/pkg/math"
)

// recorder is a Canvas that records draw calls instead of rasterizing.
type recorder struct {
	ops []string
}

func (r *recorder) Clear(projection.Color) { r.ops = append(r.ops, "clear") }
func (r *recorder) FillPolygon(pts []math.Vec2, c projection.Color) {
	r.ops = append(r.ops, "fillpoly")
}
func (r *recorder) StrokePolyline(pts []math.Vec2, c projection.Color, closed bool) {
	r.ops = append(r.ops, "polyline")
}
func (r *recorder) DashedLine(a, b math.Vec2, c projection.Color) {
	r.ops = append(r.ops, "dashed")
}
func (r *recorder) FillCircle(center math.Vec2, radius float32, c projection.Color) {
	r.ops = append(r.ops, "fillcircle")
}
func (r *recorder) StrokeCircle(center math.Vec2, radius float32, c projection.Color) {
	r.ops = append(r.ops, "strokecircle")
}

func chunkWithHeights(h [4]float32) *world.State {
	st := world.NewState()
	st.SetChunk(&world.Chunk{
		Grid: world.GridKey{X: 0, Y: 0},
		Size: world.ChunkSize,
		Seed: 1,
		// One tile: corner order (0,0), (1,0), (0,1), (1,1) row-major.
		Heightmap: []float32{h[0], h[1], h[3], h[2]},
	})
	return st
}

func defaultCam() camera.State {
	return camera.State{Yaw: 0, Pitch: 0.9, Scale: 1, Pan: math.Vec3{X: 16, Y: 16}}
}

func buildFor(st *world.State, cam camera.State) (worldQ, overlayQ []Object) {
	var cache grid.Cache
	cache.Build(st)
	m := projection.NewMatrix(cam.Yaw, cam.Pitch, cam.Scale, cam.Pan, 400, 300)
	return buildQueues(&m, Viewport{W: 800, H: 600}, cam, st, &cache, "", st.HeightAt)
}

func countKind(q []Object, k Kind) int {
	n := 0
	for _, o := range q {
		if o.Kind == k {
			n++
		}
	}
	return n
}

func TestSortQueueNonIncreasingDepth(t *testing.T) {
	q := []Object{
		{Depth: 3}, {Depth: -2}, {Depth: 10}, {Depth: 0}, {Depth: 7},
	}
	sortQueue(q)
	for i := 1; i < len(q); i++ {
		if q[i].Depth > q[i-1].Depth {
			t.Fatalf("queue not back-to-front at %d: %v after %v", i, q[i].Depth, q[i-1].Depth)
		}
	}
}

func TestSortQueueStableOnTies(t *testing.T) {
	q := []Object{
		{Depth: 5, Count: 1},
		{Depth: 5, Count: 2},
		{Depth: 5, Count: 3},
	}
	sortQueue(q)
	for i, o := range q {
		if o.Count != i+1 {
			t.Fatalf("tie order disturbed: got %d at %d", o.Count, i)
		}
	}
}

func TestFullySubmergedTileDrawsWaterOnly(t *testing.T) {
	st := chunkWithHeights([4]float32{-5, -3, -4, -6})
	worldQ, _ := buildFor(st, defaultCam())

	if n := countKind(worldQ, KindTerrain); n != 0 {
		t.Errorf("submerged tile produced %d terrain quads, want 0", n)
	}
	if n := countKind(worldQ, KindWater); n != 1 {
		t.Errorf("submerged tile produced %d water quads, want 1", n)
	}
}

func TestPartiallySubmergedTileDrawsBoth(t *testing.T) {
	st := chunkWithHeights([4]float32{4, -3, -4, -6})
	worldQ, _ := buildFor(st, defaultCam())

	if n := countKind(worldQ, KindTerrain); n != 1 {
		t.Errorf("partially submerged tile produced %d terrain quads, want 1", n)
	}
	if n := countKind(worldQ, KindWater); n != 1 {
		t.Errorf("partially submerged tile produced %d water quads, want 1", n)
	}
}

func TestDryTileDrawsLandOnly(t *testing.T) {
	st := chunkWithHeights([4]float32{4, 3, 5, 6})
	worldQ, _ := buildFor(st, defaultCam())

	if n := countKind(worldQ, KindTerrain); n != 1 {
		t.Errorf("dry tile produced %d terrain quads, want 1", n)
	}
	if n := countKind(worldQ, KindWater); n != 0 {
		t.Errorf("dry tile produced %d water quads, want 0", n)
	}
}

func TestBuildingsRequireZoom(t *testing.T) {
	st := chunkWithHeights([4]float32{6, 6, 6, 6})
	// Cover the whole chunk so the single tile classifies as city.
	for y := 0; y < world.ChunkSize; y++ {
		for x := 0; x < world.ChunkSize; x++ {
			st.Settlements[world.SettlementKey(x, y)] = world.SettlementCity
		}
	}

	var cache grid.Cache
	cache.Build(st)
	var hasBuilding bool
	for _, p := range cache.Points {
		if p.HasBuilding {
			hasBuilding = true
		}
	}
	if !hasBuilding {
		t.Skip("hash rolled no building on this tile")
	}

	zoomedOut := defaultCam()
	zoomedOut.Scale = 0.1
	worldQ, _ := buildFor(st, zoomedOut)
	if n := countKind(worldQ, KindBuildingFace); n != 0 {
		t.Errorf("zoomed-out view drew %d building faces, want 0", n)
	}

	zoomedIn := defaultCam()
	zoomedIn.Scale = 1.5
	worldQ, _ = buildFor(st, zoomedIn)
	// 4 walls + roof per building.
	if n := countKind(worldQ, KindBuildingFace); n == 0 || n%5 != 0 {
		t.Errorf("zoomed-in view drew %d building faces, want a positive multiple of 5", n)
	}
}

func TestLocationQueuesAndLegibility(t *testing.T) {
	st := chunkWithHeights([4]float32{4, 4, 4, 4})
	st.AddLocation(&world.Location{ID: "loc1", Name: "Test", X: 16, Y: 16, Known: true})
	st.AddLocation(&world.Location{ID: "loc2", Name: "Hidden", X: 10, Y: 10, Known: false})
	st.CharacterLocations["char1"] = "loc1"
	st.CharacterLocations["char2"] = "loc1"

	worldQ, overlayQ := buildFor(st, defaultCam())

	if n := countKind(worldQ, KindLocationAnchor); n != 1 {
		t.Errorf("world queue has %d anchors, want 1 (unknown location must not render)", n)
	}
	if n := countKind(overlayQ, KindLocation); n != 1 {
		t.Errorf("overlay queue has %d badges, want 1", n)
	}
	for _, o := range overlayQ {
		if o.Kind == KindLocation && o.Count != 2 {
			t.Errorf("badge count = %d, want 2 live characters", o.Count)
		}
	}
	// Badges never land in the world queue: legibility above terrain.
	if n := countKind(worldQ, KindLocation); n != 0 {
		t.Errorf("world queue has %d badges, want 0", n)
	}
}

func TestTileCullRequiresBothConditions(t *testing.T) {
	st := chunkWithHeights([4]float32{4, 4, 4, 4})

	// Focus far away, yaw 0: the tile is behind the camera and far
	// off-screen, so both cull conditions hold.
	cam := defaultCam()
	cam.Pan = math.Vec3{X: 16, Y: 5000}
	worldQ, _ := buildFor(st, cam)
	if n := countKind(worldQ, KindTerrain); n != 0 {
		t.Errorf("far-behind tile not culled: %d terrain quads", n)
	}

	// Same distance in front of the camera: off-screen, but depth is
	// positive, so the two-condition test must keep it.
	cam.Pan = math.Vec3{X: 16, Y: -5000}
	worldQ, _ = buildFor(st, cam)
	if n := countKind(worldQ, KindTerrain); n != 1 {
		t.Errorf("in-front off-screen tile wrongly culled: %d terrain quads, want 1", n)
	}
}

func TestRegionOutlineCulledWhenOffscreen(t *testing.T) {
	st := chunkWithHeights([4]float32{4, 4, 4, 4})
	st.Regions = []world.Region{{
		Name:  "onscreen",
		Color: world.RGB{R: 200, G: 100, B: 50},
		Vertices: []math.Vec2{
			{X: 0, Y: 0}, {X: 32, Y: 0}, {X: 32, Y: 32}, {X: 0, Y: 32},
		},
	}, {
		Name:  "offscreen",
		Color: world.RGB{R: 10, G: 10, B: 10},
		Vertices: []math.Vec2{
			{X: 9000, Y: 9000}, {X: 9050, Y: 9000}, {X: 9050, Y: 9050},
		},
	}}

	_, overlayQ := buildFor(st, defaultCam())
	if n := countKind(overlayQ, KindRegionBoundary); n != 1 {
		t.Errorf("overlay has %d region outlines, want 1 (offscreen polygon culled)", n)
	}
}

func TestRenderDrawOrder(t *testing.T) {
	st := chunkWithHeights([4]float32{4, 4, 4, 4})
	st.AddLocation(&world.Location{ID: "loc1", Name: "Test", X: 16, Y: 16, Known: true})

	var cache grid.Cache
	cache.Build(st)
	rec := &recorder{}
	Render(rec, Viewport{W: 800, H: 600}, defaultCam(), st, &cache, "loc1", st.HeightAt)

	if len(rec.ops) == 0 || rec.ops[0] != "clear" {
		t.Fatal("render did not clear the surface first")
	}
	// The selected badge ring must come after all polygon fills: overlay
	// draws above the world queue.
	lastFill, ring := -1, -1
	for i, op := range rec.ops {
		if op == "fillpoly" {
			lastFill = i
		}
		if op == "strokecircle" {
			ring = i
		}
	}
	if ring == -1 {
		t.Fatal("selected badge ring never drawn")
	}
	if lastFill > ring {
		t.Errorf("terrain fill at %d drawn after overlay badge at %d", lastFill, ring)
	}
}

func TestIconHeight(t *testing.T) {
	if got := IconHeight(10); got != 10+IconElevation {
		t.Errorf("IconHeight(10) = %v", got)
	}
	// Submerged ground: the icon floats above the sea surface instead.
	if got := IconHeight(-30); got != world.SeaLevel+IconElevation {
		t.Errorf("IconHeight(-30) = %v, want sea level + elevation", got)
	}
}
