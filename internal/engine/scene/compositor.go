// Package scene builds and draws the per-frame render queues for the
// map view: terrain, water, buildings, locations, and region overlays,
// composited back-to-front with a painter's algorithm.
package scene

import (
	gomath "math"
	"sort"

	"github.com/fablewright/overmap/internal/engine/camera"
	"github.com/fablewright/overmap/internal/engine/grid"
	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/internal/world"
	"github.com/fablewright/overmap/pkg/math"
)

const (
	// Screen-space cull margin around the viewport. Generous because a
	// building anchored off-screen can still poke into view.
	cullMargin = 200

	// Depth below which a tile counts as far behind the camera. Culling
	// requires both conditions: off-screen anchor AND depth beyond this.
	cullBehindDepth = -150

	// Buildings are only drawn once zoomed in past this scale.
	buildingMinScale = 0.45

	// Every n-th grid point is probed for region membership.
	regionPointStride = 3

	// Region outlines hover this far above the terrain.
	regionLineOffset = 2

	// Location icons float this far above ground (or sea surface).
	IconElevation = 14
)

var (
	backgroundColor = projection.Color{R: 16, G: 18, B: 26}
	anchorColor     = projection.Color{R: 235, G: 235, B: 235}
	locationColor   = projection.Color{R: 252, G: 210, B: 90}
	selectedColor   = projection.Color{R: 255, G: 255, B: 255}

	cityColor = projection.Color{R: 205, G: 198, B: 188}
	townColor = projection.Color{R: 186, G: 152, B: 108}
)

// IconHeight is the world height at which a location icon floats: above
// the terrain, or above the sea surface when the ground is submerged.
func IconHeight(ground float32) float32 {
	if ground < world.SeaLevel {
		ground = world.SeaLevel
	}
	return ground + IconElevation
}

// Render repaints the whole surface from world state: builds the world
// and overlay queues, depth-sorts each, and issues the draw calls.
// Overlay objects always draw above the world so badges and region
// outlines stay legible regardless of terrain depth.
func Render(canvas Canvas, vp Viewport, cam camera.State, st *world.State, cache *grid.Cache, selectedID string, heightAt camera.HeightFunc) {
	m := projection.NewMatrix(cam.Yaw, cam.Pitch, cam.Scale, cam.Pan, vp.W/2, vp.H/2)

	worldQ, overlayQ := buildQueues(&m, vp, cam, st, cache, selectedID, heightAt)
	sortQueue(worldQ)
	sortQueue(overlayQ)

	canvas.Clear(backgroundColor)
	for i := range worldQ {
		draw(canvas, &worldQ[i])
	}
	for i := range overlayQ {
		draw(canvas, &overlayQ[i])
	}
}

func buildQueues(m *projection.Matrix, vp Viewport, cam camera.State, st *world.State, cache *grid.Cache, selectedID string, heightAt camera.HeightFunc) (worldQ, overlayQ []Object) {
	for i := range cache.Points {
		p := &cache.Points[i]
		half := p.Size / 2
		anchor := m.Project(p.X+half, p.Y+half, p.AvgHeight)

		if !vp.Contains(anchor.X, anchor.Y, cullMargin) && anchor.Depth < cullBehindDepth {
			continue
		}

		worldQ = appendTile(worldQ, m, p, anchor)
		if p.HasBuilding && cam.Scale > buildingMinScale {
			worldQ = appendBuilding(worldQ, m, cam, p)
		}

		if i%regionPointStride == 0 {
			overlayQ = appendRegionPoint(overlayQ, m, st, p)
		}
	}

	overlayQ = appendRegionOutlines(overlayQ, m, vp, st, heightAt)
	worldQ, overlayQ = appendLocations(worldQ, overlayQ, m, st, selectedID, heightAt)
	return worldQ, overlayQ
}

// appendTile emits the water and land quads for one tile.
//
// Water fills in whenever the tile is classified as water or any corner
// dips under sea level, so land that sags below the sea next to a water
// tile does not leave a visual gap. The land quad is suppressed only
// when all four corners are submerged; a partially submerged tile still
// draws in full under its water plane.
func appendTile(q []Object, m *projection.Matrix, p *grid.Point, anchor projection.Point) []Object {
	x0, y0 := p.X, p.Y
	x1, y1 := p.X+p.Size, p.Y+p.Size

	if p.Class == world.TerrainWater || p.MinCorner() < world.SeaLevel {
		// Color by how deep the water is; gap-fill tiles whose average
		// sits above sea level still read as shallow water.
		waterDepth := p.AvgHeight
		if waterDepth > -1 {
			waterDepth = -1
		}
		q = append(q, Object{
			Kind:  KindWater,
			Depth: anchor.Depth,
			Pts: quad(
				m.Project(x0, y0, world.SeaLevel),
				m.Project(x1, y0, world.SeaLevel),
				m.Project(x1, y1, world.SeaLevel),
				m.Project(x0, y1, world.SeaLevel),
			),
			Color: projection.HeightColor(waterDepth),
		})
	}

	if !p.Submerged() {
		q = append(q, Object{
			Kind:  KindTerrain,
			Depth: anchor.Depth,
			Pts: quad(
				m.Project(x0, y0, p.Corners[0]),
				m.Project(x1, y0, p.Corners[1]),
				m.Project(x1, y1, p.Corners[2]),
				m.Project(x0, y1, p.Corners[3]),
			),
			Color: tileColor(p),
		})
	}
	return q
}

func tileColor(p *grid.Point) projection.Color {
	switch p.Class {
	case world.TerrainCity:
		return cityColor
	case world.TerrainTown:
		return townColor
	default:
		return projection.HeightColor(p.AvgHeight)
	}
}

// Cardinal outward normals of the four building walls, in the order the
// wall corner pairs are emitted.
var wallNormals = [4]math.Vec2{
	{X: 0, Y: -1},
	{X: 1, Y: 0},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
}

// appendBuilding extrudes a settlement tile's building as four wall
// quads plus a roof. Walls pick a lit or shaded tone by comparing their
// fixed cardinal normal against the camera yaw. Flat per-face shading,
// no lighting model.
func appendBuilding(q []Object, m *projection.Matrix, cam camera.State, p *grid.Point) []Object {
	base := p.AvgHeight
	top := base + p.BuildingHeight

	inset := p.Size * 0.18
	x0, y0 := p.X+inset, p.Y+inset
	x1, y1 := p.X+p.Size-inset, p.Y+p.Size-inset

	footprint := [4]math.Vec2{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}

	color := townColor
	if p.Class == world.TerrainCity {
		color = cityColor
	}

	// Camera forward direction on the ground plane.
	sinYaw, cosYaw := sincos(cam.Yaw)
	forward := math.Vec2{X: sinYaw, Y: cosYaw}

	for i := 0; i < 4; i++ {
		a := footprint[i]
		b := footprint[(i+1)%4]

		shade := float32(0.55)
		if wallNormals[i].Dot(forward) < 0 {
			shade = 0.8 // facing the camera
		}

		pa0 := m.Project(a.X, a.Y, base)
		pb0 := m.Project(b.X, b.Y, base)
		pb1 := m.Project(b.X, b.Y, top)
		pa1 := m.Project(a.X, a.Y, top)

		q = append(q, Object{
			Kind:  KindBuildingFace,
			Depth: (pa0.Depth + pb0.Depth) / 2,
			Pts:   quad(pa0, pb0, pb1, pa1),
			Color: projection.Darken(color, shade),
		})
	}

	roof := make([]math.Vec2, 4)
	depth := float32(0)
	for i, c := range footprint {
		pt := m.Project(c.X, c.Y, top)
		roof[i] = math.Vec2{X: pt.X, Y: pt.Y}
		depth += pt.Depth
	}
	return append(q, Object{
		Kind:  KindBuildingFace,
		Depth: depth / 4,
		Pts:   roof,
		Color: color,
	})
}

// appendRegionPoint emits an interior marker when the tile center falls
// inside a region polygon. Only a stride of grid points is probed, which
// bounds the per-frame point-in-polygon cost.
func appendRegionPoint(q []Object, m *projection.Matrix, st *world.State, p *grid.Point) []Object {
	cx := p.X + p.Size/2
	cy := p.Y + p.Size/2
	for ri := range st.Regions {
		r := &st.Regions[ri]
		if !r.Contains(cx, cy) {
			continue
		}
		pt := m.Project(cx, cy, p.AvgHeight+0.5)
		q = append(q, Object{
			Kind:   KindRegionPoint,
			Depth:  pt.Depth,
			Pts:    []math.Vec2{{X: pt.X, Y: pt.Y}},
			Radius: 1.5,
			Color:  projection.Color{R: r.Color.R, G: r.Color.G, B: r.Color.B},
		})
		break
	}
	return q
}

// appendRegionOutlines projects each region polygon at terrain height
// plus a fixed hover offset. A polygon whose every vertex lands outside
// the viewport is skipped whole, a cheap cull that never clips a
// polygon actually crossing the view.
func appendRegionOutlines(q []Object, m *projection.Matrix, vp Viewport, st *world.State, heightAt camera.HeightFunc) []Object {
	for ri := range st.Regions {
		r := &st.Regions[ri]
		if len(r.Vertices) < 2 {
			continue
		}

		pts := make([]math.Vec2, len(r.Vertices))
		depth := float32(0)
		visible := false
		for i, v := range r.Vertices {
			pt := m.Project(v.X, v.Y, heightAt(v.X, v.Y)+regionLineOffset)
			pts[i] = math.Vec2{X: pt.X, Y: pt.Y}
			depth += pt.Depth
			if vp.Contains(pt.X, pt.Y, 0) {
				visible = true
			}
		}
		if !visible {
			continue
		}

		q = append(q, Object{
			Kind:  KindRegionBoundary,
			Depth: depth / float32(len(pts)),
			Pts:   pts,
			Color: projection.Color{R: r.Color.R, G: r.Color.G, B: r.Color.B},
		})
	}
	return q
}

// appendLocations emits, per known location, a floating badge in the
// overlay queue and a dashed anchor line with a ground dot in the world
// queue, keeping the badge legible while still spatially anchored.
// Character counts are scanned live from the state, never cached.
func appendLocations(worldQ, overlayQ []Object, m *projection.Matrix, st *world.State, selectedID string, heightAt camera.HeightFunc) ([]Object, []Object) {
	// Stable iteration order: equal-depth tie-breaks follow insertion.
	ids := make([]string, 0, len(st.Locations))
	for id := range st.Locations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		loc := st.Locations[id]
		if !loc.Known {
			continue
		}

		ground := heightAt(loc.X, loc.Y)
		groundPt := m.Project(loc.X, loc.Y, ground)
		iconPt := m.Project(loc.X, loc.Y, IconHeight(ground))

		worldQ = append(worldQ, Object{
			Kind:  KindLocationAnchor,
			Depth: groundPt.Depth,
			Pts: []math.Vec2{
				{X: iconPt.X, Y: iconPt.Y},
				{X: groundPt.X, Y: groundPt.Y},
			},
			Radius: 2.5,
			Color:  anchorColor,
		})

		color := locationColor
		if loc.ID == selectedID {
			color = selectedColor
		}
		overlayQ = append(overlayQ, Object{
			Kind:     KindLocation,
			Depth:    iconPt.Depth,
			Pts:      []math.Vec2{{X: iconPt.X, Y: iconPt.Y}},
			Radius:   7,
			Selected: loc.ID == selectedID,
			Count:    st.CharacterCountAt(loc.ID),
			Color:    color,
		})
	}
	return worldQ, overlayQ
}

// draw dispatches one render object to canvas primitives.
func draw(c Canvas, o *Object) {
	switch o.Kind {
	case KindTerrain, KindWater, KindBuildingFace:
		c.FillPolygon(o.Pts, o.Color)

	case KindRegionBoundary:
		c.StrokePolyline(o.Pts, o.Color, true)

	case KindRegionPoint:
		c.FillCircle(o.Pts[0], o.Radius, o.Color)

	case KindLocationAnchor:
		c.DashedLine(o.Pts[0], o.Pts[1], o.Color)
		c.FillCircle(o.Pts[1], o.Radius, o.Color)

	case KindLocation:
		c.FillCircle(o.Pts[0], o.Radius, o.Color)
		if o.Selected {
			c.StrokeCircle(o.Pts[0], o.Radius+3, o.Color)
		}
		// Occupancy pips under the badge.
		for i := 0; i < o.Count && i < 6; i++ {
			pip := math.Vec2{
				X: o.Pts[0].X + float32(i*5) - float32(o.Count-1)*2.5,
				Y: o.Pts[0].Y + o.Radius + 5,
			}
			c.FillCircle(pip, 1.5, o.Color)
		}
	}
}

func quad(a, b, c, d projection.Point) []math.Vec2 {
	return []math.Vec2{
		{X: a.X, Y: a.Y},
		{X: b.X, Y: b.Y},
		{X: c.X, Y: c.Y},
		{X: d.X, Y: d.Y},
	}
}

func sincos(a float32) (float32, float32) {
	s, c := gomath.Sincos(float64(a))
	return float32(s), float32(c)
}
