// Package grid flattens chunk heightmaps and settlement data into a
// memoized array of drawable tile records for the scene compositor.
package grid

import (
	"sort"

	"github.com/fablewright/overmap/internal/engine/projection"
	"github.com/fablewright/overmap/internal/world"
)

// Building densities and height ranges per settlement class.
const (
	cityDensity = 0.6
	townDensity = 0.4

	cityMinHeight  = 20.0
	citySpanHeight = 80.0
	townMinHeight  = 8.0
	townSpanHeight = 15.0
)

// Point is one drawable tile: world position of its minimum corner, the
// four corner heights, classification, and the deterministic building
// roll for settlement tiles.
type Point struct {
	X, Y float32
	Size float32

	// Corner heights in order (0,0), (1,0), (1,1), (0,1).
	Corners   [4]float32
	AvgHeight float32

	Class world.TerrainClass

	HasBuilding    bool
	BuildingHeight float32

	// Rand is the cached Hash2D roll for the tile center.
	Rand float32
}

// Cache memoizes the flattened tile array. Rebuilds are keyed on the
// state's terrain version and the settlement fingerprint, so the cost is
// bounded to one rebuild per actual terrain edit, not one per frame.
type Cache struct {
	Points []Point

	built           bool
	lastVersion     uint64
	lastFingerprint uint64

	// Rebuilds counts actual rebuilds, for instrumentation.
	Rebuilds int
}

// Build refreshes the tile array from world state. It is an idempotent
// no-op while the terrain version and settlement fingerprint are
// unchanged; it reports whether a rebuild happened.
func (c *Cache) Build(st *world.State) bool {
	fp := st.SettlementFingerprint()
	if c.built && st.TerrainVersion == c.lastVersion && fp == c.lastFingerprint {
		return false
	}

	// Chunk order must be stable across rebuilds: draw-queue tie-breaks
	// rely on insertion order.
	chunks := make([]*world.Chunk, 0, len(st.Chunks))
	for _, chunk := range st.Chunks {
		chunks = append(chunks, chunk)
	}
	sort.Slice(chunks, func(i, j int) bool {
		a, b := chunks[i].Grid, chunks[j].Grid
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})

	c.Points = c.Points[:0]
	for _, chunk := range chunks {
		c.appendChunk(st, chunk)
	}

	c.built = true
	c.lastVersion = st.TerrainVersion
	c.lastFingerprint = fp
	c.Rebuilds++
	return true
}

func (c *Cache) appendChunk(st *world.State, chunk *world.Chunk) {
	res := chunk.Resolution()
	if res <= 0 {
		return
	}
	ox, oy := chunk.Origin()
	step := chunk.Size / float32(res)

	for ty := 0; ty < res; ty++ {
		for tx := 0; tx < res; tx++ {
			p := Point{
				X:    ox + float32(tx)*step,
				Y:    oy + float32(ty)*step,
				Size: step,
				Corners: [4]float32{
					chunk.CornerHeight(tx, ty),
					chunk.CornerHeight(tx+1, ty),
					chunk.CornerHeight(tx+1, ty+1),
					chunk.CornerHeight(tx, ty+1),
				},
			}
			p.AvgHeight = (p.Corners[0] + p.Corners[1] + p.Corners[2] + p.Corners[3]) / 4

			cx := p.X + step/2
			cy := p.Y + step/2
			p.Class = st.ClassifyAt(cx, cy, p.AvgHeight)

			if p.Class.IsSettlement() {
				p.Rand = projection.Hash2D(cx, cy)
				density := float32(townDensity)
				minH, spanH := float32(townMinHeight), float32(townSpanHeight)
				if p.Class == world.TerrainCity {
					density = cityDensity
					minH, spanH = cityMinHeight, citySpanHeight
				}
				if p.Rand < density {
					p.HasBuilding = true
					// Height comes from a second, independent roll. Reusing
					// the presence roll would cap heights at
					// minH + density*spanH, leaving the top of the range
					// unreachable.
					p.BuildingHeight = minH + projection.Hash2D(cy, cx)*spanH
				}
			}

			c.Points = append(c.Points, p)
		}
	}
}

// MinCorner returns the lowest of the four corner heights.
func (p *Point) MinCorner() float32 {
	min := p.Corners[0]
	for _, h := range p.Corners[1:] {
		if h < min {
			min = h
		}
	}
	return min
}

// Submerged reports whether every corner sits below sea level.
func (p *Point) Submerged() bool {
	for _, h := range p.Corners {
		if h >= world.SeaLevel {
			return false
		}
	}
	return true
}
