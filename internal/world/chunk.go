package world

import gomath "math"

// ChunkSize is the edge length of a chunk in world units.
const ChunkSize = 32

// GridKey addresses a chunk by its integer grid coordinates.
type GridKey struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Chunk is a square terrain patch with its own heightmap and seed.
// Chunks are immutable once generated; edits replace the whole chunk
// and bump the owning state's terrain version.
type Chunk struct {
	Grid      GridKey   `yaml:"grid"`
	Size      float32   `yaml:"size"`
	Seed      int64     `yaml:"seed"`
	Heightmap []float32 `yaml:"heightmap,flow"`
}

// Resolution returns the number of tiles per chunk edge, derived from
// the heightmap length: a chunk with (n+1)^2 corner samples has n tiles.
func (c *Chunk) Resolution() int {
	n := int(gomath.Sqrt(float64(len(c.Heightmap)))) - 1
	if n < 0 {
		return 0
	}
	return n
}

// Origin returns the world position of the chunk's minimum corner.
func (c *Chunk) Origin() (float32, float32) {
	return float32(c.Grid.X) * c.Size, float32(c.Grid.Y) * c.Size
}

// CornerHeight returns the heightmap sample at corner (ix, iy).
// Out-of-range indices default to 0 so a short or missing heightmap
// degrades to flat terrain instead of aborting the frame.
func (c *Chunk) CornerHeight(ix, iy int) float32 {
	side := c.Resolution() + 1
	if ix < 0 || iy < 0 || ix >= side || iy >= side {
		return 0
	}
	idx := iy*side + ix
	if idx >= len(c.Heightmap) {
		return 0
	}
	return c.Heightmap[idx]
}

// keyForWorld returns the grid key of the chunk owning a world position.
func keyForWorld(x, y float32) GridKey {
	return GridKey{
		X: int(gomath.Floor(float64(x) / ChunkSize)),
		Y: int(gomath.Floor(float64(y) / ChunkSize)),
	}
}
