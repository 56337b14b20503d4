package world

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/fablewright/overmap/pkg/math"
)

// GenOptions controls procedural world generation.
type GenOptions struct {
	Seed       int64
	ChunkSpan  int // chunks per world edge, centered on the origin
	Resolution int // tiles per chunk edge
}

// DefaultGenOptions returns the demo-world generation settings.
func DefaultGenOptions(seed int64) GenOptions {
	return GenOptions{
		Seed:       seed,
		ChunkSpan:  4,
		Resolution: ChunkSize,
	}
}

// GenerateChunk samples a chunk heightmap from the height field.
func GenerateChunk(grid GridKey, resolution int, seed int64) *Chunk {
	side := resolution + 1
	c := &Chunk{
		Grid:      grid,
		Size:      ChunkSize,
		Seed:      seed,
		Heightmap: make([]float32, side*side),
	}
	ox, oy := c.Origin()
	step := c.Size / float32(resolution)
	for iy := 0; iy < side; iy++ {
		for ix := 0; ix < side; ix++ {
			x := ox + float32(ix)*step
			y := oy + float32(iy)*step
			c.Heightmap[iy*side+ix] = TerrainHeight(x, y, seed)
		}
	}
	return c
}

// Generate builds a demo world: a block of chunks around the origin,
// a couple of regions, settlements on suitable land, and seed locations.
func Generate(opts GenOptions) *State {
	st := NewState()

	half := opts.ChunkSpan / 2
	for gy := -half; gy < opts.ChunkSpan-half; gy++ {
		for gx := -half; gx < opts.ChunkSpan-half; gx++ {
			st.SetChunk(GenerateChunk(GridKey{X: gx, Y: gy}, opts.Resolution, opts.Seed))
		}
	}

	placeSettlements(st, opts)

	st.Regions = []Region{
		{
			Name:  "Northmarch",
			Color: RGB{R: 180, G: 120, B: 60},
			Vertices: []math.Vec2{
				{X: -40, Y: 4}, {X: 44, Y: 10}, {X: 52, Y: 60}, {X: -48, Y: 56},
			},
		},
		{
			Name:  "The Lowfens",
			Color: RGB{R: 90, G: 140, B: 200},
			Vertices: []math.Vec2{
				{X: -52, Y: -58}, {X: 40, Y: -62}, {X: 48, Y: -2}, {X: -44, Y: 2},
			},
		},
	}

	seedLocations(st)
	return st
}

// placeSettlements marks city/town tiles on flat land near the origin.
// Placement is derived from terrain heights only, so regeneration with
// the same seed reproduces the same settlements.
func placeSettlements(st *State, opts GenOptions) {
	type site struct {
		x, y int
		kind SettlementKind
		span int
	}
	sites := []site{}
	// Probe a coarse lattice for land high enough to build on.
	for py := -48; py <= 48 && len(sites) < 5; py += 24 {
		for px := -48; px <= 48 && len(sites) < 5; px += 24 {
			h := st.HeightAt(float32(px), float32(py))
			if h < 3 || h > 20 {
				continue
			}
			kind := SettlementTown
			span := 4
			if len(sites) == 0 {
				kind = SettlementCity
				span = 8
			}
			sites = append(sites, site{x: px, y: py, kind: kind, span: span})
		}
	}
	for _, s := range sites {
		for dy := 0; dy < s.span; dy++ {
			for dx := 0; dx < s.span; dx++ {
				st.Settlements[SettlementKey(s.x+dx, s.y+dy)] = s.kind
			}
		}
	}
}

// seedLocations drops one known location per settlement site and a few
// unknown points of interest.
func seedLocations(st *State) {
	names := []string{"Harrowgate", "Ashford", "Veilstead", "Cinderholt", "Morrow's Rest"}
	keys := make([]string, 0, len(st.Settlements))
	for k := range st.Settlements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	i := 0
	seen := map[GridKey]bool{}
	for _, key := range keys {
		kind := st.Settlements[key]
		var x, y int
		fmt.Sscanf(key, "%d:%d", &x, &y)
		anchor := GridKey{X: x / 8, Y: y / 8}
		if seen[anchor] || i >= len(names) {
			continue
		}
		seen[anchor] = true
		loc := &Location{
			ID:    uuid.NewString(),
			Name:  names[i],
			X:     float32(x),
			Y:     float32(y),
			Known: true,
		}
		if kind == SettlementCity && st.ActiveLocationID == "" {
			st.ActiveLocationID = loc.ID
		}
		for _, r := range st.Regions {
			if r.Contains(loc.X, loc.Y) {
				loc.Region = r.Name
				break
			}
		}
		st.AddLocation(loc)
		i++
	}
}
