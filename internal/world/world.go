// Package world holds the map state the render core consumes: terrain
// chunks, regions, locations, settlements, and character positions.
package world

import (
	"fmt"
	"hash/fnv"
	gomath "math"
	"sort"

	"github.com/fablewright/overmap/pkg/math"
)

// SettlementKind distinguishes building density classes.
type SettlementKind string

const (
	SettlementCity SettlementKind = "city"
	SettlementTown SettlementKind = "town"
)

// RGB is a plain color triple used by regions and the palette.
type RGB struct {
	R uint8 `yaml:"r"`
	G uint8 `yaml:"g"`
	B uint8 `yaml:"b"`
}

// Region is a named polygonal area over the terrain.
type Region struct {
	Name     string      `yaml:"name"`
	Color    RGB         `yaml:"color"`
	Vertices []math.Vec2 `yaml:"vertices,flow"`
}

// Contains reports whether a world position lies inside the region
// polygon, using the even-odd crossing rule.
func (r *Region) Contains(x, y float32) bool {
	inside := false
	n := len(r.Vertices)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := r.Vertices[i], r.Vertices[j]
		if (vi.Y > y) != (vj.Y > y) &&
			x < (vj.X-vi.X)*(y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
	}
	return inside
}

// Location is a point of interest on the map.
type Location struct {
	ID     string  `yaml:"id"`
	Name   string  `yaml:"name"`
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Known  bool    `yaml:"known"`
	Region string  `yaml:"region,omitempty"`
}

// State is the world snapshot the engine renders. The render core treats
// it as read-only; edits go through the mutators below so the terrain
// version stays truthful.
type State struct {
	Chunks map[GridKey]*Chunk

	// TerrainVersion increments on every chunk edit. The grid cache keys
	// its memoization on this counter instead of collection identity.
	TerrainVersion uint64

	Regions   []Region
	Locations map[string]*Location

	// Settlements maps "x:y" integer tile keys to a settlement kind.
	Settlements map[string]SettlementKind

	// CharacterLocations maps character id to the location id it
	// currently occupies.
	CharacterLocations map[string]string

	// ActiveLocationID is the location the session is focused on, used
	// for camera reset targets.
	ActiveLocationID string
}

// NewState returns an empty world state.
func NewState() *State {
	return &State{
		Chunks:             make(map[GridKey]*Chunk),
		Locations:          make(map[string]*Location),
		Settlements:        make(map[string]SettlementKind),
		CharacterLocations: make(map[string]string),
	}
}

// SetChunk installs a chunk and bumps the terrain version.
func (s *State) SetChunk(c *Chunk) {
	s.Chunks[c.Grid] = c
	s.TerrainVersion++
}

// ChunkAt returns the chunk owning a world position, or nil.
func (s *State) ChunkAt(x, y float32) *Chunk {
	return s.Chunks[keyForWorld(x, y)]
}

// HeightAt returns the terrain height under a world position, delegating
// to the height field with the owning chunk's seed. A missing chunk
// yields height 0 rather than an error.
func (s *State) HeightAt(x, y float32) float32 {
	c := s.ChunkAt(x, y)
	if c == nil {
		return 0
	}
	return TerrainHeight(x, y, c.Seed)
}

// SettlementKey builds the tile key for integer world coordinates.
func SettlementKey(x, y int) string {
	return fmt.Sprintf("%d:%d", x, y)
}

// SettlementAt returns the settlement kind covering a world position.
func (s *State) SettlementAt(x, y float32) (SettlementKind, bool) {
	k := SettlementKey(int(gomath.Floor(float64(x))), int(gomath.Floor(float64(y))))
	kind, ok := s.Settlements[k]
	return kind, ok
}

// ClassifyAt returns the terrain class at a world position, with
// settlements overriding the height-derived class.
func (s *State) ClassifyAt(x, y float32, height float32) TerrainClass {
	if kind, ok := s.SettlementAt(x, y); ok && height >= SeaLevel {
		if kind == SettlementCity {
			return TerrainCity
		}
		return TerrainTown
	}
	return ClassifyHeight(height)
}

// SettlementFingerprint returns a content hash over the settlement map.
// Key order is normalized so the same content always hashes the same.
func (s *State) SettlementFingerprint() uint64 {
	keys := make([]string, 0, len(s.Settlements))
	for k := range s.Settlements {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{'='})
		h.Write([]byte(s.Settlements[k]))
		h.Write([]byte{';'})
	}
	return h.Sum64()
}

// AddLocation installs a location, keyed by its id.
func (s *State) AddLocation(loc *Location) {
	s.Locations[loc.ID] = loc
}

// ActiveLocation returns the focused location, or nil.
func (s *State) ActiveLocation() *Location {
	if s.ActiveLocationID == "" {
		return nil
	}
	return s.Locations[s.ActiveLocationID]
}

// CharacterCountAt counts characters currently at a location. Computed
// by scanning, never cached, so counts cannot go stale.
func (s *State) CharacterCountAt(locationID string) int {
	n := 0
	for _, at := range s.CharacterLocations {
		if at == locationID {
			n++
		}
	}
	return n
}
