package world

import (
	"github.com/aquilax/go-perlin"
)

// SeaLevel is the height below which terrain is submerged.
const SeaLevel = 0

// TerrainClass categorizes a tile for coloring and placement rules.
type TerrainClass int

const (
	TerrainWater TerrainClass = iota
	TerrainBeach
	TerrainGrass
	TerrainHighland
	TerrainSnow
	TerrainCity
	TerrainTown
)

// String returns the class name used in logs and snapshots.
func (t TerrainClass) String() string {
	switch t {
	case TerrainWater:
		return "water"
	case TerrainBeach:
		return "beach"
	case TerrainGrass:
		return "grass"
	case TerrainHighland:
		return "highland"
	case TerrainSnow:
		return "snow"
	case TerrainCity:
		return "city"
	case TerrainTown:
		return "town"
	}
	return "unknown"
}

// IsSettlement reports whether the class hosts buildings.
func (t TerrainClass) IsSettlement() bool {
	return t == TerrainCity || t == TerrainTown
}

// Noise parameters shared by generation and live height queries.
// Heights must be reproducible from (x, y, seed) alone: chunk heightmaps
// are sampled from this field, and the raycaster re-samples it directly.
const (
	noiseAlpha     = 2.0
	noiseBeta      = 2.0
	noiseOctaves   = 3
	baseFrequency  = 0.008
	baseAmplitude  = 48.0
	detailScale    = 4.0
	detailAmpRatio = 0.25
)

// noiseForSeed caches one generator per seed. The render core is
// single-threaded so a plain map suffices.
var noiseForSeed = map[int64]*perlin.Perlin{}

func noise(seed int64) *perlin.Perlin {
	p, ok := noiseForSeed[seed]
	if !ok {
		p = perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves, seed)
		noiseForSeed[seed] = p
	}
	return p
}

// TerrainHeight samples the implicit height field at a world position.
// The same (x, y, seed) always yields the same height.
func TerrainHeight(x, y float32, seed int64) float32 {
	p := noise(seed)
	fx := float64(x) * baseFrequency
	fy := float64(y) * baseFrequency
	base := p.Noise2D(fx, fy)
	detail := p.Noise2D(fx*detailScale, fy*detailScale) * detailAmpRatio
	return float32((base + detail) * baseAmplitude)
}

// ClassifyHeight maps a height to its terrain class, ignoring settlements.
func ClassifyHeight(h float32) TerrainClass {
	switch {
	case h < SeaLevel:
		return TerrainWater
	case h < 2:
		return TerrainBeach
	case h < 18:
		return TerrainGrass
	case h < 32:
		return TerrainHighland
	default:
		return TerrainSnow
	}
}
