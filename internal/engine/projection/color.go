package projection

// Color is an opaque RGB paint value.
type Color struct {
	R, G, B uint8
}

// bandStop is one control point of the height palette.
type bandStop struct {
	height float32
	color  Color
}

// Height palette, low to high: abyss, deep water, beach, grass,
// highland, snow. Heights between stops interpolate linearly.
var heightBands = []bandStop{
	{-48, Color{R: 6, G: 14, B: 40}},
	{-12, Color{R: 16, G: 52, B: 110}},
	{0, Color{R: 214, G: 196, B: 138}},
	{4, Color{R: 92, G: 152, B: 70}},
	{24, Color{R: 130, G: 120, B: 96}},
	{44, Color{R: 238, G: 240, B: 245}},
}

// HeightColor maps a terrain height to the palette. Heights outside the
// band range clamp to the end stops.
func HeightColor(h float32) Color {
	if h <= heightBands[0].height {
		return heightBands[0].color
	}
	last := heightBands[len(heightBands)-1]
	if h >= last.height {
		return last.color
	}
	for i := 1; i < len(heightBands); i++ {
		hi := heightBands[i]
		if h > hi.height {
			continue
		}
		lo := heightBands[i-1]
		t := (h - lo.height) / (hi.height - lo.height)
		return lerpColor(lo.color, hi.color, t)
	}
	return last.color
}

// Darken scales a color toward black. Factor 1 is unchanged, 0 is black.
func Darken(c Color, factor float32) Color {
	if factor < 0 {
		factor = 0
	}
	if factor > 1 {
		factor = 1
	}
	return Color{
		R: uint8(float32(c.R) * factor),
		G: uint8(float32(c.G) * factor),
		B: uint8(float32(c.B) * factor),
	}
}

func lerpColor(a, b Color, t float32) Color {
	return Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
	}
}
