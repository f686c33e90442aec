package grids

// The drum map is a small grid of pattern nodes. Each node holds one
// 32-step intensity row per part; LevelAt blends the four nodes
// surrounding the requested (x, y) position bilinearly, so sweeping the
// map morphs smoothly between the written patterns.

const (
	numParts        = 3
	stepsPerPattern = 32
	pulsesPerStep   = 3

	// nodes per axis
	gridWidth = 3
)

type node [numParts][stepsPerPattern]uint8

// Map corners are written as archetypes (sparse four-on-the-floor to
// busy breaks); the center node sits between them.
var nodes = [gridWidth][gridWidth]node{
	{
		{ // (0,0) sparse house
			{255, 0, 0, 0, 0, 0, 0, 0, 180, 0, 0, 0, 0, 0, 0, 0,
				255, 0, 0, 0, 0, 0, 0, 0, 180, 0, 0, 0, 0, 0, 40, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 255, 0, 0, 0, 0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0, 255, 0, 0, 0, 0, 0, 0, 90},
			{160, 0, 90, 0, 160, 0, 90, 0, 160, 0, 90, 0, 160, 0, 90, 0,
				160, 0, 90, 0, 160, 0, 90, 0, 160, 0, 90, 0, 160, 0, 120, 0},
		},
		{ // (1,0) driving kick, offbeat hats
			{255, 0, 0, 0, 120, 0, 0, 0, 220, 0, 0, 60, 0, 0, 0, 0,
				255, 0, 0, 0, 120, 0, 0, 0, 220, 0, 0, 0, 0, 80, 0, 0},
			{0, 0, 0, 0, 40, 0, 0, 0, 255, 0, 0, 0, 0, 0, 60, 0,
				0, 0, 0, 0, 40, 0, 0, 0, 255, 0, 0, 0, 0, 0, 140, 0},
			{0, 0, 200, 0, 0, 0, 200, 0, 0, 0, 200, 0, 0, 0, 200, 0,
				0, 0, 200, 0, 0, 0, 200, 0, 0, 0, 200, 0, 0, 0, 220, 60},
		},
		{ // (2,0) broken kick
			{255, 0, 0, 120, 0, 0, 160, 0, 0, 0, 200, 0, 0, 90, 0, 0,
				255, 0, 0, 120, 0, 0, 160, 0, 0, 0, 200, 0, 90, 0, 0, 60},
			{0, 0, 0, 0, 255, 0, 0, 0, 0, 60, 0, 0, 255, 0, 0, 80,
				0, 0, 0, 0, 255, 0, 0, 0, 0, 60, 0, 120, 255, 0, 60, 0},
			{220, 0, 120, 60, 220, 0, 120, 0, 220, 0, 120, 60, 220, 0, 120, 0,
				220, 0, 120, 60, 220, 0, 120, 0, 220, 0, 120, 60, 220, 90, 150, 0},
		},
	},
	{
		{ // (0,1) half-time
			{255, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
				255, 0, 0, 0, 0, 0, 60, 0, 0, 0, 0, 0, 120, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 255, 0, 0, 0, 0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0, 255, 0, 0, 0, 0, 90, 0, 40},
			{200, 0, 0, 0, 120, 0, 0, 0, 200, 0, 0, 0, 120, 0, 0, 0,
				200, 0, 0, 0, 120, 0, 0, 0, 200, 0, 0, 0, 120, 0, 80, 0},
		},
		{ // (1,1) center: even blend of the corners
			{255, 0, 0, 40, 90, 0, 60, 0, 200, 0, 60, 0, 40, 0, 0, 0,
				255, 0, 0, 40, 90, 0, 60, 0, 200, 0, 60, 0, 90, 0, 40, 0},
			{0, 0, 0, 0, 120, 0, 0, 0, 255, 0, 0, 40, 60, 0, 0, 0,
				0, 0, 0, 0, 120, 0, 0, 0, 255, 0, 0, 40, 60, 0, 100, 0},
			{180, 0, 140, 0, 180, 0, 140, 0, 180, 0, 140, 0, 180, 0, 140, 0,
				180, 0, 140, 0, 180, 0, 140, 0, 180, 0, 140, 0, 180, 0, 160, 40},
		},
		{ // (2,1) syncopated
			{255, 0, 0, 150, 0, 0, 200, 0, 0, 120, 0, 0, 180, 0, 0, 90,
				255, 0, 0, 150, 0, 0, 200, 0, 0, 120, 0, 0, 180, 0, 60, 0},
			{0, 0, 90, 0, 255, 0, 0, 60, 0, 0, 120, 0, 255, 0, 0, 0,
				0, 0, 90, 0, 255, 0, 0, 60, 0, 0, 120, 0, 255, 0, 90, 60},
			{200, 60, 160, 0, 200, 0, 160, 60, 200, 0, 160, 0, 200, 60, 160, 0,
				200, 0, 160, 60, 200, 0, 160, 0, 200, 60, 160, 0, 200, 0, 190, 90},
		},
	},
	{
		{ // (0,2) sparse and open
			{255, 0, 0, 0, 0, 0, 0, 0, 120, 0, 0, 0, 0, 0, 0, 0,
				200, 0, 0, 0, 0, 0, 0, 0, 120, 0, 0, 0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0, 0, 0, 0, 200, 0, 0, 0, 0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0, 200, 0, 0, 0, 60, 0, 0, 0},
			{120, 0, 0, 0, 0, 0, 60, 0, 120, 0, 0, 0, 0, 0, 60, 0,
				120, 0, 0, 0, 0, 0, 60, 0, 120, 0, 0, 0, 90, 0, 60, 0},
		},
		{ // (1,2) rolling toms feel
			{255, 0, 60, 0, 0, 120, 0, 0, 200, 0, 60, 0, 0, 120, 0, 0,
				255, 0, 60, 0, 0, 120, 0, 0, 200, 0, 60, 0, 0, 120, 0, 60},
			{0, 0, 0, 90, 200, 0, 0, 0, 0, 0, 0, 90, 200, 0, 0, 0,
				0, 0, 0, 90, 200, 0, 0, 0, 0, 0, 0, 90, 200, 0, 60, 0},
			{160, 60, 120, 0, 160, 0, 120, 60, 160, 0, 120, 0, 160, 60, 120, 0,
				160, 0, 120, 60, 160, 0, 120, 0, 160, 60, 120, 0, 160, 90, 140, 0},
		},
		{ // (2,2) dense break
			{255, 0, 90, 120, 0, 150, 0, 60, 220, 0, 90, 0, 150, 0, 120, 60,
				255, 0, 90, 120, 0, 150, 0, 60, 220, 0, 90, 150, 0, 120, 60, 90},
			{0, 90, 0, 60, 255, 0, 120, 0, 60, 0, 150, 0, 255, 0, 90, 120,
				0, 90, 0, 60, 255, 0, 120, 0, 60, 150, 0, 90, 255, 0, 120, 60},
			{255, 90, 180, 120, 255, 90, 180, 120, 255, 90, 180, 120, 255, 90, 180, 120,
				255, 90, 180, 120, 255, 90, 180, 120, 255, 90, 180, 120, 255, 120, 220, 150},
		},
	},
}

// mix blends a and b by f/256, exact at f == 0.
func mix(a, b uint8, f int) uint8 {
	return uint8((int(a)*(256-f) + int(b)*f) >> 8)
}

// span of one grid cell on the 0..255 axis
const cellSpan = 256 / (gridWidth - 1)

// cell returns the node index and the 0..256 blend fraction for one axis.
func cell(v uint8) (int, int) {
	i := int(v) / cellSpan
	if i >= gridWidth-1 {
		i = gridWidth - 2
	}
	return i, (int(v) - i*cellSpan) * (gridWidth - 1)
}

// mapLevel reads the blended intensity at (x, y) for one step of one part.
func mapLevel(step int, part int, x, y uint8) uint8 {
	xi, xf := cell(x)
	yi, yf := cell(y)
	s := step & (stepsPerPattern - 1)

	top := mix(nodes[yi][xi][part][s], nodes[yi][xi+1][part][s], xf)
	bottom := mix(nodes[yi+1][xi][part][s], nodes[yi+1][xi+1][part][s], xf)
	return mix(top, bottom, yf)
}
