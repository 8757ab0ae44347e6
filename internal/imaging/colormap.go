package imaging

import (
	"fmt"
	"image"
	"math"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a normalized value in [0, 1] to a color.
type Colormap func(t float64) colorful.Color

// Gray maps 0 to black and 1 to white.
func Gray(t float64) colorful.Color {
	t = clamp01(t)
	return colorful.Color{R: t, G: t, B: t}
}

// Cubehelix is Green's cubehelix scheme with start 0.5, rotations -1.5,
// hue 1.0 and gamma 1.0. It runs monotonically in lightness from black at 0
// to white at 1.
func Cubehelix(t float64) colorful.Color {
	const (
		start     = 0.5
		rotations = -1.5
		hue       = 1.0
	)
	t = clamp01(t)
	phi := 2 * math.Pi * (start/3 + rotations*t)
	amp := hue * t * (1 - t) / 2
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	return colorful.Color{
		R: t + amp*(-0.14861*cosPhi+1.78277*sinPhi),
		G: t + amp*(-0.29227*cosPhi-0.90649*sinPhi),
		B: t + amp*(1.97294*cosPhi),
	}.Clamped()
}

// Flag is a periodic red, white, blue and black colormap. Small changes in
// value produce large changes in color, which makes the sign and ripple of a
// corner response easy to see.
func Flag(t float64) colorful.Color {
	const cycles = 31.5
	t = clamp01(t)
	return colorful.Color{
		R: 0.75*math.Sin((t*cycles+0.25)*math.Pi) + 0.5,
		G: math.Sin(t * cycles * math.Pi),
		B: 0.75*math.Sin((t*cycles-0.25)*math.Pi) + 0.5,
	}.Clamped()
}

var colormaps = map[string]Colormap{
	"gray":      Gray,
	"cubehelix": Cubehelix,
	"flag":      Flag,
}

// ColormapByName looks up a colormap by its case-insensitive name.
func ColormapByName(name string) (Colormap, error) {
	cm, ok := colormaps[strings.ToLower(name)]
	if !ok {
		names := make([]string, 0, len(colormaps))
		for n := range colormaps {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("unknown colormap %q (available: %s)", name, strings.Join(names, ", "))
	}
	return cm, nil
}

// ApplyColormap renders a [y][x] grid through a colormap.
//
// Values are normalized linearly from the grid minimum (0) to the grid
// maximum (1). A constant grid maps every pixel to 0. The result has origin
// (0,0) and the grid's dimensions; an empty grid yields an empty image.
func ApplyColormap(grid [][]float64, cm Colormap) *image.NRGBA {
	height := len(grid)
	if height == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	width := len(grid[0])

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		for _, v := range row {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	span := hi - lo

	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y, row := range grid {
		for x, v := range row {
			t := 0.0
			if span > 0 {
				t = (v - lo) / span
			}
			r, g, b := cm(t).RGB255()
			i := result.PixOffset(x, y)
			result.Pix[i+0] = r
			result.Pix[i+1] = g
			result.Pix[i+2] = b
			result.Pix[i+3] = 255
		}
	}
	return result
}

// MaskToGrid converts an 8-bit mask to a [y][x] grid of its raw values.
func MaskToGrid(mask *image.Gray) [][]float64 {
	bounds := mask.Bounds()
	grid := make([][]float64, bounds.Dy())
	for y := range grid {
		grid[y] = make([]float64, bounds.Dx())
		row := mask.Pix[y*mask.Stride:]
		for x := range grid[y] {
			grid[y][x] = float64(row[x])
		}
	}
	return grid
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
