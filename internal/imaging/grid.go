package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// GridOptions configures the coordinate grid drawn over panels.
type GridOptions struct {
	// Spacing is the distance between grid lines in source pixels. Zero
	// disables the grid.
	Spacing int

	// Color is the line color as "#RRGGBB". Empty means red.
	Color string

	// ShowCoordinates labels each intersection with its "x,y" position.
	ShowCoordinates bool
}

// GridOverlay returns a copy of img with grid lines every spacing pixels.
//
// Lines are drawn at multiples of the spacing, measured from the image's
// top-left corner. Coordinates in labels are relative to that corner, which
// matches the [y][x] indexing of masks and responses.
func GridOverlay(img image.Image, opts GridOptions) (*image.NRGBA, error) {
	lineColor, err := opts.lineColor()
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	result := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(result, result.Bounds(), img, bounds.Min, draw.Src)

	if opts.Spacing == 0 {
		return result, nil
	}

	for x := opts.Spacing; x < width; x += opts.Spacing {
		for y := 0; y < height; y++ {
			result.Set(x, y, lineColor)
		}
	}
	for y := opts.Spacing; y < height; y += opts.Spacing {
		for x := 0; x < width; x++ {
			result.Set(x, y, lineColor)
		}
	}

	if opts.ShowCoordinates {
		labelBg := color.NRGBA{0, 0, 0, 180}
		for y := opts.Spacing; y < height; y += opts.Spacing {
			for x := opts.Spacing; x < width; x += opts.Spacing {
				drawLabel(result, x+2, y+2, fmt.Sprintf("%d,%d", x, y), color.White, labelBg)
			}
		}
	}

	return result, nil
}

// Validate reports a negative spacing or a malformed color.
func (o GridOptions) Validate() error {
	_, err := o.lineColor()
	return err
}

func (o GridOptions) lineColor() (colorful.Color, error) {
	if o.Spacing < 0 {
		return colorful.Color{}, fmt.Errorf("grid spacing must be >= 0, got %d", o.Spacing)
	}
	hex := o.Color
	if hex == "" {
		hex = "#FF0000"
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid grid color %q: %w", o.Color, err)
	}
	return c, nil
}

// drawLabel draws text on a filled box whose top-left corner is (x, y).
func drawLabel(img *image.NRGBA, x, y int, text string, fg, bg color.Color) {
	const labelHeight = 13
	box := image.Rect(x, y, x+len(text)*glyphWidth+2, y+labelHeight).Intersect(img.Bounds())
	if box.Empty() {
		return
	}
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)
	drawTitle(img, x+1, y+labelHeight-3, img.Bounds().Max.X-x, text, fg)
}
