package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// ITU-R BT.601 luma weights used for every grayscale conversion in this
// module, so that the custom and the reference detector see identical input.
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// GrayImage converts an image to 8-bit grayscale.
//
// An *image.Gray is returned unchanged. Any other image is treated as a color
// image and converted with
//
//	Y = round(0.299*R + 0.587*G + 0.114*B)
//
// over its straight (non-premultiplied) 8-bit channels. Alpha is dropped
// before the weights are applied, so a translucent pixel converts like its
// opaque color. The returned image keeps the bounds of the source.
func GrayImage(img image.Image) *image.Gray {
	if gray, ok := img.(*image.Gray); ok {
		return gray
	}

	bounds := img.Bounds()
	result := image.NewGray(bounds)
	if bounds.Empty() {
		return result
	}

	opaque := imaging.Clone(img)
	for i := 3; i < len(opaque.Pix); i += 4 {
		opaque.Pix[i] = 0xff
	}

	// bild writes the luma into R, G and B alike
	luma := effect.GrayscaleWithWeights(opaque, LumaR, LumaG, LumaB)
	for y := 0; y < bounds.Dy(); y++ {
		srcRow := luma.Pix[y*luma.Stride:]
		dstRow := result.Pix[y*result.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			dstRow[x] = srcRow[x*4]
		}
	}
	return result
}

// Intensity returns the grayscale intensity of an image as a [y][x] grid of
// values in the range 0-255, using the same conversion as GrayImage.
//
// The grid is indexed from (0,0) regardless of the image's bounds origin.
func Intensity(img image.Image) [][]float64 {
	gray := GrayImage(img)
	bounds := gray.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	grid := make([][]float64, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]float64, width)
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < width; x++ {
			grid[y][x] = float64(row[x])
		}
	}
	return grid
}
