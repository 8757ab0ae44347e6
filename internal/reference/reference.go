package reference

import (
	"image"
	"image/color"

	"gonum.org/v1/gonum/floats"

	"github.com/ironsheep/harris-compare/internal/detection"
)

// Mask thresholds a response grid the same way the custom detector does:
// pixels with R > threshold * max(R) are 255, all others 0.
func Mask(response [][]float64, threshold float64) *image.Gray {
	height := len(response)
	if height == 0 || len(response[0]) == 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}
	width := len(response[0])

	maxResponse := floats.Max(response[0])
	for _, row := range response[1:] {
		if m := floats.Max(row); m > maxResponse {
			maxResponse = m
		}
	}
	limit := threshold * maxResponse

	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y, row := range response {
		for x, v := range row {
			if v > limit {
				mask.SetGray(x, y, color.Gray{Y: detection.CornerValue})
			}
		}
	}
	return mask
}

// sobelScale is the derivative scale cornerHarris applies to 8-bit input with
// a 3x3 aperture.
func sobelScale(blockSize int) float64 {
	return 1.0 / (4 * float64(blockSize) * 255)
}
