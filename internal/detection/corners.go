package detection

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/ironsheep/harris-compare/internal/imaging"
)

// Mask values written by the corner detector.
const (
	CornerValue    uint8 = 255
	NonCornerValue uint8 = 0
)

// ErrInvalidParameter is returned when a detector parameter is out of range.
var ErrInvalidParameter = errors.New("invalid parameter")

// Params holds the tunable values of the Harris corner detector.
type Params struct {
	// WindowSize is the side of the square box window used to aggregate the
	// structure tensor. Must be a positive odd integer.
	WindowSize int `json:"window_size"`

	// K is the sensitivity constant of the corner response. Not validated;
	// conventionally between 0.01 and 0.25.
	K float64 `json:"k"`

	// Threshold is the fraction of the maximum response a pixel must exceed
	// to be marked as a corner. Not validated; conventionally in (0, 1).
	Threshold float64 `json:"threshold"`
}

// DefaultParams returns window size 3, k 0.04 and threshold 0.1.
func DefaultParams() Params {
	return Params{
		WindowSize: 3,
		K:          0.04,
		Threshold:  0.1,
	}
}

// Validate reports ErrInvalidParameter when WindowSize is not a positive odd
// integer. K and Threshold are accepted as given.
func (p Params) Validate() error {
	if p.WindowSize < 1 || p.WindowSize%2 == 0 {
		return fmt.Errorf("%w: window size must be a positive odd integer, got %d", ErrInvalidParameter, p.WindowSize)
	}
	return nil
}

// Detect runs the Harris corner detector on an image and returns a binary mask.
//
// Parameters:
//   - img: Source image. An *image.Gray is used as-is; every other image type
//     is treated as a color image and converted with imaging.Intensity
//     (ITU-R BT.601 luma, 0.299*R + 0.587*G + 0.114*B, rounded to 8 bits).
//   - p: Detector parameters. See Params.
//
// Returns:
//   - *image.Gray: Mask with the same width and height as img, origin at (0,0).
//     Corner pixels are 255 (CornerValue), all others 0 (NonCornerValue).
//   - error: ErrInvalidParameter (wrapped) if p.WindowSize is not a positive
//     odd integer.
//
// An all-zero mask is valid output: a constant image, or one where no response
// exceeds the threshold, simply has no corners.
func Detect(img image.Image, p Params) (*image.Gray, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return DetectIntensity(imaging.Intensity(img), p)
}

// DetectIntensity runs the Harris corner detector on a 2D intensity grid.
//
// The grid is indexed [y][x]; every row must have the same non-zero length.
//
// # Algorithm
//
//  1. Gradients: 3x3 Sobel operators give Ix and Iy at every pixel
//
//  2. Products: Ixx = Ix², Ixy = Ix*Iy, Iyy = Iy²
//
//  3. Windowing: a normalized WindowSize x WindowSize box filter turns the
//     products into Sxx, Sxy, Syy
//
//  4. Response: R = (Sxx*Syy - Sxy²) - K*(Sxx + Syy)²
//
//  5. Thresholding: a pixel is a corner iff R > Threshold * max(R)
//
// Border pixels use clamped (replicated) edge values in both the Sobel and the
// box filter step. The box filter divides by WindowSize², which scales R by a
// positive constant and leaves the relative threshold unaffected; with
// WindowSize 1 the sums are the raw per-pixel products.
func DetectIntensity(intensity [][]float64, p Params) (*image.Gray, error) {
	response, err := Response(intensity, p)
	if err != nil {
		return nil, err
	}
	return thresholdResponse(response, p.Threshold), nil
}

// Response computes the Harris corner response R for every pixel of the grid.
//
// The returned grid has the same dimensions as intensity and is freshly
// allocated on every call.
func Response(intensity [][]float64, p Params) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	width, height, err := gridSize(intensity)
	if err != nil {
		return nil, err
	}

	gradX, gradY := sobel(intensity, width, height)
	sxx, sxy, syy := structureTensor(gradX, gradY, width, height, p.WindowSize)

	response := make([][]float64, height)
	for y := 0; y < height; y++ {
		response[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			a, b, c := sxx[y][x], sxy[y][x], syy[y][x]
			det := a*c - b*b
			trace := a + c
			response[y][x] = det - p.K*trace*trace
		}
	}
	return response, nil
}

// CountCorners returns the number of pixels marked as corners in a mask.
func CountCorners(mask *image.Gray) int {
	count := 0
	for _, v := range mask.Pix {
		if v == CornerValue {
			count++
		}
	}
	return count
}

// gridSize returns the width and height of a rectangular, non-empty grid.
func gridSize(grid [][]float64) (int, int, error) {
	height := len(grid)
	if height == 0 || len(grid[0]) == 0 {
		return 0, 0, fmt.Errorf("empty intensity grid")
	}
	width := len(grid[0])
	for y, row := range grid {
		if len(row) != width {
			return 0, 0, fmt.Errorf("intensity grid row %d has %d columns, want %d", y, len(row), width)
		}
	}
	return width, height, nil
}

// sobel computes horizontal and vertical derivatives with the 3x3 Sobel
// operators, replicating edge pixels at the border.
func sobel(img [][]float64, width, height int) ([][]float64, [][]float64) {
	sobelX := [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY := [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}

	gradX := make([][]float64, height)
	gradY := make([][]float64, height)
	for y := 0; y < height; y++ {
		gradX[y] = make([]float64, width)
		gradY[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					gx += img[py][px] * sobelX[ky+1][kx+1]
					gy += img[py][px] * sobelY[ky+1][kx+1]
				}
			}
			gradX[y][x] = gx
			gradY[y][x] = gy
		}
	}
	return gradX, gradY
}

// structureTensor forms the gradient products and box-filters each of them.
func structureTensor(gradX, gradY [][]float64, width, height, windowSize int) (sxx, sxy, syy [][]float64) {
	ixx := make([][]float64, height)
	ixy := make([][]float64, height)
	iyy := make([][]float64, height)
	for y := 0; y < height; y++ {
		ixx[y] = make([]float64, width)
		ixy[y] = make([]float64, width)
		iyy[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			gx, gy := gradX[y][x], gradY[y][x]
			ixx[y][x] = gx * gx
			ixy[y][x] = gx * gy
			iyy[y][x] = gy * gy
		}
	}

	sxx = boxFilter(ixx, width, height, windowSize)
	sxy = boxFilter(ixy, width, height, windowSize)
	syy = boxFilter(iyy, width, height, windowSize)
	return sxx, sxy, syy
}

// boxFilter averages each pixel over a size x size window.
// Border pixels use clamped (replicated) edge values.
func boxFilter(img [][]float64, width, height, size int) [][]float64 {
	radius := size / 2
	area := float64(size * size)

	result := make([][]float64, height)
	for y := 0; y < height; y++ {
		result[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			var sum float64
			for ky := -radius; ky <= radius; ky++ {
				for kx := -radius; kx <= radius; kx++ {
					py := clamp(y+ky, 0, height-1)
					px := clamp(x+kx, 0, width-1)
					sum += img[py][px]
				}
			}
			result[y][x] = sum / area
		}
	}
	return result
}

// thresholdResponse marks every pixel whose response exceeds threshold*max(R).
func thresholdResponse(response [][]float64, threshold float64) *image.Gray {
	height := len(response)
	width := len(response[0])

	maxResponse := response[0][0]
	for _, row := range response {
		for _, v := range row {
			if v > maxResponse {
				maxResponse = v
			}
		}
	}
	limit := threshold * maxResponse

	mask := image.NewGray(image.Rect(0, 0, width, height))
	for y, row := range response {
		for x, v := range row {
			if v > limit {
				mask.SetGray(x, y, color.Gray{Y: CornerValue})
			}
		}
	}
	return mask
}

// clamp constrains an integer value to the range [min, max].
// Used for boundary handling in convolution operations.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
