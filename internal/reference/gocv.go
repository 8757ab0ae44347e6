//go:build gocv
// +build gocv

package reference

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/ironsheep/harris-compare/internal/detection"
)

// Detector computes the reference Harris response with OpenCV.
type Detector struct{}

// New creates a reference detector.
func New() *Detector {
	return &Detector{}
}

// Name identifies the backend in titles and logs.
func (d *Detector) Name() string {
	return "OpenCV cornerHarris"
}

// Response returns the Harris response of a grayscale image, indexed [y][x].
func (d *Detector) Response(gray *image.Gray, p detection.Params) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if gray.Bounds().Empty() {
		return nil, fmt.Errorf("empty image")
	}

	// ImageGrayToMatGray expects the pixels to start at the buffer origin
	src := image.NewGray(image.Rect(0, 0, gray.Bounds().Dx(), gray.Bounds().Dy()))
	for y := 0; y < src.Rect.Dy(); y++ {
		copy(src.Pix[y*src.Stride:(y+1)*src.Stride], gray.Pix[gray.PixOffset(gray.Bounds().Min.X, gray.Bounds().Min.Y+y):])
	}

	mat, err := gocv.ImageGrayToMatGray(src)
	if err != nil {
		return nil, fmt.Errorf("failed to convert image: %w", err)
	}
	defer mat.Close()

	scale := sobelScale(p.WindowSize)
	gx := gocv.NewMat()
	defer gx.Close()
	gy := gocv.NewMat()
	defer gy.Close()
	gocv.Sobel(mat, &gx, gocv.MatTypeCV64F, 1, 0, 3, scale, 0, gocv.BorderReflect101)
	gocv.Sobel(mat, &gy, gocv.MatTypeCV64F, 0, 1, 3, scale, 0, gocv.BorderReflect101)

	ixx := gocv.NewMat()
	defer ixx.Close()
	ixy := gocv.NewMat()
	defer ixy.Close()
	iyy := gocv.NewMat()
	defer iyy.Close()
	gocv.Multiply(gx, gx, &ixx)
	gocv.Multiply(gx, gy, &ixy)
	gocv.Multiply(gy, gy, &iyy)

	// BoxFilter normalizes with the default reflect-101 border; the area
	// factor is restored below
	window := image.Pt(p.WindowSize, p.WindowSize)
	sxx := gocv.NewMat()
	defer sxx.Close()
	sxy := gocv.NewMat()
	defer sxy.Close()
	syy := gocv.NewMat()
	defer syy.Close()
	gocv.BoxFilter(ixx, &sxx, -1, window)
	gocv.BoxFilter(ixy, &sxy, -1, window)
	gocv.BoxFilter(iyy, &syy, -1, window)

	area := float64(p.WindowSize * p.WindowSize)
	rows, cols := mat.Rows(), mat.Cols()
	response := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		response[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			a := sxx.GetDoubleAt(y, x) * area
			b := sxy.GetDoubleAt(y, x) * area
			c := syy.GetDoubleAt(y, x) * area
			trace := a + c
			response[y][x] = a*c - b*b - p.K*trace*trace
		}
	}
	return response, nil
}
