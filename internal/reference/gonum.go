//go:build !gocv
// +build !gocv

package reference

import (
	"fmt"
	"image"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/harris-compare/internal/detection"
)

// Detector computes the reference Harris response with gonum.
type Detector struct{}

// New creates a reference detector.
func New() *Detector {
	return &Detector{}
}

// Name identifies the backend in titles and logs.
func (d *Detector) Name() string {
	return "gonum cornerHarris"
}

// Response returns the Harris response of a grayscale image, indexed [y][x].
func (d *Detector) Response(gray *image.Gray, p detection.Params) ([][]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bounds := gray.Bounds()
	rows, cols := bounds.Dy(), bounds.Dx()
	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("empty image")
	}

	src := mat.NewDense(rows, cols, nil)
	for y := 0; y < rows; y++ {
		row := gray.Pix[gray.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		for x := 0; x < cols; x++ {
			src.Set(y, x, float64(row[x]))
		}
	}

	gx, gy := sobelReflect(src, sobelScale(p.WindowSize))

	var ixx, ixy, iyy mat.Dense
	ixx.MulElem(gx, gx)
	ixy.MulElem(gx, gy)
	iyy.MulElem(gy, gy)

	sxx := boxSum(&ixx, p.WindowSize)
	sxy := boxSum(&ixy, p.WindowSize)
	syy := boxSum(&iyy, p.WindowSize)

	// R = sxx*syy - sxy² - k*(sxx+syy)²
	var det, cross, trace, trace2, r mat.Dense
	det.MulElem(sxx, syy)
	cross.MulElem(sxy, sxy)
	det.Sub(&det, &cross)
	trace.Add(sxx, syy)
	trace2.MulElem(&trace, &trace)
	trace2.Scale(p.K, &trace2)
	r.Sub(&det, &trace2)

	response := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		response[y] = make([]float64, cols)
		copy(response[y], r.RawRowView(y))
	}
	return response, nil
}

// sobelReflect applies the 3x3 Sobel operators with reflect-101 borders and
// multiplies both derivatives by scale.
func sobelReflect(src *mat.Dense, scale float64) (*mat.Dense, *mat.Dense) {
	rows, cols := src.Dims()
	gx := mat.NewDense(rows, cols, nil)
	gy := mat.NewDense(rows, cols, nil)

	for y := 0; y < rows; y++ {
		up, down := reflect101(y-1, rows), reflect101(y+1, rows)
		for x := 0; x < cols; x++ {
			left, right := reflect101(x-1, cols), reflect101(x+1, cols)

			dx := (src.At(up, right) - src.At(up, left)) +
				2*(src.At(y, right)-src.At(y, left)) +
				(src.At(down, right) - src.At(down, left))
			dy := (src.At(down, left) - src.At(up, left)) +
				2*(src.At(down, x)-src.At(up, x)) +
				(src.At(down, right) - src.At(up, right))

			gx.Set(y, x, dx*scale)
			gy.Set(y, x, dy*scale)
		}
	}
	return gx, gy
}

// boxSum adds up every size x size neighbourhood without normalizing.
// Borders use reflect-101.
func boxSum(src *mat.Dense, size int) *mat.Dense {
	rows, cols := src.Dims()
	radius := size / 2
	dst := mat.NewDense(rows, cols, nil)

	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			var sum float64
			for ky := -radius; ky <= radius; ky++ {
				py := reflect101(y+ky, rows)
				for kx := -radius; kx <= radius; kx++ {
					sum += src.At(py, reflect101(x+kx, cols))
				}
			}
			dst.Set(y, x, sum)
		}
	}
	return dst
}

// reflect101 maps an out-of-range index back into [0, n) by mirroring around
// the edge pixel without repeating it.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}
