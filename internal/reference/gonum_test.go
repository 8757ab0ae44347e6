//go:build !gocv
// +build !gocv

package reference

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestReflect101(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{0, 5, 0},
		{4, 5, 4},
		{-1, 5, 1},
		{-2, 5, 2},
		{5, 5, 3},
		{6, 5, 2},
		{-1, 1, 0},
		{3, 1, 0},
		{5, 2, 1},
	}

	for _, tt := range tests {
		require.Equalf(t, tt.want, reflect101(tt.i, tt.n), "reflect101(%d, %d)", tt.i, tt.n)
	}
}

func TestSobelReflect_Ramp(t *testing.T) {
	// Value equals the column index
	src := mat.NewDense(3, 5, nil)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			src.Set(y, x, float64(x))
		}
	}

	gx, gy := sobelReflect(src, 1)

	for y := 0; y < 3; y++ {
		// Mirrored neighbours cancel at the left and right edges
		require.Equal(t, 0.0, gx.At(y, 0))
		require.Equal(t, 0.0, gx.At(y, 4))
		for x := 1; x < 4; x++ {
			require.Equal(t, 8.0, gx.At(y, x))
		}
		for x := 0; x < 5; x++ {
			require.Equal(t, 0.0, gy.At(y, x))
		}
	}
}

func TestSobelReflect_Scale(t *testing.T) {
	src := mat.NewDense(3, 3, []float64{
		0, 0, 255,
		0, 0, 255,
		0, 0, 255,
	})

	gx, _ := sobelReflect(src, sobelScale(3))

	// 4*255 from the kernel, divided by 4*3*255
	require.InDelta(t, 1.0/3.0, gx.At(1, 1), 1e-12)
}

func TestBoxSum_Unnormalized(t *testing.T) {
	ones := mat.NewDense(4, 4, nil)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			ones.Set(y, x, 1)
		}
	}

	for _, size := range []int{1, 3, 5} {
		sum := boxSum(ones, size)
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				require.Equal(t, float64(size*size), sum.At(y, x))
			}
		}
	}
}
