package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestColormaps_Endpoints(t *testing.T) {
	tests := []struct {
		name  string
		cm    Colormap
		t     float64
		wantR uint8
		wantG uint8
		wantB uint8
	}{
		{"gray low", Gray, 0, 0, 0, 0},
		{"gray high", Gray, 1, 255, 255, 255},
		{"cubehelix low", Cubehelix, 0, 0, 0, 0},
		{"cubehelix high", Cubehelix, 1, 255, 255, 255},
		{"flag low", Flag, 0, 255, 0, 0},
		{"gray clamps below", Gray, -3, 0, 0, 0},
		{"gray clamps above", Gray, 7, 255, 255, 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := tt.cm(tt.t).RGB255()
			if r != tt.wantR || g != tt.wantG || b != tt.wantB {
				t.Errorf("got (%d,%d,%d), want (%d,%d,%d)", r, g, b, tt.wantR, tt.wantG, tt.wantB)
			}
		})
	}
}

func TestCubehelix_MonotonicLuma(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 20; i++ {
		c := Cubehelix(float64(i) / 20)
		luma := LumaR*c.R + LumaG*c.G + LumaB*c.B
		if luma <= prev {
			t.Errorf("luma not increasing at step %d: %.3f after %.3f", i, luma, prev)
		}
		prev = luma
	}
}

func TestColormapByName(t *testing.T) {
	for _, name := range []string{"gray", "Cubehelix", "FLAG"} {
		if _, err := ColormapByName(name); err != nil {
			t.Errorf("ColormapByName(%q): unexpected error %v", name, err)
		}
	}

	if _, err := ColormapByName("viridis"); err == nil {
		t.Error("ColormapByName should fail for an unknown name")
	}
}

func TestApplyColormap(t *testing.T) {
	grid := [][]float64{
		{-10, 0, 10},
		{10, 10, -10},
	}

	img := ApplyColormap(grid, Gray)

	if img.Bounds() != image.Rect(0, 0, 3, 2) {
		t.Fatalf("bounds: got %v, want (0,0)-(3,2)", img.Bounds())
	}

	checks := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 0},
		{1, 0, 128},
		{2, 0, 255},
		{2, 1, 0},
	}
	for _, c := range checks {
		got := img.NRGBAAt(c.x, c.y)
		if got.R != c.want || got.A != 255 {
			t.Errorf("pixel (%d,%d): got %v, want gray %d", c.x, c.y, got, c.want)
		}
	}
}

func TestApplyColormap_ConstantGrid(t *testing.T) {
	grid := [][]float64{{5, 5}, {5, 5}}

	img := ApplyColormap(grid, Gray)

	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if c := img.NRGBAAt(x, y); c != (color.NRGBA{0, 0, 0, 255}) {
				t.Errorf("pixel (%d,%d): got %v, want opaque black", x, y, c)
			}
		}
	}
}

func TestApplyColormap_Empty(t *testing.T) {
	img := ApplyColormap(nil, Gray)
	if !img.Bounds().Empty() {
		t.Errorf("empty grid should give empty image, got %v", img.Bounds())
	}
}

func TestMaskToGrid(t *testing.T) {
	mask := image.NewGray(image.Rect(0, 0, 3, 2))
	mask.SetGray(2, 1, color.Gray{Y: 255})

	grid := MaskToGrid(mask)

	if len(grid) != 2 || len(grid[0]) != 3 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", len(grid[0]), len(grid))
	}
	if grid[1][2] != 255 || grid[0][0] != 0 {
		t.Errorf("grid values: got %v", grid)
	}
}
