package compare

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ironsheep/harris-compare/internal/config"
	"github.com/ironsheep/harris-compare/internal/detection"
	"github.com/ironsheep/harris-compare/internal/imaging"
)

// squareImage draws a white square from lo to hi-1 on a black background.
func squareImage(size, lo, hi int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := color.RGBA{0, 0, 0, 255}
			if x >= lo && x < hi && y >= lo && y < hi {
				c = color.RGBA{255, 255, 255, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func writePNG(t *testing.T, dir, name string, img image.Image) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, name))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

// testConfig returns a config reading from a fresh folder with two square
// images and one unreadable file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	in := t.TempDir()
	writePNG(t, in, "square.png", squareImage(40, 10, 30))
	writePNG(t, in, "small.png", squareImage(24, 6, 18))
	require.NoError(t, os.WriteFile(filepath.Join(in, "readme.txt"), []byte("not an image"), 0o644))

	cfg := config.Default()
	cfg.Folder = in
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	return cfg
}

func decodeFigure(t *testing.T, path string) image.Image {
	t.Helper()
	img, err := imaging.Load(path)
	require.NoError(t, err)
	return img
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)

	summary, err := Run(cfg)
	require.NoError(t, err)

	require.Len(t, summary.Results, 2)
	require.Equal(t, 2, summary.Processed())
	require.Equal(t, 0, summary.Failed)
	require.Len(t, summary.Skipped, 1)
	require.Equal(t, "readme.txt", summary.Skipped[0].Name)

	require.Equal(t, "small.png", summary.Results[0].Name)
	require.Equal(t, "square.png", summary.Results[1].Name)

	square := summary.Results[1]
	require.NoError(t, square.Err)
	require.Equal(t, 40, square.Width)
	require.Equal(t, 40, square.Height)
	require.Positive(t, square.CustomCorners)
	require.Positive(t, square.ReferenceCorners)
	require.GreaterOrEqual(t, square.Agreement.Jaccard, 0.9)
	require.Equal(t, filepath.Join(cfg.OutputDir, "square_harris.png"), square.Output)
	require.Equal(t, "png", square.Format)
	require.Equal(t, "8-bit", square.ColorDepth)
	require.Positive(t, square.FileSizeBytes)

	// Three native-size panels: 8 + 3*(40+8) wide, title bar + 40 + 2*8 high
	figure := decodeFigure(t, square.Output)
	require.Equal(t, 152, figure.Bounds().Dx())
	require.Equal(t, 78, figure.Bounds().Dy())

	require.FileExists(t, filepath.Join(cfg.OutputDir, "small_harris.png"))
}

func TestRun_MatchesDetector(t *testing.T) {
	cfg := testConfig(t)

	summary, err := Run(cfg)
	require.NoError(t, err)

	mask, err := detection.Detect(squareImage(40, 10, 30), cfg.Params())
	require.NoError(t, err)
	require.Equal(t, detection.CountCorners(mask), summary.Results[1].CustomCorners)
}

func TestRun_InvalidWindowAbortsBeforeWork(t *testing.T) {
	cfg := testConfig(t)
	cfg.WindowSize = 4

	summary, err := Run(cfg)
	require.Nil(t, summary)
	require.True(t, errors.Is(err, detection.ErrInvalidParameter), "got %v", err)

	_, statErr := os.Stat(cfg.OutputDir)
	require.True(t, os.IsNotExist(statErr), "output directory should not be created")
}

func TestRun_MissingFolder(t *testing.T) {
	cfg := config.Default()
	cfg.Folder = filepath.Join(t.TempDir(), "missing")
	cfg.OutputDir = t.TempDir()

	_, err := Run(cfg)
	require.Error(t, err)
}

func TestRun_EmptyFolder(t *testing.T) {
	cfg := config.Default()
	cfg.Folder = t.TempDir()
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")

	summary, err := Run(cfg)
	require.NoError(t, err)
	require.Empty(t, summary.Results)
	require.Equal(t, 0, summary.Processed())
}

func TestRun_SingleImageFailureDoesNotAbort(t *testing.T) {
	cfg := testConfig(t)
	// A directory where the figure should go makes the save fail
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.OutputDir, "small_harris.png"), 0o755))

	summary, err := Run(cfg)
	require.NoError(t, err)

	require.Equal(t, 1, summary.Failed)
	require.Equal(t, 1, summary.Processed())
	require.Error(t, summary.Results[0].Err)
	require.NoError(t, summary.Results[1].Err)
	require.FileExists(t, filepath.Join(cfg.OutputDir, "square_harris.png"))
}

func TestRun_WorkersGiveSameResults(t *testing.T) {
	sequential := testConfig(t)
	seq, err := Run(sequential)
	require.NoError(t, err)

	parallel := testConfig(t)
	parallel.Workers = 3
	par, err := Run(parallel)
	require.NoError(t, err)

	require.Len(t, par.Results, len(seq.Results))
	for i := range seq.Results {
		require.Equal(t, seq.Results[i].Name, par.Results[i].Name)
		require.Equal(t, seq.Results[i].CustomCorners, par.Results[i].CustomCorners)
		require.Equal(t, seq.Results[i].ReferenceCorners, par.Results[i].ReferenceCorners)
	}
}

func TestRun_ExtraPanels(t *testing.T) {
	cfg := testConfig(t)
	cfg.ShowResponse = true
	cfg.GridSpacing = 10
	cfg.GridColor = "#00FF00"
	cfg.GridLabels = true
	cfg.PanelWidth = 80
	cfg.PanelGap = 4
	cfg.Background = "#000000"

	summary, err := Run(cfg)
	require.NoError(t, err)
	require.Equal(t, 0, summary.Failed)

	// Four panels scaled to 80x80 with a 4 pixel gap
	figure := decodeFigure(t, summary.Results[1].Output)
	require.Equal(t, 4+4*(80+4), figure.Bounds().Dx())
	require.Equal(t, 22+80+8, figure.Bounds().Dy())

	r, g, b, _ := figure.At(0, 0).RGBA()
	require.Zero(t, r|g|b, "background should be black")
}

func TestRun_InvalidGridColor(t *testing.T) {
	cfg := testConfig(t)
	cfg.GridSpacing = 10
	cfg.GridColor = "lime"

	_, err := Run(cfg)
	require.Error(t, err)
}

func TestRun_UnknownColormap(t *testing.T) {
	cfg := testConfig(t)
	cfg.ReferenceColormap = "rainbow"

	_, err := Run(cfg)
	require.Error(t, err)
}

func TestOutputNames(t *testing.T) {
	sources := []imaging.Source{
		{Name: "a.jpg"},
		{Name: "a.png"},
		{Name: "b.png"},
		{Name: "photo.large.tiff"},
	}

	require.Equal(t, []string{
		"a_jpg_harris.png",
		"a_png_harris.png",
		"b_harris.png",
		"photo.large_harris.png",
	}, outputNames(sources))
}

func TestOutputNames_Unique(t *testing.T) {
	sources := []imaging.Source{
		{Name: "a.jpg"},
		{Name: "a.png"},
		{Name: "a_png.gif"},
		{Name: "a_png_2.bmp"},
	}

	names := outputNames(sources)

	require.Equal(t, []string{
		"a_jpg_harris.png",
		"a_png_harris.png",
		"a_png_2_harris.png",
		"a_png_2_2_harris.png",
	}, names)
}

func TestRun_CollidingNamesKeepEveryFigure(t *testing.T) {
	in := t.TempDir()
	// PNG content under a .jpg name still decodes; a_png.png collides with
	// the name a.png falls back to
	writePNG(t, in, "a.png", squareImage(20, 5, 15))
	writePNG(t, in, "a.jpg", squareImage(20, 5, 15))
	writePNG(t, in, "a_png.png", squareImage(20, 5, 15))

	cfg := config.Default()
	cfg.Folder = in
	cfg.OutputDir = filepath.Join(t.TempDir(), "out")
	cfg.Workers = 3

	summary, err := Run(cfg)
	require.NoError(t, err)
	require.Equal(t, 3, summary.Processed())

	outputs := map[string]bool{}
	for _, r := range summary.Results {
		outputs[r.Output] = true
	}
	require.Len(t, outputs, 3)

	entries, err := os.ReadDir(cfg.OutputDir)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.FileExists(t, filepath.Join(cfg.OutputDir, "a_png_2_harris.png"))
}

func TestPrintSummary(t *testing.T) {
	s := &Summary{
		Results: []Result{
			{Name: "good.png", Width: 40, Height: 30, Format: "png", ColorDepth: "16-bit", CustomCorners: 12, ReferenceCorners: 11, Agreement: &imaging.MaskAgreement{Jaccard: 0.917}},
			{Name: "bad.png", Width: 10, Height: 10, Err: errors.New("disk full")},
		},
		Skipped:  []imaging.SkippedFile{{Name: "notes.txt"}},
		Failed:   1,
		Duration: 1500 * time.Millisecond,
	}

	var buf bytes.Buffer
	PrintSummary(&buf, s)
	out := buf.String()

	for _, want := range []string{"good.png", "png 16-bit", "40x30", "0.917", "bad.png", "disk full", "notes.txt", "Processed 1, failed 1, skipped 1"} {
		require.Contains(t, out, want)
	}
	require.Equal(t, 5, strings.Count(out, "\n"))
}

func TestStartSpinner(t *testing.T) {
	var buf bytes.Buffer
	processed := int64(3)

	stop := startSpinner(&buf, &processed, 3)
	time.Sleep(150 * time.Millisecond)
	stop()

	require.Contains(t, buf.String(), "Detection complete. 3/3 images processed.")
}
