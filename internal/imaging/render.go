package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	titleBarHeight = 22
	glyphWidth     = 7 // basicfont.Face7x13 advance
	defaultGap     = 8
)

// Panel is one titled image in a comparison figure.
type Panel struct {
	// Title is drawn above the panel. Titles wider than the panel are
	// truncated.
	Title string

	// Image is the panel content.
	Image image.Image

	// Smooth selects Lanczos resampling when the panel is resized. Masks and
	// colormapped responses should leave it false so nearest-neighbor
	// resampling keeps their pixel values intact.
	Smooth bool
}

// RenderOptions configures a Renderer.
type RenderOptions struct {
	// PanelWidth is the width every panel is scaled to, preserving aspect
	// ratio. Zero keeps each panel at its native size.
	PanelWidth int

	// Background is the figure background as "#RRGGBB". Empty means white.
	Background string

	// Gap is the spacing between and around panels in pixels. Zero uses the
	// default of 8; negative values are rejected.
	Gap int
}

// Renderer lays out panels side by side into a single figure.
type Renderer struct {
	panelWidth int
	gap        int
	background color.Color
	foreground color.Color
}

// NewRenderer validates the options and creates a Renderer.
func NewRenderer(opts RenderOptions) (*Renderer, error) {
	if opts.PanelWidth < 0 {
		return nil, fmt.Errorf("panel width must be >= 0, got %d", opts.PanelWidth)
	}
	if opts.Gap < 0 {
		return nil, fmt.Errorf("panel gap must be >= 0, got %d", opts.Gap)
	}

	bgHex := opts.Background
	if bgHex == "" {
		bgHex = "#FFFFFF"
	}
	bg, err := colorful.Hex(bgHex)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", opts.Background, err)
	}

	// Titles are black on light backgrounds and white on dark ones
	var fg color.Color = color.Black
	if _, _, l := bg.Hsl(); l < 0.5 {
		fg = color.White
	}

	gap := opts.Gap
	if gap == 0 {
		gap = defaultGap
	}

	return &Renderer{
		panelWidth: opts.PanelWidth,
		gap:        gap,
		background: bg,
		foreground: fg,
	}, nil
}

// Compose places panels left to right, each under its title bar.
//
// Returns:
//   - *image.NRGBA: The composed figure with origin (0,0).
//   - error: Non-nil if no panels are given or a panel image is empty.
func (r *Renderer) Compose(panels []Panel) (*image.NRGBA, error) {
	if len(panels) == 0 {
		return nil, fmt.Errorf("no panels to render")
	}

	scaled := make([]image.Image, len(panels))
	totalWidth := r.gap
	maxHeight := 0
	for i, p := range panels {
		if p.Image == nil || p.Image.Bounds().Empty() {
			return nil, fmt.Errorf("panel %d (%s) has no image", i, p.Title)
		}
		img := r.scale(p)
		scaled[i] = img
		totalWidth += img.Bounds().Dx() + r.gap
		if h := img.Bounds().Dy(); h > maxHeight {
			maxHeight = h
		}
	}

	canvas := imaging.New(totalWidth, titleBarHeight+maxHeight+2*r.gap, r.background)

	x := r.gap
	for i, img := range scaled {
		canvas = imaging.Paste(canvas, img, image.Pt(x, r.gap+titleBarHeight))
		drawTitle(canvas, x, r.gap+titleBarHeight-6, img.Bounds().Dx(), panels[i].Title, r.foreground)
		x += img.Bounds().Dx() + r.gap
	}

	return canvas, nil
}

// Save writes a figure to disk. The format is chosen from the file extension.
func Save(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save figure: %w", err)
	}
	return nil
}

func (r *Renderer) scale(p Panel) image.Image {
	width := p.Image.Bounds().Dx()
	if r.panelWidth == 0 || r.panelWidth == width {
		return p.Image
	}

	filter := imaging.NearestNeighbor
	if p.Smooth {
		filter = imaging.Lanczos
	}
	return imaging.Resize(p.Image, r.panelWidth, 0, filter)
}

// drawTitle draws a single line of text with its baseline at (x, baseline),
// truncated to fit maxWidth pixels.
func drawTitle(img *image.NRGBA, x, baseline, maxWidth int, text string, col color.Color) {
	maxChars := maxWidth / glyphWidth
	if maxChars <= 0 {
		return
	}
	if len(text) > maxChars {
		if maxChars > 2 {
			text = text[:maxChars-2] + ".."
		} else {
			text = text[:maxChars]
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(baseline)},
	}
	d.DrawString(text)
}
