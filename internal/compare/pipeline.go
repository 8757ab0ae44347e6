package compare

import (
	"fmt"
	"image"
	"time"

	"github.com/ironsheep/harris-compare/internal/config"
	"github.com/ironsheep/harris-compare/internal/detection"
	"github.com/ironsheep/harris-compare/internal/imaging"
	"github.com/ironsheep/harris-compare/internal/reference"
)

// pipeline holds the read-only state shared by all workers.
type pipeline struct {
	params       detection.Params
	detector     *reference.Detector
	renderer     *imaging.Renderer
	customCM     imaging.Colormap
	referenceCM  imaging.Colormap
	grid         imaging.GridOptions
	showResponse bool
}

func newPipeline(cfg *config.Config) (*pipeline, error) {
	params := cfg.Params()
	if err := params.Validate(); err != nil {
		return nil, err
	}

	customCM, err := imaging.ColormapByName(cfg.CustomColormap)
	if err != nil {
		return nil, err
	}
	referenceCM, err := imaging.ColormapByName(cfg.ReferenceColormap)
	if err != nil {
		return nil, err
	}
	grid := cfg.GridOptions()
	if err := grid.Validate(); err != nil {
		return nil, err
	}

	renderer, err := imaging.NewRenderer(cfg.RenderOptions())
	if err != nil {
		return nil, err
	}

	return &pipeline{
		params:       params,
		detector:     reference.New(),
		renderer:     renderer,
		customCM:     customCM,
		referenceCM:  referenceCM,
		grid:         grid,
		showResponse: cfg.ShowResponse,
	}, nil
}

// process runs both detectors on one image and saves the figure to output.
func (p *pipeline) process(src imaging.Source, output string) Result {
	start := time.Now()
	bounds := src.Image.Bounds()
	r := Result{
		Name:          src.Name,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        src.Info.Format,
		ColorDepth:    src.Info.ColorDepth,
		FileSizeBytes: src.Info.FileSizeBytes,
	}
	fail := func(err error) Result {
		r.Err = err
		r.Duration = time.Since(start)
		return r
	}

	// Both detectors see the same 8-bit grayscale image
	gray := imaging.GrayImage(src.Image)

	mask, err := detection.Detect(gray, p.params)
	if err != nil {
		return fail(fmt.Errorf("custom detector: %w", err))
	}
	response, err := p.detector.Response(gray, p.params)
	if err != nil {
		return fail(fmt.Errorf("reference detector: %w", err))
	}
	refMask := reference.Mask(response, p.params.Threshold)

	agreement, err := imaging.CompareMasks(mask, refMask)
	if err != nil {
		return fail(err)
	}
	r.CustomCorners = detection.CountCorners(mask)
	r.ReferenceCorners = detection.CountCorners(refMask)
	r.Agreement = agreement

	panels, err := p.panels(src.Image, gray, mask, response)
	if err != nil {
		return fail(err)
	}
	figure, err := p.renderer.Compose(panels)
	if err != nil {
		return fail(fmt.Errorf("render: %w", err))
	}
	if err := imaging.Save(figure, output); err != nil {
		return fail(err)
	}

	r.Output = output
	r.Duration = time.Since(start)
	return r
}

// panels builds the figure panels: the original image, the custom mask and
// the raw reference response, plus the custom response when requested.
func (p *pipeline) panels(original image.Image, gray *image.Gray, mask *image.Gray, response [][]float64) ([]imaging.Panel, error) {
	if p.grid.Spacing > 0 {
		withGrid, err := imaging.GridOverlay(original, p.grid)
		if err != nil {
			return nil, err
		}
		original = withGrid
	}

	panels := []imaging.Panel{
		{Title: TitleOriginal, Image: original, Smooth: true},
		{Title: TitleCustom, Image: imaging.ApplyColormap(imaging.MaskToGrid(mask), p.customCM)},
		{Title: TitleReference, Image: imaging.ApplyColormap(response, p.referenceCM)},
	}

	if p.showResponse {
		custom, err := detection.Response(imaging.Intensity(gray), p.params)
		if err != nil {
			return nil, fmt.Errorf("custom response: %w", err)
		}
		panels = append(panels, imaging.Panel{Title: TitleResponse, Image: imaging.ApplyColormap(custom, p.customCM)})
	}
	return panels, nil
}
