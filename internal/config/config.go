// Package config holds the harris-compare settings and loads them from an
// optional .env file and HARRIS_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/harris-compare/internal/detection"
	"github.com/ironsheep/harris-compare/internal/imaging"
	"github.com/ironsheep/harris-compare/internal/logger"
)

// Environment variables read by Load.
const (
	EnvFolder            = "HARRIS_FOLDER"
	EnvOutputDir         = "HARRIS_OUTPUT_DIR"
	EnvWindowSize        = "HARRIS_WINDOW_SIZE"
	EnvK                 = "HARRIS_K"
	EnvThreshold         = "HARRIS_THRESHOLD"
	EnvWorkers           = "HARRIS_WORKERS"
	EnvPanelWidth        = "HARRIS_PANEL_WIDTH"
	EnvGridSpacing       = "HARRIS_GRID_SPACING"
	EnvGridColor         = "HARRIS_GRID_COLOR"
	EnvGridLabels        = "HARRIS_GRID_LABELS"
	EnvBackground        = "HARRIS_BACKGROUND"
	EnvPanelGap          = "HARRIS_PANEL_GAP"
	EnvCustomColormap    = "HARRIS_CUSTOM_COLORMAP"
	EnvReferenceColormap = "HARRIS_REFERENCE_COLORMAP"
	EnvShowResponse      = "HARRIS_SHOW_RESPONSE"
	EnvLogLevel          = "HARRIS_LOG_LEVEL"
	EnvLogFile           = "HARRIS_LOG_FILE"
	EnvProgress          = "HARRIS_PROGRESS"
)

// DefaultEnvFile is the .env file Load reads when no path is given.
const DefaultEnvFile = ".env"

// Config holds every setting of a comparison run.
type Config struct {
	// Folder is the directory the images are read from.
	Folder string

	// OutputDir receives one <name>_harris.png figure per image.
	OutputDir string

	// Detector parameters, shared by the custom and the reference detector.
	WindowSize int
	K          float64
	Threshold  float64

	// Workers is the number of images processed concurrently.
	Workers int

	// PanelWidth scales every panel to this width. Zero keeps native size.
	PanelWidth int

	// PanelGap is the spacing between panels. Zero uses the renderer default.
	PanelGap int

	// Background is the figure background as "#RRGGBB"; empty means white.
	Background string

	// GridSpacing draws a coordinate grid over the original panel. Zero
	// disables it.
	GridSpacing int
	GridColor   string
	GridLabels  bool

	CustomColormap    string
	ReferenceColormap string

	// ShowResponse adds a fourth panel with the custom response field.
	ShowResponse bool

	LogLevel string
	LogFile  string

	// Progress shows a spinner on stderr while images are processed.
	Progress bool
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	p := detection.DefaultParams()
	return &Config{
		Folder:            "./images",
		OutputDir:         "./output",
		WindowSize:        p.WindowSize,
		K:                 p.K,
		Threshold:         p.Threshold,
		Workers:           1,
		CustomColormap:    "cubehelix",
		ReferenceColormap: "flag",
		LogLevel:          logger.LevelInfo,
	}
}

// Load returns the defaults overridden by the .env files and then by the
// process environment. Missing .env files are ignored; with no arguments
// DefaultEnvFile is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{DefaultEnvFile}
	}

	fileVars := map[string]string{}
	for _, path := range envFiles {
		vars, err := godotenv.Read(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		for k, v := range vars {
			fileVars[k] = v
		}
	}

	lookup := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := fileVars[key]
		return v, ok
	}

	cfg := Default()
	if err := cfg.apply(lookup); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) apply(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvFolder:            &c.Folder,
		EnvOutputDir:         &c.OutputDir,
		EnvCustomColormap:    &c.CustomColormap,
		EnvReferenceColormap: &c.ReferenceColormap,
		EnvLogLevel:          &c.LogLevel,
		EnvLogFile:           &c.LogFile,
		EnvGridColor:         &c.GridColor,
		EnvBackground:        &c.Background,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	ints := map[string]*int{
		EnvWindowSize:  &c.WindowSize,
		EnvWorkers:     &c.Workers,
		EnvPanelWidth:  &c.PanelWidth,
		EnvGridSpacing: &c.GridSpacing,
		EnvPanelGap:    &c.PanelGap,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %q is not an integer", key, v)
		}
		*dst = n
	}

	floats := map[string]*float64{
		EnvK:         &c.K,
		EnvThreshold: &c.Threshold,
	}
	for key, dst := range floats {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: %q is not a number", key, v)
		}
		*dst = f
	}

	bools := map[string]*bool{
		EnvShowResponse: &c.ShowResponse,
		EnvProgress:     &c.Progress,
		EnvGridLabels:   &c.GridLabels,
	}
	for key, dst := range bools {
		v, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %q is not a boolean", key, v)
		}
		*dst = b
	}
	return nil
}

// Params returns the detector parameters.
func (c *Config) Params() detection.Params {
	return detection.Params{
		WindowSize: c.WindowSize,
		K:          c.K,
		Threshold:  c.Threshold,
	}
}

// RenderOptions returns the figure layout settings.
func (c *Config) RenderOptions() imaging.RenderOptions {
	return imaging.RenderOptions{
		PanelWidth: c.PanelWidth,
		Background: c.Background,
		Gap:        c.PanelGap,
	}
}

// GridOptions returns the coordinate grid settings for the original panel.
func (c *Config) GridOptions() imaging.GridOptions {
	return imaging.GridOptions{
		Spacing:         c.GridSpacing,
		Color:           c.GridColor,
		ShowCoordinates: c.GridLabels,
	}
}

// Validate checks the settings before a run. Detector parameter errors wrap
// detection.ErrInvalidParameter.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Folder == "" {
		return fmt.Errorf("input folder is required")
	}
	info, err := os.Stat(c.Folder)
	if err != nil {
		return fmt.Errorf("input folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input folder %s is not a directory", c.Folder)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be a positive integer, got %d", c.Workers)
	}
	if _, err := imaging.NewRenderer(c.RenderOptions()); err != nil {
		return err
	}
	if err := c.GridOptions().Validate(); err != nil {
		return err
	}
	if _, err := imaging.ColormapByName(c.CustomColormap); err != nil {
		return fmt.Errorf("custom colormap: %w", err)
	}
	if _, err := imaging.ColormapByName(c.ReferenceColormap); err != nil {
		return fmt.Errorf("reference colormap: %w", err)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}
