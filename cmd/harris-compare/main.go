package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/pflag"

	"github.com/ironsheep/harris-compare/internal/compare"
	"github.com/ironsheep/harris-compare/internal/config"
	"github.com/ironsheep/harris-compare/internal/detection"
	"github.com/ironsheep/harris-compare/internal/logger"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}
	flags := newFlagSet(cfg)

	// Handle --version and --help before anything else
	if len(args) > 0 {
		switch args[0] {
		case "--version", "-v", "version":
			fmt.Printf("harris-compare %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return 0
		case "--help", "-h", "help":
			printHelp(flags)
			return 0
		}
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 2
	}

	logFile, err := logger.Init(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger.Debugf("harris-compare v%s (built %s, commit %s)", Version, BuildTime, GitCommit)

	if err := cfg.Validate(); err != nil {
		log.Printf("Configuration error: %v", err)
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		if errors.Is(err, detection.ErrInvalidParameter) {
			return 2
		}
		return 1
	}

	summary, err := compare.Run(cfg)
	if err != nil {
		log.Printf("Application error: %v", err)
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		return 1
	}

	compare.PrintSummary(os.Stdout, summary)
	if summary.Failed > 0 {
		return 1
	}
	return 0
}

// newFlagSet defines the command-line flags. Their defaults come from cfg, so
// flags override .env and environment values.
func newFlagSet(cfg *config.Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("harris-compare", pflag.ContinueOnError)

	fs.StringVarP(&cfg.Folder, "input", "i", cfg.Folder, "Folder containing the images to compare.")
	fs.StringVarP(&cfg.OutputDir, "output", "o", cfg.OutputDir, "Directory to save comparison figures.")
	fs.IntVarP(&cfg.WindowSize, "window-size", "w", cfg.WindowSize, "Side of the box window; a positive odd integer.")
	fs.Float64VarP(&cfg.K, "k", "k", cfg.K, "Harris sensitivity constant.")
	fs.Float64VarP(&cfg.Threshold, "threshold", "t", cfg.Threshold, "Fraction of the maximum response a corner must exceed.")
	fs.IntVarP(&cfg.Workers, "workers", "j", cfg.Workers, "Number of images processed concurrently.")
	fs.IntVar(&cfg.PanelWidth, "panel-width", cfg.PanelWidth, "Scale every panel to this width (0 keeps native size).")
	fs.IntVar(&cfg.PanelGap, "gap", cfg.PanelGap, "Spacing between panels in pixels (0 uses the default of 8).")
	fs.StringVar(&cfg.Background, "background", cfg.Background, "Figure background color as #RRGGBB (default white).")
	fs.IntVar(&cfg.GridSpacing, "grid", cfg.GridSpacing, "Draw a coordinate grid over the original every N pixels (0 disables).")
	fs.StringVar(&cfg.GridColor, "grid-color", cfg.GridColor, "Grid line color as #RRGGBB (default red).")
	fs.BoolVar(&cfg.GridLabels, "grid-labels", cfg.GridLabels, "Label grid intersections with their coordinates.")
	fs.StringVar(&cfg.CustomColormap, "custom-colormap", cfg.CustomColormap, "Colormap of the custom mask panel (cubehelix, flag, gray).")
	fs.StringVar(&cfg.ReferenceColormap, "reference-colormap", cfg.ReferenceColormap, "Colormap of the reference response panel (cubehelix, flag, gray).")
	fs.BoolVar(&cfg.ShowResponse, "show-response", cfg.ShowResponse, "Add a panel with the custom response field.")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (info, debug).")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to this file instead of stderr.")
	fs.BoolVar(&cfg.Progress, "progress", cfg.Progress, "Show a progress spinner on stderr.")

	return fs
}

func printHelp(fs *pflag.FlagSet) {
	fmt.Println("harris-compare - compare a custom Harris corner detector with a reference implementation")
	fmt.Println()
	fmt.Println("Usage: harris-compare [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Print(fs.FlagUsages())
	fmt.Println()
	fmt.Println("Environment variables (also read from .env):")
	fmt.Println("  HARRIS_FOLDER, HARRIS_OUTPUT_DIR, HARRIS_WINDOW_SIZE, HARRIS_K,")
	fmt.Println("  HARRIS_THRESHOLD, HARRIS_WORKERS, HARRIS_PANEL_WIDTH, HARRIS_PANEL_GAP,")
	fmt.Println("  HARRIS_BACKGROUND, HARRIS_GRID_SPACING, HARRIS_GRID_COLOR, HARRIS_GRID_LABELS,")
	fmt.Println("  HARRIS_CUSTOM_COLORMAP, HARRIS_REFERENCE_COLORMAP, HARRIS_SHOW_RESPONSE,")
	fmt.Println("  HARRIS_LOG_LEVEL=debug, HARRIS_LOG_FILE, HARRIS_PROGRESS")
	fmt.Println()
	fmt.Println("One <name>_harris.png figure is written per image: the original, the")
	fmt.Println("custom corner mask and the reference response side by side.")
}
