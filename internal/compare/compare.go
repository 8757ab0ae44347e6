// Package compare runs the custom and the reference Harris detector over a
// folder of images and writes one comparison figure per image.
package compare

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ironsheep/harris-compare/internal/config"
	"github.com/ironsheep/harris-compare/internal/imaging"
	"github.com/ironsheep/harris-compare/internal/logger"
)

// Panel titles of the comparison figure.
const (
	TitleOriginal  = "Original"
	TitleCustom    = "Custom Harris Corner Detection"
	TitleReference = "Reference CornerHarris"
	TitleResponse  = "Custom Harris Response"
)

// OutputSuffix is appended to the image name stem for the saved figure.
const OutputSuffix = "_harris.png"

// Result describes the outcome for one image.
type Result struct {
	Name   string
	Output string
	Width  int
	Height int

	// Source file metadata from the folder scan.
	Format        string
	ColorDepth    string
	FileSizeBytes int64

	CustomCorners    int
	ReferenceCorners int
	Agreement        *imaging.MaskAgreement

	Duration time.Duration

	// Err is set when the image could not be processed. Other images are
	// unaffected.
	Err error
}

// Summary collects the results of a run, sorted by image name.
type Summary struct {
	Results  []Result
	Skipped  []imaging.SkippedFile
	Failed   int
	Duration time.Duration
}

// Processed returns the number of images whose figure was written.
func (s *Summary) Processed() int {
	return len(s.Results) - s.Failed
}

// Run processes every readable image in cfg.Folder.
//
// Detector parameters are checked before anything is read, so an invalid
// window size returns detection.ErrInvalidParameter without touching the
// folder. Unreadable files are skipped and failures on single images are
// recorded in their Result; only folder-level problems abort the run.
func Run(cfg *config.Config) (*Summary, error) {
	start := time.Now()

	p, err := newPipeline(cfg)
	if err != nil {
		return nil, err
	}

	folder, err := imaging.LoadFolder(cfg.Folder)
	if err != nil {
		return nil, err
	}
	for _, s := range folder.Skipped {
		log.Printf("Skipping %s: %v", s.Name, s.Err)
	}
	if len(folder.Sources) == 0 {
		log.Printf("No readable images in %s", cfg.Folder)
		return &Summary{Skipped: folder.Skipped, Duration: time.Since(start)}, nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(folder.Sources) {
		workers = len(folder.Sources)
	}
	log.Printf("Comparing %d images with %d workers (window %d, k %g, threshold %g, reference %s)",
		len(folder.Sources), workers, p.params.WindowSize, p.params.K, p.params.Threshold, p.detector.Name())

	outputs := outputNames(folder.Sources)
	jobs := make(chan job, len(folder.Sources))
	results := make(chan Result, len(folder.Sources))
	var processed int64

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker(&wg, jobs, results, &processed, p)
	}

	var stop func()
	if cfg.Progress {
		stop = startSpinner(os.Stderr, &processed, int64(len(folder.Sources)))
	}

	for i, src := range folder.Sources {
		jobs <- job{source: src, output: filepath.Join(cfg.OutputDir, outputs[i])}
	}
	close(jobs)

	wg.Wait()
	close(results)
	if stop != nil {
		stop()
	}

	summary := &Summary{
		Results: make([]Result, 0, len(folder.Sources)),
		Skipped: folder.Skipped,
	}
	for r := range results {
		if r.Err != nil {
			summary.Failed++
		}
		summary.Results = append(summary.Results, r)
	}
	sort.Slice(summary.Results, func(i, j int) bool {
		return summary.Results[i].Name < summary.Results[j].Name
	})
	summary.Duration = time.Since(start)

	log.Printf("Wrote %d figures to %s in %s (%d failed, %d skipped)",
		summary.Processed(), cfg.OutputDir, summary.Duration.Round(time.Millisecond), summary.Failed, len(summary.Skipped))
	return summary, nil
}

type job struct {
	source imaging.Source
	output string
}

// worker processes jobs until the channel is closed.
func worker(wg *sync.WaitGroup, jobs <-chan job, results chan<- Result, processed *int64, p *pipeline) {
	defer wg.Done()
	for j := range jobs {
		r := p.process(j.source, j.output)
		if r.Err != nil {
			log.Printf("Failed to process %s: %v", r.Name, r.Err)
		} else {
			logger.Debugf("%s (%s %s, %d bytes): %d custom, %d reference corners, jaccard %.3f (%s)",
				r.Name, r.Format, r.ColorDepth, r.FileSizeBytes, r.CustomCorners, r.ReferenceCorners,
				r.Agreement.Jaccard, r.Duration.Round(time.Millisecond))
		}
		results <- r
		atomic.AddInt64(processed, 1)
	}
}

// outputNames maps every source to <stem>_harris.png. Sources whose stems
// collide, such as a.png and a.jpg, keep their extension in the name; any
// name still taken gets a numeric suffix, so no two sources share a file.
func outputNames(sources []imaging.Source) []string {
	stems := make([]string, len(sources))
	count := make(map[string]int, len(sources))
	for i, s := range sources {
		stems[i] = strings.TrimSuffix(s.Name, filepath.Ext(s.Name))
		count[stems[i]]++
	}

	names := make([]string, len(sources))
	used := make(map[string]bool, len(sources))
	for i, s := range sources {
		stem := stems[i]
		if count[stem] > 1 {
			stem = strings.ReplaceAll(s.Name, ".", "_")
		}
		name := stem + OutputSuffix
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d%s", stem, n, OutputSuffix)
		}
		used[name] = true
		names[i] = name
	}
	return names
}
