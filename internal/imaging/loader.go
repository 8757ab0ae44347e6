package imaging

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// ErrUnreadable is returned when a file cannot be opened or decoded as an image.
var ErrUnreadable = errors.New("unreadable image")

// Load opens and decodes a single image file.
//
// Parameters:
//   - path: Absolute or relative file path. Supported formats are PNG, JPEG,
//     GIF, BMP, TIFF and WebP.
//
// Returns:
//   - image.Image: The decoded image, rotated according to its EXIF
//     orientation tag when present.
//   - error: Non-nil (wrapping ErrUnreadable) if the file cannot be opened or
//     decoded.
//
// Images are decoded fresh on every call; nothing is cached.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, filepath.Base(path), err)
	}
	return img, nil
}

// Source is one successfully decoded image from a folder.
type Source struct {
	// Name is the file name without directory.
	Name string `json:"name"`

	// Path is the full path the image was loaded from.
	Path string `json:"path"`

	// Image is the decoded image.
	Image image.Image `json:"-"`

	// Info holds the image metadata.
	Info ImageInfo `json:"info"`
}

// SkippedFile records a folder entry that could not be decoded.
type SkippedFile struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// FolderResult contains the images decoded from a folder and the entries that
// were skipped.
type FolderResult struct {
	Sources []Source      `json:"sources"`
	Skipped []SkippedFile `json:"skipped"`
}

// LoadFolder decodes every readable image in a directory.
//
// Entries are visited in file name order. Sub-directories are ignored, and
// files that cannot be decoded are recorded in Skipped rather than failing
// the whole folder.
//
// Returns:
//   - *FolderResult: Decoded images and skipped entries.
//   - error: Non-nil only if the directory itself cannot be read.
func LoadFolder(dir string) (*FolderResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image folder: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	result := &FolderResult{
		Sources: make([]Source, 0, len(entries)),
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		img, err := Load(path)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedFile{Name: entry.Name(), Err: err})
			continue
		}

		// A decoded image is kept even if its size cannot be read
		var size int64
		if fi, err := entry.Info(); err == nil {
			size = fi.Size()
		}

		result.Sources = append(result.Sources, Source{
			Name:  entry.Name(),
			Path:  path,
			Image: img,
			Info:  imageInfo(img, path, size),
		})
	}

	return result, nil
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is the detected image format: "png", "jpeg", "gif", "bmp",
	// "tiff", "webp" or "unknown". Detection is based on file extension, not
	// file contents.
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// Grayscale is true when the decoded image has a single channel.
	Grayscale bool `json:"grayscale"`

	// HasAlpha indicates whether the image has an alpha (transparency) channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// imageInfo describes a decoded image. Color depth follows the Go image type:
// *image.RGBA64, *image.NRGBA64 and *image.Gray16 are "16-bit", everything
// else "8-bit".
func imageInfo(img image.Image, path string, size int64) ImageInfo {
	format := "unknown"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		format = "png"
	case ".jpg", ".jpeg":
		format = "jpeg"
	case ".gif":
		format = "gif"
	case ".bmp":
		format = "bmp"
	case ".tif", ".tiff":
		format = "tiff"
	case ".webp":
		format = "webp"
	}

	hasAlpha := false
	grayscale := false
	colorDepth := "8-bit"
	switch img.(type) {
	case *image.RGBA, *image.NRGBA:
		hasAlpha = true
	case *image.RGBA64, *image.NRGBA64:
		hasAlpha = true
		colorDepth = "16-bit"
	case *image.Gray:
		grayscale = true
	case *image.Gray16:
		grayscale = true
		colorDepth = "16-bit"
	}

	bounds := img.Bounds()
	return ImageInfo{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		Format:        format,
		ColorDepth:    colorDepth,
		Grayscale:     grayscale,
		HasAlpha:      hasAlpha,
		FileSizeBytes: size,
	}
}
