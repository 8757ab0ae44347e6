// Package imaging provides the image input and output side of the corner
// comparison: folder loading, grayscale conversion, colormaps and the
// multi-panel renderer.
//
// All grids in this package are [y][x] slices with (0,0) at the top-left
// corner, X increasing rightward and Y increasing downward, regardless of the
// bounds origin of the image they came from.
//
// # Grayscale Conversion
//
// GrayImage and Intensity use the ITU-R BT.601 luma weights
// (0.299*R + 0.587*G + 0.114*B) on 8-bit channels, rounded to the nearest
// 8-bit value. Images that are already *image.Gray are used unchanged. Every
// detector in this module reads its input through this conversion, so the
// custom and the reference path always see identical intensities.
//
// # Loading
//
// LoadFolder decodes PNG, JPEG, GIF, BMP, TIFF and WebP files. Entries that
// cannot be decoded are reported in FolderResult.Skipped and never abort the
// folder. Nothing is cached: each call decodes from disk.
//
// # Rendering
//
// A Renderer composes titled panels side by side. Masks and responses are
// turned into images with ApplyColormap using one of the Gray, Cubehelix or
// Flag colormaps.
//
// # Thread Safety
//
// All functions are stateless; a Renderer is immutable after NewRenderer and
// can be shared between goroutines.
package imaging
