// Package detection implements the Harris corner detector.
//
// The detector turns an image into a binary corner mask of the same size:
//
//  1. Grayscale conversion: color images use ITU-R BT.601 luma weights
//     (0.299*R + 0.587*G + 0.114*B); *image.Gray input is used as-is
//
//  2. Gradients: 3x3 Sobel operators for X and Y
//
//  3. Structure tensor: Ix², Ix*Iy and Iy², each averaged over a square
//     box window of odd size
//
//  4. Corner response: R = det(M) - k * trace(M)²
//
//  5. Thresholding: pixels with R > threshold * max(R) become 255, all
//     others 0
//
// # Border Handling
//
// Both the Sobel step and the box filter replicate edge pixels (clamped
// indices). Results within a few pixels of the image border therefore reflect
// a locally constant continuation of the image.
//
// # Determinism
//
// Every call allocates its own grids and keeps no state, so the same input and
// parameters always give byte-identical masks, and calls on different images
// can run concurrently.
//
// # Parameters
//
// Only the window size is validated (positive and odd); k and the threshold
// are used as given. An all-zero mask is a valid result, for example for a
// constant image whose response is zero everywhere.
package detection
