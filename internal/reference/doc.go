// Package reference provides the library Harris detector the custom
// implementation is compared against.
//
// It follows OpenCV's cornerHarris(gray, blockSize, ksize=3, k):
//
//   - Sobel derivatives scaled by 1/(4 * blockSize * 255)
//   - an unnormalized blockSize x blockSize box sum of Ix², Ix*Iy, Iy²
//   - BORDER_REFLECT_101 at the image edges (gfedcb|abcdefgh|gfedcba)
//   - R = det(M) - k * trace(M)²
//
// The default build computes this with gonum dense matrices. Building with
// the gocv tag runs the same pipeline through OpenCV:
//
//	go build -tags gocv ./...
//
// Because the scale factors only multiply R by a positive constant, a mask
// produced by Mask marks the same pixels as the custom detector everywhere
// the two border policies agree.
package reference
