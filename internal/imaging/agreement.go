package imaging

import (
	"fmt"
	"image"
	"math"
)

// MaskAgreement summarizes how closely two binary masks of the same size agree.
type MaskAgreement struct {
	// MarkedA and MarkedB are the number of non-zero pixels in each mask.
	MarkedA int `json:"marked_a"`
	MarkedB int `json:"marked_b"`

	// Overlap is the number of pixels marked in both masks.
	Overlap int `json:"overlap"`

	// Jaccard is Overlap divided by the number of pixels marked in either
	// mask. Two empty masks have a Jaccard index of 1.
	Jaccard float64 `json:"jaccard"`

	// PixelAgreement is the fraction of pixels with the same marked state.
	PixelAgreement float64 `json:"pixel_agreement"`

	// TotalPixels is width * height.
	TotalPixels int `json:"total_pixels"`
}

// CompareMasks compares two masks pixel by pixel. Any non-zero value counts as
// marked.
//
// Returns an error if the masks do not have the same width and height.
func CompareMasks(a, b *image.Gray) (*MaskAgreement, error) {
	ba, bb := a.Bounds(), b.Bounds()
	if ba.Dx() != bb.Dx() || ba.Dy() != bb.Dy() {
		return nil, fmt.Errorf("mask sizes differ: %dx%d vs %dx%d", ba.Dx(), ba.Dy(), bb.Dx(), bb.Dy())
	}

	width, height := ba.Dx(), ba.Dy()
	var markedA, markedB, overlap, same int
	for y := 0; y < height; y++ {
		rowA := a.Pix[y*a.Stride:]
		rowB := b.Pix[y*b.Stride:]
		for x := 0; x < width; x++ {
			inA := rowA[x] != 0
			inB := rowB[x] != 0
			if inA {
				markedA++
			}
			if inB {
				markedB++
			}
			if inA && inB {
				overlap++
			}
			if inA == inB {
				same++
			}
		}
	}

	total := width * height
	jaccard := 1.0
	if union := markedA + markedB - overlap; union > 0 {
		jaccard = float64(overlap) / float64(union)
	}
	agreement := 1.0
	if total > 0 {
		agreement = float64(same) / float64(total)
	}

	return &MaskAgreement{
		MarkedA:        markedA,
		MarkedB:        markedB,
		Overlap:        overlap,
		Jaccard:        math.Round(jaccard*1000) / 1000,
		PixelAgreement: math.Round(agreement*1000) / 1000,
		TotalPixels:    total,
	}, nil
}
