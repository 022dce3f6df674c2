package features

import (
	"fmt"
	"math"

	"mriradiomics/internal/models"
)

var ngtdmNames = []string{
	"Coarseness",
	"Contrast",
	"Busyness",
	"Complexity",
	"Strength",
}

// NewNGTDM builds the neighbouring gray tone difference matrix family. For
// each gray level i it sums |i - A| over voxels of that level, where A is the
// mean level of the voxel's 26-neighbours inside the ROI.
func NewNGTDM(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("ngtdm", ngtdmNames, func() (map[string]float64, error) {
		return ngtdm(r)
	}), nil
}

func ngtdm(r *region) (map[string]float64, error) {
	ng := r.numLevels
	s := make([]float64, ng)
	n := make([]float64, ng)
	for _, idx := range r.indices {
		x, y, z := r.image.Coords(idx)
		sum, count := 0, 0
		for _, o := range neighbours26 {
			if l := r.levelAt(x+o.dx, y+o.dy, z+o.dz); l > 0 {
				sum += l
				count++
			}
		}
		// voxels without neighbours are not part of the matrix
		if count == 0 {
			continue
		}
		i := r.grid[idx]
		s[i-1] += math.Abs(float64(i) - float64(sum)/float64(count))
		n[i-1]++
	}

	nvp := 0.0
	for _, v := range n {
		nvp += v
	}
	if nvp == 0 {
		return nil, fmt.Errorf("%w: no voxel has a neighbour in the region", ErrDegenerateROI)
	}

	p := make([]float64, ng)
	var present []int
	sumS, sumPS := 0.0, 0.0
	for i := range n {
		p[i] = n[i] / nvp
		if p[i] > 0 {
			present = append(present, i)
		}
		sumS += s[i]
		sumPS += p[i] * s[i]
	}
	ngp := float64(len(present))

	coarseness := 1e6
	if sumPS != 0 {
		coarseness = 1 / sumPS
	}

	var pairDiff, busyDenom, complexity, strengthNum float64
	for _, i := range present {
		for _, j := range present {
			gi, gj := float64(i+1), float64(j+1)
			pairDiff += p[i] * p[j] * (gi - gj) * (gi - gj)
			busyDenom += math.Abs(gi*p[i] - gj*p[j])
			complexity += math.Abs(gi-gj) * (p[i]*s[i] + p[j]*s[j]) / (p[i] + p[j])
			strengthNum += (p[i] + p[j]) * (gi - gj) * (gi - gj)
		}
	}

	contrast := 0.0
	if ngp > 1 {
		contrast = pairDiff / (ngp * (ngp - 1)) * sumS / nvp
	}
	busyness := 0.0
	if busyDenom != 0 {
		busyness = sumPS / busyDenom
	}
	strength := 0.0
	if sumS != 0 {
		strength = strengthNum / sumS
	}

	return map[string]float64{
		"Coarseness": coarseness,
		"Contrast":   contrast,
		"Busyness":   busyness,
		"Complexity": complexity / nvp,
		"Strength":   strength,
	}, nil
}
