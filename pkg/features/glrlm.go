package features

import (
	"fmt"

	"mriradiomics/internal/models"
)

var glrlmNames = []string{
	"ShortRunEmphasis",
	"LongRunEmphasis",
	"GrayLevelNonUniformity",
	"GrayLevelNonUniformityNormalized",
	"RunLengthNonUniformity",
	"RunLengthNonUniformityNormalized",
	"RunPercentage",
	"GrayLevelVariance",
	"RunVariance",
	"RunEntropy",
	"LowGrayLevelRunEmphasis",
	"HighGrayLevelRunEmphasis",
}

// NewGLRLM builds the gray level run length matrix family. Runs of equal
// gray level are counted along each direction; features are averaged over
// directions.
func NewGLRLM(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("glrlm", glrlmNames, func() (map[string]float64, error) {
		dirs := r.usableDirections()
		if len(dirs) == 0 {
			return nil, fmt.Errorf("%w: volume has no direction to run along", ErrDegenerateROI)
		}
		out := make(map[string]float64, len(glrlmNames))
		for _, d := range dirs {
			st := runLengths(r, d).stats()
			out["ShortRunEmphasis"] += st.small
			out["LongRunEmphasis"] += st.large
			out["GrayLevelNonUniformity"] += st.glnu
			out["GrayLevelNonUniformityNormalized"] += st.glnuNorm
			out["RunLengthNonUniformity"] += st.snu
			out["RunLengthNonUniformityNormalized"] += st.snuNorm
			out["RunPercentage"] += st.percentage
			out["GrayLevelVariance"] += st.glVariance
			out["RunVariance"] += st.sizeVariance
			out["RunEntropy"] += st.entropy
			out["LowGrayLevelRunEmphasis"] += st.lowGray
			out["HighGrayLevelRunEmphasis"] += st.highGray
		}
		for k := range out {
			out[k] /= float64(len(dirs))
		}
		return out, nil
	}), nil
}

// runLengths tallies maximal runs along d. A run starts at a voxel whose
// predecessor along d is outside the ROI or has a different level.
func runLengths(r *region, d offset) sizeMatrix {
	counts := make(map[[2]int]float64)
	for _, idx := range r.indices {
		x, y, z := r.image.Coords(idx)
		level := r.grid[idx]
		if r.levelAt(x-d.dx, y-d.dy, z-d.dz) == level {
			continue
		}
		length := 1
		for r.levelAt(x+length*d.dx, y+length*d.dy, z+length*d.dz) == level {
			length++
		}
		counts[[2]int{level, length}]++
	}
	return newSizeMatrix(r.numLevels, counts, r.size())
}
