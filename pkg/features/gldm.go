package features

import "mriradiomics/internal/models"

var gldmNames = []string{
	"SmallDependenceEmphasis",
	"LargeDependenceEmphasis",
	"GrayLevelNonUniformity",
	"DependenceNonUniformity",
	"DependenceNonUniformityNormalized",
	"GrayLevelVariance",
	"DependenceVariance",
	"DependenceEntropy",
	"LowGrayLevelEmphasis",
	"HighGrayLevelEmphasis",
}

// NewGLDM builds the gray level dependence matrix family. A voxel's
// dependence is the number of 26-neighbours in the ROI with the same gray
// level, plus one for the voxel itself.
func NewGLDM(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("gldm", gldmNames, func() (map[string]float64, error) {
		st := dependences(r).stats()
		return map[string]float64{
			"SmallDependenceEmphasis":           st.small,
			"LargeDependenceEmphasis":           st.large,
			"GrayLevelNonUniformity":            st.glnu,
			"DependenceNonUniformity":           st.snu,
			"DependenceNonUniformityNormalized": st.snuNorm,
			"GrayLevelVariance":                 st.glVariance,
			"DependenceVariance":                st.sizeVariance,
			"DependenceEntropy":                 st.entropy,
			"LowGrayLevelEmphasis":              st.lowGray,
			"HighGrayLevelEmphasis":             st.highGray,
		}, nil
	}), nil
}

func dependences(r *region) sizeMatrix {
	counts := make(map[[2]int]float64)
	for _, idx := range r.indices {
		x, y, z := r.image.Coords(idx)
		level := r.grid[idx]
		dep := 1
		for _, o := range neighbours26 {
			if r.levelAt(x+o.dx, y+o.dy, z+o.dz) == level {
				dep++
			}
		}
		counts[[2]int{level, dep}]++
	}
	return newSizeMatrix(r.numLevels, counts, r.size())
}
