package features

import (
	"github.com/theodesp/unionfind"

	"mriradiomics/internal/models"
)

var glszmNames = []string{
	"SmallAreaEmphasis",
	"LargeAreaEmphasis",
	"GrayLevelNonUniformity",
	"GrayLevelNonUniformityNormalized",
	"SizeZoneNonUniformity",
	"SizeZoneNonUniformityNormalized",
	"ZonePercentage",
	"GrayLevelVariance",
	"ZoneVariance",
	"ZoneEntropy",
	"LowGrayLevelZoneEmphasis",
	"HighGrayLevelZoneEmphasis",
}

// NewGLSZM builds the gray level size zone matrix family. A zone is a
// 26-connected set of ROI voxels sharing one gray level.
func NewGLSZM(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("glszm", glszmNames, func() (map[string]float64, error) {
		st := sizeZones(r).stats()
		return map[string]float64{
			"SmallAreaEmphasis":                st.small,
			"LargeAreaEmphasis":                st.large,
			"GrayLevelNonUniformity":           st.glnu,
			"GrayLevelNonUniformityNormalized": st.glnuNorm,
			"SizeZoneNonUniformity":            st.snu,
			"SizeZoneNonUniformityNormalized":  st.snuNorm,
			"ZonePercentage":                   st.percentage,
			"GrayLevelVariance":                st.glVariance,
			"ZoneVariance":                     st.sizeVariance,
			"ZoneEntropy":                      st.entropy,
			"LowGrayLevelZoneEmphasis":         st.lowGray,
			"HighGrayLevelZoneEmphasis":        st.highGray,
		}, nil
	}), nil
}

// sizeZones joins same-level neighbours with a union-find and tallies the
// size of every zone per gray level
func sizeZones(r *region) sizeMatrix {
	pos := make(map[int]int, r.size())
	for k, idx := range r.indices {
		pos[idx] = k
	}

	// directions13 visits every neighbouring pair once
	uf := unionfind.NewThreadSafeUnionFind(r.size())
	for k, idx := range r.indices {
		level := r.grid[idx]
		x, y, z := r.image.Coords(idx)
		for _, o := range directions13 {
			nx, ny, nz := x+o.dx, y+o.dy, z+o.dz
			if r.levelAt(nx, ny, nz) != level {
				continue
			}
			uf.Union(k, pos[r.image.Index(nx, ny, nz)])
		}
	}

	sizes := make(map[int]int)
	for k := range r.indices {
		sizes[uf.Root(k)]++
	}
	counts := make(map[[2]int]float64, len(sizes))
	for root, size := range sizes {
		counts[[2]int{r.grid[r.indices[root]], size}]++
	}
	return newSizeMatrix(r.numLevels, counts, r.size())
}
