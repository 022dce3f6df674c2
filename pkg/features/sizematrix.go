package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// sizeMatrix is a gray level x size count matrix: run lengths for GLRLM,
// zone sizes for GLSZM, dependence counts for GLDM. Row i is gray level i+1,
// column j is size j+1.
type sizeMatrix struct {
	m *mat.Dense

	// voxels is Np, the number of ROI voxels the matrix was built from
	voxels float64
}

// newSizeMatrix converts a sparse level -> size -> count tally
func newSizeMatrix(numLevels int, counts map[[2]int]float64, voxels int) sizeMatrix {
	maxSize := 1
	for k := range counts {
		if k[1] > maxSize {
			maxSize = k[1]
		}
	}
	m := mat.NewDense(numLevels, maxSize, nil)
	for k, v := range counts {
		m.Set(k[0]-1, k[1]-1, m.At(k[0]-1, k[1]-1)+v)
	}
	return sizeMatrix{m: m, voxels: float64(voxels)}
}

// sizeStats holds the emphasis and non-uniformity statistics common to all
// size matrices, keyed by neutral names the families rename
type sizeStats struct {
	small, large             float64
	glnu, glnuNorm           float64
	snu, snuNorm             float64
	percentage               float64
	glVariance, sizeVariance float64
	entropy                  float64
	lowGray, highGray        float64
}

func (s sizeMatrix) stats() sizeStats {
	rows, cols := s.m.Dims()
	total := mat.Sum(s.m)
	var st sizeStats
	if total == 0 {
		return st
	}

	rowSums := make([]float64, rows)
	colSums := make([]float64, cols)
	var muI, muJ float64
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			v := s.m.At(i, j)
			if v == 0 {
				continue
			}
			gi, sj := float64(i+1), float64(j+1)
			rowSums[i] += v
			colSums[j] += v
			st.small += v / (sj * sj)
			st.large += v * sj * sj
			st.lowGray += v / (gi * gi)
			st.highGray += v * gi * gi
			p := v / total
			muI += gi * p
			muJ += sj * p
			st.entropy -= p * math.Log2(p)
		}
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v := s.m.At(i, j); v > 0 {
				p := v / total
				st.glVariance += math.Pow(float64(i+1)-muI, 2) * p
				st.sizeVariance += math.Pow(float64(j+1)-muJ, 2) * p
			}
		}
	}
	for _, v := range rowSums {
		st.glnu += v * v
	}
	for _, v := range colSums {
		st.snu += v * v
	}

	st.small /= total
	st.large /= total
	st.lowGray /= total
	st.highGray /= total
	st.glnuNorm = st.glnu / (total * total)
	st.snuNorm = st.snu / (total * total)
	st.glnu /= total
	st.snu /= total
	if s.voxels > 0 {
		st.percentage = total / s.voxels
	}
	return st
}
