package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"mriradiomics/internal/models"
)

var glcmNames = []string{
	"Autocorrelation",
	"JointAverage",
	"ClusterProminence",
	"ClusterShade",
	"ClusterTendency",
	"Contrast",
	"Correlation",
	"DifferenceAverage",
	"DifferenceEntropy",
	"DifferenceVariance",
	"JointEnergy",
	"JointEntropy",
	"Id",
	"Idm",
	"Idn",
	"Idmn",
	"InverseVariance",
	"MaximumProbability",
	"SumEntropy",
	"SumSquares",
}

// maxCooccurrenceLevels bounds Ng. Each direction holds a dense Ng x Ng
// matrix, so a finer discretization is rejected rather than allocated.
const maxCooccurrenceLevels = 1024

// NewGLCM builds the gray level co-occurrence matrix family. One matrix is
// built per direction at distance 1; features are averaged over directions.
func NewGLCM(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("glcm", glcmNames, func() (map[string]float64, error) {
		if r.numLevels > maxCooccurrenceLevels {
			return nil, fmt.Errorf("%w: %d gray levels exceed the co-occurrence limit of %d, increase the bin width",
				ErrDegenerateROI, r.numLevels, maxCooccurrenceLevels)
		}
		matrices := cooccurrence(r, settings.SymmetricalGLCM())
		if len(matrices) == 0 {
			return nil, fmt.Errorf("%w: no neighbouring voxel pairs in %d-voxel region", ErrDegenerateROI, r.size())
		}
		return averaged(glcmNames, matrices, glcmFeatures), nil
	}), nil
}

// cooccurrence returns one normalized Ng x Ng matrix per direction that
// produced at least one pair
func cooccurrence(r *region, symmetrical bool) []*mat.Dense {
	ng := r.numLevels
	var out []*mat.Dense
	for _, d := range r.usableDirections() {
		p := mat.NewDense(ng, ng, nil)
		for _, idx := range r.indices {
			x, y, z := r.image.Coords(idx)
			j := r.levelAt(x+d.dx, y+d.dy, z+d.dz)
			if j == 0 {
				continue
			}
			i := r.grid[idx]
			p.Set(i-1, j-1, p.At(i-1, j-1)+1)
		}
		if symmetrical {
			var t mat.Dense
			t.CloneFrom(p.T())
			p.Add(p, &t)
		}
		sum := mat.Sum(p)
		if sum == 0 {
			continue
		}
		p.Scale(1/sum, p)
		out = append(out, p)
	}
	return out
}

func glcmFeatures(p *mat.Dense) map[string]float64 {
	ng, _ := p.Dims()
	px := make([]float64, ng)
	py := make([]float64, ng)
	sum := make([]float64, 2*ng+1)
	diff := make([]float64, ng)
	maxP := 0.0
	for i := 0; i < ng; i++ {
		for j := 0; j < ng; j++ {
			v := p.At(i, j)
			px[i] += v
			py[j] += v
			sum[i+j+2] += v
			diff[abs(i-j)] += v
			maxP = math.Max(maxP, v)
		}
	}

	var mux, muy float64
	for i := 0; i < ng; i++ {
		mux += float64(i+1) * px[i]
		muy += float64(i+1) * py[i]
	}
	var sigx, sigy float64
	for i := 0; i < ng; i++ {
		sigx += math.Pow(float64(i+1)-mux, 2) * px[i]
		sigy += math.Pow(float64(i+1)-muy, 2) * py[i]
	}
	sigx, sigy = math.Sqrt(sigx), math.Sqrt(sigy)

	f := map[string]float64{}
	n := float64(ng)
	var auto, prom, shade, tend, contrast, energy, entropy, id, idm, idn, idmn, inv, sumSq float64
	for i := 0; i < ng; i++ {
		for j := 0; j < ng; j++ {
			v := p.At(i, j)
			if v == 0 {
				continue
			}
			a, b := float64(i+1), float64(j+1)
			d := a - b
			c := a + b - mux - muy
			auto += a * b * v
			prom += math.Pow(c, 4) * v
			shade += math.Pow(c, 3) * v
			tend += c * c * v
			contrast += d * d * v
			energy += v * v
			entropy -= v * math.Log2(v)
			id += v / (1 + math.Abs(d))
			idm += v / (1 + d*d)
			idn += v / (1 + math.Abs(d)/n)
			idmn += v / (1 + d*d/(n*n))
			if i != j {
				inv += v / (d * d)
			}
			sumSq += (a - mux) * (a - mux) * v
		}
	}

	corr := 1.0
	if sigx*sigy > 0 {
		corr = (auto - mux*muy) / (sigx * sigy)
	}

	var diffAvg, diffEnt, sumEnt float64
	for k, v := range diff {
		diffAvg += float64(k) * v
		if v > 0 {
			diffEnt -= v * math.Log2(v)
		}
	}
	var diffVar float64
	for k, v := range diff {
		diffVar += math.Pow(float64(k)-diffAvg, 2) * v
	}
	for _, v := range sum {
		if v > 0 {
			sumEnt -= v * math.Log2(v)
		}
	}

	f["Autocorrelation"] = auto
	f["JointAverage"] = mux
	f["ClusterProminence"] = prom
	f["ClusterShade"] = shade
	f["ClusterTendency"] = tend
	f["Contrast"] = contrast
	f["Correlation"] = corr
	f["DifferenceAverage"] = diffAvg
	f["DifferenceEntropy"] = diffEnt
	f["DifferenceVariance"] = diffVar
	f["JointEnergy"] = energy
	f["JointEntropy"] = entropy
	f["Id"] = id
	f["Idm"] = idm
	f["Idn"] = idn
	f["Idmn"] = idmn
	f["InverseVariance"] = inv
	f["MaximumProbability"] = maxP
	f["SumEntropy"] = sumEnt
	f["SumSquares"] = sumSq
	return f
}

// averaged evaluates fn on every matrix and returns the per-feature mean
func averaged(names []string, matrices []*mat.Dense, fn func(*mat.Dense) map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(names))
	for _, m := range matrices {
		for k, v := range fn(m) {
			out[k] += v
		}
	}
	for _, k := range names {
		out[k] /= float64(len(matrices))
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
