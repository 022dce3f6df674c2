package features

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"mriradiomics/internal/models"
)

var firstOrderNames = []string{
	"Energy",
	"TotalEnergy",
	"Entropy",
	"Minimum",
	"10Percentile",
	"90Percentile",
	"Maximum",
	"Mean",
	"Median",
	"InterquartileRange",
	"Range",
	"MeanAbsoluteDeviation",
	"RobustMeanAbsoluteDeviation",
	"RootMeanSquared",
	"StandardDeviation",
	"Skewness",
	"Kurtosis",
	"Variance",
	"Uniformity",
}

// NewFirstOrder builds the first order statistics family: distribution of
// voxel intensities inside the ROI, without regard to spatial layout.
func NewFirstOrder(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("firstorder", firstOrderNames, func() (map[string]float64, error) {
		return firstOrder(r), nil
	}), nil
}

func firstOrder(r *region) map[string]float64 {
	x := append([]float64(nil), r.intensities...)
	sort.Float64s(x)
	n := float64(len(x))

	energy := floats.Dot(x, x)
	mean := stat.Mean(x, nil)
	variance := stat.Moment(2, x, nil)
	p10 := quantile(0.10, x)
	p90 := quantile(0.90, x)

	skewness, kurtosis := 0.0, 0.0
	if variance > 0 {
		skewness = stat.Moment(3, x, nil) / math.Pow(variance, 1.5)
		kurtosis = stat.Moment(4, x, nil) / (variance * variance)
	}

	mad := 0.0
	for _, v := range x {
		mad += math.Abs(v - mean)
	}
	mad /= n

	// robust deviation only considers the 10th-90th percentile band
	var band []float64
	for _, v := range x {
		if v >= p10 && v <= p90 {
			band = append(band, v)
		}
	}
	rmad := 0.0
	if len(band) > 0 {
		bandMean := stat.Mean(band, nil)
		for _, v := range band {
			rmad += math.Abs(v - bandMean)
		}
		rmad /= float64(len(band))
	}

	// histogram of discretized levels
	hist := make([]float64, r.numLevels)
	for _, l := range r.levels() {
		hist[l-1]++
	}
	floats.Scale(1/n, hist)

	return map[string]float64{
		"Energy":                      energy,
		"TotalEnergy":                 energy * r.image.VoxelVolume(),
		"Entropy":                     stat.Entropy(hist) / math.Ln2,
		"Minimum":                     x[0],
		"10Percentile":                p10,
		"90Percentile":                p90,
		"Maximum":                     x[len(x)-1],
		"Mean":                        mean,
		"Median":                      quantile(0.5, x),
		"InterquartileRange":          quantile(0.75, x) - quantile(0.25, x),
		"Range":                       x[len(x)-1] - x[0],
		"MeanAbsoluteDeviation":       mad,
		"RobustMeanAbsoluteDeviation": rmad,
		"RootMeanSquared":             math.Sqrt(energy / n),
		"StandardDeviation":           math.Sqrt(variance),
		"Skewness":                    skewness,
		"Kurtosis":                    kurtosis,
		"Variance":                    variance,
		"Uniformity":                  floats.Dot(hist, hist),
	}
}

// quantile interpolates linearly between order statistics of sorted x
func quantile(p float64, sorted []float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}
