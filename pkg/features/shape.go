package features

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"mriradiomics/internal/models"
)

var shapeNames = []string{
	"VoxelVolume",
	"SurfaceArea",
	"SurfaceVolumeRatio",
	"Sphericity",
	"SphericalDisproportion",
	"Maximum3DDiameter",
	"MajorAxisLength",
	"MinorAxisLength",
	"LeastAxisLength",
	"Elongation",
	"Flatness",
}

// NewShape builds the shape family: size and form of the ROI in physical
// space. Intensities and bin width are not used.
func NewShape(image, mask *models.Volume, settings Settings) (Extractor, error) {
	r, err := newRegion(image, mask, settings)
	if err != nil {
		return nil, err
	}
	return newExtractor("shape", shapeNames, func() (map[string]float64, error) {
		return shape(r), nil
	}), nil
}

func shape(r *region) map[string]float64 {
	img := r.image
	sp := img.VoxelSize
	volume := float64(r.size()) * img.VoxelVolume()

	// faces shared with a non-ROI voxel make up the surface
	faces := []struct {
		o    offset
		area float64
	}{
		{offset{1, 0, 0}, sp.Y * sp.Z}, {offset{-1, 0, 0}, sp.Y * sp.Z},
		{offset{0, 1, 0}, sp.X * sp.Z}, {offset{0, -1, 0}, sp.X * sp.Z},
		{offset{0, 0, 1}, sp.X * sp.Y}, {offset{0, 0, -1}, sp.X * sp.Y},
	}
	area := 0.0
	var surface [][3]float64
	coords := make([]float64, 0, 3*r.size())
	for _, idx := range r.indices {
		x, y, z := img.Coords(idx)
		p := [3]float64{float64(x) * sp.X, float64(y) * sp.Y, float64(z) * sp.Z}
		coords = append(coords, p[:]...)
		exposed := false
		for _, f := range faces {
			if r.levelAt(x+f.o.dx, y+f.o.dy, z+f.o.dz) == 0 {
				area += f.area
				exposed = true
			}
		}
		if exposed {
			surface = append(surface, p)
		}
	}

	diameter := 0.0
	for i := range surface {
		for j := i + 1; j < len(surface); j++ {
			dx := surface[i][0] - surface[j][0]
			dy := surface[i][1] - surface[j][1]
			dz := surface[i][2] - surface[j][2]
			if d := math.Sqrt(dx*dx + dy*dy + dz*dz); d > diameter {
				diameter = d
			}
		}
	}

	major, minor, least := principalVariances(coords, r.size())
	sphere := math.Cbrt(36 * math.Pi * volume * volume)

	return map[string]float64{
		"VoxelVolume":            volume,
		"SurfaceArea":            area,
		"SurfaceVolumeRatio":     area / volume,
		"Sphericity":             sphere / area,
		"SphericalDisproportion": area / sphere,
		"Maximum3DDiameter":      diameter,
		"MajorAxisLength":        4 * math.Sqrt(major),
		"MinorAxisLength":        4 * math.Sqrt(minor),
		"LeastAxisLength":        4 * math.Sqrt(least),
		"Elongation":             math.Sqrt(minor / major),
		"Flatness":               math.Sqrt(least / major),
	}
}

// principalVariances returns the eigenvalues of the covariance of the
// physical voxel coordinates, largest first. A single voxel has none and
// yields zeros.
func principalVariances(coords []float64, n int) (major, minor, least float64) {
	if n < 2 {
		return 0, 0, 0
	}
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, mat.NewDense(n, 3, coords), nil)

	var eig mat.EigenSym
	if !eig.Factorize(&cov, false) {
		return math.NaN(), math.NaN(), math.NaN()
	}
	vals := eig.Values(nil)
	for i, v := range vals {
		if v < 0 {
			vals[i] = 0
		}
	}
	// Values are in ascending order
	return vals[2], vals[1], vals[0]
}
