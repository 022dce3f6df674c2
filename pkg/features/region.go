package features

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"mriradiomics/internal/models"
)

// offset is a voxel step in (x, y, z)
type offset struct {
	dx, dy, dz int
}

// neighbours26 holds every offset of the 3x3x3 neighbourhood except the centre
var neighbours26 = func() []offset {
	var out []offset
	for dz := -1; dz <= 1; dz++ {
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 && dz == 0 {
					continue
				}
				out = append(out, offset{dx, dy, dz})
			}
		}
	}
	return out
}()

// directions13 holds one offset from each opposite pair of neighbours26,
// the angles texture matrices are built along
var directions13 = func() []offset {
	var out []offset
	for _, o := range neighbours26 {
		if o.dz > 0 || (o.dz == 0 && o.dy > 0) || (o.dz == 0 && o.dy == 0 && o.dx > 0) {
			out = append(out, o)
		}
	}
	return out
}()

// region is the preprocessed region of interest shared by all families.
// The image and mask are only read, never modified.
type region struct {
	image    *models.Volume
	settings Settings

	// indices are the ROI voxel offsets in ascending order
	indices []int

	// intensities are the raw image values of the ROI voxels
	intensities []float64

	// grid holds the discretized gray level per voxel, 0 outside the ROI
	grid []int

	// numLevels is the highest gray level present
	numLevels int
}

// newRegion validates the inputs, selects the ROI by label and discretizes
// intensities with a fixed bin width:
//
//	level = floor(x/binWidth) - floor(min/binWidth) + 1
func newRegion(image, mask *models.Volume, settings Settings) (*region, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if image == nil || mask == nil {
		return nil, fmt.Errorf("%w: image and mask are required", ErrGeometryMismatch)
	}
	if err := image.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeometryMismatch, err)
	}
	if err := mask.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeometryMismatch, err)
	}
	if !image.SameGeometry(mask) {
		return nil, fmt.Errorf("%w: image %dx%dx%d, mask %dx%dx%d", ErrGeometryMismatch,
			image.Width, image.Height, image.Depth, mask.Width, mask.Height, mask.Depth)
	}

	r := &region{image: image, settings: settings}
	label := settings.Label()
	for i, m := range mask.Data {
		if int(math.Round(m)) == label {
			r.indices = append(r.indices, i)
			r.intensities = append(r.intensities, image.Data[i])
		}
	}
	if len(r.indices) == 0 {
		return nil, fmt.Errorf("%w (label %d)", ErrEmptyROI, label)
	}

	bw := settings.BinWidth()
	low := math.Floor(floats.Min(r.intensities) / bw)
	r.grid = make([]int, image.Len())
	for k, idx := range r.indices {
		level := int(math.Floor(r.intensities[k]/bw)-low) + 1
		r.grid[idx] = level
		if level > r.numLevels {
			r.numLevels = level
		}
	}
	return r, nil
}

// size returns the number of ROI voxels
func (r *region) size() int {
	return len(r.indices)
}

// levelAt returns the gray level at the coordinates, 0 when the voxel is
// outside the volume or the ROI
func (r *region) levelAt(x, y, z int) int {
	if !r.image.InBounds(x, y, z) {
		return 0
	}
	return r.grid[r.image.Index(x, y, z)]
}

// levels returns the gray levels of the ROI voxels, aligned with indices
func (r *region) levels() []int {
	out := make([]int, len(r.indices))
	for k, idx := range r.indices {
		out[k] = r.grid[idx]
	}
	return out
}

// usableDirections drops angles that step along an axis of extent 1, which
// can never pair two voxels
func (r *region) usableDirections() []offset {
	var out []offset
	for _, d := range directions13 {
		if d.dx != 0 && r.image.Width < 2 {
			continue
		}
		if d.dy != 0 && r.image.Height < 2 {
			continue
		}
		if d.dz != 0 && r.image.Depth < 2 {
			continue
		}
		out = append(out, d)
	}
	return out
}
