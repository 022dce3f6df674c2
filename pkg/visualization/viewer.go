// Package visualization renders 2D previews of an image volume with its
// region of interest overlaid, so the mask used for feature extraction can
// be checked by eye.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"mriradiomics/internal/models"
)

// overlay is the tint blended into ROI voxels
var overlay = color.NRGBA{R: 255, G: 48, B: 48, A: 255}

// Viewer extracts slices from an image and highlights the voxels whose mask
// value equals the label
type Viewer struct {
	image *models.Volume
	mask  *models.Volume
	label float64

	// intensity window used to map voxel values to gray levels
	low, high float64

	// Opacity of the ROI tint, 0 disables the overlay
	Opacity float64
}

// NewViewer creates a viewer for image with the ROI selected by label in
// mask. The intensity window spans the image's full range.
func NewViewer(image, mask *models.Volume, label int) (*Viewer, error) {
	if image == nil || mask == nil {
		return nil, fmt.Errorf("image and mask are required")
	}
	if !image.SameGeometry(mask) {
		return nil, fmt.Errorf("image %s and mask %s differ in geometry", image.Name, mask.Name)
	}

	low, high := math.Inf(1), math.Inf(-1)
	for _, v := range image.Data {
		low = math.Min(low, v)
		high = math.Max(high, v)
	}
	return &Viewer{
		image:   image,
		mask:    mask,
		label:   float64(label),
		low:     low,
		high:    high,
		Opacity: 0.4,
	}, nil
}

// sliceSize returns the 2D size of a slice perpendicular to axis and the
// number of positions along it
func (v *Viewer) sliceSize(axis string) (w, h, n int, err error) {
	switch axis {
	case "x", "X":
		return v.image.Depth, v.image.Height, v.image.Width, nil
	case "y", "Y":
		return v.image.Width, v.image.Depth, v.image.Height, nil
	case "z", "Z":
		return v.image.Width, v.image.Height, v.image.Depth, nil
	}
	return 0, 0, 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// voxel maps slice pixel (u, w) at position along axis to volume coordinates
func voxel(axis string, position, u, w int) (x, y, z int) {
	switch axis {
	case "x", "X":
		return position, w, u
	case "y", "Y":
		return u, position, w
	default:
		return u, w, position
	}
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis
// with the ROI tinted
func (v *Viewer) ExtractSlice(axis string, position int) (*image.NRGBA, error) {
	w, h, n, err := v.sliceSize(axis)
	if err != nil {
		return nil, err
	}
	if position < 0 || position >= n {
		return nil, fmt.Errorf("position %d outside [0, %d) along %s", position, n, axis)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for b := 0; b < h; b++ {
		for a := 0; a < w; a++ {
			x, y, z := voxel(axis, position, a, b)
			g := v.gray(v.image.At(x, y, z))
			c := color.NRGBA{R: g, G: g, B: g, A: 255}
			if v.Opacity > 0 && math.Round(v.mask.At(x, y, z)) == v.label {
				c = blend(c, overlay, v.Opacity)
			}
			img.SetNRGBA(a, b, c)
		}
	}
	return img, nil
}

// ROIBounds returns the inclusive range of positions along axis whose slice
// contains at least one ROI voxel. ok is false for an empty ROI.
func (v *Viewer) ROIBounds(axis string) (first, last int, ok bool, err error) {
	w, h, n, err := v.sliceSize(axis)
	if err != nil {
		return 0, 0, false, err
	}
	first, last = n, -1
	for p := 0; p < n; p++ {
	scan:
		for b := 0; b < h; b++ {
			for a := 0; a < w; a++ {
				x, y, z := voxel(axis, p, a, b)
				if math.Round(v.mask.At(x, y, z)) == v.label {
					first = min(first, p)
					last = max(last, p)
					break scan
				}
			}
		}
	}
	return first, last, last >= 0, nil
}

// SaveSliceSequence writes every slice along axis that intersects the ROI
// as a PNG into outputDir and returns the number of files written
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) (int, error) {
	first, last, ok, err := v.ROIBounds(axis)
	if err != nil || !ok {
		return 0, err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return 0, err
	}

	written := 0
	for pos := first; pos <= last; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return written, err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_%s_%03d.png", v.mask.Name, axis, pos))
		if err := imaging.Save(img, filename); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", filename, err)
		}
		written++
	}
	return written, nil
}

func (v *Viewer) gray(value float64) uint8 {
	if v.high <= v.low {
		return 0
	}
	scaled := (value - v.low) / (v.high - v.low) * math.MaxUint8
	return uint8(math.Round(math.Max(0, math.Min(math.MaxUint8, scaled))))
}

func blend(base, tint color.NRGBA, alpha float64) color.NRGBA {
	mix := func(a, b uint8) uint8 {
		return uint8(math.Round(float64(a)*(1-alpha) + float64(b)*alpha))
	}
	return color.NRGBA{R: mix(base.R, tint.R), G: mix(base.G, tint.G), B: mix(base.B, tint.B), A: 255}
}
