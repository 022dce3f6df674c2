package imageio

import (
	"fmt"
	"os"

	"github.com/henghuang/nifti"

	"mriradiomics/internal/models"
)

// NiftiProvider reads the first time point of a NIfTI-1 file. Voxel spacing
// comes from pixdim[1..3].
type NiftiProvider struct{}

// Load reads the volume at path
func (NiftiProvider) Load(path string) (*models.Volume, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}

	img, err := safelyLoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse NIfTI image %s: %w", path, err)
	}
	hdr, err := safelyLoadHeader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse NIfTI header %s: %w", path, err)
	}

	dims := img.GetDims()
	width, height, depth := dims[0], dims[1], dims[2]
	if depth < 1 {
		depth = 1
	}
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("NIfTI image %s has invalid dimensions %dx%dx%d", path, width, height, depth)
	}

	vol := models.NewVolume(volumeName(path), width, height, depth)
	for z := 0; z < depth; z++ {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				vol.Set(x, y, z, float64(img.GetAt(x, y, z, 0)))
			}
		}
	}

	vol.VoxelSize = models.Spacing{
		X: positiveOr(float64(hdr.Pixdim[1]), 1),
		Y: positiveOr(float64(hdr.Pixdim[2]), 1),
		Z: positiveOr(float64(hdr.Pixdim[3]), 1),
	}
	return vol, nil
}

// The nifti library reports malformed input by panicking.
func safelyLoadImage(path string) (img nifti.Nifti1Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	img.LoadImage(path, true)
	return
}

func safelyLoadHeader(path string) (hdr nifti.Nifti1Header, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	hdr.LoadHeader(path)
	return
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
