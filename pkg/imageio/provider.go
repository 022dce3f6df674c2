// Package imageio turns image handles into models.Volume values. A handle is
// either a NIfTI file (.nii, .nii.gz) or a directory of 2D slice images.
package imageio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mriradiomics/internal/models"
)

// ErrUnsupportedFormat is returned for handles no provider can read
var ErrUnsupportedFormat = errors.New("unsupported image format")

// DefaultSliceGap is the z spacing in mm used for slice stacks when none is
// configured
const DefaultSliceGap = 1.0

// Provider loads the volume behind a handle
type Provider interface {
	Load(handle string) (*models.Volume, error)
}

// ProviderFor picks the provider matching path. Directories are read as
// slice stacks separated by sliceGap.
func ProviderFor(path string, sliceGap float64) (Provider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", path, err)
	}
	if info.IsDir() {
		return &SliceStackProvider{SliceGap: sliceGap}, nil
	}
	if IsNifti(path) {
		return NiftiProvider{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// Open loads path with the default slice gap
func Open(path string) (*models.Volume, error) {
	p, err := ProviderFor(path, DefaultSliceGap)
	if err != nil {
		return nil, err
	}
	return p.Load(path)
}

// IsNifti reports whether the file name carries a NIfTI extension
func IsNifti(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".nii") || strings.HasSuffix(lower, ".nii.gz")
}

// HasImageData reports whether v holds a usable voxel grid
func HasImageData(v *models.Volume) bool {
	return v != nil && v.Len() > 0 && len(v.Data) == v.Len()
}

func volumeName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	for _, ext := range []string{".nii.gz", ".nii"} {
		if strings.HasSuffix(strings.ToLower(base), ext) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}
