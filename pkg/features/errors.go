package features

import "errors"

var (
	// ErrInvalidConfiguration marks malformed Settings. Nothing is computed.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrGeometryMismatch is returned when image and mask do not share
	// dimensions and spacing.
	ErrGeometryMismatch = errors.New("image and mask geometry differ")

	// ErrEmptyROI is returned when the mask holds no voxel with the
	// configured label.
	ErrEmptyROI = errors.New("mask contains no voxels with the configured label")

	// ErrDegenerateROI is returned when the region exists but is too small or
	// too uniform for a family's matrix to be defined.
	ErrDegenerateROI = errors.New("region of interest is degenerate for this feature family")
)
