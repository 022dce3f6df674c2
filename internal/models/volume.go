package models

import (
	"fmt"
	"math"
)

// Spacing is the physical size of a voxel in mm along each axis
type Spacing struct {
	X, Y, Z float64
}

// Volume represents a dense 3D scalar volume, either an intensity image or a
// label map (mask). Voxels are stored in a 1D array in row-major order:
// index = z*Width*Height + y*Width + x.
type Volume struct {
	// Name identifies the volume in logs and table titles
	Name string

	// Data is the 3D volume data as a 1D array in row-major order
	Data []float64

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the depth of the volume in voxels
	Depth int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize Spacing
}

// NewVolume allocates a zero-filled volume with unit voxel spacing
func NewVolume(name string, width, height, depth int) *Volume {
	return &Volume{
		Name:      name,
		Data:      make([]float64, width*height*depth),
		Width:     width,
		Height:    height,
		Depth:     depth,
		VoxelSize: Spacing{X: 1, Y: 1, Z: 1},
	}
}

// Len returns the number of voxels the dimensions describe
func (v *Volume) Len() int {
	return v.Width * v.Height * v.Depth
}

// Index converts voxel coordinates into an offset into Data
func (v *Volume) Index(x, y, z int) int {
	return z*v.Width*v.Height + y*v.Width + x
}

// Coords converts an offset into Data back into voxel coordinates
func (v *Volume) Coords(idx int) (x, y, z int) {
	plane := v.Width * v.Height
	z = idx / plane
	rem := idx % plane
	return rem % v.Width, rem / v.Width, z
}

// InBounds reports whether the coordinates fall inside the volume
func (v *Volume) InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 && x < v.Width && y < v.Height && z < v.Depth
}

// At returns the voxel value at the given coordinates
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[v.Index(x, y, z)]
}

// Set stores a voxel value at the given coordinates
func (v *Volume) Set(x, y, z int, value float64) {
	v.Data[v.Index(x, y, z)] = value
}

// VoxelVolume returns the physical volume of one voxel in mm^3
func (v *Volume) VoxelVolume() float64 {
	return v.VoxelSize.X * v.VoxelSize.Y * v.VoxelSize.Z
}

// Validate checks that the dimensions are positive and agree with the data
func (v *Volume) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Depth <= 0 {
		return fmt.Errorf("volume %q has non-positive dimensions %dx%dx%d", v.Name, v.Width, v.Height, v.Depth)
	}
	if len(v.Data) != v.Len() {
		return fmt.Errorf("volume %q holds %d voxels, dimensions need %d", v.Name, len(v.Data), v.Len())
	}
	return nil
}

// SameGeometry reports whether two volumes share dimensions and spacing, so
// that a voxel index addresses the same physical location in both
func (v *Volume) SameGeometry(other *Volume) bool {
	if v.Width != other.Width || v.Height != other.Height || v.Depth != other.Depth {
		return false
	}
	const tol = 1e-6
	return math.Abs(v.VoxelSize.X-other.VoxelSize.X) < tol &&
		math.Abs(v.VoxelSize.Y-other.VoxelSize.Y) < tol &&
		math.Abs(v.VoxelSize.Z-other.VoxelSize.Z) < tol
}
