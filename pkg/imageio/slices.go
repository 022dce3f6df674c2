package imageio

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"

	"mriradiomics/internal/models"
)

var sliceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
}

// SliceStackProvider reads a directory of 2D slices into a volume. Slices are
// ordered by the number in their file name and stacked along z. Intensities
// are the 8-bit grayscale values of each pixel.
type SliceStackProvider struct {
	// SliceGap is the physical distance between consecutive slices in mm
	SliceGap float64
}

// Load reads every slice image in dir
func (p *SliceStackProvider) Load(dir string) (*models.Volume, error) {
	gap := p.SliceGap
	if gap <= 0 {
		gap = DefaultSliceGap
	}

	files, err := sliceFiles(dir)
	if err != nil {
		return nil, err
	}

	var vol *models.Volume
	for z, name := range files {
		img, err := imaging.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load slice %s: %w", name, err)
		}
		gray := imaging.Grayscale(img)
		bounds := gray.Bounds()

		// All slices must share the dimensions of the first one
		if vol == nil {
			vol = models.NewVolume(volumeName(dir), bounds.Dx(), bounds.Dy(), len(files))
			vol.VoxelSize.Z = gap
		} else if bounds.Dx() != vol.Width || bounds.Dy() != vol.Height {
			return nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d",
				name, bounds.Dx(), bounds.Dy(), vol.Width, vol.Height)
		}

		for y := 0; y < vol.Height; y++ {
			row := gray.Pix[y*gray.Stride:]
			for x := 0; x < vol.Width; x++ {
				vol.Set(x, y, z, float64(row[x*4]))
			}
		}
	}
	return vol, nil
}

func sliceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if sliceExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no slice images found in %s", dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})
	return files, nil
}

// extractNumber returns the digits of a file name read as one number, or 0
func extractNumber(filename string) int {
	var digits strings.Builder
	for _, c := range filepath.Base(filename) {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}
