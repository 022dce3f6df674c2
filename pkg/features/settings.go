package features

import (
	"fmt"
	"math"
)

// Settings holds the parameters that govern every feature family's
// computation. A Settings value is immutable: fields are unexported and the
// With* methods return a new, validated copy.
type Settings struct {
	binWidth        float64
	symmetricalGLCM bool
	label           int
	verbose         bool
}

// NewSettings validates the primitive inputs and constructs a Settings value.
//
// Parameters:
//   - binWidth: discretization step for histogram and texture families, must be > 0
//   - symmetricalGLCM: whether co-occurrence matrices are made symmetric
//   - label: mask voxel value selecting the region of interest, must be >= 0
//   - verbose: whether per-family progress is reported
//
// Returns:
//   - the Settings, or an error matching ErrInvalidConfiguration
func NewSettings(binWidth float64, symmetricalGLCM bool, label int, verbose bool) (Settings, error) {
	s := Settings{
		binWidth:        binWidth,
		symmetricalGLCM: symmetricalGLCM,
		label:           label,
		verbose:         verbose,
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// DefaultSettings returns bin width 25, asymmetric GLCM, label 1, quiet.
func DefaultSettings() Settings {
	return Settings{binWidth: 25, label: 1}
}

// Validate reports whether the receiver holds usable parameters. The zero
// value is not valid.
func (s Settings) Validate() error {
	if math.IsNaN(s.binWidth) || math.IsInf(s.binWidth, 0) || s.binWidth <= 0 {
		return fmt.Errorf("%w: bin width must be a positive number, got %v", ErrInvalidConfiguration, s.binWidth)
	}
	if s.label < 0 {
		return fmt.Errorf("%w: label must be non-negative, got %d", ErrInvalidConfiguration, s.label)
	}
	return nil
}

// BinWidth returns the discretization step
func (s Settings) BinWidth() float64 { return s.binWidth }

// SymmetricalGLCM returns whether co-occurrence matrices are symmetric
func (s Settings) SymmetricalGLCM() bool { return s.symmetricalGLCM }

// Label returns the mask value identifying the region of interest
func (s Settings) Label() int { return s.label }

// Verbose returns whether progress is reported per family
func (s Settings) Verbose() bool { return s.verbose }

// WithBinWidth returns a copy with a different bin width
func (s Settings) WithBinWidth(binWidth float64) (Settings, error) {
	return NewSettings(binWidth, s.symmetricalGLCM, s.label, s.verbose)
}

// WithSymmetricalGLCM returns a copy with a different symmetry flag
func (s Settings) WithSymmetricalGLCM(symmetrical bool) (Settings, error) {
	return NewSettings(s.binWidth, symmetrical, s.label, s.verbose)
}

// WithLabel returns a copy selecting a different mask label
func (s Settings) WithLabel(label int) (Settings, error) {
	return NewSettings(s.binWidth, s.symmetricalGLCM, label, s.verbose)
}

// WithVerbose returns a copy with a different verbosity
func (s Settings) WithVerbose(verbose bool) (Settings, error) {
	return NewSettings(s.binWidth, s.symmetricalGLCM, s.label, verbose)
}

// String renders the settings for log lines
func (s Settings) String() string {
	return fmt.Sprintf("binWidth=%g symmetricalGLCM=%t label=%d verbose=%t",
		s.binWidth, s.symmetricalGLCM, s.label, s.verbose)
}
