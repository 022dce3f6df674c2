package features

import (
	"errors"
	"math"
	"testing"
)

// TestNewSettingsRejectsInvalidValues verifies that malformed parameters never
// produce a usable Settings value
func TestNewSettingsRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name     string
		binWidth float64
		label    int
	}{
		{"zero bin width", 0, 1},
		{"negative bin width", -5, 1},
		{"NaN bin width", math.NaN(), 1},
		{"infinite bin width", math.Inf(1), 1},
		{"negative label", 25, -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewSettings(tc.binWidth, false, tc.label, false)
			if !errors.Is(err, ErrInvalidConfiguration) {
				t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
			}
		})
	}
}

// TestDefaultSettings verifies the defaults match the documented values
func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.BinWidth() != 25 {
		t.Errorf("Expected bin width 25, got %f", s.BinWidth())
	}
	if s.SymmetricalGLCM() {
		t.Error("Expected asymmetric GLCM by default")
	}
	if s.Label() != 1 {
		t.Errorf("Expected label 1, got %d", s.Label())
	}
	if s.Verbose() {
		t.Error("Expected quiet settings by default")
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

// TestZeroSettingsAreInvalid verifies the zero value cannot slip through
func TestZeroSettingsAreInvalid(t *testing.T) {
	var s Settings
	if err := s.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration for zero value, got %v", err)
	}
}

// TestWithMethodsReturnCopies verifies that changes produce new instances
func TestWithMethodsReturnCopies(t *testing.T) {
	base := DefaultSettings()

	changed, err := base.WithLabel(3)
	if err != nil {
		t.Fatalf("WithLabel failed: %v", err)
	}
	if changed.Label() != 3 {
		t.Errorf("Expected label 3, got %d", changed.Label())
	}
	if base.Label() != 1 {
		t.Errorf("Expected original label to stay 1, got %d", base.Label())
	}

	if _, err := base.WithBinWidth(0); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration from WithBinWidth(0), got %v", err)
	}

	sym, err := base.WithSymmetricalGLCM(true)
	if err != nil || !sym.SymmetricalGLCM() {
		t.Errorf("Expected symmetrical copy, got %v (err %v)", sym, err)
	}
	verbose, err := base.WithVerbose(true)
	if err != nil || !verbose.Verbose() {
		t.Errorf("Expected verbose copy, got %v (err %v)", verbose, err)
	}
}
