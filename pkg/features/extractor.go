// Package features is the feature-extraction library behind the radiomics
// pipeline. Each feature family (first order statistics, shape, and the
// texture matrices) exposes the same four-step contract: construct from an
// image, a mask and Settings, enable features, execute, read the values.
package features

import (
	"fmt"

	"mriradiomics/internal/models"
)

// FeatureValue is one computed feature. Value is usually a float64 but
// callers must treat it as opaque.
type FeatureValue struct {
	Name  string
	Value any
}

// FeatureValues is the ordered output of one family computation
type FeatureValues []FeatureValue

// Extractor is a single family computation bound to an image and a mask
type Extractor interface {
	// Name returns the family identifier, e.g. "firstorder"
	Name() string

	// FeatureNames lists every feature the family can produce, in output order
	FeatureNames() []string

	// EnableAllFeatures selects every feature of the family
	EnableAllFeatures()

	// EnableFeature selects a single feature by name
	EnableFeature(name string) error

	// EnabledFeatures lists the selected features in output order
	EnabledFeatures() []string

	// Execute computes the enabled features. A failure leaves Values empty.
	Execute() error

	// Values returns a copy of the computed features in output order
	Values() FeatureValues
}

// Factory constructs a family computation. It fails with
// ErrInvalidConfiguration for bad settings and with a data error
// (ErrGeometryMismatch, ErrEmptyROI) when the inputs cannot be analysed.
type Factory func(image, mask *models.Volume, settings Settings) (Extractor, error)

// extractor is the shared Extractor implementation. Families provide the
// declared feature names and a compute function evaluating all of them.
type extractor struct {
	family  string
	names   []string
	enabled map[string]bool
	compute func() (map[string]float64, error)
	values  FeatureValues
}

func newExtractor(family string, names []string, compute func() (map[string]float64, error)) *extractor {
	return &extractor{
		family:  family,
		names:   names,
		enabled: make(map[string]bool, len(names)),
		compute: compute,
	}
}

func (e *extractor) Name() string { return e.family }

func (e *extractor) FeatureNames() []string {
	return append([]string(nil), e.names...)
}

func (e *extractor) EnableAllFeatures() {
	for _, n := range e.names {
		e.enabled[n] = true
	}
}

func (e *extractor) EnableFeature(name string) error {
	for _, n := range e.names {
		if n == name {
			e.enabled[name] = true
			return nil
		}
	}
	return fmt.Errorf("%s: unknown feature %q", e.family, name)
}

func (e *extractor) EnabledFeatures() []string {
	var out []string
	for _, n := range e.names {
		if e.enabled[n] {
			out = append(out, n)
		}
	}
	return out
}

func (e *extractor) Execute() error {
	e.values = nil
	enabled := e.EnabledFeatures()
	if len(enabled) == 0 {
		return nil
	}

	all, err := e.compute()
	if err != nil {
		return fmt.Errorf("%s: %w", e.family, err)
	}

	values := make(FeatureValues, 0, len(enabled))
	for _, n := range enabled {
		values = append(values, FeatureValue{Name: n, Value: all[n]})
	}
	e.values = values
	return nil
}

func (e *extractor) Values() FeatureValues {
	return append(FeatureValues(nil), e.values...)
}
