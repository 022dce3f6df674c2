// Package registry maps feature family identifiers to the factories that
// build their computations. The set of families is closed: identifiers are
// parsed once and an unknown token is a configuration error.
package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"mriradiomics/pkg/features"
)

var (
	// ErrUnknownFeatureFamily is returned for identifiers outside the closed
	// set or not present in a registry.
	ErrUnknownFeatureFamily = errors.New("unknown feature family")

	// ErrFamilyUnavailable is returned when a registry is built with a
	// family declared but no computation behind it.
	ErrFamilyUnavailable = errors.New("feature family unavailable")
)

// Family identifies a group of features computed together
type Family string

const (
	FirstOrder Family = "firstorder"
	Shape      Family = "shape"
	GLCM       Family = "glcm"
	GLRLM      Family = "glrlm"
	GLSZM      Family = "glszm"
	GLDM       Family = "gldm"
	NGTDM      Family = "ngtdm"
)

// canonical is the closed set in display order
var canonical = []Family{FirstOrder, Shape, GLCM, GLRLM, GLSZM, GLDM, NGTDM}

// All returns every known family in canonical order
func All() []Family {
	return append([]Family(nil), canonical...)
}

// Parse converts a token into a Family. Surrounding whitespace and case are
// ignored.
func Parse(token string) (Family, error) {
	f := Family(strings.ToLower(strings.TrimSpace(token)))
	for _, c := range canonical {
		if c == f {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFeatureFamily, token)
}

// Registry resolves families to factories. It is read-only after New and
// safe for concurrent use.
type Registry struct {
	entries map[Family]features.Factory
}

// New validates and freezes a set of entries. A family outside the closed
// set fails with ErrUnknownFeatureFamily; a family with a nil factory fails
// with ErrFamilyUnavailable.
func New(entries map[Family]features.Factory) (*Registry, error) {
	frozen := make(map[Family]features.Factory, len(entries))
	for f, factory := range entries {
		if _, err := Parse(string(f)); err != nil {
			return nil, err
		}
		if factory == nil {
			return nil, fmt.Errorf("%w: %s", ErrFamilyUnavailable, f)
		}
		frozen[f] = factory
	}
	return &Registry{entries: frozen}, nil
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry backed by pkg/features
func Default() *Registry {
	defaultOnce.Do(func() {
		reg, err := New(map[Family]features.Factory{
			FirstOrder: features.NewFirstOrder,
			Shape:      features.NewShape,
			GLCM:       features.NewGLCM,
			GLRLM:      features.NewGLRLM,
			GLSZM:      features.NewGLSZM,
			GLDM:       features.NewGLDM,
			NGTDM:      features.NewNGTDM,
		})
		if err != nil {
			panic(fmt.Sprintf("registry: default registry is inconsistent: %v", err))
		}
		defaultRegistry = reg
	})
	return defaultRegistry
}

// Resolve returns the factory registered for a token
func (r *Registry) Resolve(token string) (Family, features.Factory, error) {
	f, err := Parse(token)
	if err != nil {
		return "", nil, err
	}
	factory, ok := r.entries[f]
	if !ok {
		return "", nil, fmt.Errorf("%w: %s is not registered", ErrUnknownFeatureFamily, f)
	}
	return f, factory, nil
}

// Families lists the registered families in canonical order
func (r *Registry) Families() []Family {
	var out []Family
	for _, f := range canonical {
		if _, ok := r.entries[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Has reports whether a family is registered
func (r *Registry) Has(f Family) bool {
	_, ok := r.entries[f]
	return ok
}
