// Package results holds computed feature values per family together with
// the families that failed. A Store is written by one run at a time and is
// not internally synchronized.
package results

// Failure records why a family produced no values
type Failure struct {
	Family string
	Reason error
}

// Store maps family -> (feature name -> value) and family -> failure reason.
// Entries are keyed by (family, feature name), so equal feature names in
// different families never collide.
type Store struct {
	// order holds every family that ever succeeded, in first-success order.
	// A family keeps its position across recomputation and failure.
	order []string

	// failed holds the currently failed families in the order they failed
	failed []string

	values   map[string]FeatureMap
	failures map[string]error
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		values:   make(map[string]FeatureMap),
		failures: make(map[string]error),
	}
}

func indexOf(list []string, family string) int {
	for i, f := range list {
		if f == family {
			return i
		}
	}
	return -1
}

// Put replaces the values of one family and clears any failure recorded for
// it. Other families are not affected. The map is copied.
func (s *Store) Put(family string, fm FeatureMap) {
	if indexOf(s.order, family) < 0 {
		s.order = append(s.order, family)
	}
	if i := indexOf(s.failed, family); i >= 0 {
		s.failed = append(s.failed[:i], s.failed[i+1:]...)
	}
	delete(s.failures, family)
	s.values[family] = fm.Clone()
}

// RecordFailure marks a family as failed. Values previously stored for that
// family are dropped so a failed family never shows stale results; other
// families are not affected.
func (s *Store) RecordFailure(family string, reason error) {
	if _, ok := s.failures[family]; !ok {
		s.failed = append(s.failed, family)
	}
	delete(s.values, family)
	s.failures[family] = reason
}

// Get returns a copy of a family's values
func (s *Store) Get(family string) (FeatureMap, bool) {
	fm, ok := s.values[family]
	if !ok {
		return FeatureMap{}, false
	}
	return fm.Clone(), true
}

// Families returns the families holding values, in first-success order.
// Failed families are not included.
func (s *Store) Families() []string {
	var out []string
	for _, f := range s.order {
		if _, ok := s.values[f]; ok {
			out = append(out, f)
		}
	}
	return out
}

// Failure returns the reason a family failed
func (s *Store) Failure(family string) (error, bool) {
	err, ok := s.failures[family]
	return err, ok
}

// Failures returns the current failure records in the order they occurred
func (s *Store) Failures() []Failure {
	var out []Failure
	for _, f := range s.failed {
		out = append(out, Failure{Family: f, Reason: s.failures[f]})
	}
	return out
}

// Len returns the number of families holding values
func (s *Store) Len() int {
	return len(s.values)
}

// Reset clears values, failures and family positions
func (s *Store) Reset() {
	s.order = nil
	s.failed = nil
	s.values = make(map[string]FeatureMap)
	s.failures = make(map[string]error)
}
