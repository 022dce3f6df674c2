package results

// FeatureMap is an insertion-ordered mapping from feature name to value.
// Values are opaque; formatting is left to the table projection.
type FeatureMap struct {
	names  []string
	values map[string]any
}

// NewFeatureMap returns an empty map
func NewFeatureMap() FeatureMap {
	return FeatureMap{values: make(map[string]any)}
}

// Set stores a value. A new name is appended; an existing name keeps its
// position and takes the new value.
func (m *FeatureMap) Set(name string, value any) {
	if m.values == nil {
		m.values = make(map[string]any)
	}
	if _, ok := m.values[name]; !ok {
		m.names = append(m.names, name)
	}
	m.values[name] = value
}

// Get returns the value for a name
func (m FeatureMap) Get(name string) (any, bool) {
	v, ok := m.values[name]
	return v, ok
}

// Names returns the feature names in insertion order
func (m FeatureMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Len returns the number of features
func (m FeatureMap) Len() int {
	return len(m.names)
}

// Each calls fn for every feature in insertion order
func (m FeatureMap) Each(fn func(name string, value any)) {
	for _, n := range m.names {
		fn(n, m.values[n])
	}
}

// Clone returns an independent copy
func (m FeatureMap) Clone() FeatureMap {
	out := FeatureMap{
		names:  append([]string(nil), m.names...),
		values: make(map[string]any, len(m.values)),
	}
	for k, v := range m.values {
		out.values[k] = v
	}
	return out
}
