package results

import (
	"errors"
	"reflect"
	"testing"
)

func featureMap(pairs ...any) FeatureMap {
	fm := NewFeatureMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		fm.Set(pairs[i].(string), pairs[i+1])
	}
	return fm
}

// TestFeatureMapOrder verifies names keep insertion order
func TestFeatureMapOrder(t *testing.T) {
	fm := featureMap("b", 1.0, "a", 2.0, "c", 3.0)
	fm.Set("a", 20.0)

	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(fm.Names(), want) {
		t.Errorf("Expected names %v, got %v", want, fm.Names())
	}
	if v, _ := fm.Get("a"); v != 20.0 {
		t.Errorf("Expected overwritten value 20, got %v", v)
	}

	var visited []string
	fm.Each(func(name string, value any) { visited = append(visited, name) })
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("Expected Each order %v, got %v", want, visited)
	}

	var zero FeatureMap
	zero.Set("x", 1)
	if zero.Len() != 1 {
		t.Errorf("Expected zero value map to accept writes, got len %d", zero.Len())
	}
}

// TestSameNameInDifferentFamilies verifies (family, name) keying
func TestSameNameInDifferentFamilies(t *testing.T) {
	s := NewStore()
	s.Put("glcm", featureMap("Contrast", 1.5))
	s.Put("ngtdm", featureMap("Contrast", 9.0))

	glcm, _ := s.Get("glcm")
	ngtdm, _ := s.Get("ngtdm")
	if v, _ := glcm.Get("Contrast"); v != 1.5 {
		t.Errorf("Expected glcm Contrast 1.5, got %v", v)
	}
	if v, _ := ngtdm.Get("Contrast"); v != 9.0 {
		t.Errorf("Expected ngtdm Contrast 9, got %v", v)
	}
}

// TestPutOverwritesOnlyThatFamily verifies merge semantics
func TestPutOverwritesOnlyThatFamily(t *testing.T) {
	s := NewStore()
	s.Put("firstorder", featureMap("Mean", 1.0, "Energy", 2.0))
	s.Put("shape", featureMap("VoxelVolume", 8.0))
	s.Put("firstorder", featureMap("Mean", 5.0))

	fo, _ := s.Get("firstorder")
	if fo.Len() != 1 {
		t.Errorf("Expected firstorder replaced wholesale, got %v", fo.Names())
	}
	if v, _ := fo.Get("Mean"); v != 5.0 {
		t.Errorf("Expected Mean 5, got %v", v)
	}
	if _, ok := s.Get("shape"); !ok {
		t.Error("Expected shape to survive firstorder recomputation")
	}
	if want := []string{"firstorder", "shape"}; !reflect.DeepEqual(s.Families(), want) {
		t.Errorf("Expected original positions %v, got %v", want, s.Families())
	}
}

// TestRecordFailure verifies failed families hold no values
func TestRecordFailure(t *testing.T) {
	s := NewStore()
	boom := errors.New("empty region")
	s.Put("firstorder", featureMap("Mean", 1.0))
	s.Put("glcm", featureMap("Contrast", 1.0))
	s.RecordFailure("glcm", boom)

	if want := []string{"firstorder"}; !reflect.DeepEqual(s.Families(), want) {
		t.Errorf("Expected families %v, got %v", want, s.Families())
	}
	if _, ok := s.Get("glcm"); ok {
		t.Error("Expected failed family to hold no values")
	}
	reason, ok := s.Failure("glcm")
	if !ok || !errors.Is(reason, boom) {
		t.Errorf("Expected failure reason %v, got %v", boom, reason)
	}
	if fails := s.Failures(); len(fails) != 1 || fails[0].Family != "glcm" {
		t.Errorf("Expected one glcm failure, got %v", fails)
	}

	// a later success clears the failure and keeps the original position
	s.Put("shape", featureMap("VoxelVolume", 1.0))
	s.Put("glcm", featureMap("Contrast", 2.0))
	if _, ok := s.Failure("glcm"); ok {
		t.Error("Expected success to clear the failure record")
	}
	if want := []string{"firstorder", "glcm", "shape"}; !reflect.DeepEqual(s.Families(), want) {
		t.Errorf("Expected families %v, got %v", want, s.Families())
	}
}

// TestFirstSuccessWinsPosition verifies a family that failed before its
// first success is positioned by that success
func TestFirstSuccessWinsPosition(t *testing.T) {
	s := NewStore()
	s.RecordFailure("glcm", errors.New("single voxel"))
	s.RecordFailure("ngtdm", errors.New("single voxel"))
	s.Put("firstorder", featureMap("Mean", 1.0))
	s.Put("glcm", featureMap("Contrast", 1.0))

	if want := []string{"firstorder", "glcm"}; !reflect.DeepEqual(s.Families(), want) {
		t.Errorf("Expected families %v, got %v", want, s.Families())
	}
	if fails := s.Failures(); len(fails) != 1 || fails[0].Family != "ngtdm" {
		t.Errorf("Expected only the ngtdm failure, got %v", fails)
	}

	s.RecordFailure("firstorder", errors.New("x"))
	s.Put("firstorder", featureMap("Mean", 2.0))
	if want := []string{"firstorder", "glcm"}; !reflect.DeepEqual(s.Families(), want) {
		t.Errorf("Expected firstorder to keep its position, got %v", s.Families())
	}
}

// TestStoreOwnsItsData verifies callers cannot mutate stored values
func TestStoreOwnsItsData(t *testing.T) {
	s := NewStore()
	fm := featureMap("Mean", 1.0)
	s.Put("firstorder", fm)
	fm.Set("Mean", 99.0)

	got, _ := s.Get("firstorder")
	got.Set("Extra", 1.0)

	again, _ := s.Get("firstorder")
	if v, _ := again.Get("Mean"); v != 1.0 {
		t.Errorf("Expected stored Mean 1, got %v", v)
	}
	if again.Len() != 1 {
		t.Errorf("Expected stored map untouched, got %v", again.Names())
	}
}

// TestReset verifies reset clears values, failures and positions
func TestReset(t *testing.T) {
	s := NewStore()
	s.Put("shape", featureMap("VoxelVolume", 1.0))
	s.RecordFailure("glcm", errors.New("x"))
	s.Reset()

	if s.Len() != 0 || len(s.Families()) != 0 || len(s.Failures()) != 0 {
		t.Errorf("Expected empty store after reset, got %v / %v", s.Families(), s.Failures())
	}

	s.Put("firstorder", featureMap("Mean", 1.0))
	s.Put("shape", featureMap("VoxelVolume", 1.0))
	if want := []string{"firstorder", "shape"}; !reflect.DeepEqual(s.Families(), want) {
		t.Errorf("Expected fresh positions %v, got %v", want, s.Families())
	}
}
