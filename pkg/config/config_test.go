package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"mriradiomics/pkg/features"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Expected default config, got %+v", cfg)
	}

	s, err := cfg.Settings()
	if err != nil {
		t.Fatalf("Settings failed: %v", err)
	}
	if s != features.DefaultSettings() {
		t.Errorf("Expected default settings, got %v", s)
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`features:
  binWidth: 10
  symmetricalGLCM: true
families: [glcm, firstorder]
output:
  csv: out/features.csv
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Features.BinWidth != 10 || !cfg.Features.SymmetricalGLCM {
		t.Errorf("Expected binWidth 10 and symmetrical GLCM, got %+v", cfg.Features)
	}
	if cfg.Features.Label != 1 {
		t.Errorf("Expected label to keep its default, got %d", cfg.Features.Label)
	}
	if cfg.Output.CSV != "out/features.csv" || cfg.Output.SQLiteTable != "features" {
		t.Errorf("Unexpected output section %+v", cfg.Output)
	}

	families, err := cfg.FamilyList()
	if err != nil {
		t.Fatalf("FamilyList failed: %v", err)
	}
	if !reflect.DeepEqual(families, []string{"glcm", "firstorder"}) {
		t.Errorf("Expected [glcm firstorder], got %v", families)
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("features: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultConfig()) {
		t.Errorf("Expected reloaded config to equal defaults, got %+v", cfg)
	}
}

func TestSettingsRejectsInvalidValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Features.BinWidth = 0
	if _, err := cfg.Settings(); !errors.Is(err, features.ErrInvalidConfiguration) {
		t.Errorf("Expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestExpandFamilies(t *testing.T) {
	all, err := ExpandFamilies([]string{" ALL "})
	if err != nil {
		t.Fatalf("ExpandFamilies failed: %v", err)
	}
	expected := []string{"firstorder", "shape", "glcm", "glrlm", "glszm", "gldm", "ngtdm"}
	if !reflect.DeepEqual(all, expected) {
		t.Errorf("Expected %v, got %v", expected, all)
	}

	none, err := ExpandFamilies([]string{"none"})
	if err != nil || len(none) != 0 {
		t.Errorf("Expected empty list for none, got %v (%v)", none, err)
	}

	if _, err := ExpandFamilies([]string{"all", "glcm"}); err == nil {
		t.Error("Expected error when combining all with other families")
	}

	mixed, err := ExpandFamilies([]string{"GLCM", "", "bogus"})
	if err != nil {
		t.Fatalf("ExpandFamilies failed: %v", err)
	}
	if !reflect.DeepEqual(mixed, []string{"glcm", "bogus"}) {
		t.Errorf("Expected [glcm bogus], got %v", mixed)
	}
}

func TestSplitFamilies(t *testing.T) {
	if got := SplitFamilies(""); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
	if got := SplitFamilies("shape,glcm"); !reflect.DeepEqual(got, []string{"shape", "glcm"}) {
		t.Errorf("Expected [shape glcm], got %v", got)
	}
}
