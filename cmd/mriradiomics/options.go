package main

import (
	"flag"

	"mriradiomics/pkg/config"
)

// options holds the command line flags. Flags that were set explicitly
// override the values loaded from the configuration file.
type options struct {
	fs *flag.FlagSet

	image       string
	mask        string
	config      string
	writeConfig string

	families    string
	binWidth    float64
	symmetrical bool
	label       int
	verbose     bool
	sliceGap    float64

	csv         string
	sqlite      string
	metricsFile string
	previewDir  string
	logLevel    string
}

func newOptions(fs *flag.FlagSet) *options {
	defaults := config.DefaultConfig()
	o := &options{fs: fs}

	fs.StringVar(&o.image, "image", "", "Intensity volume: NIfTI file or directory of 2D slices")
	fs.StringVar(&o.mask, "mask", "", "Label volume: NIfTI file or directory of 2D slices")
	fs.StringVar(&o.config, "config", "mriradiomics.yaml", "YAML configuration file")
	fs.StringVar(&o.writeConfig, "write-config", "", "Write the default configuration to this path and exit")

	fs.StringVar(&o.families, "families", "", "Comma separated feature families, or all / none")
	fs.Float64Var(&o.binWidth, "bin-width", defaults.Features.BinWidth, "Intensity bin width for discretization")
	fs.BoolVar(&o.symmetrical, "symmetrical-glcm", defaults.Features.SymmetricalGLCM, "Count GLCM co-occurrences in both directions")
	fs.IntVar(&o.label, "label", defaults.Features.Label, "Mask value selecting the region of interest")
	fs.BoolVar(&o.verbose, "verbose", defaults.Features.Verbose, "Log progress for every feature family")
	fs.Float64Var(&o.sliceGap, "gap", defaults.Input.SliceGap, "Inter-slice gap in mm for slice directories")

	fs.StringVar(&o.csv, "csv", "", "Write the feature table to this CSV file")
	fs.StringVar(&o.sqlite, "sqlite", "", "Write the feature table to this SQLite database")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file")
	fs.StringVar(&o.previewDir, "preview", "", "Write axial PNG previews of the ROI to this directory")
	fs.StringVar(&o.logLevel, "log-level", defaults.Logging.Level, "Log level (debug, info, warn, error)")
	return o
}

// apply copies explicitly set flags into cfg
func (o *options) apply(cfg *config.Config) {
	o.fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "families":
			cfg.Families = config.SplitFamilies(o.families)
		case "bin-width":
			cfg.Features.BinWidth = o.binWidth
		case "symmetrical-glcm":
			cfg.Features.SymmetricalGLCM = o.symmetrical
		case "label":
			cfg.Features.Label = o.label
		case "verbose":
			cfg.Features.Verbose = o.verbose
		case "gap":
			cfg.Input.SliceGap = o.sliceGap
		case "csv":
			cfg.Output.CSV = o.csv
		case "sqlite":
			cfg.Output.SQLite = o.sqlite
		case "metrics-file":
			cfg.Output.MetricsFile = o.metricsFile
		case "preview":
			cfg.Output.PreviewDir = o.previewDir
		case "log-level":
			cfg.Logging.Level = o.logLevel
		}
	})
}
