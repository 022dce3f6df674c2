package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mriradiomics/internal/logging"
	"mriradiomics/internal/models"
	"mriradiomics/pkg/config"
	"mriradiomics/pkg/imageio"
	"mriradiomics/pkg/orchestrator"
	"mriradiomics/pkg/results"
	"mriradiomics/pkg/table"
	"mriradiomics/pkg/visualization"
)

func main() {
	opts := newOptions(flag.CommandLine)
	flag.Parse()

	if opts.writeConfig != "" {
		if err := config.CreateDefaultConfigFile(opts.writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Default configuration written to %s\n", opts.writeConfig)
		return
	}

	// Validate inputs
	if opts.image == "" || opts.mask == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(opts.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	opts.apply(cfg)

	logger, err := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Console)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid logging configuration: %v\n", err)
		os.Exit(1)
	}
	log := logging.Component(logger, "cli")

	fmt.Println("================================")
	fmt.Println("RADIOMIC FEATURE EXTRACTION FROM 3D MRI VOLUMES")
	fmt.Println("================================")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, opts.image, opts.mask, logger); err != nil {
		log.Fatal().Err(err).Msg("Feature extraction failed")
	}
}

// run loads the inputs, computes the configured families and exports the
// resulting table. A cancelled run still exports what was computed.
func run(ctx context.Context, cfg *config.Config, imagePath, maskPath string, logger zerolog.Logger) error {
	log := logging.Component(logger, "cli")

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	families, err := cfg.FamilyList()
	if err != nil {
		return err
	}

	image, err := loadVolume(imagePath, cfg.Input.SliceGap, log)
	if err != nil {
		return fmt.Errorf("failed to load image: %w", err)
	}
	mask, err := loadVolume(maskPath, cfg.Input.SliceGap, log)
	if err != nil {
		return fmt.Errorf("failed to load mask: %w", err)
	}

	if cfg.Output.PreviewDir != "" {
		if err := writePreview(image, mask, settings.Label(), cfg.Output.PreviewDir, log); err != nil {
			log.Warn().Err(err).Msg("Preview failed")
		}
	}

	metrics := orchestrator.NewMetrics()
	orch := orchestrator.New(nil,
		orchestrator.WithLogger(logger),
		orchestrator.WithMetrics(metrics),
		orchestrator.WithCheckpoint(func(_ context.Context, p orchestrator.Progress) {
			status := fmt.Sprintf("%d features", p.Features)
			if p.Err != nil {
				status = "failed"
			}
			fmt.Printf("[%d/%d] %-10s %s (%.2fs)\n", p.Index, p.Total, p.Family, status, p.Duration.Seconds())
		}),
	)

	fmt.Printf("Computing %d feature families with %s\n", len(families), settings)
	startTime := time.Now()
	store, runErr := orch.Run(ctx, results.NewStore(), image, mask, families, settings)
	processingTime := time.Since(startTime)

	switch {
	case errors.Is(runErr, orchestrator.ErrCancelled):
		log.Warn().Err(runErr).Msg("Run interrupted, exporting partial results")
	case runErr != nil:
		return runErr
	}

	if cfg.Output.PrintTable {
		fmt.Println()
		console := &table.ConsoleSink{Out: os.Stdout, Title: table.DefaultName(mask.Name)}
		if err := table.Export(store, console); err != nil {
			return err
		}
	}
	for _, f := range store.Failures() {
		fmt.Printf("✗ %s: %v\n", f.Family, f.Reason)
	}

	if err := exportTables(store, cfg, log); err != nil {
		return err
	}
	if cfg.Output.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Output.MetricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
		log.Info().Str("path", cfg.Output.MetricsFile).Msg("Metrics written")
	}

	fmt.Printf("\nFeature extraction completed in %.2f seconds\n", processingTime.Seconds())
	fmt.Printf("- Families with values: %d\n", len(store.Families()))
	fmt.Printf("- Failed families: %d\n", len(store.Failures()))
	return nil
}

func loadVolume(path string, sliceGap float64, log zerolog.Logger) (*models.Volume, error) {
	provider, err := imageio.ProviderFor(path, sliceGap)
	if err != nil {
		return nil, err
	}
	vol, err := provider.Load(path)
	if err != nil {
		return nil, err
	}
	if !imageio.HasImageData(vol) {
		return nil, fmt.Errorf("%s contains no image data", path)
	}
	log.Info().
		Str("volume", vol.Name).
		Int("width", vol.Width).
		Int("height", vol.Height).
		Int("depth", vol.Depth).
		Interface("spacing", vol.VoxelSize).
		Msg("Volume loaded")
	return vol, nil
}

func writePreview(image, mask *models.Volume, label int, dir string, log zerolog.Logger) error {
	viewer, err := visualization.NewViewer(image, mask, label)
	if err != nil {
		return err
	}
	n, err := viewer.SaveSliceSequence("z", dir)
	if err != nil {
		return err
	}
	log.Info().Str("path", dir).Int("slices", n).Msg("ROI preview written")
	return nil
}

func exportTables(store *results.Store, cfg *config.Config, log zerolog.Logger) error {
	if cfg.Output.CSV != "" {
		if err := table.Export(store, table.NewCSVSink(cfg.Output.CSV)); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Output.CSV).Msg("CSV table written")
	}

	if cfg.Output.SQLite != "" {
		sink, err := table.OpenSQLite(cfg.Output.SQLite, cfg.Output.SQLiteTable)
		if err != nil {
			return err
		}
		defer sink.Close()
		if err := table.Export(store, sink); err != nil {
			return err
		}
		log.Info().Str("path", cfg.Output.SQLite).Str("table", cfg.Output.SQLiteTable).Msg("SQLite table written")
	}
	return nil
}
