// Package orchestrator drives feature family computations for one image and
// mask, isolating per-family data failures and merging results into a
// results.Store.
//
// Families are computed one after another in the requested order. Unknown
// families and invalid settings abort a run before anything is computed;
// a family that cannot be computed on the given data is recorded as a
// failure and the run moves on to the next family.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"mriradiomics/internal/models"
	"mriradiomics/pkg/features"
	"mriradiomics/pkg/registry"
	"mriradiomics/pkg/results"
)

// Progress describes one finished family and is handed to the checkpoint
// hook between families
type Progress struct {
	Family   string
	Index    int // 1-based position in the request
	Total    int
	Features int
	Err      error
	Duration time.Duration
}

// FamilyResult is the outcome of computing one family. Err is a
// *FamilyError when the data could not be analysed; Values is empty then.
type FamilyResult struct {
	Family   registry.Family
	Values   results.FeatureMap
	Err      error
	Duration time.Duration
}

// Succeeded reports whether the family produced values
func (r FamilyResult) Succeeded() bool {
	return r.Err == nil
}

// Orchestrator computes feature families. It holds no per-run state and can
// be reused; a single Store must not be passed to concurrent runs.
type Orchestrator struct {
	registry   *registry.Registry
	logger     zerolog.Logger
	metrics    *Metrics
	checkpoint func(ctx context.Context, p Progress)
}

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithMetrics records computation counts and durations
func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithCheckpoint installs a hook called after every family. Hosts with an
// event loop use it to stay responsive and may cancel the run's context
// from it.
func WithCheckpoint(fn func(ctx context.Context, p Progress)) Option {
	return func(o *Orchestrator) { o.checkpoint = fn }
}

// New creates an orchestrator. A nil registry selects registry.Default().
func New(reg *registry.Registry, opts ...Option) *Orchestrator {
	if reg == nil {
		reg = registry.Default()
	}
	o := &Orchestrator{registry: reg, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ComputeFamily computes a single family.
//
// Returns:
//   - the FamilyResult; a data failure is reported in FamilyResult.Err
//   - an error for invalid settings, missing inputs, an unknown family or a
//     cancelled context
func (o *Orchestrator) ComputeFamily(ctx context.Context, image, mask *models.Volume, family string, settings features.Settings) (FamilyResult, error) {
	if err := settings.Validate(); err != nil {
		return FamilyResult{}, err
	}
	if err := checkInputs(image, mask); err != nil {
		return FamilyResult{}, err
	}
	f, factory, err := o.registry.Resolve(family)
	if err != nil {
		return FamilyResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return FamilyResult{}, fmt.Errorf("%w: %w", ErrCancelled, err)
	}

	res, err := o.compute(f, factory, image, mask, settings)
	if err != nil {
		return FamilyResult{}, err
	}
	o.observe(res)
	return res, nil
}

// Run computes the requested families in order and merges them into store.
// A nil store is replaced by a new one. An empty request returns the store
// unchanged.
//
// Every identifier is resolved before the first computation, so an unknown
// family leaves the store untouched. Each success replaces only that
// family's entries; each data failure is recorded and the run continues.
// When ctx is cancelled, Run stops at the next checkpoint and returns the
// partial store with an error matching ErrCancelled.
func (o *Orchestrator) Run(ctx context.Context, store *results.Store, image, mask *models.Volume, requested []string, settings features.Settings) (*results.Store, error) {
	if store == nil {
		store = results.NewStore()
	}
	if err := settings.Validate(); err != nil {
		o.metrics.observeRun(OutcomeRejected)
		return store, err
	}
	if len(requested) == 0 {
		o.logger.Debug().Str("component", "orchestrator").Msg("No feature families requested")
		return store, nil
	}
	if err := checkInputs(image, mask); err != nil {
		o.metrics.observeRun(OutcomeRejected)
		return store, err
	}

	type step struct {
		family  registry.Family
		factory features.Factory
	}
	plan := make([]step, 0, len(requested))
	for _, token := range requested {
		f, factory, err := o.registry.Resolve(token)
		if err != nil {
			o.metrics.observeRun(OutcomeRejected)
			return store, err
		}
		plan = append(plan, step{f, factory})
	}

	log := o.logger.With().
		Str("component", "orchestrator").
		Str("image", image.Name).
		Str("mask", mask.Name).
		Logger()
	progressLevel := zerolog.DebugLevel
	if settings.Verbose() {
		progressLevel = zerolog.InfoLevel
	}

	log.Info().Int("families", len(plan)).Stringer("settings", settings).Msg("Processing started")
	failed := 0
	for i, s := range plan {
		if err := ctx.Err(); err != nil {
			o.metrics.observeRun(OutcomeCancelled)
			log.Warn().Int("completed", i).Int("requested", len(plan)).Msg("Processing cancelled")
			return store, fmt.Errorf("%w after %d of %d families: %w", ErrCancelled, i, len(plan), err)
		}

		log.WithLevel(progressLevel).Str("family", string(s.family)).
			Msgf("Calculating %s for volume %s and mask %s", s.family, image.Name, mask.Name)

		res, err := o.compute(s.family, s.factory, image, mask, settings)
		if err != nil {
			o.metrics.observeRun(OutcomeRejected)
			return store, err
		}
		o.observe(res)

		if res.Succeeded() {
			store.Put(string(s.family), res.Values)
			log.WithLevel(progressLevel).Str("family", string(s.family)).
				Int("features", res.Values.Len()).Dur("duration", res.Duration).Msg("Family completed")
		} else {
			failed++
			store.RecordFailure(string(s.family), res.Err)
			log.Warn().Str("family", string(s.family)).Err(res.Err).Msg("Family failed")
		}

		if o.checkpoint != nil {
			o.checkpoint(ctx, Progress{
				Family:   string(s.family),
				Index:    i + 1,
				Total:    len(plan),
				Features: res.Values.Len(),
				Err:      res.Err,
				Duration: res.Duration,
			})
		}
	}

	o.metrics.observeRun(OutcomeSuccess)
	log.Info().Int("succeeded", len(plan)-failed).Int("failed", failed).Msg("Processing completed")
	return store, nil
}

// compute runs the four-step family contract. Only invalid settings coming
// back from a factory are returned as error; everything else, including a
// panic inside the family, becomes FamilyResult.Err.
func (o *Orchestrator) compute(f registry.Family, factory features.Factory, image, mask *models.Volume, settings features.Settings) (res FamilyResult, fatal error) {
	start := time.Now()
	stage := "construct"
	res.Family = f
	defer func() {
		if p := recover(); p != nil {
			res.Values = results.FeatureMap{}
			res.Err = &FamilyError{Family: string(f), Stage: stage, Err: fmt.Errorf("panic: %v", p)}
		}
		res.Duration = time.Since(start)
	}()

	ext, err := factory(image, mask, settings)
	if err != nil {
		if errors.Is(err, features.ErrInvalidConfiguration) {
			return res, err
		}
		res.Err = &FamilyError{Family: string(f), Stage: stage, Err: err}
		return res, nil
	}

	stage = "execute"
	ext.EnableAllFeatures()
	if err := ext.Execute(); err != nil {
		res.Err = &FamilyError{Family: string(f), Stage: stage, Err: err}
		return res, nil
	}

	fm := results.NewFeatureMap()
	for _, v := range ext.Values() {
		fm.Set(v.Name, v.Value)
	}
	res.Values = fm
	return res, nil
}

func (o *Orchestrator) observe(res FamilyResult) {
	outcome := OutcomeSuccess
	if !res.Succeeded() {
		outcome = OutcomeFailure
	}
	o.metrics.observeFamily(string(res.Family), outcome, res.Duration)
}

func checkInputs(image, mask *models.Volume) error {
	if image == nil {
		return fmt.Errorf("%w: image volume is required", ErrInvalidInput)
	}
	if mask == nil {
		return fmt.Errorf("%w: mask volume is required", ErrInvalidInput)
	}
	return nil
}
