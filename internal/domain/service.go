package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/davidbz/costsheet/internal/observability"
)

// NoticeCatalogSaved is the one-shot message shown after a successful save.
const NoticeCatalogSaved = "pricing catalog updated"

// Save outcomes reported to the MetricsRecorder.
const (
	SaveOutcomeSaved    = "saved"
	SaveOutcomeRejected = "rejected"
	SaveOutcomeFailed   = "failed"
)

// Load warning kinds reported to the MetricsRecorder.
const (
	LoadWarningUnavailable = "unavailable"
	LoadWarningMalformed   = "malformed"
	LoadWarningRead        = "read"
)

// LoadResult is the catalog in effect plus any problem met while reading it.
type LoadResult struct {
	Catalog *Catalog
	Warning string
}

// SaveResult is the persisted catalog and the notice for the next render.
type SaveResult struct {
	Catalog *Catalog
	Notice  string
}

// EstimateRequest carries raw, user-typed estimate input.
type EstimateRequest struct {
	ModelID      string
	Usage        map[string]string
	RequestCount string
}

// Estimate is an evaluated breakdown with its formatted rendering.
type Estimate struct {
	Breakdown *CostBreakdown
	Display   *Display
	Warning   string
}

// CheckResult reports every problem found in the stored catalog.
type CheckResult struct {
	Catalog      *Catalog
	SchemaIssues []string
	Errors       []string
}

// OK reports whether the stored catalog passed every check.
func (r *CheckResult) OK() bool {
	return len(r.SchemaIssues) == 0 && len(r.Errors) == 0
}

// CatalogService loads, edits and prices the catalog.
type CatalogService struct {
	store   CatalogStore
	schema  SchemaValidator
	metrics MetricsRecorder
}

// NewCatalogService creates a new catalog service (DI constructor).
// schema and metrics may be nil.
func NewCatalogService(store CatalogStore, schema SchemaValidator, metrics MetricsRecorder) *CatalogService {
	return &CatalogService{
		store:   store,
		schema:  schema,
		metrics: metrics,
	}
}

// Load returns the catalog in effect. Store and decode problems never fail
// the call: the default catalog is returned with a warning instead. Only
// context cancellation is an error.
func (s *CatalogService) Load(ctx context.Context) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger := observability.FromContext(ctx)

	data, err := s.store.Load(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		kind, warning := LoadWarningRead, fmt.Sprintf("catalog read failed: %v", err)
		if errors.Is(err, ErrStoreUnavailable) {
			kind, warning = LoadWarningUnavailable, fmt.Sprintf("catalog not found, using defaults: %v", err)
		}

		logger.Warn("catalog load fell back to defaults",
			observability.String("kind", kind),
			observability.Error(err))
		s.recordLoadWarning(kind)

		return &LoadResult{Catalog: DefaultCatalog(), Warning: warning}, nil
	}

	catalog, err := DecodeCatalog(data)
	if err != nil {
		logger.Warn("stored catalog is malformed",
			observability.Error(err))
		s.recordLoadWarning(LoadWarningMalformed)

		return &LoadResult{Catalog: DefaultCatalog(), Warning: err.Error()}, nil
	}

	return &LoadResult{Catalog: catalog}, nil
}

// Submit validates an edit-form submission and persists it.
//
// A rejected submission returns a *ValidationError carrying every problem and
// the candidate catalog; nothing is written. Encode and write failures wrap
// ErrPersistenceFailed.
func (s *CatalogService) Submit(ctx context.Context, input map[string]any) (*SaveResult, error) {
	logger := observability.FromContext(ctx)

	candidate, issues := ValidateSubmission(input)
	if len(issues) > 0 {
		logger.Info("catalog submission rejected",
			observability.Int("error_count", len(issues)))
		s.recordSave(SaveOutcomeRejected)

		return nil, &ValidationError{Errors: issues, Candidate: candidate}
	}

	data, err := EncodeCatalog(candidate)
	if err != nil {
		s.recordSave(SaveOutcomeFailed)
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	if err := s.store.Save(ctx, data); err != nil {
		logger.Error("failed to persist catalog",
			observability.Error(err))
		s.recordSave(SaveOutcomeFailed)

		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	logger.Info("catalog saved",
		observability.Int("model_count", len(candidate.Models)),
		observability.Int("bytes", len(data)))
	s.recordSave(SaveOutcomeSaved)

	return &SaveResult{Catalog: candidate, Notice: NoticeCatalogSaved}, nil
}

// Estimate prices raw usage against the catalog in effect.
func (s *CatalogService) Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	breakdown, err := Evaluate(loaded.Catalog, req.ModelID, req.Usage, ParseRequestCount(req.RequestCount))
	if err != nil {
		return nil, err
	}

	observability.FromContext(observability.WithModel(ctx, breakdown.ModelID)).Info("estimate computed",
		observability.Float64("request_count", breakdown.RequestCount),
		observability.Float64("total_usd", breakdown.TotalUSD),
		observability.Int("items", len(breakdown.Items)))

	if s.metrics != nil {
		s.metrics.RecordEstimate(breakdown.ModelID, breakdown.TotalUSD, len(breakdown.Items))
	}

	return &Estimate{
		Breakdown: breakdown,
		Display:   NewDisplay(breakdown),
		Warning:   loaded.Warning,
	}, nil
}

// Check runs the structural schema check and the strict validation over the
// stored catalog. Unlike Load, a missing or undecodable catalog is an error.
func (s *CatalogService) Check(ctx context.Context) (*CheckResult, error) {
	data, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	raw, err := decodeObject(data)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	if s.schema != nil {
		result.SchemaIssues = s.schema.Validate(data)
	}
	result.Catalog, result.Errors = ValidateSubmission(raw)

	return result, nil
}

// Unpriced lists provider model ids that have no catalog entry.
func (s *CatalogService) Unpriced(ctx context.Context, lister ModelLister) ([]string, error) {
	ids, err := lister.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider models: %w", err)
	}

	loaded, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}

	return UnpricedModels(loaded.Catalog, ids), nil
}

func (s *CatalogService) recordSave(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordSave(outcome)
	}
}

func (s *CatalogService) recordLoadWarning(kind string) {
	if s.metrics != nil {
		s.metrics.RecordLoadWarning(kind)
	}
}
