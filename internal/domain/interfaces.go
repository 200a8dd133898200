package domain

import "context"

// CatalogStore persists the serialized catalog.
type CatalogStore interface {
	// Load returns the stored catalog bytes, or an error wrapping
	// ErrStoreUnavailable when nothing can be read.
	Load(ctx context.Context) ([]byte, error)

	// Save replaces the stored catalog. Readers never observe a partial write.
	Save(ctx context.Context, data []byte) error
}

// SchemaValidator checks stored catalog bytes against the catalog file schema.
type SchemaValidator interface {
	// Validate returns one message per structural problem found.
	Validate(data []byte) []string
}

// MetricsRecorder records catalog and estimate activity.
type MetricsRecorder interface {
	RecordEstimate(modelID string, totalUSD float64, items int)
	RecordSave(outcome string)
	RecordLoadWarning(kind string)
}

// ModelLister lists the model ids offered by an upstream provider.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
