package ports

import (
	"context"

	"lifeexp/domain/features"
)

// ArtifactPack is the trained state of one model variant: model, fitted
// scaler and the ordered feature schema, plus an optional model card.
// A pack is immutable after loading and safe for concurrent reads.
type ArtifactPack struct {
	Variant   string
	Title     string
	Dir       string
	Model     Regressor
	Scaler    Scaler
	Schema    features.Schema
	ModelCard string
}

// ArtifactRepository hands out artifact packs by variant name. Packs are
// loaded at most once per process; a failed load is remembered and returned
// on every later call.
type ArtifactRepository interface {
	Pack(ctx context.Context, variant string) (*ArtifactPack, error)
	Variants() []string
}
