package container

import (
	"context"
	"fmt"
	"sync"

	"lifeexp/adapters/artifacts"
	"lifeexp/app"
	"lifeexp/internal"
	"lifeexp/internal/config"
	"lifeexp/internal/errors"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Artifact access
	Artifacts *artifacts.Repository

	mu         sync.Mutex
	predictors map[string]*app.PredictionService
}

// VariantStatus is what surfaces list for each configured variant.
type VariantStatus struct {
	Name  string
	Title string
	Ready bool
	Err   error
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewNopLogger()
	}

	return &Container{
		Config:     cfg,
		Logger:     logger,
		Artifacts:  artifacts.NewDiskRepository(cfg.Artifacts, logger),
		predictors: make(map[string]*app.PredictionService),
	}, nil
}

// NewWithRepository wires a container around an existing repository.
func NewWithRepository(cfg *config.Config, repo *artifacts.Repository, logger *internal.Logger) *Container {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &Container{
		Config:     cfg,
		Logger:     logger,
		Artifacts:  repo,
		predictors: make(map[string]*app.PredictionService),
	}
}

// Preload loads every variant up front so the first request does not pay
// for deserialization. Failed variants stay failed; the process keeps
// serving the others.
func (c *Container) Preload(ctx context.Context) {
	failed := c.Artifacts.Preload(ctx)
	for _, name := range c.Artifacts.Variants() {
		if err, ok := failed[name]; ok {
			c.Logger.Warn("variant %s will show an error page: %v", name, err)
			continue
		}
		c.Logger.Info("variant %s ready", name)
	}
}

// Predictor returns the prediction service of a variant, building it on
// first use.
func (c *Container) Predictor(ctx context.Context, variant string) (*app.PredictionService, error) {
	c.mu.Lock()
	svc, ok := c.predictors[variant]
	c.mu.Unlock()
	if ok {
		return svc, nil
	}

	pack, err := c.Artifacts.Pack(ctx, variant)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if svc, ok := c.predictors[variant]; ok {
		return svc, nil
	}
	svc = app.NewPredictionService(pack, c.Logger)
	c.predictors[variant] = svc
	return svc, nil
}

// Variants reports every configured variant in order with its load state.
func (c *Container) Variants(ctx context.Context) []VariantStatus {
	names := c.Artifacts.Variants()
	out := make([]VariantStatus, 0, len(names))
	for _, name := range names {
		v, _ := c.Artifacts.Variant(name)
		status := VariantStatus{Name: name, Title: v.Title}
		if _, err := c.Artifacts.Pack(ctx, name); err != nil {
			status.Err = err
		} else {
			status.Ready = true
		}
		out = append(out, status)
	}
	return out
}

// DefaultVariant is the first configured variant.
func (c *Container) DefaultVariant() (string, error) {
	names := c.Artifacts.Variants()
	if len(names) == 0 {
		return "", errors.ConfigInvalid("no model variants configured")
	}
	return names[0], nil
}

// Close flushes buffered log output.
func (c *Container) Close() {
	c.Logger.Sync()
}
