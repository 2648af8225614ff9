package artifacts

import (
	"context"
	"io/fs"
	"os"
	"sync"

	"lifeexp/internal"
	"lifeexp/internal/config"
	"lifeexp/internal/errors"
	"lifeexp/ports"
)

// Opener returns the filesystem holding one variant's artifacts.
type Opener func(v config.VariantConfig) fs.FS

// DirOpener opens each variant's directory on disk, resolved against root.
func DirOpener(cfg config.ArtifactsConfig) Opener {
	return func(v config.VariantConfig) fs.FS {
		return os.DirFS(cfg.VariantDir(v))
	}
}

type entry struct {
	variant config.VariantConfig
	once    sync.Once
	pack    *ports.ArtifactPack
	err     error
}

// Repository implements ports.ArtifactRepository. Each variant is loaded
// lazily on first use and the outcome, success or failure, is kept.
type Repository struct {
	loader  *Loader
	open    Opener
	order   []string
	entries map[string]*entry
	log     *internal.Logger
}

var _ ports.ArtifactRepository = (*Repository)(nil)

// NewRepository creates a repository over the configured variants.
func NewRepository(variants []config.VariantConfig, open Opener, log *internal.Logger) *Repository {
	if log == nil {
		log = internal.NewNopLogger()
	}
	r := &Repository{
		loader:  NewLoader(log),
		open:    open,
		entries: make(map[string]*entry, len(variants)),
		log:     log,
	}
	for _, v := range variants {
		if _, dup := r.entries[v.Name]; dup {
			continue
		}
		r.order = append(r.order, v.Name)
		r.entries[v.Name] = &entry{variant: v}
	}
	return r
}

// NewDiskRepository is NewRepository reading from the configured directories.
func NewDiskRepository(cfg config.ArtifactsConfig, log *internal.Logger) *Repository {
	return NewRepository(cfg.Variants, DirOpener(cfg), log)
}

// Variants returns variant names in configuration order.
func (r *Repository) Variants() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Variant returns the configuration for name.
func (r *Repository) Variant(name string) (config.VariantConfig, bool) {
	e, ok := r.entries[name]
	if !ok {
		return config.VariantConfig{}, false
	}
	return e.variant, true
}

// Pack returns the artifacts for variant, loading them on first call.
// Cancelling ctx does not abort a load another caller is waiting on.
func (r *Repository) Pack(ctx context.Context, variant string) (*ports.ArtifactPack, error) {
	e, ok := r.entries[variant]
	if !ok {
		return nil, errors.NotFound("variant " + variant)
	}
	e.once.Do(func() {
		e.pack, e.err = r.loader.Load(context.WithoutCancel(ctx), r.open(e.variant), e.variant)
		if e.err != nil {
			r.log.Error("variant %s unavailable: %v", variant, e.err)
		}
	})
	return e.pack, e.err
}

// Preload loads every variant concurrently and returns the failures by name.
func (r *Repository) Preload(ctx context.Context) map[string]error {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		failed = make(map[string]error)
	)
	for _, name := range r.order {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := r.Pack(ctx, name); err != nil {
				mu.Lock()
				failed[name] = err
				mu.Unlock()
			}
		}(name)
	}
	wg.Wait()
	return failed
}
