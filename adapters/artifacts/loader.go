// Package artifacts reads the trained model, fitted scaler and feature
// schema that a variant needs, and caches them for the process lifetime.
package artifacts

import (
	"context"
	stderrors "errors"
	"io/fs"
	"path"

	"golang.org/x/sync/errgroup"

	"lifeexp/adapters/model"
	"lifeexp/domain/features"
	"lifeexp/internal"
	"lifeexp/internal/config"
	"lifeexp/internal/errors"
	"lifeexp/ports"
)

// Loader deserializes one variant's artifacts from a filesystem rooted at the
// variant's directory.
type Loader struct {
	log *internal.Logger
}

// NewLoader creates a loader that reports schema drift through log.
func NewLoader(log *internal.Logger) *Loader {
	if log == nil {
		log = internal.NewNopLogger()
	}
	return &Loader{log: log}
}

// Load reads the model, scaler and column list concurrently. Any missing
// file fails with ARTIFACT_NOT_FOUND and any undecodable one with
// ARTIFACT_CORRUPT; no partial pack is ever returned.
func (l *Loader) Load(ctx context.Context, fsys fs.FS, v config.VariantConfig) (*ports.ArtifactPack, error) {
	var (
		regressor ports.Regressor
		scaler    ports.Scaler
		schema    features.Schema
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		data, err := readArtifact(gctx, fsys, v.Dir, v.ModelFile)
		if err != nil {
			return err
		}
		regressor, err = model.DecodeRegressor(data)
		if err != nil {
			return errors.ArtifactCorrupt(path.Join(v.Dir, v.ModelFile), err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := readArtifact(gctx, fsys, v.Dir, v.ScalerFile)
		if err != nil {
			return err
		}
		scaler, err = model.DecodeScaler(data)
		if err != nil {
			return errors.ArtifactCorrupt(path.Join(v.Dir, v.ScalerFile), err)
		}
		return nil
	})
	g.Go(func() error {
		data, err := readArtifact(gctx, fsys, v.Dir, v.ColumnsFile)
		if err != nil {
			return err
		}
		cols, err := model.DecodeColumns(data)
		if err == nil {
			schema, err = features.NewSchema(cols)
		}
		if err != nil {
			return errors.ArtifactCorrupt(path.Join(v.Dir, v.ColumnsFile), err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, errors.Wrapf(err, "failed to load artifacts for variant %s", v.Name)
	}

	pack := &ports.ArtifactPack{
		Variant:   v.Name,
		Title:     v.Title,
		Dir:       v.Dir,
		Model:     regressor,
		Scaler:    scaler,
		Schema:    schema,
		ModelCard: l.readModelCard(fsys, v),
	}

	if w := schema.Len(); scaler.NumFeatures() != w || regressor.NumFeatures() != w {
		l.log.Warn("variant %s: schema has %d columns, scaler %d, model %d; predictions will fail until artifacts are regenerated",
			v.Name, w, scaler.NumFeatures(), regressor.NumFeatures())
	}
	l.log.Info("loaded variant %s: %s model, %s scaler, %d columns", v.Name, regressor.Kind(), scaler.Kind(), schema.Len())
	return pack, nil
}

func (l *Loader) readModelCard(fsys fs.FS, v config.VariantConfig) string {
	if v.ModelCard == "" {
		return ""
	}
	data, err := fs.ReadFile(fsys, v.ModelCard)
	if err != nil {
		if !stderrors.Is(err, fs.ErrNotExist) {
			l.log.Warn("variant %s: model card unreadable: %v", v.Name, err)
		}
		return ""
	}
	return string(data)
}

func readArtifact(ctx context.Context, fsys fs.FS, dir, name string) ([]byte, error) {
	display := path.Join(dir, name)
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "aborted before reading %s", display)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		// unreadable counts the same as absent: the deployment is incomplete
		return nil, errors.ArtifactNotFound(display, err)
	}
	return data, nil
}
