package app

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"lifeexp/domain/features"
	"lifeexp/domain/indicator"
	"lifeexp/internal"
	"lifeexp/internal/errors"
	"lifeexp/ports"
)

// Prediction is the outcome of one submission. It lives for one render cycle
// and is never stored.
type Prediction struct {
	ID       uuid.UUID       `json:"id"`
	Variant  string          `json:"variant"`
	Years    float64         `json:"years"`
	LogValue float64         `json:"log_value"`
	Display  string          `json:"display"`
	Vector   features.Vector `json:"vector"`
}

// PredictionService runs the inference pipeline of one loaded variant:
// assemble, scale, predict, then map back from log1p space.
type PredictionService struct {
	pack      *ports.ArtifactPack
	assembler *features.Assembler
	log       *internal.Logger
}

// NewPredictionService creates a service over an immutable artifact pack.
func NewPredictionService(pack *ports.ArtifactPack, log *internal.Logger) *PredictionService {
	if log == nil {
		log = internal.NewNopLogger()
	}
	return &PredictionService{
		pack:      pack,
		assembler: features.NewAssembler(pack.Schema),
		log:       log.With("variant", pack.Variant),
	}
}

// Pack returns the artifacts the service predicts with.
func (s *PredictionService) Pack() *ports.ArtifactPack { return s.pack }

// Encoding returns how the status field reaches the model.
func (s *PredictionService) Encoding() features.CategoricalEncoding { return s.assembler.Encoding() }

// Unmapped lists schema columns no control can set.
func (s *PredictionService) Unmapped() []string { return s.assembler.Unmapped() }

// Assemble builds the model input for raw without predicting.
func (s *PredictionService) Assemble(raw indicator.RawInput) features.Vector {
	return s.assembler.Assemble(raw)
}

// Predict returns expm1(model(scaler(assemble(raw)))). The result is not
// clamped, so implausible inputs may yield implausible ages.
func (s *PredictionService) Predict(ctx context.Context, raw indicator.RawInput) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := s.assembler.Assemble(raw)
	if want := s.pack.Scaler.NumFeatures(); vec.Len() != want {
		return nil, errors.ShapeMismatch(fmt.Sprintf("scaler of variant %s", s.pack.Variant), vec.Len(), want)
	}
	if want := s.pack.Model.NumFeatures(); vec.Len() != want {
		return nil, errors.ShapeMismatch(fmt.Sprintf("model of variant %s", s.pack.Variant), vec.Len(), want)
	}

	scaled, err := s.pack.Scaler.Transform(vec.Values)
	if err != nil {
		return nil, errors.Wrap(err, "failed to scale feature vector")
	}
	logValue, err := s.pack.Model.Predict(scaled)
	if err != nil {
		return nil, errors.Wrap(err, "model prediction failed")
	}

	years := math.Expm1(logValue)
	p := &Prediction{
		ID:       uuid.New(),
		Variant:  s.pack.Variant,
		Years:    years,
		LogValue: logValue,
		Display:  FormatYears(years),
		Vector:   vec,
	}
	s.log.Debug("prediction %s: log=%.6f years=%.4f", p.ID, logValue, years)
	return p, nil
}

// FormatYears renders a predicted life expectancy with two decimals.
func FormatYears(years float64) string {
	return fmt.Sprintf("%.2f years", years)
}
