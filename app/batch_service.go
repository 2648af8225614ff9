package app

import (
	"context"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"lifeexp/domain/indicator"
	"lifeexp/internal/errors"
)

// BatchRow is the outcome for one input row. Exactly one of Prediction and
// Err is set.
type BatchRow struct {
	Index      int
	Prediction *Prediction
	Err        error
}

// BatchSummary describes the distribution of successful predictions.
type BatchSummary struct {
	Count  int
	Failed int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
	P10    float64
	P90    float64
}

// BatchResult holds per-row outcomes in input order plus a summary.
type BatchResult struct {
	Rows    []BatchRow
	Summary BatchSummary
}

// BatchService predicts many rows against one variant.
type BatchService struct {
	predictor   *PredictionService
	concurrency int
}

// NewBatchService creates a batch runner. concurrency <= 0 means unbounded.
func NewBatchService(predictor *PredictionService, concurrency int) *BatchService {
	return &BatchService{predictor: predictor, concurrency: concurrency}
}

// Run parses and predicts every row. A bad row is recorded and does not stop
// the batch; cancellation of ctx does.
func (b *BatchService) Run(ctx context.Context, rows []map[string]string) (*BatchResult, error) {
	result := &BatchResult{Rows: make([]BatchRow, len(rows))}

	g, gctx := errgroup.WithContext(ctx)
	if b.concurrency > 0 {
		g.SetLimit(b.concurrency)
	}
	for i, fields := range rows {
		i, fields := i, fields
		g.Go(func() error {
			row := BatchRow{Index: i}
			raw, err := indicator.Parse(fields)
			if err == nil {
				row.Prediction, err = b.predictor.Predict(gctx, raw)
			}
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				row.Err = err
			}
			result.Rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "batch prediction cancelled")
	}

	summary, err := Summarize(result.Rows)
	if err != nil {
		return nil, err
	}
	result.Summary = summary
	return result, nil
}

// Summarize computes distribution statistics over the successful rows.
// With no successes only the counts are filled in.
func Summarize(rows []BatchRow) (BatchSummary, error) {
	var s BatchSummary
	years := make(stats.Float64Data, 0, len(rows))
	for _, r := range rows {
		if r.Err != nil || r.Prediction == nil {
			s.Failed++
			continue
		}
		years = append(years, r.Prediction.Years)
	}
	s.Count = len(years)
	if s.Count == 0 {
		return s, nil
	}

	var err error
	if s.Mean, err = years.Mean(); err != nil {
		return s, errors.Wrap(err, "mean")
	}
	if s.Median, err = years.Median(); err != nil {
		return s, errors.Wrap(err, "median")
	}
	if s.Min, err = years.Min(); err != nil {
		return s, errors.Wrap(err, "min")
	}
	if s.Max, err = years.Max(); err != nil {
		return s, errors.Wrap(err, "max")
	}

	if s.P10, err = stats.PercentileNearestRank(years, 10); err != nil {
		return s, errors.Wrap(err, "p10")
	}
	if s.P90, err = stats.PercentileNearestRank(years, 90); err != nil {
		return s, errors.Wrap(err, "p90")
	}
	return s, nil
}
