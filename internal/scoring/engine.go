// Package scoring applies a predictor to decoded records and packages the
// results.
package scoring

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"scoringd/internal/model"
	"scoringd/internal/tabular"
	"scoringd/pkg/types"
)

// Engine scores records. Workers > 1 scores rows in parallel; results are
// always returned in input order.
type Engine struct {
	Workers int
}

// Score returns one value per record. Any failing row aborts the whole call
// with a scoring error; when rows run in parallel the lowest failing row is
// reported.
func (e Engine) Score(ctx context.Context, p model.Predictor, recs []tabular.Record) ([]float64, error) {
	out := make([]float64, len(recs))
	if e.Workers <= 1 || len(recs) < 2 {
		for i, rec := range recs {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v, err := scoreRecord(p, rec)
			if err != nil {
				return nil, &scoringError{row: rowOf(rec, i), cause: err}
			}
			out[i] = v
		}
		return out, nil
	}

	// Failures are kept per row instead of canceling the group so that the
	// reported row does not depend on goroutine scheduling.
	errs := make([]error, len(recs))
	var g errgroup.Group
	g.SetLimit(e.Workers)
	for i := range recs {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := scoreRecord(p, recs[i])
			if err != nil {
				errs[i] = err
				return nil
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i, err := range errs {
		if err != nil {
			return nil, &scoringError{row: rowOf(recs[i], i), cause: err}
		}
	}
	return out, nil
}

// scoreRecord rejects NaN and ±Inf, which have no JSON encoding.
func scoreRecord(p model.Predictor, rec tabular.Record) (float64, error) {
	v, err := p.Score(rec)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite prediction %v", v)
	}
	return v, nil
}

func rowOf(rec tabular.Record, i int) int {
	if r := rec.Row(); r > 0 {
		return r
	}
	return i + 1
}

// Assemble wraps scores in the reply payload. An empty input yields an empty
// array, never null.
func Assemble(scores []float64) types.ScoreResponse {
	if scores == nil {
		scores = []float64{}
	}
	return types.ScoreResponse{Predictions: scores}
}
