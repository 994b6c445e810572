package manager

import (
	"context"
	"io"
	"time"

	"scoringd/internal/scoring"
	"scoringd/pkg/types"
)

// Score runs the whole pipeline on one CSV payload: decode, locate and load
// the model, score every row and assemble the response. Any failure aborts
// the request; no partial predictions are returned.
func (m *Manager) Score(ctx context.Context, body io.Reader) (types.ScoreResponse, error) {
	m.requests.Add(1)
	if m.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.RequestTimeout)
		defer cancel()
	}
	resp, err := m.run(ctx, body)
	if err != nil {
		kind := ErrorKind(err)
		pipelineFailuresTotal.WithLabelValues(kind).Inc()
		m.mu.Lock()
		m.err = err.Error()
		m.mu.Unlock()
		m.log.Debug().Err(err).Str("kind", kind).Msg("score failed")
		m.publish(Event{Name: EventScoreFailed, Fields: map[string]any{"kind": kind, "error": err.Error()}})
		return types.ScoreResponse{}, err
	}
	return resp, nil
}

func (m *Manager) run(ctx context.Context, body io.Reader) (types.ScoreResponse, error) {
	release, err := m.admit(ctx)
	if err != nil {
		return types.ScoreResponse{}, contextErr("admission", err)
	}
	defer release()

	start := time.Now()
	recs, err := m.decoder.DecodeReader(body)
	if err != nil {
		return types.ScoreResponse{}, err
	}
	decoded := time.Now()

	lp, hit, err := m.acquire(ctx)
	if err != nil {
		return types.ScoreResponse{}, err
	}
	loaded := time.Now()

	scores, err := m.engine.Score(ctx, lp.handle, recs)
	if err != nil {
		return types.ScoreResponse{}, contextErr("score", err)
	}
	m.rows.Add(uint64(len(scores)))
	rowsScoredTotal.Add(float64(len(scores)))

	m.log.Debug().
		Int("rows", len(recs)).
		Str("artifact", lp.artifact.Path).
		Bool("cache_hit", hit).
		Dur("decode", decoded.Sub(start)).
		Dur("load", loaded.Sub(decoded)).
		Dur("score", time.Since(loaded)).
		Msg("pipeline done")
	return scoring.Assemble(scores), nil
}
