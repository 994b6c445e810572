package manager

import (
	"context"
	"time"

	"scoringd/internal/artifact"
)

// acquire resolves the artifact and returns a predictor for it, from the
// cache when enabled and still current. hit reports a cache hit.
func (m *Manager) acquire(ctx context.Context) (lp *loadedPredictor, hit bool, err error) {
	a, err := m.locator.Locate(m.cfg.ModelDir)
	if err != nil {
		m.setError(err)
		return nil, false, err
	}
	if len(a.Skipped) > 0 {
		m.log.Warn().Str("artifact", a.Path).Strs("skipped", a.Skipped).Msg("model directory holds several files; using the first")
	}
	if !m.cfg.CacheEnabled {
		lp, err := m.loadWithContext(ctx, a)
		return lp, false, err
	}

	key := keyFor(a)
	m.mu.RLock()
	c := m.cached
	m.mu.RUnlock()
	if c != nil && c.key == key {
		m.cacheHits.Add(1)
		cacheLookupsTotal.WithLabelValues("hit").Inc()
		m.publish(Event{Name: EventCacheHit, Artifact: a.Path})
		return c, true, nil
	}
	cacheLookupsTotal.WithLabelValues("miss").Inc()

	// Concurrent misses for the same artifact version share one load.
	ch := m.loads.DoChan(key.String(), func() (any, error) {
		lp, err := m.loadArtifact(a)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.cached = lp
		m.mu.Unlock()
		return lp, nil
	})
	select {
	case r := <-ch:
		if r.Err != nil {
			return nil, false, r.Err
		}
		return r.Val.(*loadedPredictor), false, nil
	case <-ctx.Done():
		return nil, false, contextErr("load", ctx.Err())
	}
}

// loadWithContext runs the load in its own goroutine so a slow read is
// abandoned when ctx ends.
func (m *Manager) loadWithContext(ctx context.Context, a artifact.Artifact) (*loadedPredictor, error) {
	type result struct {
		lp  *loadedPredictor
		err error
	}
	ch := make(chan result, 1)
	go func() {
		lp, err := m.loadArtifact(a)
		ch <- result{lp, err}
	}()
	select {
	case r := <-ch:
		return r.lp, r.err
	case <-ctx.Done():
		return nil, contextErr("load", ctx.Err())
	}
}

func (m *Manager) loadArtifact(a artifact.Artifact) (*loadedPredictor, error) {
	start := time.Now()
	h, err := m.load(a.Path)
	dur := time.Since(start)
	modelLoadDuration.Observe(dur.Seconds())
	if err != nil {
		modelLoadsTotal.WithLabelValues("error").Inc()
		m.setError(err)
		m.log.Error().Err(err).Str("artifact", a.Path).Msg("model load failed")
		return nil, err
	}
	modelLoadsTotal.WithLabelValues("ok").Inc()
	m.loadCount.Add(1)
	lp := &loadedPredictor{key: keyFor(a), handle: h, artifact: a, loadedAt: time.Now()}
	m.mu.Lock()
	m.current = lp
	m.state = StateReady
	m.mu.Unlock()

	info := h.Info()
	m.log.Info().
		Str("artifact", a.Path).
		Str("name", info.Name).
		Str("kind", info.Kind).
		Dur("took", dur).
		Msg("model loaded")
	m.publish(Event{Name: EventModelLoaded, Artifact: a.Path, Fields: map[string]any{
		"name": info.Name,
		"kind": info.Kind,
		"took": dur,
	}})
	return lp, nil
}
