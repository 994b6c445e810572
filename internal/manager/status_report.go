package manager

import (
	"time"

	"scoringd/pkg/types"
)

// Snapshot is a read-only view of the manager state.
type Snapshot struct {
	State    State
	Artifact string
	Err      string
}

// Snapshot returns a read-only view of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := Snapshot{State: m.state, Err: m.err}
	if m.current != nil {
		s.Artifact = m.current.artifact.Path
	}
	return s
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	cur := m.current
	lastErr := m.err
	m.mu.RUnlock()

	inflight := len(m.runCh)
	resp := types.StatusResponse{
		ModelDir:       m.cfg.ModelDir,
		ArtifactPolicy: string(m.cfg.Policy),
		CacheEnabled:   m.cfg.CacheEnabled,
		LastError:      lastErr,
		Inflight:       inflight,
		QueueLen:       max(len(m.queueCh)-inflight, 0),
		MaxInflight:    cap(m.runCh),
		RequestsTotal:  m.requests.Load(),
		RowsTotal:      m.rows.Load(),
		LoadsTotal:     m.loadCount.Load(),
		CacheHitsTotal: m.cacheHits.Load(),
		UptimeSeconds:  int64(time.Since(m.startTime).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	if cur != nil {
		info := cur.handle.Info()
		resp.Artifact = &types.ArtifactStatus{
			Path:         cur.artifact.Path,
			Name:         info.Name,
			Kind:         info.Kind,
			SizeBytes:    cur.artifact.Size,
			ModTimeUnix:  cur.artifact.ModTime.Unix(),
			LoadedAtUnix: cur.loadedAt.Unix(),
		}
	}
	return resp
}
