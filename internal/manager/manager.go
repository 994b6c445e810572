package manager

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"scoringd/internal/artifact"
	"scoringd/internal/model"
	"scoringd/internal/scoring"
	"scoringd/internal/tabular"
)

// Manager runs the scoring pipeline for one model directory.
type Manager struct {
	cfg     Config
	locator artifact.Locator
	decoder tabular.Decoder
	engine  scoring.Engine
	load    func(path string) (*model.Handle, error)
	log     zerolog.Logger

	// admission
	queueCh chan struct{}
	runCh   chan struct{}

	mu      sync.RWMutex
	state   State
	err     string
	events  EventPublisher
	cached  *loadedPredictor
	current *loadedPredictor
	loads   singleflight.Group

	requests  atomic.Uint64
	rows      atomic.Uint64
	loadCount atomic.Uint64
	cacheHits atomic.Uint64
	startTime time.Time
}

// SetEventPublisher replaces the event sink. nil restores the no-op publisher.
func (m *Manager) SetEventPublisher(p EventPublisher) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p == nil {
		m.events = noopPublisher{}
		return
	}
	m.events = p
}

func (m *Manager) publish(e Event) {
	m.mu.RLock()
	p := m.events
	m.mu.RUnlock()
	p.Publish(e)
}

// Ready reports whether the model directory currently resolves to exactly one
// artifact under the configured policy. It does not load the model.
func (m *Manager) Ready() bool {
	_, err := m.locator.Locate(m.cfg.ModelDir)
	return err == nil
}

// Check locates and loads the artifact without scoring anything.
func (m *Manager) Check() (model.Info, error) {
	a, err := m.locator.Locate(m.cfg.ModelDir)
	if err != nil {
		m.setError(err)
		return model.Info{}, err
	}
	h, err := m.load(a.Path)
	if err != nil {
		m.setError(err)
		return model.Info{}, err
	}
	m.mu.Lock()
	m.current = &loadedPredictor{key: keyFor(a), handle: h, artifact: a, loadedAt: time.Now()}
	m.state = StateReady
	m.err = ""
	m.mu.Unlock()
	return h.Info(), nil
}

func (m *Manager) setError(err error) {
	m.mu.Lock()
	m.state = StateError
	m.err = err.Error()
	m.mu.Unlock()
}
