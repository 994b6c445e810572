package manager

import (
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"scoringd/internal/artifact"
	"scoringd/internal/model"
)

// Defaults applied when corresponding Config fields are unset.
const (
	DefaultModelDir      = "model"
	defaultMaxQueueDepth = 64
	defaultMaxWait       = 30 * time.Second
)

// Config encapsulates all tunables for Manager construction.
type Config struct {
	// ModelDir holds exactly one model artifact (see Policy).
	ModelDir string
	Policy   artifact.Policy
	// CacheEnabled keeps the last predictor between requests.
	CacheEnabled bool
	// RequestTimeout bounds a whole pipeline run. Zero disables it.
	RequestTimeout time.Duration
	MaxInflight    int
	MaxQueueDepth  int
	MaxWait        time.Duration
	// ScoreWorkers > 1 scores rows of one request in parallel.
	ScoreWorkers int
	// Delimiter of the CSV payload. Zero means ','.
	Delimiter rune

	Logger *zerolog.Logger
	Events EventPublisher
	// Loader overrides model.Load (tests).
	Loader func(path string) (*model.Handle, error)
}

// New constructs a Manager for dir with package defaults.
func New(dir string) *Manager {
	return NewWithConfig(Config{ModelDir: dir})
}

// NewWithConfig constructs a Manager from Config.
func NewWithConfig(cfg Config) *Manager {
	if cfg.ModelDir == "" {
		cfg.ModelDir = DefaultModelDir
	}
	if cfg.Policy == "" {
		cfg.Policy = artifact.PolicyStrict
	}
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = runtime.NumCPU()
	}
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	m := &Manager{
		cfg:       cfg,
		state:     StateIdle,
		locator:   artifact.Locator{Policy: cfg.Policy},
		load:      model.Load,
		events:    noopPublisher{},
		log:       zerolog.Nop(),
		queueCh:   make(chan struct{}, cfg.MaxInflight+cfg.MaxQueueDepth),
		runCh:     make(chan struct{}, cfg.MaxInflight),
		startTime: time.Now(),
	}
	m.decoder.Comma = cfg.Delimiter
	m.engine.Workers = cfg.ScoreWorkers
	if cfg.Loader != nil {
		m.load = cfg.Loader
	}
	if cfg.Events != nil {
		m.events = cfg.Events
	}
	if cfg.Logger != nil {
		m.log = cfg.Logger.With().Str("component", "manager").Logger()
	}
	return m
}
