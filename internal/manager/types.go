package manager

import (
	"fmt"
	"time"

	"scoringd/internal/artifact"
	"scoringd/internal/model"
)

// State represents the lifecycle state of the manager.
type State string

const (
	StateIdle  State = "idle"
	StateReady State = "ready"
	StateError State = "error"
)

// cacheKey identifies one version of an artifact on disk.
type cacheKey struct {
	path    string
	size    int64
	modNano int64
}

func keyFor(a artifact.Artifact) cacheKey {
	return cacheKey{path: a.Path, size: a.Size, modNano: a.ModTime.UnixNano()}
}

func (k cacheKey) String() string { return fmt.Sprintf("%s|%d|%d", k.path, k.size, k.modNano) }

// loadedPredictor is a predictor together with the artifact it came from.
type loadedPredictor struct {
	key      cacheKey
	handle   *model.Handle
	artifact artifact.Artifact
	loadedAt time.Time
}
