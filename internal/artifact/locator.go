// Package artifact resolves the configured model directory to the single
// model file it must contain.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"scoringd/internal/common/fsutil"
)

// Policy decides what happens when the directory holds more than one file.
type Policy string

const (
	// PolicyStrict fails with an ambiguous artifact error.
	PolicyStrict Policy = "strict"
	// PolicyFirst picks the lexically first file name.
	PolicyFirst Policy = "first"
)

// Artifact references the one model file found in a directory.
type Artifact struct {
	Path    string
	Size    int64
	ModTime time.Time
	// Skipped lists other candidates ignored under PolicyFirst.
	Skipped []string
}

// Locator lists a model directory and returns its artifact.
type Locator struct {
	Policy Policy
}

// Locate applies the strict policy to dir and returns the artifact path.
func Locate(dir string) (string, error) {
	a, err := Locator{Policy: PolicyStrict}.Locate(dir)
	if err != nil {
		return "", err
	}
	return a.Path, nil
}

// Locate scans dir for non-directory entries. Hidden files are not candidates.
func (l Locator) Locate(dir string) (Artifact, error) {
	abs, err := fsutil.ResolveDir(dir)
	if err != nil {
		return Artifact{}, &configurationError{dir: dir, cause: err}
	}
	names, err := fsutil.ListFiles(abs)
	if err != nil {
		return Artifact{}, &configurationError{dir: abs, cause: fmt.Errorf("read dir: %w", err)}
	}
	switch {
	case len(names) == 0:
		return Artifact{}, &noArtifactFoundError{dir: abs}
	case len(names) > 1 && l.Policy != PolicyFirst:
		return Artifact{}, &ambiguousArtifactError{dir: abs, candidates: names}
	}
	p := filepath.Join(abs, names[0])
	fi, err := os.Stat(p)
	if err != nil {
		return Artifact{}, &configurationError{dir: abs, cause: fmt.Errorf("stat artifact: %w", err)}
	}
	if fi.IsDir() {
		// a symlink that resolves to a directory
		return Artifact{}, &noArtifactFoundError{dir: abs}
	}
	return Artifact{Path: p, Size: fi.Size(), ModTime: fi.ModTime(), Skipped: names[1:]}, nil
}

// ParsePolicy maps a config string to a Policy. Empty means strict.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyStrict:
		return PolicyStrict, nil
	case PolicyFirst:
		return PolicyFirst, nil
	default:
		return "", fmt.Errorf("unknown artifact policy %q", s)
	}
}
