// Package model loads model artifacts into predictors.
//
// An artifact is a declarative model document (JSON, YAML or TOML, optionally
// gzip-compressed) naming its task and kind. Load is the only way to obtain a
// predictor: it checks the format, rejects artifacts that are not
// regression-capable, and compiles the kind-specific section before
// returning. Predictors are immutable and safe for concurrent use.
package model

import (
	"fmt"
	"os"

	"scoringd/internal/tabular"
	"scoringd/internal/validation"
)

// Predictor scores one record.
type Predictor interface {
	Score(rec tabular.Record) (float64, error)
}

// regressor is implemented by every compiled model kind.
type regressor interface {
	score(rec tabular.Record) (float64, error)
	features() []Feature
}

type builder func(doc *Document) (regressor, error)

// builders maps the document kind to its compiler.
var builders = map[string]builder{
	"linear":        buildLinear,
	"tree_ensemble": buildTreeEnsemble,
}

// Info describes a loaded artifact.
type Info struct {
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Task      string    `json:"task"`
	Precision string    `json:"precision"`
	Path      string    `json:"path"`
	Features  []Feature `json:"features"`
}

// Handle is a loaded, capability-checked predictor.
type Handle struct {
	info Info
	reg  regressor
}

// Score implements Predictor.
func (h *Handle) Score(rec tabular.Record) (float64, error) { return h.reg.score(rec) }

// Info returns the artifact description.
func (h *Handle) Info() Info { return h.info }

// Load reads the artifact at path and returns a ready predictor.
func Load(path string) (*Handle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrModelLoad(path, err)
	}
	return Parse(path, data)
}

// Parse builds a predictor from artifact bytes. path selects the decoder by
// extension and is used in errors.
func Parse(path string, data []byte) (*Handle, error) {
	doc, err := decodeDocument(path, data)
	if err != nil {
		return nil, ErrModelLoad(path, err)
	}
	if err := validation.Struct(doc); err != nil {
		return nil, ErrModelLoad(path, err)
	}
	if doc.Format != FormatV1 {
		return nil, ErrModelLoad(path, fmt.Errorf("unknown artifact format %q", doc.Format))
	}
	if doc.Task != TaskRegression {
		return nil, &unsupportedModelTypeError{path: path, task: doc.Task}
	}
	build, ok := builders[doc.Kind]
	if !ok {
		return nil, ErrModelLoad(path, fmt.Errorf("unknown model kind %q", doc.Kind))
	}
	reg, err := build(doc)
	if err != nil {
		return nil, ErrModelLoad(path, err)
	}
	features, err := reconcileFeatures(doc.Features, reg.features())
	if err != nil {
		return nil, ErrModelLoad(path, err)
	}
	precision := doc.Precision
	if precision == "" {
		precision = "float64"
	}
	return &Handle{
		info: Info{
			Name:      doc.Name,
			Kind:      doc.Kind,
			Task:      doc.Task,
			Precision: precision,
			Path:      path,
			Features:  features,
		},
		reg: reg,
	}, nil
}

// reconcileFeatures checks the features a model uses against the declared
// list. Without a declaration the used features are reported as-is.
func reconcileFeatures(declared, used []Feature) ([]Feature, error) {
	if len(declared) == 0 {
		return used, nil
	}
	types := make(map[string]string, len(declared))
	for _, f := range declared {
		if _, dup := types[f.Name]; dup {
			return nil, fmt.Errorf("feature %q declared twice", f.Name)
		}
		types[f.Name] = f.Type
	}
	for _, f := range used {
		t, ok := types[f.Name]
		if !ok {
			return nil, fmt.Errorf("feature %q is used but not declared", f.Name)
		}
		if t != f.Type {
			return nil, fmt.Errorf("feature %q declared %s but used as %s", f.Name, t, f.Type)
		}
	}
	return declared, nil
}
