package model

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// FormatV1 is the only artifact format understood by this loader.
const FormatV1 = "scoringd.model/v1"

// TaskRegression is the only task a predictor can be built for.
const TaskRegression = "regression"

// Document is the on-disk model description, decoded from JSON, YAML or TOML.
type Document struct {
	Format    string    `json:"format" yaml:"format" toml:"format" validate:"required"`
	Name      string    `json:"name" yaml:"name" toml:"name" validate:"required"`
	Task      string    `json:"task" yaml:"task" toml:"task" validate:"required"`
	Kind      string    `json:"kind" yaml:"kind" toml:"kind" validate:"required"`
	Precision string    `json:"precision,omitempty" yaml:"precision,omitempty" toml:"precision,omitempty" validate:"omitempty,oneof=float32 float64"`
	Features  []Feature `json:"features,omitempty" yaml:"features,omitempty" toml:"features,omitempty" validate:"dive"`

	Linear       *LinearSpec       `json:"linear,omitempty" yaml:"linear,omitempty" toml:"linear,omitempty"`
	TreeEnsemble *TreeEnsembleSpec `json:"tree_ensemble,omitempty" yaml:"tree_ensemble,omitempty" toml:"tree_ensemble,omitempty"`
}

// Feature declares one input column.
type Feature struct {
	Name string `json:"name" yaml:"name" toml:"name" validate:"required"`
	Type string `json:"type" yaml:"type" toml:"type" validate:"required,oneof=numeric categorical"`
}

// LinearSpec holds the coefficients of a linear regressor.
type LinearSpec struct {
	Intercept   float64                       `json:"intercept" yaml:"intercept" toml:"intercept"`
	Weights     map[string]float64            `json:"weights" yaml:"weights" toml:"weights"`
	Categorical map[string]map[string]float64 `json:"categorical,omitempty" yaml:"categorical,omitempty" toml:"categorical,omitempty"`
	Impute      map[string]float64            `json:"impute,omitempty" yaml:"impute,omitempty" toml:"impute,omitempty"`
}

// TreeEnsembleSpec is an additive ensemble of regression trees.
type TreeEnsembleSpec struct {
	BaseScore float64    `json:"base_score" yaml:"base_score" toml:"base_score"`
	Trees     []TreeSpec `json:"trees" yaml:"trees" toml:"trees" validate:"required,min=1,dive"`
}

// TreeSpec is a flat node array; node 0 is the root.
type TreeSpec struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes" toml:"nodes" validate:"required,min=1,dive"`
}

// NodeSpec is either a leaf (Leaf set) or a split on Feature. Numeric splits
// send values below Threshold left; categorical splits send members of
// Categories left. Missing values follow Missing, default left.
type NodeSpec struct {
	Feature    string   `json:"feature,omitempty" yaml:"feature,omitempty" toml:"feature,omitempty"`
	Threshold  *float64 `json:"threshold,omitempty" yaml:"threshold,omitempty" toml:"threshold,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty" toml:"categories,omitempty"`
	Left       *int     `json:"left,omitempty" yaml:"left,omitempty" toml:"left,omitempty"`
	Right      *int     `json:"right,omitempty" yaml:"right,omitempty" toml:"right,omitempty"`
	Missing    string   `json:"missing,omitempty" yaml:"missing,omitempty" toml:"missing,omitempty" validate:"omitempty,oneof=left right"`
	Leaf       *float64 `json:"leaf,omitempty" yaml:"leaf,omitempty" toml:"leaf,omitempty"`
}

// decodeDocument picks a decoder from the file extension. A trailing .gz is
// decompressed first, so model.json.gz is gzip-compressed JSON.
func decodeDocument(path string, data []byte) (*Document, error) {
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, ".gz") {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		if data, err = io.ReadAll(zr); err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		name = strings.TrimSuffix(name, ".gz")
	}
	var doc Document
	switch ext := filepath.Ext(name); ext {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported artifact extension %q", ext)
	}
	return &doc, nil
}
