package model

import (
	"errors"
	"fmt"
	"sort"

	"scoringd/internal/tabular"
)

type linearTerm struct {
	feature string
	weight  float64
	impute  *float64
}

type categoricalTerm struct {
	feature string
	offsets map[string]float64
}

// linearRegressor computes intercept + Σ w·x + Σ category offsets. Terms are
// sorted by feature name so the summation order is fixed.
type linearRegressor struct {
	precision   string
	intercept   float64
	numeric     []linearTerm
	categorical []categoricalTerm
}

func buildLinear(doc *Document) (regressor, error) {
	spec := doc.Linear
	if spec == nil {
		return nil, errors.New("kind linear requires a linear section")
	}
	if len(spec.Weights) == 0 && len(spec.Categorical) == 0 {
		return nil, errors.New("linear model has no terms")
	}
	r := &linearRegressor{precision: doc.Precision, intercept: spec.Intercept}
	for name, w := range spec.Weights {
		if name == "" {
			return nil, errors.New("linear weight with empty feature name")
		}
		term := linearTerm{feature: name, weight: w}
		if v, ok := spec.Impute[name]; ok {
			term.impute = &v
		}
		r.numeric = append(r.numeric, term)
	}
	for name := range spec.Impute {
		if _, ok := spec.Weights[name]; !ok {
			return nil, fmt.Errorf("impute value for %q which has no weight", name)
		}
	}
	for name, offsets := range spec.Categorical {
		if _, clash := spec.Weights[name]; clash {
			return nil, fmt.Errorf("feature %q is both numeric and categorical", name)
		}
		r.categorical = append(r.categorical, categoricalTerm{feature: name, offsets: offsets})
	}
	sort.Slice(r.numeric, func(i, j int) bool { return r.numeric[i].feature < r.numeric[j].feature })
	sort.Slice(r.categorical, func(i, j int) bool { return r.categorical[i].feature < r.categorical[j].feature })
	return r, nil
}

func (r *linearRegressor) score(rec tabular.Record) (float64, error) {
	acc := newAccumulator(r.precision, r.intercept)
	for _, t := range r.numeric {
		x, ok, err := numericValue(rec, t.feature)
		if err != nil {
			return 0, err
		}
		if !ok {
			if t.impute == nil {
				return 0, fmt.Errorf("feature %q: missing value and no imputation", t.feature)
			}
			x = *t.impute
		}
		acc.add(t.weight * x)
	}
	for _, t := range r.categorical {
		raw, err := rawValue(rec, t.feature)
		if err != nil {
			return 0, err
		}
		// unseen categories contribute nothing
		acc.add(t.offsets[raw])
	}
	return acc.value(), nil
}

func (r *linearRegressor) features() []Feature {
	out := make([]Feature, 0, len(r.numeric)+len(r.categorical))
	for _, t := range r.numeric {
		out = append(out, Feature{Name: t.feature, Type: "numeric"})
	}
	for _, t := range r.categorical {
		out = append(out, Feature{Name: t.feature, Type: "categorical"})
	}
	return out
}
