package model

import (
	"fmt"
	"strconv"
	"strings"

	"scoringd/internal/tabular"
)

// missingTokens are raw values treated as absent for numeric features.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"nan":  {},
	"null": {},
}

func isMissingNumeric(raw string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(raw))]
	return ok
}

// rawValue returns the record's value for name, failing when the payload has
// no such column.
func rawValue(rec tabular.Record, name string) (string, error) {
	v, ok := rec.Get(name)
	if !ok {
		return "", fmt.Errorf("missing feature column %q", name)
	}
	return v, nil
}

// numericValue coerces a record field. ok is false for missing values.
func numericValue(rec tabular.Record, name string) (x float64, ok bool, err error) {
	raw, err := rawValue(rec, name)
	if err != nil {
		return 0, false, err
	}
	if isMissingNumeric(raw) {
		return 0, false, nil
	}
	x, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false, fmt.Errorf("feature %q: value %q is not numeric", name, raw)
	}
	return x, true, nil
}

// accumulator sums contributions in the precision the artifact declares.
type accumulator struct {
	f32 bool
	s64 float64
	s32 float32
}

func newAccumulator(precision string, start float64) *accumulator {
	a := &accumulator{f32: precision == "float32"}
	a.add(start)
	return a
}

func (a *accumulator) add(v float64) {
	if a.f32 {
		a.s32 += float32(v)
		return
	}
	a.s64 += v
}

func (a *accumulator) value() float64 {
	if a.f32 {
		return float64(a.s32)
	}
	return a.s64
}
