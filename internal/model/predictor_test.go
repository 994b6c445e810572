package model

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scoringd/internal/tabular"
)

func readHouseSample(t *testing.T) []tabular.Record {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "house_sample.csv"))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	recs, err := tabular.Decode(string(b))
	if err != nil {
		t.Fatalf("decode sample: %v", err)
	}
	return recs
}

func scoreAll(t *testing.T, h *Handle, recs []tabular.Record) []float64 {
	t.Helper()
	out := make([]float64, len(recs))
	for i, r := range recs {
		v, err := h.Score(r)
		if err != nil {
			t.Fatalf("score row %d: %v", i+1, err)
		}
		out[i] = v
	}
	return out
}

func TestLoad_TreeEnsembleHousePrices(t *testing.T) {
	h, err := Load(filepath.Join("testdata", "house_prices.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := scoreAll(t, h, readHouseSample(t))
	want := []float64{123869.9921875, 153666.09375}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("predictions=%v want %v", got, want)
	}
	info := h.Info()
	if info.Kind != "tree_ensemble" || info.Precision != "float32" || len(info.Features) != 4 {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestLoad_LinearYAMLAndTOMLAgree(t *testing.T) {
	recs := readHouseSample(t)
	want := []float64{91100, 151950}
	for _, name := range []string{"house_linear.yaml", "house_linear.toml"} {
		h, err := Load(filepath.Join("testdata", name))
		if err != nil {
			t.Fatalf("%s: load: %v", name, err)
		}
		got := scoreAll(t, h, recs)
		if got[0] != want[0] || got[1] != want[1] {
			t.Fatalf("%s: predictions=%v want %v", name, got, want)
		}
		if h.Info().Precision != "float64" {
			t.Fatalf("%s: precision=%s", name, h.Info().Precision)
		}
	}
}

func TestLoad_GzipJSON(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "house_prices.json"))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("gzip: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	p := filepath.Join(t.TempDir(), "house_prices.json.gz")
	if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	h, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := scoreAll(t, h, readHouseSample(t)); got[1] != 153666.09375 {
		t.Fatalf("predictions=%v", got)
	}
}

func TestLoad_ClassifierIsUnsupported(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "churn_classifier.json"))
	if !IsUnsupportedModelType(err) {
		t.Fatalf("expected unsupported model type, got %v", err)
	}
	if IsModelLoad(err) {
		t.Fatalf("unsupported type must not be reported as load error")
	}
	if !strings.Contains(err.Error(), "not a regression-capable model") {
		t.Fatalf("message=%q", err.Error())
	}
}

func TestLoad_Failures(t *testing.T) {
	cases := []struct {
		name, file, body string
	}{
		{"missing file", "", ""},
		{"not json", "m.json", "\x00\x01garbage"},
		{"unknown extension", "m.bin", "{}"},
		{"empty document", "m.json", "{}"},
		{"wrong format", "m.json", `{"format":"other/v2","name":"x","task":"regression","kind":"linear","linear":{"weights":{"a":1}}}`},
		{"unknown kind", "m.json", `{"format":"scoringd.model/v1","name":"x","task":"regression","kind":"svm"}`},
		{"missing section", "m.json", `{"format":"scoringd.model/v1","name":"x","task":"regression","kind":"tree_ensemble"}`},
		{"bad precision", "m.json", `{"format":"scoringd.model/v1","name":"x","task":"regression","kind":"linear","precision":"int8","linear":{"weights":{"a":1}}}`},
		{"child out of range", "m.json", `{"format":"scoringd.model/v1","name":"x","task":"regression","kind":"tree_ensemble","tree_ensemble":{"trees":[{"nodes":[{"feature":"a","threshold":1,"left":1,"right":5},{"leaf":1}]}]}}`},
		{"cycle", "m.json", `{"format":"scoringd.model/v1","name":"x","task":"regression","kind":"tree_ensemble","tree_ensemble":{"trees":[{"nodes":[{"feature":"a","threshold":1,"left":1,"right":2},{"feature":"b","threshold":1,"left":2,"right":2},{"leaf":1}]}]}}`},
		{"undeclared feature", "m.json", `{"format":"scoringd.model/v1","name":"x","task":"regression","kind":"linear","features":[{"name":"b","type":"numeric"}],"linear":{"weights":{"a":1}}}`},
		{"bad yaml", "m.yaml", "format: [unterminated"},
		{"bad toml", "m.toml", "format = \n"},
		{"bad gzip", "m.json.gz", "not gzip"},
	}
	dir := t.TempDir()
	for _, c := range cases {
		p := filepath.Join(dir, "absent.json")
		if c.file != "" {
			p = filepath.Join(dir, c.file)
			if err := os.WriteFile(p, []byte(c.body), 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
		}
		_, err := Load(p)
		if !IsModelLoad(err) {
			t.Fatalf("%s: expected model load error, got %v", c.name, err)
		}
	}
}

func TestScore_RowLevelFailures(t *testing.T) {
	h, err := Load(filepath.Join("testdata", "house_linear.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cases := map[string]string{
		"missing column": "GrLivArea,OverallQual,MSZoning\n896,5,RH\n",
		"not numeric":    "GrLivArea,OverallQual,MSZoning,LotFrontage\nbig,5,RH,80\n",
		"no imputation":  "GrLivArea,OverallQual,MSZoning,LotFrontage\nNA,5,RH,80\n",
	}
	for name, body := range cases {
		recs, err := tabular.Decode(body)
		if err != nil {
			t.Fatalf("%s: decode: %v", name, err)
		}
		if _, err := h.Score(recs[0]); err == nil {
			t.Fatalf("%s: expected scoring error", name)
		}
	}
}

func TestScore_ImputesAndRoutesMissing(t *testing.T) {
	lin, err := Load(filepath.Join("testdata", "house_linear.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	recs, err := tabular.Decode("GrLivArea,OverallQual,MSZoning,LotFrontage\n896,5,C (all),NA\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// LotFrontage imputed with 70; unseen zoning adds nothing.
	if v, err := lin.Score(recs[0]); err != nil || v != -50000+89600+3500+50000 {
		t.Fatalf("linear=%v err=%v", v, err)
	}

	te, err := Load(filepath.Join("testdata", "house_prices.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	recs, err = tabular.Decode("GrLivArea,OverallQual,MSZoning,LotFrontage\n,5,RL,NA\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// GrLivArea missing -> left (18000); LotFrontage missing -> right (1666.09375).
	if v, err := te.Score(recs[0]); err != nil || v != 100000+18000+4000+1666.09375 {
		t.Fatalf("tree=%v err=%v", v, err)
	}
}
