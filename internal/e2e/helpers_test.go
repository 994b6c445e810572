package e2e

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scoringd/internal/httpapi"
	"scoringd/internal/manager"
)

const modelTestdata = "../model/testdata"

// createModelDir creates a temporary model directory holding copies of the
// named artifacts from the model testdata.
func createModelDir(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		b, err := os.ReadFile(filepath.Join(modelTestdata, n))
		if err != nil {
			t.Fatalf("read artifact %s: %v", n, err)
		}
		if err := os.WriteFile(filepath.Join(dir, n), b, 0o644); err != nil {
			t.Fatalf("write artifact %s: %v", n, err)
		}
	}
	return dir
}

func houseSample(t *testing.T) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(modelTestdata, "house_sample.csv"))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	return string(b)
}

func newServer(t *testing.T, cfg manager.Config) (*httptest.Server, *manager.Manager) {
	t.Helper()
	mgr := manager.NewWithConfig(cfg)
	srv := httptest.NewServer(httpapi.NewMux(mgr))
	t.Cleanup(srv.Close)
	return srv, mgr
}

// postCSV posts body to /score and returns status and trimmed response body.
func postCSV(t *testing.T, srv *httptest.Server, body string) (int, string) {
	t.Helper()
	resp, err := http.Post(srv.URL+"/score", "text/plain", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, strings.TrimSpace(string(b))
}
