package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// findFreePort picks an available TCP port on localhost.
func findFreePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	return ln.Addr().(*net.TCPAddr).Port
}

// startServe runs `scoringd serve` in-process and waits for /healthz.
func startServe(t *testing.T, args ...string) (base string, stop func() error) {
	t.Helper()
	port := findFreePort(t)
	base = fmt.Sprintf("http://127.0.0.1:%d", port)
	ctx, cancel := context.WithCancel(context.Background())
	cmd := buildRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{"serve", "--addr", fmt.Sprintf("127.0.0.1:%d", port), "--env-file", "", "--log-level", "disabled"}, args...))
	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get(base + "/healthz")
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				break
			}
		}
		select {
		case err := <-done:
			cancel()
			t.Fatalf("server exited early: %v", err)
		default:
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("server did not become healthy in time")
		}
		time.Sleep(20 * time.Millisecond)
	}
	stop = func() error {
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(shutdownTimeout + time.Second):
			return fmt.Errorf("server did not stop")
		}
	}
	t.Cleanup(func() { _ = stop() })
	return base, stop
}

func TestServe_Flow(t *testing.T) {
	dir := copyArtifact(t, "house_prices.json")
	base, stop := startServe(t, "--model-dir", dir, "--cache")

	resp, err := http.Get(base + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("/readyz=%d", resp.StatusCode)
	}

	sample, err := os.ReadFile(filepath.Join(modelTestdata, "house_sample.csv"))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for i := 0; i < 2; i++ {
		resp, err = http.Post(base+"/score", "text/plain", strings.NewReader(string(sample)))
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK || strings.TrimSpace(string(b)) != `{"predictions":[123869.9921875,153666.09375]}` {
			t.Fatalf("score %d: status=%d body=%s", i, resp.StatusCode, b)
		}
	}

	resp, err = http.Get(base + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	b, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	for _, want := range []string{"scoringd_http_requests_total", "scoringd_pipeline_rows_scored_total", `scoringd_pipeline_cache_lookups_total{result="hit"}`} {
		if !strings.Contains(string(b), want) {
			t.Fatalf("metrics missing %s", want)
		}
	}

	if err := stop(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
}

func TestServe_EmptyModelDirStillServes(t *testing.T) {
	base, _ := startServe(t, "--model-dir", t.TempDir())
	resp, err := http.Get(base + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/readyz=%d", resp.StatusCode)
	}
	resp, err = http.Post(base+"/score", "text/plain", strings.NewReader("a\n1\n"))
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("/score=%d", resp.StatusCode)
	}
}
