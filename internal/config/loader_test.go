package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func envMap(m map[string]string) LookupFunc {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nmodel_dir: /tmp/m\ncache_enabled: true\nrequest_timeout_ms: 1500\ncors_allowed_origins: [\"https://a.example\"]\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelDir != "/tmp/m" || !cfg.CacheEnabled || cfg.RequestTimeoutMS != 1500 || len(cfg.CORSAllowedOrigins) != 1 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	// untouched fields keep defaults
	if cfg.LogFormat != "json" || cfg.MaxBodyBytes != 32<<20 || cfg.ArtifactPolicy != "strict" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_dir":"/m","artifact_policy":"first","score_workers":4}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelDir != "/m" || cfg.ArtifactPolicy != "first" || cfg.ScoreWorkers != 4 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel_dir=\"/x\"\ndelimiter=\";\"\nrate_limit_per_minute=120\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelDir != "/x" || cfg.DelimiterRune() != ';' || cfg.RateLimitPerMinute != 120 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	if _, err := Load("/definitely/not/a/real/file-12345.yaml"); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
	d := t.TempDir()
	cases := map[string]string{
		"cfg.txt":   "not supported",
		"bad.yaml":  "addr: :8080\n: broken\n",
		"bad.json":  `{ "addr": ":8080", "model_dir": }`,
		"bad.toml":  "addr=:8080\nmodel_dir\n",
		"type.json": `{"max_inflight":"many"}`,
	}
	for name, body := range cases {
		if _, err := Load(writeTempFile(t, d, name, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := cfg.ApplyEnv(envMap(map[string]string{
		EnvModelFolder:    "/srv/model",
		EnvAddr:           "127.0.0.1:9000",
		EnvLogLevel:       "DEBUG",
		EnvLogFormat:      "console",
		EnvRequestTimeout: "250",
		EnvCache:          "true",
		EnvArtifactPolicy: "first",
	}))
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.ModelDir != "/srv/model" || cfg.Addr != "127.0.0.1:9000" || cfg.LogLevel != "debug" || cfg.LogFormat != "console" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.RequestTimeout().Milliseconds() != 250 || !cfg.CacheEnabled || cfg.ArtifactPolicy != "first" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestApplyEnv_EmptyValuesIgnoredAndBadValuesRejected(t *testing.T) {
	cfg := Default()
	if err := cfg.ApplyEnv(envMap(map[string]string{EnvModelFolder: "  "})); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if cfg.ModelDir != "model" {
		t.Fatalf("empty MODEL_FOLDER must keep default, got %q", cfg.ModelDir)
	}
	for key, val := range map[string]string{EnvRequestTimeout: "soon", EnvCache: "maybe"} {
		c := Default()
		if err := c.ApplyEnv(envMap(map[string]string{key: val})); err == nil || !strings.Contains(err.Error(), key) {
			t.Fatalf("%s=%s: expected error naming the variable, got %v", key, val, err)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	cases := map[string]func(*Config){
		"addr":      func(c *Config) { c.Addr = "nope" },
		"model_dir": func(c *Config) { c.ModelDir = "" },
		"policy":    func(c *Config) { c.ArtifactPolicy = "newest" },
		"level":     func(c *Config) { c.LogLevel = "loud" },
		"format":    func(c *Config) { c.LogFormat = "xml" },
		"delimiter": func(c *Config) { c.Delimiter = ";;" },
		"timeout":   func(c *Config) { c.RequestTimeoutMS = -1 },
	}
	for name, mutate := range cases {
		c := Default()
		mutate(&c)
		if err := c.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestValidate_Delimiter(t *testing.T) {
	for _, d := range []string{"", ",", ";", "\t", "|"} {
		c := Default()
		c.Delimiter = d
		if err := c.Validate(); err != nil {
			t.Fatalf("delimiter %q: %v", d, err)
		}
	}
	// encoding/csv cannot split on these.
	for _, d := range []string{`"`, "\n", "\r", "�"} {
		c := Default()
		c.Delimiter = d
		err := c.Validate()
		if err == nil || !strings.Contains(err.Error(), "delimiter") {
			t.Fatalf("delimiter %q: expected validation error, got %v", d, err)
		}
	}
}
