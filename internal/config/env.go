package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnv.
const (
	EnvModelFolder    = "MODEL_FOLDER"
	EnvAddr           = "SCORINGD_ADDR"
	EnvLogLevel       = "SCORINGD_LOG_LEVEL"
	EnvLogFormat      = "SCORINGD_LOG_FORMAT"
	EnvRequestTimeout = "SCORINGD_REQUEST_TIMEOUT_MS"
	EnvCache          = "SCORINGD_CACHE"
	EnvArtifactPolicy = "SCORINGD_ARTIFACT_POLICY"
)

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv overrides cfg with the non-empty variables found by lookup.
// A nil lookup reads the process environment.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	if v, ok := get(EnvModelFolder); ok {
		c.ModelDir = v
	}
	if v, ok := get(EnvAddr); ok {
		c.Addr = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogLevel = strings.ToLower(v)
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = strings.ToLower(v)
	}
	if v, ok := get(EnvArtifactPolicy); ok {
		c.ArtifactPolicy = strings.ToLower(v)
	}
	if v, ok := get(EnvRequestTimeout); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvRequestTimeout, err)
		}
		c.RequestTimeoutMS = n
	}
	if v, ok := get(EnvCache); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCache, err)
		}
		c.CacheEnabled = b
	}
	return nil
}
