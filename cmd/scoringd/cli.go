package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"scoringd/internal/artifact"
	"scoringd/internal/config"
	"scoringd/internal/logging"
	"scoringd/internal/manager"
)

// rootOptions holds flag values; a flag only overrides the resolved config
// when it was set on the command line.
type rootOptions struct {
	configPath string
	envFile    string

	modelDir       string
	artifactPolicy string
	cache          bool
	logLevel       string
	logFormat      string
	delimiter      string
	scoreWorkers   int

	addr             string
	requestTimeoutMS int
	maxInflight      int
	maxBodyBytes     int64
	corsOrigins      string
	rateLimit        int

	cfg    config.Config
	logger zerolog.Logger
}

func buildRootCmd() *cobra.Command {
	o := &rootOptions{}
	def := config.Default()
	root := &cobra.Command{
		Use:           "scoringd",
		Short:         "Score CSV payloads with the regression model found in a model directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.resolve(cmd, os.LookupEnv)
			if err != nil {
				return err
			}
			o.cfg = cfg
			o.logger = logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: cmd.ErrOrStderr()})
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context(), o) },
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Config file (.yaml, .yml, .json, .toml)")
	pf.StringVar(&o.envFile, "env-file", ".env", "Dotenv file loaded into the environment when present")
	pf.StringVar(&o.modelDir, "model-dir", def.ModelDir, "Directory holding the model artifact (env MODEL_FOLDER)")
	pf.StringVar(&o.artifactPolicy, "artifact-policy", def.ArtifactPolicy, "Several files in the model dir: strict|first")
	pf.BoolVar(&o.cache, "cache", def.CacheEnabled, "Keep the loaded predictor until the artifact changes")
	pf.StringVar(&o.logLevel, "log-level", def.LogLevel, "Log level: trace|debug|info|warn|error|disabled")
	pf.StringVar(&o.logFormat, "log-format", def.LogFormat, "Log format: json|console")
	pf.StringVar(&o.delimiter, "delimiter", def.Delimiter, "CSV field delimiter (default ',')")
	pf.IntVar(&o.scoreWorkers, "score-workers", def.ScoreWorkers, "Rows scored in parallel per request (0 or 1 = sequential)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE:  func(cmd *cobra.Command, args []string) error { return runServe(cmd.Context(), o) },
	}
	for _, c := range []*cobra.Command{root, serveCmd} {
		f := c.Flags()
		f.StringVar(&o.addr, "addr", def.Addr, "HTTP listen address, e.g. :8080 (env SCORINGD_ADDR)")
		f.IntVar(&o.requestTimeoutMS, "request-timeout-ms", def.RequestTimeoutMS, "Per-request pipeline timeout in ms (0 disables)")
		f.IntVar(&o.maxInflight, "max-inflight", def.MaxInflight, "Concurrent pipelines (0 = number of CPUs)")
		f.Int64Var(&o.maxBodyBytes, "max-body-bytes", def.MaxBodyBytes, "Maximum /score body size in bytes")
		f.StringVar(&o.corsOrigins, "cors-origins", "", "Comma-separated CORS origins; enables CORS when set")
		f.IntVar(&o.rateLimit, "rate-limit", def.RateLimitPerMinute, "Per-IP /score requests per minute (0 disables)")
	}

	scoreCmd := &cobra.Command{
		Use:     "score [file|-]",
		Short:   "Score a CSV file (or stdin) offline and print the JSON response",
		Example: "  scoringd score --model-dir ./model house.csv\n  cat house.csv | scoringd score -",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := "-"
			if len(args) == 1 {
				src = args[0]
			}
			return runScore(cmd.Context(), o, src, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Locate and load the model artifact, then print its description",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error { return runCheck(o, cmd.OutOrStdout()) },
	}
	root.AddCommand(serveCmd, scoreCmd, checkCmd)

	completionCmd := &cobra.Command{Use: "completion", Short: "Generate the autocompletion script for the specified shell"}
	completionCmd.AddCommand(&cobra.Command{Use: "bash", Short: "Bash completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenBashCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "zsh", Short: "Zsh completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenZshCompletion(cmd.OutOrStdout()) }})
	completionCmd.AddCommand(&cobra.Command{Use: "fish", Short: "Fish completion", RunE: func(cmd *cobra.Command, args []string) error { return root.GenFishCompletion(cmd.OutOrStdout(), true) }})
	root.AddCommand(completionCmd)
	return root
}

// resolve builds the effective config: defaults < file < env < flags.
func (o *rootOptions) resolve(cmd *cobra.Command, lookup config.LookupFunc) (config.Config, error) {
	if o.envFile != "" {
		if err := godotenv.Load(o.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, fmt.Errorf("load %s: %w", o.envFile, err)
		}
	}
	cfg := config.Default()
	if o.configPath != "" {
		if err := config.LoadInto(o.configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return cfg, err
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("model-dir") {
		cfg.ModelDir = o.modelDir
	}
	if changed("artifact-policy") {
		cfg.ArtifactPolicy = strings.ToLower(o.artifactPolicy)
	}
	if changed("cache") {
		cfg.CacheEnabled = o.cache
	}
	if changed("log-level") {
		cfg.LogLevel = strings.ToLower(o.logLevel)
	}
	if changed("log-format") {
		cfg.LogFormat = strings.ToLower(o.logFormat)
	}
	if changed("delimiter") {
		cfg.Delimiter = o.delimiter
	}
	if changed("score-workers") {
		cfg.ScoreWorkers = o.scoreWorkers
	}
	if changed("addr") {
		cfg.Addr = o.addr
	}
	if changed("request-timeout-ms") {
		cfg.RequestTimeoutMS = o.requestTimeoutMS
	}
	if changed("max-inflight") {
		cfg.MaxInflight = o.maxInflight
	}
	if changed("max-body-bytes") {
		cfg.MaxBodyBytes = o.maxBodyBytes
	}
	if changed("cors-origins") {
		cfg.CORSAllowedOrigins = splitCSV(o.corsOrigins)
		cfg.CORSEnabled = len(cfg.CORSAllowedOrigins) > 0
	}
	if changed("rate-limit") {
		cfg.RateLimitPerMinute = o.rateLimit
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// managerConfig maps the service config onto the pipeline manager.
func managerConfig(cfg config.Config, logger *zerolog.Logger) (manager.Config, error) {
	policy, err := artifact.ParsePolicy(cfg.ArtifactPolicy)
	if err != nil {
		return manager.Config{}, err
	}
	return manager.Config{
		ModelDir:       cfg.ModelDir,
		Policy:         policy,
		CacheEnabled:   cfg.CacheEnabled,
		RequestTimeout: cfg.RequestTimeout(),
		MaxInflight:    cfg.MaxInflight,
		MaxQueueDepth:  cfg.MaxQueueDepth,
		MaxWait:        cfg.MaxWait(),
		ScoreWorkers:   cfg.ScoreWorkers,
		Delimiter:      cfg.DelimiterRune(),
		Logger:         logger,
	}, nil
}

// splitCSV splits a comma-separated flag value, dropping empty items.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
