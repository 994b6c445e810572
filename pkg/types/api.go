package types

// ScoreResponse is the body returned by POST /score: one prediction per
// input data row, in input order.
type ScoreResponse struct {
	// Predictions in input row order.
	// example: [123869.9921875,153666.09375]
	Predictions []float64 `json:"predictions" example:"123869.9921875,153666.09375"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: malformed input: row 2: expected 80 fields, got 79
	Error string `json:"error" example:"malformed input: row 2: expected 80 fields, got 79"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ArtifactStatus describes the model artifact seen by the last pipeline run.
type ArtifactStatus struct {
	// Absolute path of the artifact file.
	// example: /srv/model/house_prices.json
	Path string `json:"path" example:"/srv/model/house_prices.json"`
	// Model name declared in the artifact.
	// example: house-prices-gbm
	Name string `json:"name" example:"house-prices-gbm"`
	// Model kind (linear, tree_ensemble).
	// example: tree_ensemble
	Kind string `json:"kind" example:"tree_ensemble"`
	// Artifact size in bytes.
	// example: 2048
	SizeBytes int64 `json:"size_bytes" example:"2048"`
	// Artifact modification time (unix seconds).
	// example: 1700000000
	ModTimeUnix int64 `json:"mod_time_unix" example:"1700000000"`
	// Time the predictor was loaded (unix seconds).
	// example: 1700000000
	LoadedAtUnix int64 `json:"loaded_at_unix" example:"1700000000"`
}

// StatusResponse is returned by GET /status.
type StatusResponse struct {
	// Configured model directory.
	// example: model
	ModelDir string `json:"model_dir" example:"model"`
	// Policy applied when the directory holds several files (strict, first).
	// example: strict
	ArtifactPolicy string `json:"artifact_policy" example:"strict"`
	// Whether predictors are cached between requests.
	// example: false
	CacheEnabled bool `json:"cache_enabled" example:"false"`
	// Artifact used by the most recent successful load, if any.
	Artifact *ArtifactStatus `json:"artifact,omitempty"`
	// Last pipeline error observed (if any).
	LastError string `json:"last_error,omitempty"`
	// Pipelines currently running.
	// example: 1
	Inflight int `json:"inflight" example:"1"`
	// Pipelines waiting for admission.
	// example: 0
	QueueLen int `json:"queue_len" example:"0"`
	// Maximum concurrently running pipelines.
	// example: 8
	MaxInflight int `json:"max_inflight" example:"8"`
	// Total score requests handled.
	// example: 42
	RequestsTotal uint64 `json:"requests_total" example:"42"`
	// Total rows scored.
	// example: 1000
	RowsTotal uint64 `json:"rows_total" example:"1000"`
	// Total model loads from disk.
	// example: 42
	LoadsTotal uint64 `json:"loads_total" example:"42"`
	// Total requests served from the predictor cache.
	// example: 0
	CacheHitsTotal uint64 `json:"cache_hits_total" example:"0"`
	// Uptime of the server in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	// example: 1700000000
	ServerTimeUnix int64 `json:"server_time_unix" example:"1700000000"`
}
