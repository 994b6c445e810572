// Package manager runs the scoring pipeline for one request:
// decode → locate → load → score → assemble. It is structured into small
// files by concern:
//
//   - manager.go: core Manager type, constructor, readiness.
//   - config.go: Config and package defaults; New applies defaults.
//   - types.go: internal state types (State, cache entry).
//   - errors.go: error types and helpers (IsTooBusy, IsTimeout, ErrorKind).
//   - admission.go: bounded in-flight pipelines with a wait queue.
//   - ensure.go: artifact location, predictor loading and the optional cache.
//   - score.go: Score, the pipeline entry point.
//   - status_report.go: Status reporting for /status.
//   - events.go, eventpub_memory.go: lifecycle events.
//   - metrics.go: Prometheus collectors for the pipeline.
//
// The model is reloaded from disk on every request unless Config.CacheEnabled
// is set. The cache holds one predictor keyed by artifact path, size and
// modification time; every request re-stats the artifact, so a replaced
// artifact is picked up by the next request.
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, Ready, Status, Score, Check).
package manager
