package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	zglobal "github.com/rs/zerolog/log"
)

// zlog is an optional structured logger. If unset, the global zerolog logger is used.
var zlog *zerolog.Logger

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = &l }

func logger() *zerolog.Logger {
	if zlog != nil {
		return zlog
	}
	return &zglobal.Logger
}

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "1":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var defaultLogLevel = LevelInfo

// SetDefaultLogLevel sets the request log level used without per-request overrides.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

// requestLogLevel honors ?log= and X-Log-Level overrides.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// scoreLog carries the per-request fields of the score start/end lines.
type scoreLog struct {
	lvl   LogLevel
	rid   string
	start time.Time
}

func newScoreLog(r *http.Request) scoreLog {
	sl := scoreLog{lvl: requestLogLevel(r), rid: middleware.GetReqID(r.Context()), start: time.Now()}
	if sl.lvl >= LevelInfo {
		logger().Info().Str("request_id", sl.rid).Int64("bytes", r.ContentLength).Msg("score start")
	}
	return sl
}

func (sl scoreLog) end(status, rows int, err error) {
	if sl.lvl == LevelOff || (sl.lvl == LevelError && err == nil) {
		return
	}
	ev := logger().Info()
	if err != nil && status >= http.StatusInternalServerError {
		ev = logger().Error()
	}
	ev = ev.Str("request_id", sl.rid).Int("status", status).Dur("dur", time.Since(sl.start))
	if err != nil {
		ev = ev.Err(err)
	} else {
		ev = ev.Int("rows", rows)
	}
	ev.Msg("score end")
}
