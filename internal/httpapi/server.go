// Package httpapi exposes the scoring pipeline over HTTP.
package httpapi

import (
	"context"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"scoringd/internal/manager"
	"scoringd/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Score(ctx context.Context, body io.Reader) (types.ScoreResponse, error)
	Status() types.StatusResponse
	Ready() bool
}

// acceptedMediaTypes lists the Content-Types POST /score accepts.
var acceptedMediaTypes = map[string]bool{
	"text/plain": true,
	"text/csv":   true,
}

func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsAllowedOrigins,
			AllowedMethods: corsAllowedMethods,
			AllowedHeaders: corsAllowedHeaders,
			ExposedHeaders: []string{"X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		_ = writeJSON(w, svc.Status())
	})

	r.Group(func(r chi.Router) {
		if rateLimitPerMinute > 0 {
			r.Use(httprate.Limit(rateLimitPerMinute, time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
					IncrementBackpressure("rate_limit")
					writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				}),
			))
		}
		r.Post("/score", scoreHandler(svc))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if svc.Ready() {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("no usable model artifact"))
	})

	// Prometheus metrics endpoint
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	MountSwagger(r)
	return r
}

// scoreHandler godoc
//
//	@Summary		Score a CSV payload
//	@Description	The first line is the header; every following line is scored by the model in the model directory.
//	@Tags			scoring
//	@Accept			plain
//	@Produce		json
//	@Param			body	body		string	true	"CSV with header row"
//	@Success		200		{object}	types.ScoreResponse
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		413		{object}	types.ErrorResponse
//	@Failure		415		{object}	types.ErrorResponse
//	@Failure		422		{object}	types.ErrorResponse
//	@Failure		429		{object}	types.ErrorResponse
//	@Failure		500		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Failure		504		{object}	types.ErrorResponse
//	@Router			/score [post]
func scoreHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || !acceptedMediaTypes[mt] {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be text/plain or text/csv")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

		sl := newScoreLog(r)
		// Join server base context with request context so shutdown cancels work too.
		ctx, cancel := joinContexts(r.Context(), serverBaseCtx)
		defer cancel()
		resp, err := svc.Score(ctx, r.Body)
		if err != nil {
			// Client went away; nobody reads the response.
			if r.Context().Err() != nil {
				sl.end(499, 0, err)
				return
			}
			if serverBaseCtx.Err() != nil {
				writeJSONError(w, http.StatusServiceUnavailable, "server shutting down")
				sl.end(http.StatusServiceUnavailable, 0, err)
				return
			}
			status := statusFor(err)
			if status == http.StatusTooManyRequests {
				IncrementBackpressure(manager.TooBusyReason(err))
			}
			writeJSONError(w, status, clientMessage(err, status))
			sl.end(status, 0, err)
			return
		}
		if err := writeJSON(w, resp); err != nil {
			sl.end(http.StatusInternalServerError, 0, err)
			return
		}
		sl.end(http.StatusOK, len(resp.Predictions), nil)
	}
}
