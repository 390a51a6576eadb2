// Package http serves the last compiled descriptor bundle over HTTP.
package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/artpar/judegen/core/emit"
	"github.com/artpar/judegen/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Browser holds the most recent successful bundle.
type Browser struct {
	mu      sync.RWMutex
	clock   ports.Clock
	bundle  *emit.Bundle
	session string
	updated time.Time
}

// NewBrowser creates an empty browser.
func NewBrowser(clock ports.Clock) *Browser {
	return &Browser{clock: clock}
}

// Publish replaces the served bundle. A nil bundle is ignored so a failed
// session keeps the previous one visible.
func (b *Browser) Publish(session string, bundle *emit.Bundle) {
	if bundle == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bundle = bundle
	b.session = session
	b.updated = b.clock.Now()
}

// Current returns the served bundle, or nil before the first publish.
func (b *Browser) Current() *emit.Bundle {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.bundle
}

// HealthResponse is the /health body.
type HealthResponse struct {
	Status  string     `json:"status"`
	Schema  string     `json:"schema,omitempty"`
	Session string     `json:"session,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
}

// ObjectSummary is one row of the /objects listing.
type ObjectSummary struct {
	Name        string `json:"name"`
	StructName  string `json:"struct_name"`
	Fields      int    `json:"fields"`
	StorageSize int    `json:"storage_size"`
}

// RouterConfig holds optional configuration for the router.
type RouterConfig struct {
	MetricsHandler http.Handler // Optional metrics exporter handler (for /metrics endpoint)
	Timeout        time.Duration
}

// NewRouter creates the browser's HTTP router.
func NewRouter(b *Browser, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))

	r.Get("/health", b.health)
	r.Get("/bundle", b.withBundle(func(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle) {
		writeJSON(w, http.StatusOK, bundle)
	}))
	r.Get("/objects", b.withBundle(listObjects))
	r.Get("/objects/{name}", b.withBundle(getObject))
	r.Get("/enums/{name}", b.withBundle(func(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle) {
		lookup(w, "enum", chi.URLParam(r, "name"), bundle.Enum)
	}))
	r.Get("/bitmasks/{name}", b.withBundle(func(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle) {
		lookup(w, "bitmask", chi.URLParam(r, "name"), bundle.Bitmask)
	}))
	r.Get("/databases/{name}", b.withBundle(func(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle) {
		lookup(w, "database", chi.URLParam(r, "name"), bundle.Database)
	}))

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}

func (b *Browser) health(w http.ResponseWriter, r *http.Request) {
	b.mu.RLock()
	resp := HealthResponse{Status: "ok", Session: b.session}
	if b.bundle != nil {
		resp.Schema = b.bundle.Schema
		updated := b.updated
		resp.Updated = &updated
	} else {
		resp.Status = "empty"
	}
	b.mu.RUnlock()
	writeJSON(w, http.StatusOK, resp)
}

type bundleHandler func(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle)

func (b *Browser) withBundle(h bundleHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bundle := b.Current()
		if bundle == nil {
			writeError(w, http.StatusServiceUnavailable, "no_bundle", "No bundle has been compiled yet")
			return
		}
		h(w, r, bundle)
	}
}

func listObjects(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle) {
	out := make([]ObjectSummary, 0, len(bundle.Objects))
	for _, o := range bundle.Objects {
		out = append(out, ObjectSummary{
			Name:        o.Name,
			StructName:  o.StructName,
			Fields:      o.TotalFieldCount,
			StorageSize: o.StorageSize,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func getObject(w http.ResponseWriter, r *http.Request, bundle *emit.Bundle) {
	lookup(w, "object", chi.URLParam(r, "name"), bundle.Object)
}

func lookup[T any](w http.ResponseWriter, kind, name string, find func(string) (T, bool)) {
	v, ok := find(name)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "No "+kind+" named "+strconv.Quote(name))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// errorObject follows the JSON:API error object layout.
type errorObject struct {
	Status string `json:"status"`
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, map[string][]errorObject{
		"errors": {{
			Status: strconv.Itoa(status),
			Code:   code,
			Title:  http.StatusText(status),
			Detail: detail,
		}},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// NewLoggingMiddleware creates a new logging middleware.
func NewLoggingMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			// Skip logging for health checks and metrics
			if strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				return
			}

			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		})
	}
}
