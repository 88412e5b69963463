// Package server exposes the resolver over HTTP so download buttons can link
// to a single redirecting endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/donaldgifford/dlink/internal/platform"
	"github.com/donaldgifford/dlink/internal/release"
	"github.com/donaldgifford/dlink/internal/resolver"
)

// ReleaseCache is the subset of *release.Cache the status endpoint needs.
type ReleaseCache interface {
	Get(ctx context.Context) *release.Metadata
	Snapshot() release.Entry
}

// Server routes download requests to the resolver.
type Server struct {
	resolver *resolver.Resolver
	cache    ReleaseCache
	logger   *slog.Logger
	mux      *http.ServeMux
}

// New creates a Server. cache may be nil, in which case /api/release always
// reports 503.
func New(r *resolver.Resolver, cache ReleaseCache, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		resolver: r,
		cache:    cache,
		logger:   logger,
		mux:      http.NewServeMux(),
	}

	s.mux.HandleFunc("GET /download", s.handleDetectAndDownload)
	s.mux.HandleFunc("GET /download/{platform}", s.handleDownload)
	s.mux.HandleFunc("GET /api/platform", s.handlePlatform)
	s.mux.HandleFunc("GET /api/release", s.handleRelease)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok\n"))
	})

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	s.mux.ServeHTTP(rec, r)

	s.logger.Debug("request",
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"duration", time.Since(start),
	)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serving on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}

		return nil
	}
}

func (s *Server) handleDetectAndDownload(w http.ResponseWriter, r *http.Request) {
	p := platform.Detect(platform.FromRequest(r))
	s.redirect(w, r, p)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	p, err := platform.Parse(r.PathValue("platform"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)

		return
	}

	s.redirect(w, r, p)
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, p platform.Platform) {
	res := s.resolver.ResolveDetailed(r.Context(), p)

	s.logger.Info("download resolved", "platform", p, "source", res.Source, "url", res.URL)

	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, res.URL, http.StatusFound)
}

type platformResponse struct {
	Platform    platform.Platform `json:"platform"`
	Label       string            `json:"label"`
	SimpleLabel string            `json:"simple_label"`
	Icon        string            `json:"icon"`
	FallbackURL string            `json:"fallback_url"`
}

func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request) {
	p := platform.Detect(platform.FromRequest(r))

	s.writeJSON(w, http.StatusOK, platformResponse{
		Platform:    p,
		Label:       platform.Label(p),
		SimpleLabel: platform.SimpleLabel(p),
		Icon:        platform.Icon(p),
		FallbackURL: s.resolver.ResolveSync(p),
	})
}

type releaseResponse struct {
	Tag       string          `json:"tag"`
	Version   string          `json:"version,omitempty"`
	FetchedAt time.Time       `json:"fetched_at"`
	Assets    []release.Asset `json:"assets"`
}

func (s *Server) handleRelease(w http.ResponseWriter, r *http.Request) {
	var meta *release.Metadata
	if s.cache != nil {
		meta = s.cache.Get(r.Context())
	}

	if meta == nil {
		http.Error(w, "release metadata unavailable", http.StatusServiceUnavailable)

		return
	}

	resp := releaseResponse{
		Tag:       meta.Tag,
		FetchedAt: s.cache.Snapshot().FetchedAt,
		Assets:    meta.Assets,
	}

	if v := meta.Version(); v != nil {
		resp.Version = v.String()
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "err", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
