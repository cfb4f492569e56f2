package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"cad-ui-bridge/internal/logx"
	"cad-ui-bridge/internal/metrics"
	"cad-ui-bridge/internal/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed assets/bridge.js
var bridgeJS []byte

const (
	maxArgBytes     = 4 << 20
	shutdownTimeout = 5 * time.Second
)

type Options struct {
	// Listen is the address served on. Requests for other hosts than loopback or
	// this host are rejected.
	Listen string
	// OriginPatterns are host patterns such as "localhost:*" allowed to call the bridge
	// from another origin.
	OriginPatterns []string
	// Token must accompany every bridge call in TokenHeader. Empty generates one.
	Token string
	// Gatherer backs /metrics; nil disables the endpoint.
	Gatherer prometheus.Gatherer
}

// Server exposes the bridge to UI pages: calls come in over POST /bridge/{method},
// scripts go out over the websocket handled by ui. Calls need an allowed Origin and
// the run token, which pages receive over the websocket.
type Server struct {
	bridge ports.BridgePort
	ui     http.Handler
	opts   Options
}

func NewServer(bridge ports.BridgePort, ui http.Handler, opts Options) *Server {
	if opts.Token == "" {
		opts.Token = uuid.NewString()
	}
	return &Server{bridge: bridge, ui: ui, opts: opts}
}

// Token is the value UI pages must send in TokenHeader.
func (s *Server) Token() string { return s.opts.Token }

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(hostGuard(s.opts.Listen))
	if len(s.opts.OriginPatterns) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins(s.opts.OriginPatterns),
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", TokenHeader},
		}))
	}
	for _, m := range middlewareChain() {
		r.Use(m)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	r.Get("/bridge.js", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		_, _ = w.Write(bridgeJS)
	})
	r.Route("/bridge", func(br chi.Router) {
		br.Use(callGuard(s.opts.OriginPatterns, s.opts.Token))
		br.Get("/", s.handleList)
		br.Post("/{method}", s.handleCall)
	})
	if s.ui != nil {
		r.Handle("/ui/ws", s.ui)
	}
	if s.opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.opts.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logx.Log.Info().Str("addr", addr).Msg("bridge listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(methodNames())
}

func (s *Server) handleCall(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "method")
	c, ok := calls[name]
	if !ok {
		http.Error(w, "unknown bridge method "+name, http.StatusNotFound)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	result, err := c(r.Context(), s.bridge, string(body))
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.RecordBridgeCall(name, outcome, time.Since(start).Seconds())

	if err != nil {
		logx.Log.Warn().Err(err).Str("method", name).Msg("bridge call failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch v := result.(type) {
	case nil:
		w.WriteHeader(http.StatusNoContent)
	case string:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, v)
	default:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

// corsOrigins turns websocket host patterns into origins for both schemes.
func corsOrigins(patterns []string) []string {
	out := make([]string, 0, 2*len(patterns))
	for _, p := range patterns {
		if p == "*" {
			return []string{"*"}
		}
		out = append(out, "http://"+p, "https://"+p)
	}
	return out
}
