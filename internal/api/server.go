// Package api exposes route computation and inspection over HTTP.
package api

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/astrocart/hyperroute/internal/catalog"
	"github.com/astrocart/hyperroute/internal/httputil"
	"github.com/astrocart/hyperroute/internal/routeopts"
	"github.com/astrocart/hyperroute/internal/store"
)

// Server holds the dependencies HTTP handlers need. A single compute
// mutex serializes concurrent POST /api/routes/compute calls: the
// routing engine itself is stateless and safe to call concurrently, but
// two concurrent computes for the same from/to pair would race to upsert
// the same route row, so computes are serialized at the API boundary
// rather than inside the store.
type Server struct {
	DB      *store.DB
	Catalog catalog.Reader

	mu sync.Mutex
}

// NewServer builds a Server over an already-open database and catalog.
func NewServer(db *store.DB, cat catalog.Reader) *Server {
	return &Server{DB: db, Catalog: cat}
}

// ServeMux builds the server's top-level handler, wrapped in logging
// middleware.
func (s *Server) ServeMux() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/routes/compute", s.handleCompute)
	mux.HandleFunc("/api/routes/current", s.handleCurrent)
	mux.HandleFunc("/api/routes/", s.handleRouteByID)
	return s.LoggingMiddleware(mux)
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggingResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(code int) string {
	switch {
	case code >= 500:
		return "\033[31m" // red
	case code >= 400:
		return "\033[33m" // yellow
	case code >= 300:
		return "\033[36m" // cyan
	default:
		return "\033[32m" // green
	}
}

// LoggingMiddleware logs each request's method, path, status code, and
// duration, color-coding the status the way the rest of this module's
// ambient logging does.
func (s *Server) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lw, r)
		color := statusCodeColor(lw.statusCode)
		log.Printf("%s%d\033[0m %s %s (%s)", color, lw.statusCode, r.Method, r.URL.Path, time.Since(start))
	})
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, err error) {
	httputil.WriteJSONError(w, status, err.Error())
}

// computeRequest is the JSON body of POST /api/routes/compute.
type computeRequest struct {
	From    string                    `json:"from"`
	To      string                    `json:"to"`
	Options *routeopts.RoutingOptions `json:"options,omitempty"`
}

func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	var req computeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	opts := routeopts.DefaultOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp, status, err := computeAndSave(r.Context(), s.DB, s.Catalog, req.From, req.To, opts)
	if err != nil {
		s.writeJSONError(w, status, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Errorf("from and to query parameters are required"))
		return
	}

	ctx := r.Context()
	fromPlanet, err := s.Catalog.ByName(ctx, from)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err)
		return
	}
	toPlanet, err := s.Catalog.ByName(ctx, to)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, err)
		return
	}

	rec, err := s.DB.GetRouteByPair(ctx, fromPlanet.ID, toPlanet.ID)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Errorf("no current route from %s to %s", from, to))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rec)
}

func (s *Server) handleRouteByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, fmt.Errorf("method %s not allowed", r.Method))
		return
	}

	id, explainMode, err := parseRouteIDPath(r.URL.Path)
	if err != nil {
		s.writeJSONError(w, http.StatusBadRequest, err)
		return
	}

	if explainMode {
		s.serveExplain(w, r, id)
		return
	}
	s.serveRoute(w, r, id)
}
