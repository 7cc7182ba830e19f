// Package server exposes the regex automaton pipeline over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"regexfa/internal/cache"
	"regexfa/internal/regexlib"
)

const maxBodyBytes = 1 << 20

// Options tune a handler. Zero values fall back to the defaults noted.
type Options struct {
	// MaxEnumerate is the largest max_len /enumerate accepts. Zero selects
	// the default of 12; config.Validate never lets 0 through from a file.
	MaxEnumerate int
	// DefaultMaxLen is used when a request omits max_len (default 6).
	DefaultMaxLen int
	// Normalize is applied to patterns and inputs. Nil leaves them alone.
	Normalize func(string) string
	// Registry receives the metrics and backs /metrics. Nil creates a fresh one.
	Registry *prometheus.Registry
}

// Server implements the HTTP API.
type Server struct {
	compiler  *cache.Compiler
	log       *slog.Logger
	metrics   *Metrics
	maxEnum   int
	defLen    int
	normalize func(string) string
}

// NewHandler builds the router.
func NewHandler(compiler *cache.Compiler, log *slog.Logger, opts Options) http.Handler {
	if opts.MaxEnumerate <= 0 {
		opts.MaxEnumerate = 12
	}
	if opts.DefaultMaxLen <= 0 {
		opts.DefaultMaxLen = 6
	}
	if opts.DefaultMaxLen > opts.MaxEnumerate {
		opts.DefaultMaxLen = opts.MaxEnumerate
	}
	if opts.Normalize == nil {
		opts.Normalize = func(s string) string { return s }
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	s := &Server{
		compiler:  compiler,
		log:       log,
		metrics:   NewMetrics(opts.Registry),
		maxEnum:   opts.MaxEnumerate,
		defLen:    opts.DefaultMaxLen,
		normalize: opts.Normalize,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.Health)
	r.Post("/compile", s.Compile)
	r.Post("/accepts", s.Accepts)
	r.Post("/trace", s.Trace)
	r.Post("/enumerate", s.Enumerate)
	r.Post("/dot", s.DOT)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type patternRequest struct {
	Pattern string `json:"pattern"`
	Input   string `json:"input"`
	MaxLen  *int   `json:"max_len,omitempty"`
	NFA     bool   `json:"nfa,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Pos   *int   `json:"pos,omitempty"`
}

type compileResponse struct {
	Pattern  string        `json:"pattern"`
	Cached   bool          `json:"cached"`
	States   int           `json:"states"`
	Alphabet []string      `json:"alphabet"`
	Dead     int           `json:"dead"`
	DFA      *regexlib.DFA `json:"dfa"`
}

// Health handles GET /health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Compile handles POST /compile.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	defer s.observe("compile")()

	req, d, cached, ok := s.load(w, r)
	if !ok {
		return
	}
	alphabet := make([]string, len(d.Alphabet))
	for i, sym := range d.Alphabet {
		alphabet[i] = string(sym)
	}
	writeJSON(w, http.StatusOK, compileResponse{
		Pattern:  req.Pattern,
		Cached:   cached,
		States:   len(d.States),
		Alphabet: alphabet,
		Dead:     d.DeadState(),
		DFA:      d,
	})
}

// Accepts handles POST /accepts.
func (s *Server) Accepts(w http.ResponseWriter, r *http.Request) {
	defer s.observe("accepts")()

	req, d, _, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"accepted": d.Accepts(req.Input)})
}

// Trace handles POST /trace.
func (s *Server) Trace(w http.ResponseWriter, r *http.Request) {
	defer s.observe("trace")()

	req, d, _, ok := s.load(w, r)
	if !ok {
		return
	}
	steps := d.Trace(req.Input)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accepted": d.Accepted(steps),
		"steps":    steps,
	})
}

// Enumerate handles POST /enumerate.
func (s *Server) Enumerate(w http.ResponseWriter, r *http.Request) {
	defer s.observe("enumerate")()

	req, d, _, ok := s.load(w, r)
	if !ok {
		return
	}
	n := s.defLen
	if req.MaxLen != nil {
		n = *req.MaxLen
	}
	if n < 0 || n > s.maxEnum {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("max_len must be between 0 and %d", s.maxEnum),
		})
		return
	}
	words := d.Enumerate(n)
	if words == nil {
		words = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"max_len": n,
		"strings": words,
	})
}

// DOT handles POST /dot. With "nfa": true it draws the NFA instead.
func (s *Server) DOT(w http.ResponseWriter, r *http.Request) {
	defer s.observe("dot")()

	req, ok := s.decode(w, r)
	if !ok {
		return
	}
	if req.NFA {
		ast, err := parsePattern(req.Pattern)
		if err != nil {
			s.metrics.compiles.WithLabelValues("error").Inc()
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		if err := regexlib.WriteNFADOT(w, regexlib.BuildNFA(ast)); err != nil {
			s.log.Error("dot write failed", "error", err)
		}
		return
	}
	d, _, err := s.compile(r, req.Pattern)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	if err := regexlib.WriteDOT(w, d); err != nil {
		s.log.Error("dot write failed", "error", err)
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (patternRequest, bool) {
	var req patternRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return req, false
	}
	req.Pattern = s.normalize(req.Pattern)
	req.Input = s.normalize(req.Input)
	return req, true
}

// observe starts timing op; the returned func records the elapsed time.
func (s *Server) observe(op string) func() {
	timer := prometheus.NewTimer(s.metrics.queries.WithLabelValues(op))
	return func() { timer.ObserveDuration() }
}

// load decodes the request and compiles its pattern.
func (s *Server) load(w http.ResponseWriter, r *http.Request) (patternRequest, *regexlib.DFA, bool, bool) {
	req, ok := s.decode(w, r)
	if !ok {
		return req, nil, false, false
	}
	d, cached, err := s.compile(r, req.Pattern)
	if err != nil {
		writeError(w, err)
		return req, nil, false, false
	}
	return req, d, cached, true
}

func (s *Server) compile(r *http.Request, pattern string) (*regexlib.DFA, bool, error) {
	d, cached, err := s.compiler.Compile(r.Context(), pattern)
	switch {
	case err != nil:
		s.metrics.compiles.WithLabelValues("error").Inc()
	case cached:
		s.metrics.compiles.WithLabelValues("cached").Inc()
	default:
		s.metrics.compiles.WithLabelValues("built").Inc()
		s.metrics.states.Observe(float64(len(d.States)))
	}
	return d, cached, err
}

func parsePattern(pattern string) (*regexlib.Node, error) {
	if err := regexlib.CheckUTF8(pattern); err != nil {
		return nil, err
	}
	return regexlib.Parse(pattern)
}

func writeError(w http.ResponseWriter, err error) {
	var pe *regexlib.ParseError
	switch {
	case errors.As(err, &pe):
		pos := pe.Pos
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: pe.Kind.String(), Pos: &pos})
		return
	case errors.Is(err, regexlib.ErrInvalidUTF8):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
