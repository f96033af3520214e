// Package httpapi exposes flag lookups over HTTP for plugins that prefer a
// long-running local service to a stdio child process.
package httpapi

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/blackwell-systems/ccflags/internal/flags"
	"github.com/blackwell-systems/ccflags/internal/resolver"
)

// Server serves resolver results over HTTP.
type Server struct {
	resolver *resolver.Resolver
	version  string
}

// apiError is the JSON body of every non-2xx response.
type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// fileResponse is the body of GET /flags.
type fileResponse struct {
	File     string   `json:"file"`
	IsHeader bool     `json:"is_header"`
	Flags    []string `json:"flags"`
	DoCache  bool     `json:"do_cache"`
}

// NewServer returns a Server answering from r.
func NewServer(r *resolver.Resolver, version string) *Server {
	return &Server{resolver: r, version: version}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(Logging)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)
	r.Get("/version", s.handleVersion)
	r.Get("/flags", s.handleFlags)

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

func (s *Server) handleFlags(w http.ResponseWriter, r *http.Request) {
	file := r.URL.Query().Get("file")
	if file == "" {
		writeErr(w, http.StatusBadRequest, "missing_file", "query parameter file is required")
		return
	}
	if !filepath.IsAbs(file) {
		writeErr(w, http.StatusBadRequest, "relative_file", "file must be an absolute path")
		return
	}

	res, ok := s.resolver.Resolve(file)
	if !ok {
		writeErr(w, http.StatusNotFound, "no_compilation_info", "no compilation info for "+file)
		return
	}

	writeJSON(w, http.StatusOK, fileResponse{
		File:     file,
		IsHeader: flags.IsHeaderFile(file),
		Flags:    res.Flags,
		DoCache:  res.DoCache,
	})
}

func writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErr(w http.ResponseWriter, code int, errCode, message string) {
	var body apiError
	body.Error.Code = errCode
	body.Error.Message = message
	writeJSON(w, code, body)
}
