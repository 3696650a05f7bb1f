// Package manage provides HTTP handlers for browsing portfolio series.
package manage

import (
	"encoding/json"
	"errors"
	"net/http"

	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/series"
)

// Server serves series data and the exported site.
type Server struct {
	l    *series.Loader
	path string
}

// New creates a new server. path is the directory served for everything outside /api/.
func New(l *series.Loader, path string) *Server {
	server := &Server{
		l:    l,
		path: path,
	}
	return server
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/series", s.ListHandler())
	mux.HandleFunc("GET /api/series/{slug...}", s.SeriesHandler())
	if s.path != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.path)))
	}
	return mux
}

// ListHandler lists every series.
func (s *Server) ListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ss, err := s.l.LoadAllSeries()
		if err != nil {
			klog.Errorf("load all: %v", err)
			http.Error(w, "unable to load series", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ss)
	}
}

// SeriesHandler returns a single series by slug.
func (s *Server) SeriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		ser, err := s.l.LoadSeries(slug)
		if errors.Is(err, series.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			klog.Errorf("load %q: %v", slug, err)
			http.Error(w, "unable to load series", http.StatusInternalServerError)
			return
		}
		writeJSON(w, ser)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		klog.Warningf("encode response: %v", err)
	}
}
