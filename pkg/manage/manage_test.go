package manage

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/tstromberg/folio/pkg/series"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	for _, rel := range []string{"Voyages/Japon/kyoto.webp", "Sons/pluie.mp3"} {
		p := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "index.html"), []byte("<html></html>"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return New(series.New(root), out)
}

func TestHandler(t *testing.T) {
	ts := httptest.NewServer(newServer(t).Handler())
	defer ts.Close()

	tests := []struct {
		name     string
		path     string
		wantCode int
	}{
		{"list", "/api/series", http.StatusOK},
		{"nested slug", "/api/series/voyages/japon", http.StatusOK},
		{"unknown slug", "/api/series/nope", http.StatusNotFound},
		{"static", "/index.html", http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tc.path)
			if err != nil {
				t.Fatalf("GET %s: %v", tc.path, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.wantCode {
				t.Errorf("GET %s = %d, want %d", tc.path, resp.StatusCode, tc.wantCode)
			}
		})
	}
}

func TestSeriesHandlerBody(t *testing.T) {
	h := newServer(t).Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/series/voyages/japon", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var s series.Series
	if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if s.Slug != "voyages/japon" || s.Title != "Japon" || len(s.Photos) != 1 {
		t.Errorf("unexpected series: %+v", s)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/series", nil))
	var ss []series.Series
	if err := json.Unmarshal(rec.Body.Bytes(), &ss); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(ss) != 2 {
		t.Errorf("got %d series, want 2", len(ss))
	}
}
