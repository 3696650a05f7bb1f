package site

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/copy"
	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/series"
)

const (
	// ContentFile is the name of the index written to the output directory.
	ContentFile = "content.json"
	// DataDir holds one JSON document per series, at <slug>.json.
	DataDir = "data"
)

// Export is the document consumed by the page layer.
type Export struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Series      []*series.Series `json:"series"`
}

// Build loads every series from c.InDir and writes the export into c.OutDir.
func Build(c Config) (*Export, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	l, closer, err := NewLoader(c)
	if err != nil {
		return nil, err
	}
	defer closer()

	return BuildWith(c, l)
}

// BuildWith is Build with a caller-provided loader.
func BuildWith(c Config, l *series.Loader) (*Export, error) {
	klog.Infof("build: %s -> %s", c.InDir, c.OutDir)

	ss, err := l.LoadAllSeries()
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	e := &Export{Title: c.Title, Description: c.Description, Series: ss}

	if err := os.MkdirAll(c.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	if err := writeJSON(filepath.Join(c.OutDir, ContentFile), e); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}

	for _, s := range ss {
		p := filepath.Join(c.OutDir, DataDir, filepath.FromSlash(s.Slug)+".json")
		if err := writeJSON(p, s); err != nil {
			return nil, fmt.Errorf("write series %q: %w", s.Slug, err)
		}
	}

	if c.CopyMedia {
		if err := copyMedia(c); err != nil {
			return nil, fmt.Errorf("copy media: %w", err)
		}
	}

	klog.Infof("wrote %d series to %s", len(ss), c.OutDir)
	return e, nil
}

func writeJSON(path string, v any) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	klog.V(1).Infof("writing %s", path)
	return os.WriteFile(path, bs, 0o644)
}

// mediaDir is where copied media lands: the URL prefix, when it is a local path, mirrored under OutDir.
func mediaDir(c Config) string {
	p := c.URLPrefix
	if strings.Contains(p, "://") || p == "" {
		p = series.DefaultURLPrefix
	}
	return filepath.Join(c.OutDir, filepath.FromSlash(strings.Trim(p, "/")))
}

// copyMedia mirrors the input tree under mediaDir, leaving out hidden files, OS sentinels and metadata documents.
func copyMedia(c Config) error {
	dest := mediaDir(c)
	klog.Infof("copying media from %s to %s", c.InDir, dest)
	return copy.Copy(c.InDir, dest, copy.Options{
		Skip: func(info os.FileInfo, src, _ string) (bool, error) {
			name := info.Name()
			if src == c.InDir {
				return false, nil
			}
			if strings.HasPrefix(name, ".") || name == series.MetadataFile {
				return true, nil
			}
			if info.IsDir() {
				return false, nil
			}
			return series.KindOf(name) == series.KindUnknown, nil
		},
	})
}
