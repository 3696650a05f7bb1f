// Package site exports portfolio series for the static page layer.
package site

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/series"
)

// Config holds configuration for a site build.
type Config struct {
	InDir       string `toml:"in_dir"`
	OutDir      string `toml:"out_dir"`
	URLPrefix   string `toml:"url_prefix"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	// Exif enables exiftool probing for dimensions, capture dates and video durations.
	Exif bool `toml:"exif"`
	// CopyMedia copies the series tree into OutDir so that media URLs resolve against it.
	CopyMedia bool `toml:"copy_media"`
}

// Default returns a Config with defaults applied.
func Default() Config {
	return Config{
		URLPrefix: series.DefaultURLPrefix,
		Title:     "Portfolio",
	}
}

// LoadConfig reads a TOML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	c := Default()
	bs, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(bs, &c); err != nil {
		return c, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c, nil
}

// Validate reports missing required settings.
func (c Config) Validate() error {
	if c.InDir == "" {
		return fmt.Errorf("in_dir is required")
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir is required")
	}
	return nil
}

// NewLoader returns a series.Loader for c. The returned close function releases the prober, if any.
func NewLoader(c Config) (*series.Loader, func(), error) {
	opts := []series.Option{series.WithURLPrefix(c.URLPrefix)}
	closer := func() {}

	if c.Exif {
		p, err := series.NewExifProber()
		if err != nil {
			return nil, closer, fmt.Errorf("exif prober: %w", err)
		}
		opts = append(opts, series.WithProber(p))
		closer = func() {
			if err := p.Close(); err != nil {
				klog.Errorf("Failed to close exiftool: %v", err)
			}
		}
	}

	return series.New(c.InDir, opts...), closer, nil
}
