// scaffold writes a starter series.json into series folders that lack one
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/series"
)

var (
	dryRun = flag.Bool("n", false, "dry-run mode, print documents instead of writing them")
	exif   = flag.Bool("exif", false, "probe media with exiftool for dimensions and dates")
)

type photoDoc struct {
	Title  string `json:"title"`
	Date   string `json:"date,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type seriesDoc struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Medium      string              `json:"medium"`
	Year        string              `json:"year"`
	Cover       string              `json:"cover,omitempty"`
	Photos      map[string]photoDoc `json:"photos,omitempty"`
}

func skeleton(s *series.Series) ([]byte, error) {
	d := seriesDoc{
		Title:  s.Title,
		Medium: s.Medium,
		Photos: map[string]photoDoc{},
	}
	for i, p := range s.Photos {
		// Without a metadata document, Alt is the filename stem.
		d.Photos[p.Alt] = photoDoc{Date: p.Date, Width: p.Width, Height: p.Height}
		if i == 0 {
			d.Cover = p.Alt
		}
	}
	return json.MarshalIndent(d, "", "  ")
}

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	if flag.NArg() != 1 {
		klog.Exitf("usage: %s [-n] [-exif] <series dir>", os.Args[0])
	}

	opts := []series.Option{}
	closer := func() {}
	if *exif {
		p, err := series.NewExifProber()
		if err != nil {
			klog.Exitf("exiftool: %v", err)
		}
		closer = func() {
			if err := p.Close(); err != nil {
				klog.Errorf("Failed to close exiftool: %v", err)
			}
		}
		opts = append(opts, series.WithProber(p))
	}

	err := run(flag.Arg(0), *dryRun, os.Stdout, opts...)
	closer()
	if err != nil {
		klog.Exitf("%v", err)
	}
}

// run writes a skeleton series.json into every series folder that has no metadata file.
// Folders holding a series.json that failed to parse are left alone.
func run(root string, dryRun bool, w io.Writer, opts ...series.Option) error {
	l := series.New(root, opts...)
	ss, err := l.LoadAllSeries()
	if err != nil {
		return fmt.Errorf("unable to load: %w", err)
	}

	for _, s := range ss {
		if s.HasJSON {
			continue
		}
		dir, err := l.Dir(s.Slug)
		if err != nil {
			klog.Errorf("%s: %v", s.Slug, err)
			continue
		}

		p := filepath.Join(dir, series.MetadataFile)
		if _, err := os.Stat(p); err == nil {
			klog.Warningf("%s exists but could not be parsed, leaving it alone", p)
			continue
		}

		bs, err := skeleton(s)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", s.Slug, err)
		}

		klog.Infof("%s -> %s", s.Slug, p)
		if dryRun {
			fmt.Fprintf(w, "%s\n%s\n", p, bs)
			continue
		}
		if err := os.WriteFile(p, append(bs, '\n'), 0o644); err != nil {
			klog.Errorf("write %s: %v", p, err)
		}
	}
	return nil
}
