package series

import (
	"fmt"
	"image"
	"os"
	"strings"
	"time"

	"github.com/barasher/go-exiftool"
	_ "golang.org/x/image/webp"
	"k8s.io/klog/v2"
)

var exifDate = "2006:01:02 15:04:05"

// Probe is what a Prober could learn about a media file.
type Probe struct {
	Width    int
	Height   int
	Date     string
	Duration string
}

// Prober extracts embedded metadata from a media file.
type Prober interface {
	Probe(path string) (Probe, error)
}

// readDimensions decodes the image header of path.
func readDimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	ic, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to decode: %w", err)
	}
	return ic.Width, ic.Height, nil
}

// ExifProber reads metadata with exiftool.
type ExifProber struct {
	et *exiftool.Exiftool
}

// NewExifProber starts an exiftool process. Callers must Close it.
func NewExifProber() (*ExifProber, error) {
	et, err := exiftool.NewExiftool()
	if err != nil {
		return nil, fmt.Errorf("exiftool: %w", err)
	}
	return &ExifProber{et: et}, nil
}

// Close stops the exiftool process.
func (p *ExifProber) Close() error {
	return p.et.Close()
}

// Probe implements Prober.
func (p *ExifProber) Probe(path string) (Probe, error) {
	pr := Probe{}
	fis := p.et.ExtractMetadata(path)
	if len(fis) == 0 {
		return pr, fmt.Errorf("no metadata for %q", path)
	}
	fi := fis[0]
	if fi.Err != nil {
		return pr, fmt.Errorf("extract fail for %q: %w", path, fi.Err)
	}

	for k, v := range fi.Fields {
		klog.V(2).Infof("%q=%v", k, v)
	}

	if w, err := fi.GetInt("ImageWidth"); err == nil {
		pr.Width = int(w)
	}
	if h, err := fi.GetInt("ImageHeight"); err == nil {
		pr.Height = int(h)
	}

	if d, err := fi.GetString("Duration"); err == nil {
		pr.Duration = strings.TrimSpace(d)
	}

	ds, err := fi.GetString("DateTimeOriginal")
	if err != nil {
		klog.V(1).Infof("unable to get date time for %s: %v", path, err)
		return pr, nil
	}
	t, err := time.Parse(exifDate, ds)
	if err != nil {
		klog.V(1).Infof("parse time %q: %v", ds, err)
		return pr, nil
	}
	pr.Date = t.Format(time.DateOnly)
	return pr, nil
}
