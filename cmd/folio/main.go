// folio builds the content export for a portfolio site from a tree of series folders.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"slices"

	"github.com/fsnotify/fsnotify"
	"k8s.io/klog/v2"

	"github.com/tstromberg/folio/pkg/manage"
	"github.com/tstromberg/folio/pkg/series"
	"github.com/tstromberg/folio/pkg/site"
)

var (
	configPath = flag.String("config", "", "Path to a TOML configuration file")
	inDir      = flag.String("in", "", "Location of series directory")
	outDir     = flag.String("out", "", "Location of output directory")
	urlPrefix  = flag.String("url-prefix", "", "URL prefix for media paths (default /series)")
	exif       = flag.Bool("exif", false, "probe media with exiftool")
	copyMedia  = flag.Bool("copy-media", false, "copy media files into the output directory")
	listen     = flag.Bool("listen", false, "serve content via HTTP")
	addr       = flag.String("addr", "localhost:12800", "host:port to bind to in listen mode")
	watchFlag  = flag.Bool("watch", false, "watch for changes to the series directory and rebuild")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	c := site.Default()
	if *configPath != "" {
		var err error
		c, err = site.LoadConfig(*configPath)
		if err != nil {
			klog.Exitf("config: %v", err)
		}
	}

	// Flags that were set win over the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			c.InDir = *inDir
		case "out":
			c.OutDir = *outDir
		case "url-prefix":
			c.URLPrefix = *urlPrefix
		case "exif":
			c.Exif = *exif
		case "copy-media":
			c.CopyMedia = *copyMedia
		}
	})

	if err := c.Validate(); err != nil {
		klog.Exitf("%v", err)
	}

	l, closer, err := site.NewLoader(c)
	if err != nil {
		klog.Exitf("loader: %v", err)
	}
	err = run(c, l)
	closer()
	if err != nil {
		klog.Exitf("%v", err)
	}
}

// run builds once, then serves and watches until one of them fails.
func run(c site.Config, l *series.Loader) error {
	e, err := site.BuildWith(c, l)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	if !*watchFlag && !*listen {
		return nil
	}

	errc := make(chan error, 2)
	if *watchFlag {
		go func() {
			if err := watch(c, e.Series); err != nil {
				errc <- fmt.Errorf("watch failed: %w", err)
			}
		}()
	}
	if *listen {
		go func() {
			errc <- serve(l, c.OutDir, *addr)
		}()
	}
	return <-errc
}

// serve serves the series API and the output directory via HTTP
func serve(l *series.Loader, path string, addr string) error {
	s := manage.New(l, path)

	klog.Infof("Listening on %s...", addr)
	if err := http.ListenAndServe(addr, s.Handler()); err != nil {
		return fmt.Errorf("listen failed: %w", err)
	}
	return nil
}

// watch watches the series directory for changes and rebuilds.
// Each rebuild uses a fresh loader, since a loader never forgets a slug.
func watch(c site.Config, ss []*series.Series) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				klog.V(1).Infof("event: %v", event)
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
					if _, err := site.Build(c); err != nil {
						klog.Errorf("rebuild failed: %v", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				klog.Errorf("watch error: %v", err)
			}
		}
	}()

	dirs := []string{c.InDir}
	l := series.New(c.InDir)
	for _, s := range ss {
		d, err := l.Dir(s.Slug)
		if err != nil {
			klog.Warningf("not watching %q: %v", s.Slug, err)
			continue
		}
		dirs = append(dirs, d, filepath.Dir(d))
	}

	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	klog.Infof("watching %d dirs ...", len(dirs))
	for _, d := range dirs {
		if err := w.Add(d); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}
	}

	<-make(chan struct{})
	return nil
}
