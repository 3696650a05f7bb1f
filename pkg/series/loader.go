package series

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"k8s.io/klog/v2"
)

// ErrNotFound is returned when a slug does not map to a loadable series.
var ErrNotFound = errors.New("series not found")

// DefaultURLPrefix is prepended to media paths when no prefix is configured.
var DefaultURLPrefix = "/series"

// Loader builds Series records from a media directory tree.
// A Loader is safe for concurrent use.
type Loader struct {
	root      string
	urlPrefix string
	prober    Prober

	// walkMu serializes discovery so the index is populated by one walker at a time.
	walkMu sync.Mutex
	idx    *index
}

// Option configures a Loader.
type Option func(*Loader)

// WithURLPrefix sets the URL prefix used for media Src values.
func WithURLPrefix(p string) Option {
	return func(l *Loader) {
		l.urlPrefix = p
	}
}

// WithProber sets a Prober consulted for photo dimensions, dates and video durations.
func WithProber(p Prober) Option {
	return func(l *Loader) {
		l.prober = p
	}
}

// New returns a Loader for the series tree rooted at root.
func New(root string, opts ...Option) *Loader {
	l := &Loader{
		root:      filepath.Clean(root),
		urlPrefix: DefaultURLPrefix,
		idx:       newIndex(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// ensureIndex runs discovery once if nothing has populated the index yet.
func (l *Loader) ensureIndex() error {
	if l.idx.isPopulated() {
		return nil
	}

	l.walkMu.Lock()
	defer l.walkMu.Unlock()
	if l.idx.isPopulated() {
		return nil
	}
	_, err := l.discover()
	return err
}

// Dir returns the on-disk directory of a discovered series.
func (l *Loader) Dir(slug string) (string, error) {
	if err := l.ensureIndex(); err != nil {
		return "", fmt.Errorf("discover: %w", err)
	}
	rel, ok := l.idx.lookup(slug)
	if !ok {
		return "", fmt.Errorf("series %q: %w", slug, ErrNotFound)
	}
	return l.ResolvePath(rel)
}

// LoadSeries loads the series identified by slug. It returns an error wrapping ErrNotFound
// when the slug is unknown or its folder holds neither metadata nor media.
func (l *Loader) LoadSeries(slug string) (*Series, error) {
	dir, err := l.Dir(slug)
	if err != nil {
		return nil, err
	}

	rel, _ := l.idx.lookup(slug)

	md, hasJSON := readMetadata(dir)
	files, err := scan(dir)
	if err != nil {
		klog.Warningf("unable to scan %s: %v", dir, err)
	}

	if !hasJSON && files.empty() {
		return nil, fmt.Errorf("series %q has no metadata or media: %w", slug, ErrNotFound)
	}

	diskRel, err := filepath.Rel(l.root, dir)
	if err != nil {
		return nil, fmt.Errorf("rel: %w", err)
	}

	s := l.assemble(slug, rel, dir, filepath.ToSlash(diskRel), md, hasJSON, files)
	klog.V(1).Infof("loaded series %q: %d photos, %d videos, %d audio, %d pdfs",
		slug, len(s.Photos), len(s.VideoFiles), len(s.AudioFiles), len(s.PDFFiles))
	return s, nil
}

// LoadAllSeries discovers and loads every series under the root. Series that fail to load are
// omitted. A missing root yields an empty list.
func (l *Loader) LoadAllSeries() ([]*Series, error) {
	slugs, err := l.Discover()
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	ss := []*Series{}
	for _, slug := range slugs {
		s, err := l.LoadSeries(slug)
		if err != nil {
			klog.V(1).Infof("skipping %q: %v", slug, err)
			continue
		}
		ss = append(ss, s)
	}

	klog.Infof("loaded %d of %d discovered series", len(ss), len(slugs))
	return ss, nil
}

// index maps slugs to NFC relative paths. Entries are never removed.
type index struct {
	mu        sync.RWMutex
	paths     map[string]string
	populated bool
}

func newIndex() *index {
	return &index{paths: map[string]string{}}
}

func (x *index) lookup(slug string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	p, ok := x.paths[slug]
	return p, ok
}

// add records slug -> path. If slug is already taken by another path, it returns that path and false.
func (x *index) add(slug string, path string) (string, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if prev, ok := x.paths[slug]; ok && prev != path {
		return prev, false
	}
	x.paths[slug] = path
	return path, true
}

func (x *index) markPopulated() {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.populated = true
}

func (x *index) isPopulated() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.populated
}
