package series

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/karrick/godirwalk"
	"k8s.io/klog/v2"
)

// Kind is the category of a media file.
type Kind int

const (
	KindUnknown Kind = iota
	KindImage
	KindVideo
	KindAudio
	KindPDF
)

var extensions = map[string]Kind{
	".webp": KindImage,
	".mp4":  KindVideo,
	".mov":  KindVideo,
	".webm": KindVideo,
	".mp3":  KindAudio,
	".wav":  KindAudio,
	".m4a":  KindAudio,
	".ogg":  KindAudio,
	".aac":  KindAudio,
	".pdf":  KindPDF,
}

// sentinels are files the OS drops into folders on its own.
var sentinels = map[string]bool{
	"Icon\r":      true,
	"Thumbs.db":   true,
	"desktop.ini": true,
}

// KindOf returns the media kind of a filename based on its extension.
func KindOf(name string) Kind {
	return extensions[strings.ToLower(filepath.Ext(name))]
}

func skipName(name string) bool {
	return name == "" || name[0] == '.' || sentinels[name]
}

// mediaFiles holds the recognized files of one directory, each list sorted lexically.
type mediaFiles struct {
	Images []string
	Videos []string
	Audios []string
	PDFs   []string
}

func (m mediaFiles) empty() bool {
	return len(m.Images)+len(m.Videos)+len(m.Audios)+len(m.PDFs) == 0
}

// readEntries returns the visible entries of dir in lexical order.
func readEntries(dir string) (godirwalk.Dirents, error) {
	des, err := godirwalk.ReadDirents(dir, nil)
	if err != nil {
		return nil, err
	}
	des = slices.DeleteFunc(des, func(de *godirwalk.Dirent) bool { return skipName(de.Name()) })
	slices.SortFunc(des, func(a, b *godirwalk.Dirent) int { return strings.Compare(a.Name(), b.Name()) })
	return des, nil
}

func isFile(dir string, de *godirwalk.Dirent) bool {
	if de.IsRegular() {
		return true
	}
	if !de.IsSymlink() {
		return false
	}
	st, err := os.Stat(filepath.Join(dir, de.Name()))
	return err == nil && st.Mode().IsRegular()
}

// scan lists the recognized media files in dir.
func scan(dir string) (mediaFiles, error) {
	m := mediaFiles{}
	des, err := readEntries(dir)
	if err != nil {
		return m, fmt.Errorf("read dir: %w", err)
	}

	for _, de := range des {
		if !isFile(dir, de) {
			continue
		}
		name := de.Name()
		switch KindOf(name) {
		case KindImage:
			m.Images = append(m.Images, name)
		case KindVideo:
			m.Videos = append(m.Videos, name)
		case KindAudio:
			m.Audios = append(m.Audios, name)
		case KindPDF:
			m.PDFs = append(m.PDFs, name)
		}
	}
	return m, nil
}

// qualifies reports whether dir holds a metadata document or at least one image, video or audio file.
// PDFs alone do not make a series.
func qualifies(dir string) (bool, error) {
	des, err := readEntries(dir)
	if err != nil {
		return false, err
	}
	for _, de := range des {
		if !isFile(dir, de) {
			continue
		}
		if de.Name() == MetadataFile {
			return true, nil
		}
		switch KindOf(de.Name()) {
		case KindImage, KindVideo, KindAudio:
			return true, nil
		}
	}
	return false, nil
}

// Discover walks the root directory and returns the slugs of every series folder, in lexical walk order.
// Each slug is recorded in the loader's index alongside its NFC relative path.
func (l *Loader) Discover() ([]string, error) {
	l.walkMu.Lock()
	defer l.walkMu.Unlock()
	return l.discover()
}

func (l *Loader) discover() ([]string, error) {
	defer l.idx.markPopulated()

	st, err := os.Stat(l.root)
	if err != nil || !st.IsDir() {
		klog.Warningf("series root %s is not a directory (err=%v), nothing to discover", l.root, err)
		return []string{}, nil
	}

	slugs := []string{}
	err = godirwalk.Walk(l.root, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if filepath.Clean(path) == l.root {
				return nil
			}
			if skipName(de.Name()) {
				return godirwalk.SkipThis
			}
			if !de.IsDir() {
				return nil
			}

			ok, err := qualifies(path)
			if err != nil {
				klog.Warningf("unable to inspect %s: %v", path, err)
				return nil
			}
			if !ok {
				return nil
			}

			rel, err := filepath.Rel(l.root, path)
			if err != nil {
				return fmt.Errorf("rel: %w", err)
			}
			nfc := NFC(filepath.ToSlash(rel))
			slug := SlugifyPath(nfc)
			if slug == "" {
				klog.Warningf("%s has no usable slug, skipping", path)
				return nil
			}

			if prev, added := l.idx.add(slug, nfc); !added {
				klog.Warningf("slug %q for %s collides with %s, skipping", slug, nfc, prev)
				return nil
			}
			klog.V(1).Infof("found series %q at %s", slug, nfc)
			slugs = append(slugs, slug)
			return nil
		},
		ErrorCallback: func(path string, err error) godirwalk.ErrorAction {
			klog.Warningf("walk %s: %v", path, err)
			return godirwalk.SkipNode
		},
	})
	if err != nil {
		return slugs, fmt.Errorf("walk: %w", err)
	}

	klog.Infof("discovered %d series in %s", len(slugs), l.root)
	return slugs, nil
}

// ResolvePath finds the on-disk directory for an NFC relative path. Each segment is matched against
// the real directory entries after normalizing them to NFC, since filesystems may store names
// decomposed.
func (l *Loader) ResolvePath(nfcPath string) (string, error) {
	cur := l.root
	for _, seg := range strings.Split(filepath.ToSlash(nfcPath), "/") {
		if seg == "" || seg == "." {
			continue
		}
		next, err := matchEntry(cur, NFC(seg))
		if err != nil {
			klog.V(1).Infof("resolve %q: %v", nfcPath, err)
			return "", fmt.Errorf("resolve %q: %w", nfcPath, ErrNotFound)
		}
		cur = next
	}

	st, err := os.Stat(cur)
	if err != nil || !st.IsDir() {
		return "", fmt.Errorf("resolve %q: %w", nfcPath, ErrNotFound)
	}
	return cur, nil
}

// matchEntry returns the path of the entry in dir whose NFC name equals want.
// An exact byte match wins over a normalized one.
func matchEntry(dir string, want string) (string, error) {
	des, err := readEntries(dir)
	if err != nil {
		return "", fmt.Errorf("read dir: %w", err)
	}

	found := ""
	for _, de := range des {
		name := de.Name()
		if name == want {
			return filepath.Join(dir, name), nil
		}
		if found == "" && NFC(name) == want {
			found = filepath.Join(dir, name)
		}
	}
	if found == "" {
		return "", fmt.Errorf("no entry %q in %s", want, dir)
	}
	return found, nil
}
