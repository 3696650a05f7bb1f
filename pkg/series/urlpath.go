package series

import (
	"net/url"
	"path/filepath"
	"strings"
)

// urlSafePath percent-encodes every segment of a relative path, keeping "/" separators.
func urlSafePath(rel string) string {
	segs := strings.Split(filepath.ToSlash(rel), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// mediaURL joins a URL prefix with an escaped relative path.
func mediaURL(prefix string, rel string) string {
	p := urlSafePath(rel)
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return "/" + p
	}
	return prefix + "/" + p
}
