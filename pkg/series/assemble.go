package series

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"k8s.io/klog/v2"
)

// Default media categories, in the vocabulary used by the site's filters.
const (
	MediumPhoto = "photographie"
	MediumVideo = "vidéo"
	MediumAudio = "audio"
	MediumOther = "autres"
)

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// assemble builds a Series from a resolved folder. rel is the NFC path the slug was derived from,
// diskRel the actual on-disk path relative to the root, which is what media URLs point at.
func (l *Loader) assemble(slug, rel, dir, diskRel string, md *Metadata, hasJSON bool, files mediaFiles) *Series {
	s := &Series{
		ID:          slug,
		Slug:        slug,
		Title:       md.Title,
		Description: md.Description,
		Medium:      md.Medium,
		Year:        md.Year,
		Link:        md.Link,
		LinkText:    md.LinkText,
		Photos:      []*Photo{},
		HasJSON:     hasJSON,
	}
	if s.Title == "" {
		s.Title = path.Base(rel)
	}

	src := func(name string) string {
		return mediaURL(l.urlPrefix, path.Join(diskRel, name))
	}

	keys := []string{}
	used := map[string]bool{}
	ids := map[string]int{}
	photoID := func(key string, name string) string {
		id := slug + "-" + key
		ids[id]++
		if n := ids[id]; n > 1 {
			klog.Warningf("%s: %q normalizes to the same key as an earlier photo (%q), using id %s-%d", slug, name, key, id, n)
			return fmt.Sprintf("%s-%d", id, n)
		}
		return id
	}
	for _, name := range files.Images {
		key := MetadataKey(stem(name))
		pm, declared := md.Photos[key]
		if declared {
			used[key] = true
		}

		p := &Photo{
			ID:            photoID(key, name),
			Src:           src(name),
			Title:         pm.Title,
			Alt:           pm.Title,
			SeriesID:      slug,
			IntentionNote: pm.IntentionNote,
			Technical:     pm.Technical,
			Date:          pm.Date,
		}
		if p.Alt == "" {
			p.Alt = NFC(stem(name))
		}
		p.Width, p.Height = l.photoDimensions(filepath.Join(dir, name), pm, p)
		p.Orientation = OrientationOf(p.Width, p.Height)

		s.Photos = append(s.Photos, p)
		keys = append(keys, key)
	}

	n := 0
	for _, key := range md.PhotoKeys {
		if used[key] {
			continue
		}
		pm := md.Photos[key]
		w, h := pm.Width, pm.Height
		if w <= 0 || h <= 0 {
			w, h = defaultWidth, defaultHeight
		}
		label := pm.Title
		if label == "" {
			label = pm.Key
		}
		klog.V(1).Infof("%s: %q declared without a file, using placeholder", slug, pm.Key)

		s.Photos = append(s.Photos, &Photo{
			ID:            photoID(key, pm.Key),
			Src:           placeholderSrc(w, h, n, label),
			Title:         pm.Title,
			Alt:           label,
			Width:         w,
			Height:        h,
			Orientation:   OrientationOf(w, h),
			SeriesID:      slug,
			IntentionNote: pm.IntentionNote,
			Technical:     pm.Technical,
			Date:          pm.Date,
			Placeholder:   true,
		})
		keys = append(keys, key)
		n++
	}

	s.CoverIndex = indexOf(keys, md.Cover, 0)
	s.BiggerIndex = indexOf(keys, md.Bigger, s.CoverIndex)

	for _, name := range files.PDFs {
		key := MetadataKey(stem(name))
		mm := md.PDFs[key]
		s.PDFFiles = append(s.PDFFiles, &PDFFile{
			ID:          slug + "-" + key,
			Src:         src(name),
			Title:       titleOr(mm.Title, name),
			Description: mm.Description,
		})
	}

	for _, name := range files.Videos {
		key := MetadataKey(stem(name))
		mm := md.Videos[key]
		v := &VideoFile{
			ID:          slug + "-" + key,
			Src:         src(name),
			Title:       titleOr(mm.Title, name),
			Description: mm.Description,
			Duration:    mm.Duration,
		}
		if mm.Thumbnail != "" {
			v.Thumbnail = l.thumbnailSrc(dir, diskRel, mm.Thumbnail)
		}
		if v.Duration == "" && l.prober != nil {
			if pr, err := l.prober.Probe(filepath.Join(dir, name)); err == nil {
				v.Duration = pr.Duration
			} else {
				klog.V(1).Infof("probe %s: %v", name, err)
			}
		}
		s.VideoFiles = append(s.VideoFiles, v)
	}

	for _, name := range files.Audios {
		key := MetadataKey(stem(name))
		mm := md.Audios[key]
		s.AudioFiles = append(s.AudioFiles, &AudioFile{
			ID:          slug + "-" + key,
			Src:         src(name),
			Title:       titleOr(mm.Title, name),
			Description: mm.Description,
		})
	}

	if s.Medium == "" {
		s.Medium = defaultMedium(s)
	}
	return s
}

// indexOf returns the position of the photo whose key matches want, or fallback if there is none.
// The result is always a valid index into a non-empty keys, and 0 for an empty one.
func indexOf(keys []string, want string, fallback int) int {
	if len(keys) == 0 {
		return 0
	}
	if want != "" {
		k := MetadataKey(want)
		for i, key := range keys {
			if key == k {
				return i
			}
		}
	}
	if fallback < 0 || fallback >= len(keys) {
		return 0
	}
	return fallback
}

func titleOr(title string, name string) string {
	if title != "" {
		return title
	}
	return NFC(name)
}

// photoDimensions prefers declared sizes, then the image header, then the prober.
// The prober also fills in a missing date.
func (l *Loader) photoDimensions(file string, pm PhotoMeta, p *Photo) (int, int) {
	w, h := pm.Width, pm.Height
	if w <= 0 || h <= 0 {
		var err error
		w, h, err = readDimensions(file)
		if err != nil {
			klog.V(1).Infof("dimensions for %s: %v", file, err)
		}
	}

	if l.prober != nil && (p.Date == "" || w <= 0 || h <= 0) {
		pr, err := l.prober.Probe(file)
		if err != nil {
			klog.V(1).Infof("probe %s: %v", file, err)
		}
		if p.Date == "" {
			p.Date = pr.Date
		}
		if (w <= 0 || h <= 0) && pr.Width > 0 && pr.Height > 0 {
			w, h = pr.Width, pr.Height
		}
	}

	if w <= 0 || h <= 0 {
		return defaultWidth, defaultHeight
	}
	return w, h
}

// thumbnailSrc resolves a video thumbnail reference. Names of files within the series folder are turned
// into media URLs; anything else is passed through untouched.
func (l *Loader) thumbnailSrc(dir, diskRel, ref string) string {
	if strings.Contains(ref, "/") {
		return ref
	}
	m, err := matchEntry(dir, NFC(ref))
	if err != nil {
		return ref
	}
	if _, err := os.Stat(m); err != nil {
		return ref
	}
	return mediaURL(l.urlPrefix, path.Join(diskRel, filepath.Base(m)))
}

func defaultMedium(s *Series) string {
	switch {
	case len(s.Photos) > 0:
		return MediumPhoto
	case len(s.VideoFiles) > 0:
		return MediumVideo
	case len(s.AudioFiles) > 0:
		return MediumAudio
	default:
		return MediumOther
	}
}
