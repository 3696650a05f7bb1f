package series

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"k8s.io/klog/v2"
)

// MetadataFile is the optional per-folder metadata document.
const MetadataFile = "series.json"

// PhotoMeta is the curator-supplied metadata for one photo.
type PhotoMeta struct {
	Key           string
	Title         string
	IntentionNote string
	Technical     string
	Date          string
	Width         int
	Height        int
}

// MediaMeta is the curator-supplied metadata for a PDF, video or audio file.
type MediaMeta struct {
	Key         string
	Title       string
	Description string
	Thumbnail   string
	Duration    string
}

// Metadata is a decoded series.json. Item maps are keyed by MetadataKey.
type Metadata struct {
	Title       string
	Description string
	Medium      string
	Year        string
	Link        string
	LinkText    string
	Cover       string
	Bigger      string

	Photos map[string]PhotoMeta
	// PhotoKeys holds normalized photo keys in the order they were declared.
	PhotoKeys []string

	PDFs   map[string]MediaMeta
	Videos map[string]MediaMeta
	Audios map[string]MediaMeta
}

func emptyMetadata() *Metadata {
	return &Metadata{
		Photos: map[string]PhotoMeta{},
		PDFs:   map[string]MediaMeta{},
		Videos: map[string]MediaMeta{},
		Audios: map[string]MediaMeta{},
	}
}

// readMetadata loads series.json from dir. The boolean reports whether a usable document was found;
// unreadable or malformed documents are logged and treated as absent.
func readMetadata(dir string) (*Metadata, bool) {
	path := filepath.Join(dir, MetadataFile)
	bs, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			klog.Warningf("unable to read %s: %v", path, err)
		}
		return emptyMetadata(), false
	}

	md, err := ParseMetadata(bs)
	if err != nil {
		klog.Warningf("ignoring malformed %s: %v", path, err)
		return emptyMetadata(), false
	}
	return md, true
}

// ParseMetadata decodes a series.json document. Only a syntax error or a non-object document
// is fatal: fields with an unexpected shape are logged and left at their zero value.
func ParseMetadata(bs []byte) (*Metadata, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(bs, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}

	md := emptyMetadata()
	md.Title = stringField(fields, "title")
	md.Description = stringField(fields, "description")
	md.Medium = stringField(fields, "medium")
	md.Year = stringField(fields, "year")
	md.Link = stringField(fields, "link")
	md.LinkText = stringField(fields, "linkText")
	md.Cover = stringField(fields, "cover")
	md.Bigger = stringField(fields, "bigger")

	for _, e := range entries(fields, "photos") {
		k := MetadataKey(e.key)
		if _, dup := md.Photos[k]; dup {
			klog.Warningf("photo key %q collides with an earlier key, ignoring", e.key)
			continue
		}
		md.Photos[k] = PhotoMeta{
			Key:           e.key,
			Title:         stringField(e.fields, "title"),
			IntentionNote: stringField(e.fields, "intentionNote"),
			Technical:     stringField(e.fields, "technical"),
			Date:          stringField(e.fields, "date"),
			Width:         intField(e.fields, "width"),
			Height:        intField(e.fields, "height"),
		}
		md.PhotoKeys = append(md.PhotoKeys, k)
	}

	md.PDFs = mediaEntries(fields, "pdfs")
	md.Videos = mediaEntries(fields, "videos")
	md.Audios = mediaEntries(fields, "audios")
	return md, nil
}

func mediaEntries(fields map[string]json.RawMessage, name string) map[string]MediaMeta {
	out := map[string]MediaMeta{}
	for _, e := range entries(fields, name) {
		k := MetadataKey(e.key)
		if _, dup := out[k]; dup {
			continue
		}
		out[k] = MediaMeta{
			Key:         e.key,
			Title:       stringField(e.fields, "title"),
			Description: stringField(e.fields, "description"),
			Thumbnail:   stringField(e.fields, "thumbnail"),
			Duration:    stringField(e.fields, "duration"),
		}
	}
	return out
}

type entry struct {
	key    string
	fields map[string]json.RawMessage
}

// entries returns the members of an object-valued field in document order.
func entries(fields map[string]json.RawMessage, name string) []entry {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		klog.V(1).Infof("%q is not an object, ignoring", name)
		return nil
	}

	es := []entry{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			klog.V(1).Infof("%q: %v", name, err)
			return es
		}
		key, _ := kt.(string)

		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			klog.V(1).Infof("%q.%q: %v", name, key, err)
			return es
		}

		var f map[string]json.RawMessage
		if err := json.Unmarshal(v, &f); err != nil {
			klog.V(1).Infof("%q.%q is not an object: %v", name, key, err)
			f = nil
		}
		es = append(es, entry{key: key, fields: f})
	}
	return es
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// stringField accepts strings and numbers, so "year": 2024 and "year": "2024" are equivalent.
func stringField(fields map[string]json.RawMessage, name string) string {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	klog.V(1).Infof("field %q has unexpected value %s, ignoring", name, raw)
	return ""
}

// maxDimension caps declared widths and heights.
const maxDimension = 100000

// intField reads a positive integer, clamped to maxDimension.
func intField(fields map[string]json.RawMessage, name string) int {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return 0
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil && f > 0 {
		return int(min(f, maxDimension))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil && n > 0 {
			return int(min(n, maxDimension))
		}
	}

	klog.V(1).Infof("field %q has unexpected value %s, ignoring", name, raw)
	return 0
}
