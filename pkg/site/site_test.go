package site

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tstromberg/folio/pkg/series"
)

func writeFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "folio.toml")
	writeFile(t, dir, "folio.toml", `
in_dir = "/srv/media"
out_dir = "/srv/out"
title = "Atelier"
copy_media = true
`)

	c, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	want := Config{
		InDir:     "/srv/media",
		OutDir:    "/srv/out",
		URLPrefix: series.DefaultURLPrefix,
		Title:     "Atelier",
		CopyMedia: true,
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	writeFile(t, dir, "bad.toml", "in_dir = [")
	if _, err := LoadConfig(filepath.Join(dir, "bad.toml")); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Config
		wantErr bool
	}{
		{"complete", Config{InDir: "in", OutDir: "out"}, false},
		{"no input", Config{OutDir: "out"}, true},
		{"no output", Config{InDir: "in"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.c.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeFile(t, in, "Photographie/Corps/Corps 01.webp", "img")
	writeFile(t, in, "Photographie/Corps/series.json", `{"title": "Corps", "year": 2023}`)
	writeFile(t, in, "Photographie/Corps/notes.txt", "private")
	writeFile(t, in, "Photographie/Corps/.DS_Store", "")
	writeFile(t, in, "Sons/ambiance.ogg", "snd")

	c := Default()
	c.InDir = in
	c.OutDir = out
	c.CopyMedia = true

	e, err := Build(c)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(e.Series) != 2 {
		t.Fatalf("got %d series, want 2", len(e.Series))
	}

	bs, err := os.ReadFile(filepath.Join(out, ContentFile))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	var got Export
	if err := json.Unmarshal(bs, &got); err != nil {
		t.Fatalf("unmarshal index: %v", err)
	}
	if got.Title != "Portfolio" || len(got.Series) != 2 || got.Series[0].Year != "2023" {
		t.Errorf("unexpected index: %+v", got)
	}

	bs, err = os.ReadFile(filepath.Join(out, DataDir, "photographie", "corps.json"))
	if err != nil {
		t.Fatalf("read series file: %v", err)
	}
	var s series.Series
	if err := json.Unmarshal(bs, &s); err != nil {
		t.Fatalf("unmarshal series: %v", err)
	}
	if s.Slug != "photographie/corps" || len(s.Photos) != 1 || s.Photos[0].Src != "/series/Photographie/Corps/Corps%2001.webp" {
		t.Errorf("unexpected series: %+v", s)
	}

	for _, rel := range []string{"series/Photographie/Corps/Corps 01.webp", "series/Sons/ambiance.ogg"} {
		if _, err := os.Stat(filepath.Join(out, rel)); err != nil {
			t.Errorf("expected %s to be copied: %v", rel, err)
		}
	}
	for _, rel := range []string{"series/Photographie/Corps/notes.txt", "series/Photographie/Corps/.DS_Store", "series/Photographie/Corps/series.json"} {
		if _, err := os.Stat(filepath.Join(out, rel)); !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("expected %s to be skipped, stat err = %v", rel, err)
		}
	}
}

func TestBuildEmptyRoot(t *testing.T) {
	out := t.TempDir()
	c := Default()
	c.InDir = filepath.Join(t.TempDir(), "missing")
	c.OutDir = out

	e, err := Build(c)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(e.Series) != 0 {
		t.Errorf("got %d series, want 0", len(e.Series))
	}
	if _, err := os.Stat(filepath.Join(out, ContentFile)); err != nil {
		t.Errorf("expected index to be written: %v", err)
	}
}
