package series

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMetadata(t *testing.T) {
	doc := `{
		"title": "Été",
		"description": "Un *été* au bord de l'eau",
		"medium": "photographie",
		"year": 2024,
		"link": "https://example.com",
		"linkText": "Voir",
		"cover": "Photo 2",
		"bigger": "photo1",
		"unknown": {"ignored": true},
		"photos": {
			"zeta": {"title": "Last declared first"},
			"Photo 2": {"title": "Deux", "width": 800, "height": "1200", "technical": "f/2.8"},
			"photo1": {"title": "Un", "intentionNote": "calme", "date": "2024-07-01"}
		},
		"videos": {"Teaser": {"title": "Bande-annonce", "duration": "1:02", "thumbnail": "teaser.webp"}},
		"audios": {"ambiance": {"title": "Ambiance"}},
		"pdfs": {"dossier": {"title": "Dossier", "description": "PDF"}}
	}`

	md, err := ParseMetadata([]byte(doc))
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}

	if md.Title != "Été" || md.Year != "2024" || md.Medium != "photographie" || md.LinkText != "Voir" {
		t.Errorf("unexpected series fields: %+v", md)
	}

	if diff := cmp.Diff([]string{"zeta", "photo2", "photo1"}, md.PhotoKeys); diff != "" {
		t.Errorf("photo key order mismatch (-want +got):\n%s", diff)
	}

	want := PhotoMeta{Key: "Photo 2", Title: "Deux", Width: 800, Height: 1200, Technical: "f/2.8"}
	if diff := cmp.Diff(want, md.Photos["photo2"]); diff != "" {
		t.Errorf("photo2 mismatch (-want +got):\n%s", diff)
	}

	if got := md.Videos["teaser"]; got.Title != "Bande-annonce" || got.Duration != "1:02" || got.Thumbnail != "teaser.webp" {
		t.Errorf("unexpected video metadata: %+v", got)
	}
	if got := md.PDFs["dossier"]; got.Description != "PDF" {
		t.Errorf("unexpected pdf metadata: %+v", got)
	}
	if got := md.Audios["ambiance"]; got.Title != "Ambiance" {
		t.Errorf("unexpected audio metadata: %+v", got)
	}
}

func TestParseMetadataFieldFallback(t *testing.T) {
	doc := `{
		"title": ["not", "a", "string"],
		"description": "kept",
		"year": true,
		"photos": {
			"good": {"title": "Good", "width": "wide", "height": 400},
			"bad": "not an object"
		},
		"videos": []
	}`

	md, err := ParseMetadata([]byte(doc))
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}
	if md.Title != "" || md.Year != "" {
		t.Errorf("expected malformed fields to fall back to empty, got title=%q year=%q", md.Title, md.Year)
	}
	if md.Description != "kept" {
		t.Errorf("description = %q, want kept", md.Description)
	}
	if got := md.Photos["good"]; got.Title != "Good" || got.Width != 0 || got.Height != 400 {
		t.Errorf("unexpected photo metadata: %+v", got)
	}
	if _, ok := md.Photos["bad"]; !ok {
		t.Errorf("expected a key with a malformed value to still be declared")
	}
	if len(md.Videos) != 0 {
		t.Errorf("expected no videos, got %v", md.Videos)
	}
}

func TestParseMetadataSyntaxError(t *testing.T) {
	for _, doc := range []string{`{"title": `, `[1, 2]`, `not json`} {
		if _, err := ParseMetadata([]byte(doc)); err == nil {
			t.Errorf("ParseMetadata(%q) expected error", doc)
		}
	}
}

func TestParseMetadataClampsDimensions(t *testing.T) {
	doc := `{"photos": {
		"huge": {"width": 1e20, "height": "1e300"},
		"fine": {"width": 640.5, "height": "480"}
	}}`

	md, err := ParseMetadata([]byte(doc))
	if err != nil {
		t.Fatalf("ParseMetadata returned error: %v", err)
	}
	if got := md.Photos["huge"]; got.Width != maxDimension || got.Height != maxDimension {
		t.Errorf("huge = %dx%d, want %dx%d", got.Width, got.Height, maxDimension, maxDimension)
	}
	if got := md.Photos["fine"]; got.Width != 640 || got.Height != 480 {
		t.Errorf("fine = %dx%d, want 640x480", got.Width, got.Height)
	}
}
