// Package series discovers portfolio series folders and assembles them into typed records.
package series

// Orientation describes the aspect of a photo.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
	Square    Orientation = "square"
)

// OrientationOf returns the orientation for the given dimensions.
func OrientationOf(width, height int) Orientation {
	if height <= 0 || width <= 0 {
		return Square
	}
	ratio := float64(width) / float64(height)
	switch {
	case ratio > 1.05:
		return Landscape
	case ratio < 0.95:
		return Portrait
	default:
		return Square
	}
}

// Photo is a single image within a series.
type Photo struct {
	ID            string      `json:"id"`
	Src           string      `json:"src"`
	Alt           string      `json:"alt"`
	Title         string      `json:"title,omitempty"`
	Width         int         `json:"width"`
	Height        int         `json:"height"`
	Orientation   Orientation `json:"orientation"`
	SeriesID      string      `json:"seriesId"`
	IntentionNote string      `json:"intentionNote,omitempty"`
	Technical     string      `json:"technical,omitempty"`
	Date          string      `json:"date,omitempty"`
	Placeholder   bool        `json:"placeholder,omitempty"`
}

// PDFFile is a document attached to a series.
type PDFFile struct {
	ID          string `json:"id"`
	Src         string `json:"src"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// VideoFile is a video attached to a series.
type VideoFile struct {
	ID          string `json:"id"`
	Src         string `json:"src"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Duration    string `json:"duration,omitempty"`
}

// AudioFile is an audio track attached to a series.
type AudioFile struct {
	ID          string `json:"id"`
	Src         string `json:"src"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Series is one content collection, backed by a folder.
type Series struct {
	ID          string `json:"id"`
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Medium      string `json:"medium"`
	Year        string `json:"year"`
	Link        string `json:"link,omitempty"`
	LinkText    string `json:"linkText,omitempty"`

	Photos      []*Photo `json:"photos"`
	CoverIndex  int      `json:"coverIndex"`
	BiggerIndex int      `json:"biggerIndex"`

	PDFFiles   []*PDFFile   `json:"pdfFiles,omitempty"`
	VideoFiles []*VideoFile `json:"videoFiles,omitempty"`
	AudioFiles []*AudioFile `json:"audioFiles,omitempty"`

	HasJSON bool `json:"hasJson"`
}

// Cover returns the designated cover photo, or nil for a series without photos.
func (s *Series) Cover() *Photo {
	if len(s.Photos) == 0 {
		return nil
	}
	return s.Photos[s.CoverIndex]
}

// Bigger returns the designated hero photo, or nil for a series without photos.
func (s *Series) Bigger() *Photo {
	if len(s.Photos) == 0 {
		return nil
	}
	return s.Photos[s.BiggerIndex]
}
