// Package record defines the clipboard history record model and the
// content classifier that turns raw clipboard payloads into storable records.
package record

import (
	"fmt"
	"strings"
	"time"
)

// ContentType classifies what a record holds. It is derived from the
// payload at capture time, never user-supplied.
type ContentType string

const (
	TypeText  ContentType = "text"
	TypeLink  ContentType = "link"
	TypeHTML  ContentType = "html"
	TypeImage ContentType = "image"
)

// UnknownApp is the source label used when the foreground application
// cannot be determined.
const UnknownApp = "Unknown"

// Record is a single clipboard history entry. ID is assigned by the store.
//
// Exactly one of the two payload fields is meaningful: Content holds the
// text for text-like types, ImageData holds the encoded PNG for images
// (Content then carries a human-readable caption).
type Record struct {
	ID          int64       `json:"id"`
	ContentType ContentType `json:"content_type"`
	Content     string      `json:"content"`
	ImageData   []byte      `json:"image_data,omitempty"`
	IsFavorite  bool        `json:"is_favorite"`
	IsPinned    bool        `json:"is_pinned"`
	SourceApp   string      `json:"source_app"`
	CreatedAt   time.Time   `json:"created_at"`
}

// IsImage reports whether the record carries an image payload.
func (r *Record) IsImage() bool { return r.ContentType == TypeImage }

// IsLink reports whether text looks like a URL. Matches the bare
// "www." prefix as well, since that is how most pasted links arrive.
func IsLink(text string) bool {
	return strings.HasPrefix(text, "http://") ||
		strings.HasPrefix(text, "https://") ||
		strings.HasPrefix(text, "www.")
}

// Classify returns TypeLink for URL-looking text, TypeText otherwise.
func Classify(text string) ContentType {
	if IsLink(text) {
		return TypeLink
	}
	return TypeText
}

// NewTextRecord builds a record from clipboard text. Trimming and
// empty-rejection are the caller's responsibility.
func NewTextRecord(text, sourceApp string) *Record {
	return &Record{
		ContentType: Classify(text),
		Content:     text,
		SourceApp:   sourceApp,
		CreatedAt:   time.Now(),
	}
}

// NewImageRecord builds a record from encoded image bytes and the caption
// describing its dimensions.
func NewImageRecord(caption string, png []byte, sourceApp string) *Record {
	return &Record{
		ContentType: TypeImage,
		Content:     caption,
		ImageData:   png,
		SourceApp:   sourceApp,
		CreatedAt:   time.Now(),
	}
}

// ImageCaption describes stored image dimensions. When the image was
// downscaled the caption states both the stored and original sizes.
func ImageCaption(width, height, origWidth, origHeight int, scaled bool) string {
	if scaled {
		return fmt.Sprintf("image %dx%d (scaled from %dx%d)", width, height, origWidth, origHeight)
	}
	return fmt.Sprintf("image %dx%d", width, height)
}
