package lookat

import (
	"strings"
	"time"
)

// Normalizer cleans raw feed markup.
type Normalizer interface {
	// CleanText removes a CDATA wrapper, decodes HTML entities and trims whitespace.
	CleanText(s string) string

	// StripHTML removes all markup tags.
	StripHTML(s string) string

	// ExtractThumbnail returns the src of the first image in html,
	// or an empty string if there is none.
	ExtractThumbnail(html string) string
}

// NormalizedItem is a feed item after content cleaning.
type NormalizedItem struct {
	Link        string
	Title       string
	Description string
	Thumbnail   string
	PublishedAt *time.Time
}

// Normalize applies the canonical cleaning pipeline to a raw feed item.
func Normalize(n Normalizer, item *FeedItem) NormalizedItem {
	return NormalizedItem{
		Link:        strings.TrimSpace(item.Link),
		Title:       n.CleanText(item.Title),
		Description: n.CleanText(n.StripHTML(item.Summary)),
		Thumbnail:   n.ExtractThumbnail(item.Summary),
		PublishedAt: item.PublishedAt,
	}
}
