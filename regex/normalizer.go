// Package regex provides a regular-expression based implementation of
// lookat.Normalizer for well-formed feed markup.
package regex

import (
	"regexp"
	"strings"

	"github.com/fwojciec/lookat"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements lookat.Normalizer at compile time.
var _ lookat.Normalizer = (*Normalizer)(nil)

var (
	cdataRe = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
	tagRe   = regexp.MustCompile(`<.*?>`)
	imgRe   = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
)

// Normalizer cleans feed content with regular expressions.
// It is not a real HTML parser: nested quotes and malformed markup may
// produce imperfect results.
type Normalizer struct{}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// CleanText removes CDATA wrappers, decodes HTML entities and trims whitespace.
func (n *Normalizer) CleanText(s string) string {
	if s == "" {
		return s
	}
	s = cdataRe.ReplaceAllString(s, "$1")
	s = html.UnescapeString(s)
	return strings.TrimSpace(s)
}

// StripHTML removes all tags. Tags spanning lines are left intact.
func (n *Normalizer) StripHTML(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(tagRe.ReplaceAllString(s, ""))
}

// ExtractThumbnail returns the src attribute of the first img tag.
func (n *Normalizer) ExtractThumbnail(s string) string {
	if s == "" {
		return ""
	}
	m := imgRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}
