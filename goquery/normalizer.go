// Package goquery provides an HTML-tokenizer based implementation of
// lookat.Normalizer using goquery and bluemonday.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/lookat"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Ensure Normalizer implements lookat.Normalizer at compile time.
var _ lookat.Normalizer = (*Normalizer)(nil)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// Normalizer cleans feed content by parsing it as HTML. It tolerates
// malformed markup that the regex implementation mishandles.
type Normalizer struct {
	policy *bluemonday.Policy
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy()}
}

// CleanText removes CDATA wrappers, decodes HTML entities and trims whitespace.
func (n *Normalizer) CleanText(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(unwrapCDATA(s)))
}

// StripHTML removes all markup. Text is returned HTML-escaped, so the
// result is expected to go through CleanText.
func (n *Normalizer) StripHTML(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(n.policy.Sanitize(s))
}

// ExtractThumbnail returns the src attribute of the first img element.
func (n *Normalizer) ExtractThumbnail(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}

// unwrapCDATA replaces every CDATA section with its content.
// An unterminated section is left as is.
func unwrapCDATA(s string) string {
	var b strings.Builder
	for {
		before, rest, ok := strings.Cut(s, cdataOpen)
		if !ok {
			break
		}
		content, after, ok := strings.Cut(rest, cdataClose)
		if !ok {
			break
		}
		b.WriteString(before)
		b.WriteString(content)
		s = after
	}
	b.WriteString(s)
	return b.String()
}
