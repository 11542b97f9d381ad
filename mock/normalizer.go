package mock

import "github.com/fwojciec/lookat"

var _ lookat.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of lookat.Normalizer.
type Normalizer struct {
	CleanTextFn        func(s string) string
	StripHTMLFn        func(s string) string
	ExtractThumbnailFn func(html string) string
}

func (n *Normalizer) CleanText(s string) string {
	return n.CleanTextFn(s)
}

func (n *Normalizer) StripHTML(s string) string {
	return n.StripHTMLFn(s)
}

func (n *Normalizer) ExtractThumbnail(html string) string {
	return n.ExtractThumbnailFn(html)
}
