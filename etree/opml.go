// Package etree reads and writes category definitions as OPML documents.
package etree

import (
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/lookat"
)

// DefaultCategoryName holds feeds listed outside any folder outline.
const DefaultCategoryName = "General"

var (
	_ lookat.CategoryDecoder = (*OPML)(nil)
	_ lookat.CategoryEncoder = (*OPML)(nil)
)

// OPML converts between OPML subscription lists and categories. Each
// folder outline becomes a category; each outline with an xmlUrl becomes
// a feed source.
type OPML struct {
	// Title is written to the head of encoded documents.
	Title string
}

// NewOPML creates an OPML codec.
func NewOPML() *OPML {
	return &OPML{Title: "lookat subscriptions"}
}

// DecodeCategories parses an OPML document. Categories keep document order;
// nested folders are flattened into their top-level folder. Folders sharing
// a name, including top-level feeds and a folder named DefaultCategoryName,
// are merged into one category.
func (o *OPML) DecodeCategories(r io.Reader) ([]*lookat.Category, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, lookat.Errorf(lookat.EINVALID, "parsing OPML: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "opml" {
		return nil, lookat.Errorf(lookat.EINVALID, "not an OPML document")
	}
	body := root.SelectElement("body")
	if body == nil {
		return nil, lookat.Errorf(lookat.EINVALID, "OPML document has no body")
	}

	var categories []*lookat.Category
	byName := make(map[string]*lookat.Category)
	category := func(name string) *lookat.Category {
		if c, ok := byName[name]; ok {
			return c
		}
		c := &lookat.Category{Name: name}
		byName[name] = c
		categories = append(categories, c)
		return c
	}

	for _, outline := range body.SelectElements("outline") {
		if src, ok := feedSource(outline); ok {
			general := category(DefaultCategoryName)
			general.Sources = append(general.Sources, src)
			continue
		}
		collectSources(outline, category(outlineTitle(outline)))
	}

	for _, c := range categories {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return categories, nil
}

// collectSources appends every feed below outline to category.
func collectSources(outline *etree.Element, category *lookat.Category) {
	for _, child := range outline.SelectElements("outline") {
		if src, ok := feedSource(child); ok {
			category.Sources = append(category.Sources, src)
			continue
		}
		collectSources(child, category)
	}
}

func feedSource(outline *etree.Element) (lookat.FeedSource, bool) {
	url := strings.TrimSpace(outline.SelectAttrValue("xmlUrl", ""))
	if url == "" {
		return lookat.FeedSource{}, false
	}
	name := outlineTitle(outline)
	if name == "" {
		name = url
	}
	return lookat.FeedSource{Name: name, URL: url}, true
}

func outlineTitle(outline *etree.Element) string {
	if title := strings.TrimSpace(outline.SelectAttrValue("title", "")); title != "" {
		return title
	}
	return strings.TrimSpace(outline.SelectAttrValue("text", ""))
}

// EncodeCategories writes categories as an OPML 2.0 document.
func (o *OPML) EncodeCategories(w io.Writer, categories []*lookat.Category) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("opml")
	root.CreateAttr("version", "2.0")
	root.CreateElement("head").CreateElement("title").SetText(o.Title)

	body := root.CreateElement("body")
	for _, c := range categories {
		folder := body.CreateElement("outline")
		folder.CreateAttr("text", c.Name)
		folder.CreateAttr("title", c.Name)
		for _, src := range c.Sources {
			feed := folder.CreateElement("outline")
			feed.CreateAttr("type", "rss")
			feed.CreateAttr("text", src.Name)
			feed.CreateAttr("title", src.Name)
			feed.CreateAttr("xmlUrl", src.URL)
		}
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing OPML: %w", err)
	}
	return nil
}
